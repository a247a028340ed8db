package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/matzehuels/lineage/pkg/dag"
)

// NewDocumentID returns a fresh identifier for one document load.
func NewDocumentID() string { return uuid.NewString() }

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a DAG to JSON bytes.
func MarshalGraph(g *dag.DAG) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a DAG to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// WriteGraph writes a DAG as indented JSON to w.
func WriteGraph(g *dag.DAG, w io.Writer) error {
	return WriteJSON(FromDAG(g), w)
}

// ReadGraphFile reads a JSON file and returns the decoded DAG.
func ReadGraphFile(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadGraph decodes a JSON graph from r into a DAG.
func ReadGraph(r io.Reader) (*dag.DAG, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDAG(data)
}

// WriteJSON encodes any wire value as indented JSON.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
