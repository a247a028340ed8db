package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,dot", []string{"svg", "dot"}},
		{" png , json ", []string{"png", "json"}},
		{",,", []string{"svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"from input", "", "trees/stone.ged", "trees/stone"},
		{"strip format ext", "out/family.svg", "stone.ged", "out/family"},
		{"keep other ext", "out/family.v2", "stone.ged", "out/family.v2"},
		{"no ext", "out/family", "stone.ged", "out/family"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		format   string
		multiple bool
		want     string
	}{
		{"single verbatim", "graph.out", "svg", false, "graph.out"},
		{"single derived", "", "svg", false, "stone.svg"},
		{"multiple from base", "graph.svg", "dot", true, "graph.dot"},
		{"multiple derived", "", "json", true, "stone.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, "stone.ged", tt.format, tt.multiple); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"dot":  []byte("digraph G {}"),
		"json": []byte("{}"),
	}

	paths, err := writeArtifacts(artifacts, []string{"dot", "json"}, "stone.ged", filepath.Join(dir, "family"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "family.dot"), filepath.Join(dir, "family.json")}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "digraph G {}" {
		t.Errorf("dot content = %q", data)
	}
}

func TestWriteArtifactsStdoutNeedsOneFormat(t *testing.T) {
	_, err := writeArtifacts(map[string][]byte{}, []string{"svg", "dot"}, "stone.ged", "-")
	if err == nil {
		t.Error("expected error for multiple formats on stdout")
	}
}

func TestRenderCommand(t *testing.T) {
	path := writeGEDCOM(t, stoneFamily)
	out := filepath.Join(t.TempDir(), "stone.dot")

	if _, err := runCLI(t, "render", path, "@I3@", "-f", "dot", "-o", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph") {
		t.Errorf("output is not DOT: %q", data)
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	path := writeGEDCOM(t, stoneFamily)

	if _, err := runCLI(t, "render", path, "-f", "gif"); err == nil {
		t.Error("unknown format should be rejected")
	}
}

func TestRenderCommandFromGraphFile(t *testing.T) {
	dir := t.TempDir()
	path := writeGEDCOM(t, stoneFamily)
	exported := filepath.Join(dir, "stone.json")
	if _, err := runCLI(t, "render", path, "-f", "json", "-o", exported); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "redrawn.dot")
	if _, err := runCLI(t, "render", exported, "-f", "dot", "-o", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"@I3@"`) {
		t.Errorf("redrawn graph lost a node: %q", data)
	}

	if _, err := runCLI(t, "render", exported, "@I1@"); err == nil {
		t.Error("an id with a JSON graph should be rejected")
	}
}
