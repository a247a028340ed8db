package pipeline

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	perrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/observability"
)

// LoadFile parses and links the document stored at path.
func LoadFile(ctx context.Context, path string, opts Options) (*Source, error) {
	if err := perrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Load(ctx, path, f, opts)
}

// Load parses and links a document read from r. name labels the source in
// logs and hooks.
//
// Diagnostics never fail a load unless opts.Strict is set, in which case an
// [perrors.DiagnosticsError] is returned together with the loaded source.
func Load(ctx context.Context, name string, r io.Reader, opts Options) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	doc, err := gedcom.Parse(r)
	if err != nil {
		err = perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read %s", name)
		hooks.OnLoadComplete(ctx, name, loadStats(doc), time.Since(start), err)
		return nil, err
	}

	src := &Source{ID: graph.NewDocumentID(), Name: name, Doc: doc}
	if opts.Strict && len(doc.Diagnostics) > 0 {
		err = &perrors.DiagnosticsError{Count: len(doc.Diagnostics), First: doc.Diagnostics[0].String()}
	}
	hooks.OnLoadComplete(ctx, name, loadStats(doc), time.Since(start), err)
	return src, err
}

func loadStats(doc *gedcom.Document) observability.LoadStats {
	if doc == nil {
		return observability.LoadStats{}
	}
	return observability.LoadStats{
		Lines:       doc.Lines,
		Individuals: doc.NumIndividuals(),
		Families:    doc.NumFamilies(),
		Media:       doc.NumMedia(),
		Diagnostics: len(doc.Diagnostics),
	}
}
