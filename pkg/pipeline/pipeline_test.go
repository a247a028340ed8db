package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/kinship"
	"github.com/matzehuels/lineage/pkg/observability"
)

const leeFamily = `0 HEAD
0 @I1@ INDI
1 NAME Ann /Lee/
1 SEX F
1 FAMS @F1@
0 @I2@ INDI
1 NAME Bob /Lee/
1 SEX M
1 FAMS @F1@
0 @I3@ INDI
1 NAME Cal /Lee/
1 SEX M
1 FAMC @F1@
0 @I4@ INDI
1 NAME Dee /Roe/
1 SEX F
0 @F1@ FAM
1 HUSB @I2@
1 WIFE @I1@
1 CHIL @I3@
0 TRLR
`

func quietRunner() *Runner {
	return NewRunner(log.NewWithOptions(io.Discard, log.Options{}))
}

func loadLee(t *testing.T) *Source {
	t.Helper()
	src, err := Load(context.Background(), "lee.ged", strings.NewReader(leeFamily), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return src
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "family.ged")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"json", false},
		{"pdf", false},
		{"png", false},
		{"SVG", false}, // case-insensitive
		{"gif", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && perrors.GetCode(err) != perrors.ErrCodeInvalidFormat {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, perrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateMode(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"strict", false},
		{"permissive", false},
		{"Permissive", false},
		{"", false},
		{"loose", true},
	}

	for _, tt := range tests {
		err := ValidateMode(tt.mode)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMode(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
		}
	}
}

func TestSetQueryDefaults(t *testing.T) {
	opts := Options{}
	opts.SetQueryDefaults()

	if opts.Up != DefaultUp {
		t.Errorf("Up should be %d, got %d", DefaultUp, opts.Up)
	}
	if opts.Down != DefaultDown {
		t.Errorf("Down should be %d, got %d", DefaultDown, opts.Down)
	}
	if opts.Mode != DefaultMode {
		t.Errorf("Mode should be %s, got %s", DefaultMode, opts.Mode)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %g, got %g", DefaultScale, opts.Scale)
	}

	opts = Options{Formats: []string{"DOT"}}
	opts.SetRenderDefaults()
	if opts.Formats[0] != FormatDOT {
		t.Errorf("Formats should be lowercased, got %v", opts.Formats)
	}
}

func TestOptionsValidateForQuery(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code perrors.Code
	}{
		{"defaults", Options{}, ""},
		{"negative up", Options{Up: -1}, perrors.ErrCodeInvalidLimit},
		{"too deep", Options{Down: perrors.MaxGenerations + 1}, perrors.ErrCodeInvalidLimit},
		{"bad mode", Options{Mode: "loose"}, perrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForQuery()
			if got := perrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Up: 2}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	up, down, mode := opts.Up, opts.Down, opts.Mode

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Up != up || opts.Down != down || opts.Mode != mode {
		t.Error("options changed on second call")
	}
}

func TestLoad(t *testing.T) {
	src := loadLee(t)

	if src.ID == "" {
		t.Error("source should carry a document id")
	}
	if src.Name != "lee.ged" {
		t.Errorf("Name = %q", src.Name)
	}
	if n := src.Doc.NumIndividuals(); n != 4 {
		t.Errorf("individuals = %d, want 4", n)
	}

	again := loadLee(t)
	if again.ID == src.ID {
		t.Error("each load should get a fresh document id")
	}
}

func TestLoad_Strict(t *testing.T) {
	content := leeFamily + "garbage line\n"

	src, err := Load(context.Background(), "bad.ged", strings.NewReader(content), Options{})
	if err != nil {
		t.Fatalf("lenient load failed: %v", err)
	}
	if len(src.Doc.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v", src.Doc.Diagnostics)
	}

	src, err = Load(context.Background(), "bad.ged", strings.NewReader(content), Options{Strict: true})
	var derr *perrors.DiagnosticsError
	if !errors.As(err, &derr) {
		t.Fatalf("strict load error = %v, want DiagnosticsError", err)
	}
	if derr.Count != 1 {
		t.Errorf("Count = %d, want 1", derr.Count)
	}
	if perrors.GetCode(err) != perrors.ErrCodeInvalidFormat {
		t.Errorf("code = %s", perrors.GetCode(err))
	}
	if src == nil {
		t.Error("strict load should still return the source")
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, "x", strings.NewReader(leeFamily), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, leeFamily)
	src, err := LoadFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.Name != path {
		t.Errorf("Name = %q, want %q", src.Name, path)
	}

	_, err = LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.ged"), Options{})
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}

	_, err = LoadFile(context.Background(), "", Options{})
	if !perrors.Is(err, perrors.ErrCodeInvalidPath) {
		t.Errorf("empty path error = %v", err)
	}
}

func TestRunnerResolve(t *testing.T) {
	r := quietRunner()
	src := loadLee(t)

	tests := []struct {
		id     string
		wantID string
		code   perrors.Code
	}{
		{"", "@I1@", ""},
		{"I3", "@I3@", ""},
		{"@I2@", "@I2@", ""},
		{"@I99@", "", perrors.ErrCodeIndividualNotFound},
		{"I 1", "", perrors.ErrCodeInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			ind, err := r.Resolve(src, tt.id)
			if got := perrors.GetCode(err); got != tt.code {
				t.Fatalf("code = %q, want %q", got, tt.code)
			}
			if err == nil && ind.ID != tt.wantID {
				t.Errorf("ID = %s, want %s", ind.ID, tt.wantID)
			}
		})
	}

	empty, err := Load(context.Background(), "empty", strings.NewReader("0 HEAD\n0 TRLR\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(empty, ""); !perrors.Is(err, perrors.ErrCodeNotFound) {
		t.Errorf("empty document error = %v", err)
	}
}

func TestRunnerPersonAndFamily(t *testing.T) {
	r := quietRunner()
	src := loadLee(t)

	p, err := r.Person(src, "I3")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Cal Lee" || len(p.Parents) != 2 {
		t.Errorf("person = %+v", p)
	}

	f, err := r.Family(src, "@F1@")
	if err != nil {
		t.Fatal(err)
	}
	if f.Husband != "@I2@" || f.Wife != "@I1@" {
		t.Errorf("family = %+v", f)
	}

	if _, err := r.Family(src, "@F9@"); !perrors.Is(err, perrors.ErrCodeFamilyNotFound) {
		t.Errorf("missing family error = %v", err)
	}
}

func TestRunnerHierarchy(t *testing.T) {
	r := quietRunner()
	src := loadLee(t)

	h, err := r.Hierarchy(context.Background(), src, "@I1@")
	if err != nil {
		t.Fatal(err)
	}
	if h.DocumentID != src.ID {
		t.Errorf("DocumentID = %q, want %q", h.DocumentID, src.ID)
	}
	if len(h.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3 (Dee is unconnected)", len(h.Nodes))
	}
	if h.Root.ID != "@I1@" {
		t.Errorf("root = %s", h.Root.ID)
	}

	_, err = r.Hierarchy(context.Background(), src, "@I99@")
	if !perrors.Is(err, perrors.ErrCodeIndividualNotFound) {
		t.Errorf("missing root error = %v", err)
	}
}

func TestRunnerHourglass(t *testing.T) {
	r := quietRunner()
	src := loadLee(t)

	hg, err := r.Hourglass(context.Background(), src, "@I3@", Options{Up: 1, Down: 1})
	if err != nil {
		t.Fatal(err)
	}
	if hg.Central.ID != "@I3@" {
		t.Errorf("central = %s", hg.Central.ID)
	}
	if len(hg.Ancestors) != 1 || len(hg.Ancestors[0]) != 2 {
		t.Errorf("ancestors = %+v", hg.Ancestors)
	}
	if len(hg.Descendants) != 0 {
		t.Errorf("descendants = %+v", hg.Descendants)
	}

	_, err = r.Hourglass(context.Background(), src, "@I3@", Options{Up: -2})
	if !perrors.Is(err, perrors.ErrCodeInvalidLimit) {
		t.Errorf("negative bound error = %v", err)
	}
}

func TestRunnerConnections(t *testing.T) {
	r := quietRunner()
	src := loadLee(t)
	ctx := context.Background()

	strict, err := r.Connections(ctx, src, "@I1@", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strict.Mode != "strict" || len(strict.Connections) == 0 {
		t.Fatalf("strict = %+v", strict)
	}

	permissive, err := r.Connections(ctx, src, "@I1@", Options{Mode: "permissive"})
	if err != nil {
		t.Fatal(err)
	}
	if len(permissive.Connections) <= len(strict.Connections) {
		t.Errorf("permissive (%d) should keep more edges than strict (%d)",
			len(permissive.Connections), len(strict.Connections))
	}

	for _, c := range permissive.Connections {
		if c.Source == c.Target || c.Source == "@I4@" || c.Target == "@I4@" {
			t.Errorf("unexpected connection %+v", c)
		}
	}

	missing, err := r.Connections(ctx, src, "@I99@", Options{})
	if !errors.Is(err, kinship.ErrNotFound) {
		t.Errorf("missing root error = %v, want wrapped kinship.ErrNotFound", err)
	}
	if missing.Connections == nil {
		t.Error("connections should be empty, not nil")
	}
}

func TestRunnerLayoutAndRender(t *testing.T) {
	r := quietRunner()
	src := loadLee(t)
	ctx := context.Background()

	all, err := r.Layout(ctx, src, "")
	if err != nil {
		t.Fatal(err)
	}
	if all.NodeCount() != 4 {
		t.Errorf("whole-document nodes = %d, want 4", all.NodeCount())
	}

	g, err := r.Layout(ctx, src, "@I3@")
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("component nodes = %d, want 3", g.NodeCount())
	}

	artifacts, err := r.Render(ctx, g, Options{Formats: []string{"dot", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(artifacts[FormatDOT], []byte("digraph G {")) {
		t.Errorf("dot artifact = %s", artifacts[FormatDOT])
	}

	decoded, err := graph.UnmarshalGraph(artifacts[FormatJSON])
	if err != nil {
		t.Fatal(err)
	}
	if decoded.DocumentID != src.ID {
		t.Errorf("json document id = %q, want %q", decoded.DocumentID, src.ID)
	}
	if len(decoded.Nodes) != 3 {
		t.Errorf("json nodes = %d", len(decoded.Nodes))
	}

	if _, err := r.Render(ctx, g, Options{Formats: []string{"gif"}}); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestExecute(t *testing.T) {
	path := writeFile(t, leeFamily)
	result, err := quietRunner().Execute(context.Background(), path, "@I1@", Options{Formats: []string{"dot"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.Individuals != 4 || result.Stats.NodeCount != 3 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if len(result.Artifacts[FormatDOT]) == 0 {
		t.Error("missing dot artifact")
	}
}

func TestValidateDirection(t *testing.T) {
	for _, d := range []string{"ancestors", "Descendants"} {
		if err := ValidateDirection(d); err != nil {
			t.Errorf("ValidateDirection(%q) = %v", d, err)
		}
	}
	if err := ValidateDirection("sideways"); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("ValidateDirection(sideways) = %v", err)
	}
	if err := ValidateDepth(0); err != nil {
		t.Errorf("depth 0 should mean unbounded, got %v", err)
	}
	if err := ValidateDepth(-1); !perrors.Is(err, perrors.ErrCodeInvalidLimit) {
		t.Errorf("ValidateDepth(-1) = %v", err)
	}
}

func TestRunner_Tree(t *testing.T) {
	src := loadLee(t)
	runner := quietRunner()

	up, err := runner.Tree(context.Background(), src, "I3", DirectionAncestors, 0)
	if err != nil {
		t.Fatal(err)
	}
	if up.Root.ID != "@I3@" || len(up.Root.Children) != 2 || up.Direction != "ancestors" {
		t.Errorf("ancestor tree = %+v", up)
	}

	down, err := runner.Tree(context.Background(), src, "I1", "DESCENDANTS", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(down.Root.Children) != 1 || down.Root.Children[0].ID != "@I3@" {
		t.Errorf("descendant tree = %+v", down.Root)
	}
	if down.DocumentID != src.ID {
		t.Error("tree should carry the document id")
	}

	if _, err := runner.Tree(context.Background(), src, "I42", DirectionAncestors, 0); !perrors.Is(err, perrors.ErrCodeIndividualNotFound) {
		t.Errorf("missing root error = %v", err)
	}
}

func TestRunner_FamilyDiagram(t *testing.T) {
	src := loadLee(t)

	fd, err := quietRunner().FamilyDiagram(context.Background(), src, "I1")
	if err != nil {
		t.Fatal(err)
	}
	if fd.Central != "@I1@" || len(fd.Members) != 4 {
		t.Fatalf("diagram = %+v", fd)
	}
	roles := map[string]string{}
	for _, m := range fd.Members {
		roles[m.ID] = m.Role
	}
	want := map[string]string{"@I1@": "central", "@I2@": "spouse", "@I3@": "child", "@I4@": "other"}
	for id, role := range want {
		if roles[id] != role {
			t.Errorf("role of %s = %q, want %q", id, roles[id], role)
		}
	}
	// one spouse link, two parent links
	if len(fd.Links) != 3 {
		t.Errorf("links = %+v", fd.Links)
	}
}

func TestRenderGraphFile(t *testing.T) {
	path := writeFile(t, leeFamily)
	runner := quietRunner()
	result, err := runner.Execute(context.Background(), path, "@I1@", Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	exported := filepath.Join(t.TempDir(), "lee.json")
	if err := os.WriteFile(exported, result.Artifacts[FormatJSON], 0o644); err != nil {
		t.Fatal(err)
	}

	redrawn, err := runner.RenderGraphFile(context.Background(), exported, Options{Formats: []string{"dot"}})
	if err != nil {
		t.Fatal(err)
	}
	if redrawn.Stats.NodeCount != 3 || redrawn.Source != nil {
		t.Errorf("result = %+v", redrawn.Stats)
	}
	if !bytes.Contains(redrawn.Artifacts[FormatDOT], []byte(`"@I3@"`)) {
		t.Error("dot artifact lost a node")
	}

	_, err = runner.RenderGraphFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), Options{})
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	_, err = runner.RenderGraphFile(context.Background(), path, Options{})
	if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("non-JSON input error = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	queries []string
	loaded  observability.LoadStats
}

func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, s observability.LoadStats, _ time.Duration, _ error) {
	h.loaded = s
}

func (h *recordingHooks) OnQueryComplete(_ context.Context, query, root string, _ int, _ time.Duration, _ error) {
	h.queries = append(h.queries, query+":"+root)
}

func TestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	src := loadLee(t)
	if hooks.loaded.Individuals != 4 || hooks.loaded.Families != 1 {
		t.Errorf("load stats = %+v", hooks.loaded)
	}

	if _, err := quietRunner().Hierarchy(context.Background(), src, "I2"); err != nil {
		t.Fatal(err)
	}
	if len(hooks.queries) != 1 || hooks.queries[0] != "hierarchy:@I2@" {
		t.Errorf("queries = %v", hooks.queries)
	}
}
