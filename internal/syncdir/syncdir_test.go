package syncdir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"magicResume/internal/directory"
	"magicResume/internal/resume"
)

type staticLoader struct {
	binding *directory.Binding
	err     error
}

func (l staticLoader) LoadBinding(context.Context) (*directory.Binding, error) {
	return l.binding, l.err
}

func newBoundExporter(t *testing.T) (*Exporter, *resume.Store, string) {
	t.Helper()
	dir := t.TempDir()
	h := directory.NewDirHandle(dir)
	store := resume.NewStore(nil)
	loader := staticLoader{binding: &directory.Binding{Handle: h, Path: h.Name()}}
	return NewExporter(loader, store, nil), store, dir
}

func TestExportImport_JSON(t *testing.T) {
	ctx := context.Background()
	exp, store, dir := newBoundExporter(t)
	store.ToggleTheme()
	store.AddCustomItem("skills")

	name, err := exp.Export(ctx, FormatJSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name != "resume.json" {
		t.Fatalf("unexpected file name %q", name)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Fatalf("expected exported file: %v", err)
	}

	want := store.State()
	store.ToggleTheme()
	store.RemoveCustomData("skills")

	if err := exp.Import(ctx, name); err != nil {
		t.Fatalf("import: %v", err)
	}
	got := store.State()
	if got.Theme != want.Theme || len(got.CustomData["skills"]) != 1 {
		t.Fatalf("import did not restore document: theme=%q skills=%d", got.Theme, len(got.CustomData["skills"]))
	}
}

func TestExportImport_YAML(t *testing.T) {
	ctx := context.Background()
	exp, store, dir := newBoundExporter(t)
	store.SetColorTheme("#ff0000")

	name, err := exp.Export(ctx, FormatYAML)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), "colorTheme:") {
		t.Fatalf("expected json field names in yaml, got:\n%s", raw)
	}

	store.SetColorTheme("#000000")
	if err := exp.Import(ctx, name); err != nil {
		t.Fatalf("import: %v", err)
	}
	got := store.State()
	if got.ColorTheme != "#ff0000" {
		t.Fatalf("color theme = %q", got.ColorTheme)
	}
	if got.Education[0].ID != "1" || got.GlobalSettings.LineHeight != 1 {
		t.Fatalf("yaml round trip lost typed fields: %+v %+v", got.Education[0], got.GlobalSettings)
	}
}

func TestExport_NoBinding(t *testing.T) {
	exp := NewExporter(staticLoader{}, resume.NewStore(nil), nil)
	if _, err := exp.Export(context.Background(), FormatJSON); !errors.Is(err, ErrNoBinding) {
		t.Fatalf("expected ErrNoBinding, got %v", err)
	}
	if err := exp.Import(context.Background(), "resume.json"); !errors.Is(err, ErrNoBinding) {
		t.Fatalf("expected ErrNoBinding, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatJSON {
		t.Fatalf("default format: %v %v", f, err)
	}
	if f, err := ParseFormat("YML"); err != nil || f != FormatYAML {
		t.Fatalf("yml alias: %v %v", f, err)
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	exp := NewExporter(staticLoader{}, resume.NewStore(nil), nil)
	if err := exp.Import(context.Background(), "resume.txt"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat for import, got %v", err)
	}
}

func TestImport_MalformedFile(t *testing.T) {
	ctx := context.Background()
	exp, store, dir := newBoundExporter(t)
	before := store.State()

	files := map[string]string{
		"broken.json": `{"theme": `,
		"broken.yaml": "theme: [unclosed",
		"wrong.json":  `{"education": "not a list"}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if err := exp.Import(ctx, name); !errors.Is(err, ErrMalformedFile) {
			t.Fatalf("Import(%s) = %v, want ErrMalformedFile", name, err)
		}
	}
	if got := store.State(); got.Theme != before.Theme || len(got.Education) != len(before.Education) {
		t.Fatal("failed import must not change the document")
	}
}
