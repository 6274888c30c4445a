package projectconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assertEqualInt(t, "Chart.Width", 40, cfg.Chart.Width)
	assertFloatPtr(t, "Chart.Threshold", 0.01, cfg.Chart.Threshold)
	assertEqualInt(t, "Chart.MaxNameWidth", 48, cfg.Chart.MaxNameWidth)

	assertEqual(t, "Output.Format", "table", cfg.Output.Format)
	if cfg.Output.Color != nil {
		t.Error("Output.Color should be nil (auto) by default")
	}
	assertBoolPtr(t, "Output.ShowTotal", true, cfg.Output.ShowTotal)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
chart:
  width: 60
  threshold: 0.5
  max_name_width: 20
output:
  format: json
  color: false
  show_total: false
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqualInt(t, "Chart.Width", 60, cfg.Chart.Width)
	assertFloatPtr(t, "Chart.Threshold", 0.5, cfg.Chart.Threshold)
	assertEqualInt(t, "Chart.MaxNameWidth", 20, cfg.Chart.MaxNameWidth)
	assertEqual(t, "Output.Format", "json", cfg.Output.Format)
	assertBoolPtr(t, "Output.Color", false, cfg.Output.Color)
	assertBoolPtr(t, "Output.ShowTotal", false, cfg.Output.ShowTotal)
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
chart:
  width: 80
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqualInt(t, "Chart.Width", 80, cfg.Chart.Width)
	// Everything else falls back to defaults
	assertFloatPtr(t, "Chart.Threshold", 0.01, cfg.Chart.Threshold)
	assertEqual(t, "Output.Format", "table", cfg.Output.Format)
	assertBoolPtr(t, "Output.ShowTotal", true, cfg.Output.ShowTotal)
}

func TestLoad_ExplicitZeroThreshold(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
chart:
  threshold: 0
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertFloatPtr(t, "Chart.Threshold", 0, cfg.Chart.Threshold)
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	defaults := New()
	assertEqualInt(t, "Chart.Width", defaults.Chart.Width, cfg.Chart.Width)
	assertEqual(t, "Output.Format", defaults.Output.Format, cfg.Output.Format)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
chart:
  width: [not valid yaml
    this is broken
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for invalid YAML")
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, `
output:
  format: json
`)

	child := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Output.Format", "json", cfg.Output.Format)
	// Other defaults still populated
	assertEqualInt(t, "Chart.Width", 40, cfg.Chart.Width)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "custom.yaml", `
chart:
  max_name_width: 12
`)

	cfg, err := LoadFile(filepath.Join(dir, "custom.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	assertEqualInt(t, "Chart.MaxNameWidth", 12, cfg.Chart.MaxNameWidth)

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("LoadFile() should fail for a missing file")
	}
}

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertFloatPtr(t *testing.T, field string, want float64, got *float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
