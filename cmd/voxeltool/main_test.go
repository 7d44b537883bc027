package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes voxeltool against a quiet config in a temp directory.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := "world:\n  size: 12\n  seed: 7\nlogging:\n  level: error\natlas:\n  path: " +
			filepath.Join(dir, "missing.png") + "\n"
		if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
	}

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	argv := append([]string{"voxeltool", "--config", configPath}, args...)
	err := app.Run(argv)
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "generate")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, want := range []string{"Seed:      7", "Size:      12x12", "Checksum:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	again, err := run(t, dir, "generate")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if again != out {
		t.Error("expected identical output for identical seed")
	}

	other, err := run(t, dir, "--seed", "8", "generate")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if other == out {
		t.Error("expected a different seed to change the output")
	}
}

func TestQuery(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "query", "3", "4")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !strings.Contains(out, "air=false") || !strings.Contains(out, "faces=T") {
		t.Errorf("expected a solid column top, got:\n%s", out)
	}

	out, err = run(t, dir, "query", "12", "0", "0")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !strings.Contains(out, "height 0") || !strings.Contains(out, "air=true faces=------") {
		t.Errorf("expected empty out-of-range voxel, got:\n%s", out)
	}

	if _, err := run(t, dir, "query", "x", "0"); err == nil {
		t.Error("expected error for invalid coordinate")
	}
	if _, err := run(t, dir, "query", "1"); err == nil {
		t.Error("expected error for missing coordinate")
	}
}

func TestFallbackAndInspect(t *testing.T) {
	dir := t.TempDir()
	texDir := filepath.Join(dir, "textures")

	if _, err := run(t, dir, "fallback", "--dir", texDir, "--tile-size", "32"); err != nil {
		t.Fatalf("fallback failed: %v", err)
	}
	for _, name := range []string{"grass_top.png", "grass_side.png", "dirt.png", "atlas.png"} {
		if _, err := os.Stat(filepath.Join(texDir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	out, err := run(t, dir, "inspect-atlas", "--scores", filepath.Join(texDir, "atlas.png"))
	if err != nil {
		t.Fatalf("inspect-atlas failed: %v", err)
	}
	for _, want := range []string{"Tile size: 32", "3 cols x 1 rows", "grass-top  (0,0)", "grass-side (1,0)", "dirt       (2,0)", "Valid:     true"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestInspectAtlasMissing(t *testing.T) {
	if _, err := run(t, t.TempDir(), "inspect-atlas"); err == nil {
		t.Error("expected error for missing atlas")
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "terrain.glb")

	if _, err := run(t, dir, "--output", out, "export"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected exported file: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "glTF" {
		t.Error("expected GLB magic")
	}
}

func TestSnapshotSaveLoadExport(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "field.vxhf")

	saved, err := run(t, dir, "snapshot", "save", snap)
	if err != nil {
		t.Fatalf("snapshot save failed: %v", err)
	}

	loaded, err := run(t, dir, "snapshot", "load", snap)
	if err != nil {
		t.Fatalf("snapshot load failed: %v", err)
	}
	generated, err := run(t, dir, "generate")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if loaded != generated {
		t.Errorf("expected loaded snapshot to match generated field:\n%s\nvs\n%s", loaded, generated)
	}
	if !strings.Contains(saved, "checksum") {
		t.Errorf("expected checksum in output, got %s", saved)
	}

	glb := filepath.Join(dir, "snap.glb")
	if _, err := run(t, dir, "--output", glb, "export", "--snapshot", snap); err != nil {
		t.Fatalf("export from snapshot failed: %v", err)
	}
	if _, err := os.Stat(glb); err != nil {
		t.Errorf("expected exported file: %v", err)
	}
}

func TestSnapshotLoadGarbage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.vxhf")
	if err := os.WriteFile(bad, []byte("nope"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := run(t, dir, "snapshot", "load", bad); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved", "config.yaml")

	if _, err := run(t, dir, "--seed", "99", "config", "init", path); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected saved config: %v", err)
	}
	if !strings.Contains(string(data), "seed: 99") {
		t.Errorf("expected seed override in saved config:\n%s", data)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("world:\n  size: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := run(t, dir, "generate"); err == nil {
		t.Error("expected error for invalid config")
	}
}
