package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	d := Default()
	if s.Render.SampleCount != d.Render.SampleCount || s.Window.Width != d.Window.Width {
		t.Fatalf("got %+v, want defaults %+v", s, d)
	}
	if len(s.Waves) != 2 {
		t.Fatalf("got %d waves, want 2", len(s.Waves))
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{
		"render": {"sampleCount": 90, "resolution": 0.75, "cutoff": 0.02},
		"waves": [{"n": 3, "l": 2, "m": 1, "amplitude": 0.9}]
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Render.SampleCount != 90 || s.Render.Resolution != 0.75 || s.Render.Cutoff != 0.02 {
		t.Errorf("render settings not applied: %+v", s.Render)
	}
	if s.Waves[0].N != 3 || s.Waves[0].L != 2 || s.Waves[0].M != 1 {
		t.Errorf("wave settings not applied: %+v", s.Waves[0])
	}
	// A single configured wave is padded to the two-slot layout.
	if len(s.Waves) != 2 || s.Waves[1].Amplitude != 0 {
		t.Errorf("wave padding wrong: %+v", s.Waves)
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
