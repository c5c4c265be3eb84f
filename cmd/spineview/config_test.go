package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
)

const sampleConfig = `
window:
  title: hero
  width: 800
  height: 600
atlas: hero.atlas
recording: hero.yaml
playback:
  loop: false
  speed: 0.5
skeleton:
  position: [0, -200]
  scale: [0.5, 0.5]
renderer:
  vsync: false
  msaa: 1
  clear_color: [0, 0, 0, 1]
`

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spineview.yaml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigOverDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Window.Title != "hero" || cfg.Window.Width != 800 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Playback.Loop || cfg.Playback.Speed != 0.5 {
		t.Errorf("playback = %+v", cfg.Playback)
	}
	if cfg.Skeleton.Position != [2]float32{0, -200} || cfg.Skeleton.Scale != [2]float32{0.5, 0.5} {
		t.Errorf("skeleton = %+v", cfg.Skeleton)
	}
	if cfg.PresentMode() != renderer.PresentModeUncapped {
		t.Errorf("vsync: false should select the uncapped present mode")
	}
	if c := cfg.ClearColor(); c.R != 0 || c.A != 1 {
		t.Errorf("clear color = %+v", c)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := newFlags("spineview").resolve([]string{
		"-config", path,
		"-atlas", "other.atlas",
		"-width", "1024",
		"-vsync=true",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Atlas != "other.atlas" || cfg.Recording != "hero.yaml" {
		t.Errorf("atlas/recording = %q/%q", cfg.Atlas, cfg.Recording)
	}
	if cfg.Window.Width != 1024 || cfg.Window.Height != 600 {
		t.Errorf("size = %dx%d, want 1024x600", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Renderer.VSync {
		t.Errorf("-vsync=true did not override the file")
	}
}

func TestUnsetFlagsKeepFileValues(t *testing.T) {
	cfg, err := newFlags("spineview").resolve([]string{"-config", writeConfig(t, sampleConfig)})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Renderer.VSync {
		t.Errorf("the -vsync default overrode vsync: false from the file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		ok     bool
	}{
		{"complete", func(c *Config) {}, true},
		{"no atlas", func(c *Config) { c.Atlas = "" }, false},
		{"no recording", func(c *Config) { c.Recording = "" }, false},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, false},
		{"msaa 2", func(c *Config) { c.Renderer.MSAA = 2 }, false},
		{"short clear color", func(c *Config) { c.Renderer.ClearColor = []float32{1, 1} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Atlas, cfg.Recording = "a.atlas", "a.yaml"
			tt.modify(&cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
