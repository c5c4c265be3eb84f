package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"gopkg.in/yaml.v3"
)

// Config is the viewer configuration file.
type Config struct {
	Window    WindowConfig   `yaml:"window"`
	Atlas     string         `yaml:"atlas"`
	Recording string         `yaml:"recording"`
	Playback  PlaybackConfig `yaml:"playback"`
	Skeleton  SkeletonConfig `yaml:"skeleton"`
	Renderer  RendererConfig `yaml:"renderer"`
	Profile   bool           `yaml:"profile"`
}

// WindowConfig sizes the window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// PlaybackConfig controls the recorded animation.
type PlaybackConfig struct {
	Loop        bool    `yaml:"loop"`
	Speed       float32 `yaml:"speed"`
	RandomStart bool    `yaml:"random_start"`
}

// SkeletonConfig places the skeleton in world space.
type SkeletonConfig struct {
	Position [2]float32 `yaml:"position"`
	Scale    [2]float32 `yaml:"scale"`
}

// RendererConfig selects surface and blending options.
type RendererConfig struct {
	VSync              bool      `yaml:"vsync"`
	MSAA               uint32    `yaml:"msaa"`
	FrameLimit         float64   `yaml:"frame_limit"`
	PremultipliedAlpha bool      `yaml:"premultiplied_alpha"`
	ClearColor         []float32 `yaml:"clear_color"`
	Software           bool      `yaml:"software"`
}

// DefaultConfig returns the settings used for anything the file and flags leave unset.
func DefaultConfig() Config {
	return Config{
		Window:   WindowConfig{Title: "spineview", Width: 1280, Height: 720},
		Playback: PlaybackConfig{Loop: true, Speed: 1},
		Skeleton: SkeletonConfig{Scale: [2]float32{1, 1}},
		Renderer: RendererConfig{VSync: true, MSAA: 4, ClearColor: []float32{0.15, 0.15, 0.18, 1}},
	}
}

// LoadConfig reads a YAML config file over the defaults.
//
// Parameters:
//   - path: the file, empty for defaults only
//
// Returns:
//   - Config: the merged config
//   - error: a read or decode error
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings the viewer cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Atlas == "":
		return fmt.Errorf("no atlas given")
	case c.Recording == "":
		return fmt.Errorf("no recording given")
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	case !renderer.MSAASampleCount(c.Renderer.MSAA).Valid():
		return fmt.Errorf("msaa must be 1 or 4, got %d", c.Renderer.MSAA)
	case len(c.Renderer.ClearColor) != 0 && len(c.Renderer.ClearColor) != 4:
		return fmt.Errorf("clear_color needs 4 components, got %d", len(c.Renderer.ClearColor))
	}
	return nil
}

// ClearColor returns the configured clear color.
func (c Config) ClearColor() common.Color {
	cc := c.Renderer.ClearColor
	if len(cc) != 4 {
		return common.Color{A: 1}
	}
	return common.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}
}

// PresentMode maps the vsync setting.
func (c Config) PresentMode() renderer.PresentMode {
	if c.Renderer.VSync {
		return renderer.PresentModeVSync
	}
	return renderer.PresentModeUncapped
}

// flags holds the command line. Only flags that were set override the config file.
type flags struct {
	fs *flag.FlagSet

	config    string
	atlas     string
	recording string
	width     int
	height    int
	vsync     bool
	profile   bool
}

func newFlags(name string) *flags {
	f := &flags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.StringVar(&f.config, "config", "", "YAML config file")
	f.fs.StringVar(&f.atlas, "atlas", "", "texture atlas (.atlas)")
	f.fs.StringVar(&f.recording, "recording", "", "recorded animation (YAML)")
	f.fs.IntVar(&f.width, "width", 0, "window width")
	f.fs.IntVar(&f.height, "height", 0, "window height")
	f.fs.BoolVar(&f.vsync, "vsync", true, "wait for vertical blank")
	f.fs.BoolVar(&f.profile, "profile", false, "log frame statistics every second")
	return f
}

// resolve parses args, loads the config file they name and applies the flags that were set.
//
// Parameters:
//   - args: the command line without the program name
//
// Returns:
//   - Config: the effective config
//   - error: a flag, file or validation error
func (f *flags) resolve(args []string) (Config, error) {
	if err := f.fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := LoadConfig(f.config)
	if err != nil {
		return cfg, err
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "atlas":
			cfg.Atlas = f.atlas
		case "recording":
			cfg.Recording = f.recording
		case "width":
			cfg.Window.Width = f.width
		case "height":
			cfg.Window.Height = f.height
		case "vsync":
			cfg.Renderer.VSync = f.vsync
		case "profile":
			cfg.Profile = f.profile
		}
	})
	return cfg, cfg.Validate()
}
