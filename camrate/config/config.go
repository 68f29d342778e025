// Package config loads camrate's YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/valerio/go-camrate/camrate/gate"
	"github.com/valerio/go-camrate/camrate/timing"
	"github.com/valerio/go-camrate/camrate/video"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is the whole file.
type Config struct {
	MasterFPS float64  `yaml:"master_fps"`
	Limiter   string   `yaml:"limiter"`
	LogLevel  string   `yaml:"log_level"`
	Cameras   []Camera `yaml:"cameras"`
	Stats     Stats    `yaml:"stats"`
}

// Camera configures one camera and the gate throttling it.
type Camera struct {
	Name string `yaml:"name"`
	// RefreshRate is the target rate in frames per second, <= 0 renders
	// on every tick.
	RefreshRate       int     `yaml:"refresh_rate"`
	SendRenderRequest bool    `yaml:"send_render_request"`
	Scene             string  `yaml:"scene"`
	Target            *Target `yaml:"target,omitempty"`
}

// Target is an off-screen render target. A camera without one renders into
// the default framebuffer.
type Target struct {
	Width  uint `yaml:"width"`
	Height uint `yaml:"height"`
}

type Stats struct {
	RedisAddr string `yaml:"redis_addr"`
	Prefix    string `yaml:"prefix"`
}

// Default returns a single camera throttled to the default gate rate.
func Default() Config {
	return Config{
		MasterFPS: timing.DefaultMasterFPS,
		Limiter:   timing.KindAdaptive,
		LogLevel:  "info",
		Cameras: []Camera{
			{Name: "main", RefreshRate: gate.DefaultTargetRate, Scene: video.Checkerboard.String()},
		},
		Stats: Stats{Prefix: "camrate:stats"},
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected. A cameras list in the document replaces the default
// camera; cameras missing a refresh_rate get the default gate rate.
func Parse(data []byte) (Config, error) {
	def := Default()
	raw := rawConfig{
		MasterFPS: def.MasterFPS,
		Limiter:   def.Limiter,
		LogLevel:  def.LogLevel,
		Stats:     def.Stats,
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	cfg := Config{
		MasterFPS: raw.MasterFPS,
		Limiter:   raw.Limiter,
		LogLevel:  raw.LogLevel,
		Stats:     raw.Stats,
	}
	if raw.Cameras == nil {
		cfg.Cameras = Default().Cameras
	} else {
		cfg.Cameras = make([]Camera, 0, len(raw.Cameras))
		for _, rc := range raw.Cameras {
			cfg.Cameras = append(cfg.Cameras, rc.camera())
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type rawConfig struct {
	MasterFPS float64     `yaml:"master_fps"`
	Limiter   string      `yaml:"limiter"`
	LogLevel  string      `yaml:"log_level"`
	Cameras   []rawCamera `yaml:"cameras"`
	Stats     Stats       `yaml:"stats"`
}

// rawCamera distinguishes a missing refresh_rate from an explicit 0.
type rawCamera struct {
	Name              string  `yaml:"name"`
	RefreshRate       *int    `yaml:"refresh_rate"`
	SendRenderRequest bool    `yaml:"send_render_request"`
	Scene             string  `yaml:"scene"`
	Target            *Target `yaml:"target"`
}

func (rc rawCamera) camera() Camera {
	c := Camera{
		Name:              rc.Name,
		RefreshRate:       gate.DefaultTargetRate,
		SendRenderRequest: rc.SendRenderRequest,
		Scene:             rc.Scene,
		Target:            rc.Target,
	}
	if rc.RefreshRate != nil {
		c.RefreshRate = *rc.RefreshRate
	}
	if c.Scene == "" {
		c.Scene = video.Checkerboard.String()
	}
	return c
}

// Validate checks the config. It does not touch the filesystem or network.
func (c Config) Validate() error {
	if c.MasterFPS <= 0 {
		return fmt.Errorf("%w: master_fps must be positive, got %v", ErrInvalid, c.MasterFPS)
	}
	if !timing.ValidKind(c.Limiter) {
		return fmt.Errorf("%w: unknown limiter %q", ErrInvalid, c.Limiter)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(c.Cameras) == 0 {
		return fmt.Errorf("%w: at least one camera is required", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Cameras))
	for i, cam := range c.Cameras {
		if strings.TrimSpace(cam.Name) == "" {
			return fmt.Errorf("%w: camera %d has no name", ErrInvalid, i)
		}
		if seen[cam.Name] {
			return fmt.Errorf("%w: duplicate camera %q", ErrInvalid, cam.Name)
		}
		seen[cam.Name] = true

		if _, ok := video.ParsePattern(cam.Scene); !ok {
			return fmt.Errorf("%w: camera %q: unknown scene %q", ErrInvalid, cam.Name, cam.Scene)
		}
		if cam.Target != nil && (cam.Target.Width == 0 || cam.Target.Height == 0) {
			return fmt.Errorf("%w: camera %q: target size must be positive", ErrInvalid, cam.Name)
		}
	}
	return nil
}

// Camera returns the camera called name.
func (c Config) Camera(name string) (Camera, bool) {
	for _, cam := range c.Cameras {
		if cam.Name == name {
			return cam, true
		}
	}
	return Camera{}, false
}

// Marshal encodes the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ParseLevel maps a log level name to slog.Level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
