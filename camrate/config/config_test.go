package config_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-camrate/camrate/config"
	"github.com/valerio/go-camrate/camrate/gate"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Cameras, 1)

	cam := cfg.Cameras[0]
	assert.Equal(t, "main", cam.Name)
	assert.Equal(t, 120, cam.RefreshRate)
	assert.False(t, cam.SendRenderRequest)
	assert.Nil(t, cam.Target)
}

func TestParse(t *testing.T) {
	doc := `
master_fps: 144
limiter: rate
log_level: debug
cameras:
  - name: main
    refresh_rate: 30
  - name: minimap
    refresh_rate: 0
    send_render_request: true
    scene: stripes
    target: {width: 64, height: 48}
  - name: mirror
stats:
  redis_addr: localhost:6379
  prefix: game
`
	cfg, err := config.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 144.0, cfg.MasterFPS)
	assert.Equal(t, "rate", cfg.Limiter)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.Stats.RedisAddr)
	assert.Equal(t, "game", cfg.Stats.Prefix)
	require.Len(t, cfg.Cameras, 3)

	main, ok := cfg.Camera("main")
	require.True(t, ok)
	assert.Equal(t, 30, main.RefreshRate)
	assert.Equal(t, "checkerboard", main.Scene)

	minimap, _ := cfg.Camera("minimap")
	assert.Equal(t, 0, minimap.RefreshRate, "explicit zero means unthrottled")
	assert.True(t, minimap.SendRenderRequest)
	assert.Equal(t, &config.Target{Width: 64, Height: 48}, minimap.Target)

	mirror, _ := cfg.Camera("mirror")
	assert.Equal(t, gate.DefaultTargetRate, mirror.RefreshRate, "missing rate gets the default")

	_, ok = cfg.Camera("absent")
	assert.False(t, ok)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"malformed yaml", "cameras: [", false},
		{"unknown key", "frame_rate: 60", false},
		{"zero master fps", "master_fps: 0", true},
		{"unknown limiter", "limiter: vsync", true},
		{"unknown log level", "log_level: loud", true},
		{"camera without name", "cameras: [{refresh_rate: 10}]", true},
		{"duplicate camera", "cameras: [{name: a}, {name: a}]", true},
		{"unknown scene", "cameras: [{name: a, scene: plasma}]", true},
		{"empty target", "cameras: [{name: a, target: {width: 0, height: 10}}]", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, config.ErrInvalid))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "camrate.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cameras: [{name: hud, refresh_rate: 15}]\n"), 0644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 15, cfg.Cameras[0].RefreshRate)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("round trip", func(t *testing.T) {
		original := config.Default()
		original.Cameras = append(original.Cameras, config.Camera{
			Name: "minimap", RefreshRate: 10, SendRenderRequest: true, Scene: "diagonal",
			Target: &config.Target{Width: 32, Height: 32},
		})
		data, err := original.Marshal()
		require.NoError(t, err)

		path := filepath.Join(dir, "round.yaml")
		require.NoError(t, os.WriteFile(path, data, 0644))

		loaded, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, original, loaded)
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for name, want := range tests {
		got, err := config.ParseLevel(name)
		assert.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := config.ParseLevel("trace")
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cameras: [{name: main, refresh_rate: 30}]\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- config.Watch(ctx, path, func(cfg config.Config) { changes <- cfg })
	}()

	// give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("cameras: [{name: main, refresh_rate: 5}]\n"), 0644))

	select {
	case cfg := <-changes:
		assert.Equal(t, 5, cfg.Cameras[0].RefreshRate)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
