package integration

import (
	"context"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-camrate/camrate"
	"github.com/valerio/go-camrate/camrate/backend/headless"
	"github.com/valerio/go-camrate/camrate/config"
)

type IntegrationTestCase struct {
	Name     string
	Config   string
	Ticks    int
	Expected map[string]int64 // renders per camera
}

// Master ticks at 64 fps so every deadline lands exactly on a tick.
func GetIntegrationTests() []IntegrationTestCase {
	return []IntegrationTestCase{
		{
			Name: "half rate",
			Config: `
master_fps: 64
limiter: none
cameras:
  - name: main
    refresh_rate: 32
`,
			Ticks:    128,
			Expected: map[string]int64{"main": 64},
		},
		{
			Name: "default rate above master rate",
			Config: `
master_fps: 64
limiter: none
cameras:
  - name: main
`,
			Ticks:    128,
			Expected: map[string]int64{"main": 128},
		},
		{
			Name: "request mode into a target",
			Config: `
master_fps: 64
limiter: none
cameras:
  - name: minimap
    refresh_rate: 8
    send_render_request: true
    scene: gradient
    target: {width: 32, height: 32}
`,
			Ticks:    128,
			Expected: map[string]int64{"minimap": 16},
		},
		{
			Name: "mixed cameras",
			Config: `
master_fps: 64
limiter: none
cameras:
  - name: main
    refresh_rate: 0
    scene: stripes
  - name: mirror
    refresh_rate: 16
    scene: diagonal
    target: {width: 48, height: 24}
  - name: portal
    refresh_rate: 4
    send_render_request: true
    target: {width: 16, height: 16}
`,
			Ticks:    128,
			Expected: map[string]int64{"main": 128, "mirror": 32, "portal": 8},
		},
	}
}

func runScenario(t *testing.T, tc IntegrationTestCase, dir string) *camrate.Engine {
	t.Helper()

	cfg, err := config.Parse([]byte(tc.Config))
	require.NoError(t, err)

	snapshots, err := headless.CreateSnapshotConfig(tc.Ticks/2, dir)
	require.NoError(t, err)

	engine, err := camrate.New(cfg, camrate.WithSimulatedClock())
	require.NoError(t, err)

	b := headless.New(tc.Ticks, snapshots)
	require.NoError(t, engine.Run(context.Background(), b))
	assert.Equal(t, tc.Ticks, b.Ticks())

	return engine
}

// snapshotHashes maps each snapshot's name, without its timestamp, to the
// md5 of its content.
func snapshotHashes(t *testing.T, dir string) map[string]string {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	sort.Strings(files)

	hashes := make(map[string]string, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)

		// <camera>_tick_<n>_<yyyymmdd>_<hhmmss>.png
		base := strings.TrimSuffix(filepath.Base(f), ".png")
		for i := 0; i < 2; i++ {
			base = base[:strings.LastIndex(base, "_")]
		}
		hashes[base] = fmt.Sprintf("%x", md5.Sum(data))
	}
	return hashes
}

func TestIntegration(t *testing.T) {
	for _, tc := range GetIntegrationTests() {
		t.Run(tc.Name, func(t *testing.T) {
			first := t.TempDir()
			engine := runScenario(t, tc, first)

			for name, want := range tc.Expected {
				counters, err := engine.Stats(name)
				require.NoError(t, err)
				assert.Equal(t, want, counters.Renders(), "camera %s", name)
			}

			hashes := snapshotHashes(t, first)
			assert.Len(t, hashes, 2, "one snapshot halfway and one at the end")

			second := t.TempDir()
			runScenario(t, tc, second)
			assert.Equal(t, hashes, snapshotHashes(t, second), "runs on simulated time are deterministic")
		})
	}
}
