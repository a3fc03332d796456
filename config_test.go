package skyview

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partialTOML = `
[camera]
move_speed = 3.0
eye = { x = 1.0, y = 2.0, z = 3.0 }

[keys]
forward = "I"

[scene]
sky_zenith = "#ff0000"
floor_address = "clamp"
floor_filter = "nearest"

[display]
orientation = "portrait"
`

const partialYAML = `
camera:
  move_speed: 3
  eye: {x: 1, y: 2, z: 3}
keys:
  forward: I
scene:
  sky_zenith: "#ff0000"
  floor_address: clamp
  floor_filter: nearest
display:
  orientation: portrait
`

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultCameraSettings(), cfg.Camera)
	assert.Equal(t, DefaultProjectionSettings(), cfg.Projection)
	assert.Equal(t, DefaultKeyBindings(), cfg.Keys)
	assert.Equal(t, float32(45), cfg.Scene.SpinDegreesPerSecond)
	assert.Equal(t, "Ground.obj", cfg.Scene.FloorMesh)
	assert.Empty(t, cfg.Scene.FloorTexture)
}

func TestParseConfig(t *testing.T) {

	for ext, data := range map[string]string{".toml": partialTOML, ".yaml": partialYAML, ".YML": partialYAML} {

		t.Run(ext, func(t *testing.T) {

			cfg, err := ParseConfig([]byte(data), ext)
			require.NoError(t, err)

			assert.Equal(t, float32(3), cfg.Camera.MoveSpeed)
			assert.Equal(t, Vector3{1, 2, 3}, cfg.Camera.Eye)
			assert.Equal(t, ebiten.KeyI, cfg.Keys.Forward)
			assert.Equal(t, NewColor(1, 0, 0, 1), cfg.Scene.SkyZenith)
			assert.Equal(t, AddressClamp, cfg.Scene.FloorAddress)
			assert.Equal(t, FilterNearest, cfg.Scene.FloorFilter)
			assert.Equal(t, OrientationPortrait, cfg.Display.Orientation)

			// Anything left out keeps its default.
			defaults := DefaultConfig()
			assert.Equal(t, defaults.Camera.RotateSpeed, cfg.Camera.RotateSpeed)
			assert.Equal(t, defaults.Keys.Back, cfg.Keys.Back)
			assert.Equal(t, defaults.Projection, cfg.Projection)
			assert.Equal(t, defaults.Scene.SkyHorizon, cfg.Scene.SkyHorizon)
			assert.Equal(t, defaults.Display.Width, cfg.Display.Width)

		})

	}

}

func TestParseConfigErrors(t *testing.T) {

	_, err := ParseConfig([]byte("{}"), ".json")
	assert.ErrorIs(t, err, ErrUnsupportedConfigFormat)

	_, err = ParseConfig([]byte("[scene]\nsky_zenith = \"#12\"\n"), ".toml")
	assert.Error(t, err)

	_, err = ParseConfig([]byte("scene:\n  floor_address: sideways\n"), ".yaml")
	assert.Error(t, err)

	_, err = ParseConfig([]byte("[display]\norientation = \"upside\"\n"), ".toml")
	assert.Error(t, err)

	_, err = ParseConfig([]byte("[projection]\nfov_factor = 0.0\n"), ".toml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseConfig([]byte("projection:\n  fov_factor: -1.05\n"), ".yaml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseConfig([]byte("[projection]\nnear = 10.0\nfar = 5.0\n"), ".toml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

}

func TestLoadConfig(t *testing.T) {

	dir := t.TempDir()
	path := filepath.Join(dir, "skyview.toml")
	require.NoError(t, os.WriteFile(path, []byte(partialTOML), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(3), cfg.Camera.MoveSpeed)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[camera\n"), 0o644))
	_, err = LoadConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)

}

func TestConfigWatcher(t *testing.T) {

	dir := t.TempDir()
	path := filepath.Join(dir, "skyview.toml")
	require.NoError(t, os.WriteFile(path, []byte("[camera]\nmove_speed = 1.0\n"), 0o644))

	watcher, err := WatchConfig(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer watcher.Close()

	_, ok := watcher.Poll()
	assert.False(t, ok)

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644))

	require.NoError(t, os.WriteFile(path, []byte("[camera]\nmove_speed = 5.0\n"), 0o644))

	waitForReload(t, watcher, func(reload ConfigReload) bool {
		return reload.Err == nil && reload.Config.Camera.MoveSpeed == 5
	})

	require.NoError(t, os.WriteFile(path, []byte("[camera\n"), 0o644))

	waitForReload(t, watcher, func(reload ConfigReload) bool {
		return reload.Err != nil
	})

}

func waitForReload(t *testing.T, watcher *ConfigWatcher, match func(ConfigReload) bool) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case reload := <-watcher.Changes():
			if match(reload) {
				return
			}
		case <-timeout:
			t.Fatal("no matching config reload")
		}
	}
}

func TestFilterAndAddressNames(t *testing.T) {

	for _, mode := range []AddressMode{AddressWrap, AddressMirror, AddressClamp} {
		var parsed AddressMode
		require.NoError(t, parsed.UnmarshalText([]byte(mode.String())))
		assert.Equal(t, mode, parsed)
	}

	for _, filter := range []FilterMode{FilterLinear, FilterNearest} {
		var parsed FilterMode
		require.NoError(t, parsed.UnmarshalText([]byte(filter.String())))
		assert.Equal(t, filter, parsed)
	}

}
