package skyview

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedConfigFormat is returned by LoadConfig for files that aren't TOML or YAML.
var ErrUnsupportedConfigFormat = errors.New("unsupported config format")

// ErrInvalidConfig is returned by ParseConfig for settings the scene can't run with.
var ErrInvalidConfig = errors.New("invalid config")

// Config gathers every tunable of the scene. Zero-valued sections in a config file keep their defaults.
type Config struct {
	Camera     CameraSettings     `toml:"camera" yaml:"camera"`
	Projection ProjectionSettings `toml:"projection" yaml:"projection"`
	Keys       KeyBindings        `toml:"keys" yaml:"keys"`
	Scene      SceneSettings      `toml:"scene" yaml:"scene"`
	Display    DisplaySettings    `toml:"display" yaml:"display"`
}

// SceneSettings describes the scene's content.
type SceneSettings struct {
	SpinDegreesPerSecond float32 `toml:"spin_degrees_per_second" yaml:"spin_degrees_per_second"`

	// FloorMesh is a path within the asset filesystem; .obj, .gltf and .glb are supported.
	FloorMesh string `toml:"floor_mesh" yaml:"floor_mesh"`
	// FloorTexture is a path within the asset filesystem. If empty, a checkerboard is generated.
	FloorTexture string      `toml:"floor_texture" yaml:"floor_texture"`
	FloorFilter  FilterMode  `toml:"floor_filter" yaml:"floor_filter"`
	FloorAddress AddressMode `toml:"floor_address" yaml:"floor_address"`

	SkyHorizon Color `toml:"sky_horizon" yaml:"sky_horizon"`
	SkyZenith  Color `toml:"sky_zenith" yaml:"sky_zenith"`

	// The overview camera fills the second viewport in split mode.
	OverviewEye    Vector3 `toml:"overview_eye" yaml:"overview_eye"`
	OverviewTarget Vector3 `toml:"overview_target" yaml:"overview_target"`

	// SplitTransition is how long the divider takes to slide into place, in seconds.
	SplitTransition float32 `toml:"split_transition" yaml:"split_transition"`
}

// DisplaySettings describes the window.
type DisplaySettings struct {
	Width       int                `toml:"width" yaml:"width"`
	Height      int                `toml:"height" yaml:"height"`
	Orientation DisplayOrientation `toml:"orientation" yaml:"orientation"`
	ShowHUD     bool               `toml:"show_hud" yaml:"show_hud"`
}

// DefaultConfig creates a Config with the stock scene.
func DefaultConfig() *Config {
	return &Config{
		Camera:     DefaultCameraSettings(),
		Projection: DefaultProjectionSettings(),
		Keys:       DefaultKeyBindings(),
		Scene: SceneSettings{
			SpinDegreesPerSecond: 45,
			FloorMesh:            "Ground.obj",
			FloorFilter:          FilterLinear,
			FloorAddress:         AddressMirror,
			SkyHorizon:           NewColor(0.85, 0.9, 0.95, 1),
			SkyZenith:            NewColor(0.2, 0.45, 0.85, 1),
			OverviewEye:          Vector3{X: 0, Y: 8, Z: -6},
			OverviewTarget:       Vector3{X: 0, Y: -1, Z: 0},
			SplitTransition:      0.35,
		},
		Display: DisplaySettings{
			Width:   1280,
			Height:  720,
			ShowHUD: true,
		},
	}
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) file over the defaults.
func LoadConfig(path string) (*Config, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil

}

// ParseConfig decodes config data over the defaults. ext selects the format, as a file extension.
func ParseConfig(data []byte, ext string) (*Config, error) {

	cfg := DefaultConfig()

	var err error

	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedConfigFormat)
	}

	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil

}

func (cfg *Config) validate() error {

	p := cfg.Projection

	if p.FieldOfViewFactor <= 0 {
		return fmt.Errorf("projection.fov_factor %v must be positive: %w", p.FieldOfViewFactor, ErrInvalidConfig)
	}

	if p.Near <= 0 || p.Far <= p.Near {
		return fmt.Errorf("projection near %v and far %v must satisfy 0 < near < far: %w", p.Near, p.Far, ErrInvalidConfig)
	}

	return nil

}

func (f FilterMode) String() string {
	if f == FilterNearest {
		return "nearest"
	}
	return "linear"
}

func (f *FilterMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "linear":
		*f = FilterLinear
	case "nearest":
		*f = FilterNearest
	default:
		return fmt.Errorf("unknown filter mode %q", text)
	}
	return nil
}

func (a AddressMode) String() string {
	switch a {
	case AddressMirror:
		return "mirror"
	case AddressClamp:
		return "clamp"
	}
	return "wrap"
}

func (a *AddressMode) UnmarshalText(text []byte) error {
	for _, mode := range []AddressMode{AddressWrap, AddressMirror, AddressClamp} {
		if mode.String() == string(text) {
			*a = mode
			return nil
		}
	}
	return fmt.Errorf("unknown address mode %q", text)
}

// ConfigReload is the outcome of re-reading a watched config file.
type ConfigReload struct {
	Config *Config
	Err    error
}

// ConfigWatcher re-reads a config file whenever it's written. The directory is watched rather than the file itself
// so editors that save by renaming are still noticed.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan ConfigReload
	done    chan struct{}
	logger  *slog.Logger
}

// WatchConfig starts watching the config file at path. Reloads are delivered on Changes.
func WatchConfig(path string, logger *slog.Logger) (*ConfigWatcher, error) {

	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:    abs,
		watcher: watcher,
		changes: make(chan ConfigReload, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}

	go cw.run()

	return cw, nil

}

// Changes delivers reloads. Only the latest unread reload is kept.
func (cw *ConfigWatcher) Changes() <-chan ConfigReload {
	return cw.changes
}

// Poll returns the latest reload without blocking, if there is one.
func (cw *ConfigWatcher) Poll() (ConfigReload, bool) {
	select {
	case reload := <-cw.changes:
		return reload, true
	default:
		return ConfigReload{}, false
	}
}

// Close stops watching.
func (cw *ConfigWatcher) Close() error {
	err := cw.watcher.Close()
	<-cw.done
	return err
}

func (cw *ConfigWatcher) run() {

	defer close(cw.done)

	for {
		select {

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}

			cfg, err := LoadConfig(cw.path)
			if err != nil {
				cw.logger.Warn("config reload failed", "path", cw.path, "error", err)
			} else {
				cw.logger.Info("config reloaded", "path", cw.path)
			}
			cw.publish(ConfigReload{Config: cfg, Err: err})

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("config watcher error", "error", err)

		}
	}

}

func (cw *ConfigWatcher) publish(reload ConfigReload) {
	for {
		select {
		case cw.changes <- reload:
			return
		default:
		}
		// Drop the stale reload so the newest one wins.
		select {
		case <-cw.changes:
		default:
		}
	}
}
