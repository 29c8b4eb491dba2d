package config

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/dshills/trackedit/internal/config/loader"
	"github.com/dshills/trackedit/internal/engine/edit"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TRACKEDIT_"

// Config is the full set of trackedit settings.
type Config struct {
	Edit    EditConfig    `yaml:"edit"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// EditConfig controls the edit planner.
type EditConfig struct {
	// Coordinates is the default space for slice instants:
	// "local", "parent" or "global".
	Coordinates string `yaml:"coordinates"`
	// FillName names the gaps created by overwrite and insert.
	// Empty leaves them unnamed.
	FillName string `yaml:"fillName"`
}

// HistoryConfig controls the undo history.
type HistoryConfig struct {
	MaxEntries int `yaml:"maxEntries"`
}

// LoggingConfig controls logger construction.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Edit: EditConfig{
			Coordinates: "parent",
		},
		History: HistoryConfig{
			MaxEntries: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMapping covers names the automatic camelCase conversion cannot produce.
var envMapping = map[string]string{
	"TRACKEDIT_HISTORY_MAXENTRIES": "history.maxEntries",
	"TRACKEDIT_EDIT_FILLNAME":      "edit.fillName",
	"TRACKEDIT_LOG_LEVEL":          "logging.level",
	"TRACKEDIT_LOG_FORMAT":         "logging.format",
}

// Load builds a Config from defaults, the given files and the environment.
// Missing files are skipped. The result is validated.
func Load(paths ...string) (*Config, error) {
	return load(loader.DefaultFS(), loader.NewEnvLoader(EnvPrefix, envMapping), paths...)
}

func load(fsys loader.FileSystem, env loader.Loader, paths ...string) (*Config, error) {
	merged, err := Default().toMap()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, errors.Wrapf(err, "loading %s", path)
		}
		merged = loader.DeepMerge(merged, data)
	}

	if env != nil {
		data, err := env.Load()
		if err != nil {
			return nil, errors.Wrap(err, "loading environment")
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := edit.ParseCoordinates(c.Edit.Coordinates); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "edit.coordinates: %v", err)
	}
	if c.History.MaxEntries <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "history.maxEntries must be positive, got %d", c.History.MaxEntries)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "logging.level: %v", err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return errors.Wrapf(ErrInvalidConfig, "logging.format %q", c.Logging.Format)
	}
	return nil
}

// Coordinates returns the parsed default coordinate space.
func (c *Config) Coordinates() edit.Coordinates {
	coords, _ := edit.ParseCoordinates(c.Edit.Coordinates)
	return coords
}

func (c *Config) toMap() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encoding config")
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "encoding config")
	}
	return m, nil
}

func fromMap(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "decoding config: %v", err)
	}
	return cfg, nil
}
