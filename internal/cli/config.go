package cli

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fpviz/fpviz/pkg/errors"
)

// Config holds settings read from the config file. Command-line flags
// override every field.
//
//	formats = ["svg", "png"]
//	width   = 1200
//	cache   = "redis://localhost:6379/0"
//	history = "mongodb://localhost:27017"
//
//	[colors]
//	block = "#1f77b4"
type Config struct {
	Formats  []string          `toml:"formats" yaml:"formats"`
	Width    float64           `toml:"width" yaml:"width"`
	Height   float64           `toml:"height" yaml:"height"`
	Scale    float64           `toml:"scale" yaml:"scale"`
	Method   string            `toml:"method" yaml:"method"`
	MaxCells int64             `toml:"max_cells" yaml:"max_cells"`
	Alpha    *float64          `toml:"alpha" yaml:"alpha"`
	Cache    string            `toml:"cache" yaml:"cache"`
	History  string            `toml:"history" yaml:"history"`
	Addr     string            `toml:"addr" yaml:"addr"`
	Colors   map[string]string `toml:"colors" yaml:"colors"`
}

// configPath returns $XDG_CONFIG_HOME/fpviz/config.toml, falling back to the
// platform config directory.
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// loadConfig reads the config file at path. An empty path selects the default
// location, which may be absent; an explicit path must exist.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return parseConfig(path, data)
}

// parseConfig decodes data as YAML for .yaml/.yml files and TOML otherwise.
// Unknown keys are rejected.
func parseConfig(path string, data []byte) (Config, error) {
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrap(errors.ErrCodeParse, err, "config %s", path)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeParse, err, "config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return Config{}, errors.New(errors.ErrCodeParse, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}
	return cfg, nil
}
