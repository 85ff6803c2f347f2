package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pdext/pkg/cache"
	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/render/calendar"
	"github.com/matzehuels/pdext/pkg/render/figure"
	"github.com/matzehuels/pdext/pkg/render/stripes"
	"github.com/matzehuels/pdext/pkg/render/wedge"
)

// Config is the configuration file. Every table is decoded onto the
// defaults, so a file only needs the keys it changes:
//
//	[render]
//	formats = ["svg", "png"]
//	dpi = 150
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[wedge.legend]
//	orientation = "vertical"
type Config struct {
	Render   RenderConfig     `toml:"render"`
	Cache    cache.Config     `toml:"cache"`
	Server   ServerConfig     `toml:"server"`
	Stripes  stripes.Options  `toml:"stripes"`
	Wedge    wedge.Options    `toml:"wedge"`
	Calendar calendar.Options `toml:"calendar"`
}

// RenderConfig holds output defaults shared by the chart commands.
type RenderConfig struct {
	Formats []string `toml:"formats"`
	DPI     int      `toml:"dpi"`
}

// ServerConfig configures "pdext serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() *Config {
	return &Config{
		Render:   RenderConfig{Formats: []string{"svg"}, DPI: figure.DefaultDPI},
		Cache:    cache.Config{Backend: cache.BackendFile},
		Server:   ServerConfig{Addr: ":8080", MaxBodyBytes: 32 << 20},
		Stripes:  stripes.DefaultOptions(),
		Wedge:    wedge.DefaultOptions(),
		Calendar: calendar.DefaultOptions(),
	}
}

// configDir returns the config directory using XDG standard (~/.config/pdext/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigPath returns the config file location, or "" when none
// exists there.
func defaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadConfig decodes path onto the defaults. An empty path returns the
// defaults. Unknown keys are returned so the caller can warn about them.
func loadConfig(path string) (*Config, []string, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return cfg, unknown, nil
}
