// Package config loads settings from defaults, an optional TOML file and
// AXIOM_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Window WindowConfig
	Render RenderConfig
	Script ScriptConfig
	LLM    LLMConfig
	Log    LogConfig
}

// WindowConfig sizes the host window. Width and Height are the render
// resolution; Scale multiplies them for the OS window.
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	Title  string
}

type RenderConfig struct {
	Hz         int
	Wireframe  bool
	Depth      bool
	ClearColor string `mapstructure:"clear_color"`
	Stars      int
}

// ScriptConfig bounds each call into a scene program.
type ScriptConfig struct {
	Setup   time.Duration
	Update  time.Duration
	Cleanup time.Duration
}

// LLMConfig selects and configures the program generator.
type LLMConfig struct {
	Provider    string
	Model       string
	APIKeyEnv   string `mapstructure:"api_key_env"`
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Timeout     time.Duration
	Temperature float64
	Playlist    string
}

type LogConfig struct {
	Level string
	Ring  int
}

const (
	ProviderOffline  = "offline"
	ProviderOpenAI   = "openai"
	ProviderPlaylist = "playlist"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 320)
	v.SetDefault("window.height", 240)
	v.SetDefault("window.scale", 3)
	v.SetDefault("window.title", "Axiom")
	v.SetDefault("render.hz", 30)
	v.SetDefault("render.wireframe", false)
	v.SetDefault("render.depth", true)
	v.SetDefault("render.clear_color", "#05060c")
	v.SetDefault("render.stars", 2000)
	v.SetDefault("script.setup", 2*time.Second)
	v.SetDefault("script.update", 250*time.Millisecond)
	v.SetDefault("script.cleanup", time.Second)
	v.SetDefault("llm.provider", ProviderOffline)
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 90*time.Second)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.playlist", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.ring", 64)
}

// Path returns the config file location: $AXIOM_CONFIG or
// ~/.config/axiom/config.toml.
func Path() string {
	if p := os.Getenv("AXIOM_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "axiom", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix
// AXIOM_, for example AXIOM_LLM_PROVIDER. A missing file is not an error.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load with an explicit file path.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("AXIOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !notFound(err) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.LLM.APIKey == "" && c.LLM.APIKeyEnv != "" {
		c.LLM.APIKey = os.Getenv(c.LLM.APIKeyEnv)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func notFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

// Validate rejects settings the runtime cannot start with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.Scale <= 0 {
		return fmt.Errorf("config: window scale %d must be positive", c.Window.Scale)
	}
	if c.Render.Hz <= 0 {
		return fmt.Errorf("config: render hz %d must be positive", c.Render.Hz)
	}
	if _, err := ParseHex(c.Render.ClearColor); err != nil {
		return fmt.Errorf("config: render clear_color: %w", err)
	}
	switch c.LLM.Provider {
	case ProviderOffline, ProviderOpenAI:
	case ProviderPlaylist:
		if c.LLM.Playlist == "" {
			return fmt.Errorf("config: llm provider %q needs llm.playlist", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("config: unknown llm provider %q", c.LLM.Provider)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("color %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", s, err)
	}
	return l, nil
}
