// Package config loads the YAML configuration file and applies BLITZ_*
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cglprep/blitz/internal/llm"
)

type ServerConfig struct {
	Addr         string `yaml:"addr"`
	JWTSecret    string `yaml:"jwt_secret"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

// RedisConfig enables the shared leaderboard when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ClientConfig tells the TUI where to send finished games. An empty APIURL
// means scores are saved to the local database.
type ClientConfig struct {
	APIURL string `yaml:"api_url"`
	Token  string `yaml:"token"`
	User   string `yaml:"user"`
}

type AIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

type GameConfig struct {
	TotalQuestions int `yaml:"total_questions"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Client ClientConfig `yaml:"client"`
	AI     AIConfig     `yaml:"ai"`
	Game   GameConfig   `yaml:"game"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  "15s",
			WriteTimeout: "15s",
		},
		Client: ClientConfig{User: "local"},
		Game:   GameConfig{TotalQuestions: 10},
	}
}

// Load reads YAML config from path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads path, or the default location when path is empty, and
// applies environment overrides. A missing file at the default location is
// not an error.
func Resolve(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	cfg, err := Load(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg = Default()
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/blitz/config.yaml, falling back to
// ~/.config/blitz/config.yaml.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "blitz", "config.yaml"), nil
}

// ApplyEnv overrides fields from BLITZ_* variables. Unset or empty
// variables leave the field alone; unparsable numbers are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	strs := []struct {
		env string
		dst *string
	}{
		{"BLITZ_SERVER_ADDR", &c.Server.Addr},
		{"BLITZ_JWT_SECRET", &c.Server.JWTSecret},
		{"BLITZ_REDIS_ADDR", &c.Redis.Addr},
		{"BLITZ_REDIS_PASSWORD", &c.Redis.Password},
		{"BLITZ_API_URL", &c.Client.APIURL},
		{"BLITZ_API_TOKEN", &c.Client.Token},
		{"BLITZ_USER", &c.Client.User},
		{"BLITZ_LLM_PROVIDER", &c.AI.Provider},
		{"BLITZ_LLM_MODEL", &c.AI.Model},
		{"BLITZ_LLM_API_KEY", &c.AI.APIKey},
	}
	for _, s := range strs {
		if v := getenv(s.env); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"BLITZ_REDIS_DB", &c.Redis.DB},
		{"BLITZ_TOTAL_QUESTIONS", &c.Game.TotalQuestions},
	}
	for _, i := range ints {
		if v := getenv(i.env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*i.dst = n
			}
		}
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// ReadTimeoutDuration defaults to 15s.
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return TTLDuration(s.ReadTimeout, 15*time.Second)
}

// WriteTimeoutDuration defaults to 15s.
func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return TTLDuration(s.WriteTimeout, 15*time.Second)
}

// LLMConfig maps the ai section to an llm.Config. With no provider named,
// the standard *_API_KEY variables are probed. The second result is false
// when no provider is available at all.
func (a AIConfig) LLMConfig() (llm.Config, bool) {
	var cfg llm.Config
	if a.Provider == "" {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, false
		}
		cfg = discovered
	} else {
		cfg = llm.DefaultConfig()
		cfg.Provider = a.Provider
		cfg.APIKey = a.APIKey
	}
	if a.Model != "" {
		cfg.Model = a.Model
	}
	if a.BaseURL != "" {
		cfg.BaseURL = a.BaseURL
	}
	cfg.Timeout = TTLDuration(a.Timeout, cfg.Timeout)
	return cfg, true
}
