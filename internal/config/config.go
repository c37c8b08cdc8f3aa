package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"movieseeker/internal/eventbus"
)

// EnvPrefix prefixes environment overrides, e.g. MOVIESEEKER_API_API_KEY
const EnvPrefix = "MOVIESEEKER"

// Config represents the application configuration
type Config struct {
	Version int            `mapstructure:"version" toml:"version"`
	API     APISettings    `mapstructure:"api" toml:"api"`
	Search  SearchSettings `mapstructure:"search" toml:"search"`
	Cache   CacheSettings  `mapstructure:"cache" toml:"cache"`
	UI      UISettings     `mapstructure:"ui" toml:"ui"`
}

// APISettings locates and throttles the catalogue
type APISettings struct {
	BaseURL           string  `mapstructure:"base_url" toml:"base_url"`
	APIKey            string  `mapstructure:"api_key" toml:"api_key"`
	SearchPath        string  `mapstructure:"search_path" toml:"search_path"`
	SuggestPath       string  `mapstructure:"suggest_path" toml:"suggest_path"`
	DetailPath        string  `mapstructure:"detail_path" toml:"detail_path"`
	TimeoutMS         int     `mapstructure:"timeout_ms" toml:"timeout_ms"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second"`
	Burst             int     `mapstructure:"burst" toml:"burst"`
}

// SearchSettings tunes the suggestion and gallery controllers
type SearchSettings struct {
	Kind            string `mapstructure:"kind" toml:"kind"`
	SuggestWaitMS   int    `mapstructure:"suggest_wait_ms" toml:"suggest_wait_ms"`
	ScrollWaitMS    int    `mapstructure:"scroll_wait_ms" toml:"scroll_wait_ms"`
	ScrollProximity int    `mapstructure:"scroll_proximity" toml:"scroll_proximity"`
}

// CacheSettings bounds the in-memory result cache
type CacheSettings struct {
	TTLSeconds int `mapstructure:"ttl_seconds" toml:"ttl_seconds"`
	MaxEntries int `mapstructure:"max_entries" toml:"max_entries"`
	Retries    int `mapstructure:"retries" toml:"retries"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowPosters       bool `mapstructure:"show_posters" toml:"show_posters"`
	PosterConcurrency int  `mapstructure:"poster_concurrency" toml:"poster_concurrency"`
}

func (a APISettings) Timeout() time.Duration {
	return time.Duration(a.TimeoutMS) * time.Millisecond
}

func (s SearchSettings) SuggestWait() time.Duration {
	return time.Duration(s.SuggestWaitMS) * time.Millisecond
}

func (s SearchSettings) ScrollWait() time.Duration {
	return time.Duration(s.ScrollWaitMS) * time.Millisecond
}

func (c CacheSettings) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Attempts is the first try plus the configured retries
func (c CacheSettings) Attempts() int {
	return max(c.Retries, 0) + 1
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath is $XDG_CONFIG_HOME/movieseeker/config.toml or its platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "movieseeker", "config.toml")
}

// NewConfigService creates a config service for path; empty means DefaultPath
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration file, falling back to defaults when it is missing
func (cs *configService) Load() (*Config, error) {
	cfg, err := load(cs.filePath, false)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path, which must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return load(path, true)
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// load layers defaults, the TOML file, a .env file and the environment
func load(path string, mustExist bool) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			if mustExist {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			slog.Info("config: no config file, using defaults", "path", path)
		default:
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// the conventional OMDb variable fills a missing key
	if cfg.API.APIKey == "" {
		cfg.API.APIKey = os.Getenv("OMDB_API_KEY")
	}
	if cfg.Cache.Retries < 0 {
		slog.Warn("config: negative cache.retries, disabling retries", "retries", cfg.Cache.Retries)
		cfg.Cache.Retries = 0
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.api_key", d.API.APIKey)
	v.SetDefault("api.search_path", d.API.SearchPath)
	v.SetDefault("api.suggest_path", d.API.SuggestPath)
	v.SetDefault("api.detail_path", d.API.DetailPath)
	v.SetDefault("api.timeout_ms", d.API.TimeoutMS)
	v.SetDefault("api.requests_per_second", d.API.RequestsPerSecond)
	v.SetDefault("api.burst", d.API.Burst)
	v.SetDefault("search.kind", d.Search.Kind)
	v.SetDefault("search.suggest_wait_ms", d.Search.SuggestWaitMS)
	v.SetDefault("search.scroll_wait_ms", d.Search.ScrollWaitMS)
	v.SetDefault("search.scroll_proximity", d.Search.ScrollProximity)
	v.SetDefault("cache.ttl_seconds", d.Cache.TTLSeconds)
	v.SetDefault("cache.max_entries", d.Cache.MaxEntries)
	v.SetDefault("cache.retries", d.Cache.Retries)
	v.SetDefault("ui.show_posters", d.UI.ShowPosters)
	v.SetDefault("ui.poster_concurrency", d.UI.PosterConcurrency)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:           "https://www.omdbapi.com",
			SearchPath:        "/",
			SuggestPath:       "/",
			DetailPath:        "/",
			TimeoutMS:         10000,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Search: SearchSettings{
			Kind:            "movie",
			SuggestWaitMS:   500,
			ScrollWaitMS:    500,
			ScrollProximity: 2,
		},
		Cache: CacheSettings{
			TTLSeconds: 300,
			MaxEntries: 256,
			Retries:    3,
		},
		UI: UISettings{
			ShowPosters:       true,
			PosterConcurrency: 4,
		},
	}
}
