package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Store     StoreConfig     `mapstructure:"store"`
	Enrich    EnrichConfig    `mapstructure:"enrich"`
	Wikipedia WikipediaConfig `mapstructure:"wikipedia"`
	Commons   CommonsConfig   `mapstructure:"commons"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// SourceConfig locates the hand-written data file and the extracted labels
type SourceConfig struct {
	Path         string `mapstructure:"path"`
	KeywordsPath string `mapstructure:"keywords_path"`
}

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// StoreConfig selects where the enrichment store is persisted
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// EnrichConfig holds the merge run options
type EnrichConfig struct {
	Force            bool           `mapstructure:"force"`
	Limit            int            `mapstructure:"limit"`
	DelayMs          int            `mapstructure:"delay_ms"`
	SummaryMaxLength int            `mapstructure:"summary_max_length"`
	MinImageWidth    int            `mapstructure:"min_image_width"`
	ImageCaps        map[string]int `mapstructure:"image_caps"`
}

// WikipediaConfig holds the summary endpoint configuration
type WikipediaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// CommonsConfig holds the image search configuration
type CommonsConfig struct {
	APIURL      string `mapstructure:"api_url"`
	FileBaseURL string `mapstructure:"file_base_url"`
	Timeout     int    `mapstructure:"timeout"`
	SearchLimit int    `mapstructure:"search_limit"`
	ThumbWidth  int    `mapstructure:"thumb_width"`
}

// HTTPConfig holds settings shared by both reference clients
type HTTPConfig struct {
	UserAgent  string `mapstructure:"user_agent"`
	MaxRetries int    `mapstructure:"max_retries"`
	Cooldown   int    `mapstructure:"cooldown"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	Key      string `mapstructure:"key"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// URL returns the connection string shared by pgx and the migrator
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// MetricsConfig controls the end-of-run metrics export
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// LogConfig controls logrus output
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"source":    "source.path",
	"keywords":  "source.keywords_path",
	"store":     "store.path",
	"backend":   "store.backend",
	"force":     "enrich.force",
	"limit":     "enrich.limit",
	"log-level": "log.level",
}

// Load reads configFile (or config.yaml in the working directory when empty),
// applies environment overrides and any flags set on flags.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the pipeline cannot run with
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendFile && strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path is required for the file backend")
	}
	if c.Enrich.Limit < 0 {
		return fmt.Errorf("enrich.limit must not be negative, got %d", c.Enrich.Limit)
	}
	if c.Enrich.DelayMs < 0 {
		return fmt.Errorf("enrich.delay_ms must not be negative, got %d", c.Enrich.DelayMs)
	}
	if c.Enrich.SummaryMaxLength <= 0 {
		return fmt.Errorf("enrich.summary_max_length must be positive, got %d", c.Enrich.SummaryMaxLength)
	}
	for category, limit := range c.Enrich.ImageCaps {
		if limit < 0 {
			return fmt.Errorf("enrich.image_caps.%s must not be negative, got %d", category, limit)
		}
	}
	if c.Commons.SearchLimit <= 0 {
		return fmt.Errorf("commons.search_limit must be positive, got %d", c.Commons.SearchLimit)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.path", "data.js")
	v.SetDefault("source.keywords_path", "scripts/keywords.json")

	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.path", "data/enrich/enrich.json")

	v.SetDefault("enrich.force", false)
	v.SetDefault("enrich.limit", 0)
	v.SetDefault("enrich.delay_ms", 200)
	v.SetDefault("enrich.summary_max_length", 300)
	v.SetDefault("enrich.min_image_width", 800)
	v.SetDefault("enrich.image_caps", map[string]int{
		"travel": 3,
		"fun":    2,
		"food":   1,
	})

	v.SetDefault("wikipedia.base_url", "https://en.wikipedia.org/api/rest_v1")
	v.SetDefault("wikipedia.timeout", 5)

	v.SetDefault("commons.api_url", "https://commons.wikimedia.org/w/api.php")
	v.SetDefault("commons.file_base_url", "https://commons.wikimedia.org/wiki")
	v.SetDefault("commons.timeout", 10)
	v.SetDefault("commons.search_limit", 10)
	v.SetDefault("commons.thumb_width", 1200)

	v.SetDefault("http.user_agent", "letluckdecide/1.0 (https://github.com/makisf4/letluckdecide)")
	v.SetDefault("http.max_retries", 0)
	v.SetDefault("http.cooldown", 300)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.key", "enrich:entries")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "letluckdecide")
	v.SetDefault("database.user", "letluckdecide")
	v.SetDefault("database.password", "letluckdecide")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
