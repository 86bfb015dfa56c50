package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Category schemes accepted by dashboard.category_scheme
const (
	CategorySchemeFoodOther = "food_other"
	CategorySchemeThreeWay  = "three_way"
)

// Config holds all application configuration
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Export    ExportConfig    `mapstructure:"export"`
	Listing   ListingConfig   `mapstructure:"listing"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// APIConfig holds backend client configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds the local key-value store location
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// ExportConfig holds export output configuration
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// ListingConfig holds list view configuration
type ListingConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// DashboardConfig holds admin dashboard configuration
type DashboardConfig struct {
	CategoryScheme string `mapstructure:"category_scheme"`
}

// ServerConfig holds stub backend configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional YAML file, a .env file and
// environment variables. A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("EXPENSEDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", 10*time.Second)

	// Storage defaults
	v.SetDefault("storage.path", defaultStoragePath())

	// Export defaults
	v.SetDefault("export.dir", "exports")

	// Listing defaults
	v.SetDefault("listing.page_size", 10)

	// Dashboard defaults
	v.SetDefault("dashboard.category_scheme", CategorySchemeFoodOther)

	// Stub server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.jwt_secret", "stub-backend-dev-secret")
	v.SetDefault("server.token_ttl", 24*time.Hour)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")
}

// bindEnvVars binds the short environment names that predate the prefix
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("api.base_url", "EXPENSEDASH_API_BASE_URL", "API_BASE_URL")
	_ = v.BindEnv("server.jwt_secret", "EXPENSEDASH_SERVER_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("storage.path", "EXPENSEDASH_STORAGE_PATH")
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "expensedash.db"
	}
	return dir + string(os.PathSeparator) + "expensedash" + string(os.PathSeparator) + "storage.db"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Listing.PageSize <= 0 {
		return fmt.Errorf("listing.page_size must be positive")
	}

	switch c.Dashboard.CategoryScheme {
	case CategorySchemeFoodOther, CategorySchemeThreeWay:
	default:
		return fmt.Errorf("dashboard.category_scheme must be %q or %q, got %q",
			CategorySchemeFoodOther, CategorySchemeThreeWay, c.Dashboard.CategoryScheme)
	}

	return nil
}
