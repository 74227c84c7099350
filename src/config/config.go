package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Auth            AuthConfig           `mapstructure:"auth"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type     ServiceType `mapstructure:"type"`
	Port     string      `mapstructure:"port"`
	Schedule string      `mapstructure:"schedule"`
}

type AuthMode string

const (
	AuthModeDev      AuthMode = "dev"
	AuthModeSupabase AuthMode = "supabase"
)

type AuthConfig struct {
	Mode      AuthMode `mapstructure:"mode"`
	DevUserID string   `mapstructure:"devUserId"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Driver           string `mapstructure:"driver"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

type ExternalClientConfig struct {
	Polygon      PolygonConfig      `mapstructure:"polygon"`
	AlphaVantage AlphaVantageConfig `mapstructure:"alphavantage"`
}

type PolygonConfig struct {
	BaseURL string `mapstructure:"baseUrl"`
	APIKey  string `mapstructure:"apiKey"`
}

type AlphaVantageConfig struct {
	BaseURL string `mapstructure:"baseUrl"`
	APIKey  string `mapstructure:"apiKey"`
}

// LoadConfig reads settings/appsettings.yaml from path and overlays
// appsettings.<env>.yaml on top when env is non-empty. Provider API keys can
// also come from the environment (POLYGON_API_KEY, ALPHAVANTAGE_API_KEY),
// loaded from a .env file when present.
func LoadConfig(path string, env string) (*Config, error) {
	var cfg Config

	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	if env != "" {
		v.SetConfigName("appsettings." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	v.SetDefault("auth.mode", string(AuthModeDev))
	v.SetDefault("auth.devUserId", "dev_user")
	v.SetDefault("service.schedule", "0 3 * * *")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if key := os.Getenv("POLYGON_API_KEY"); key != "" && cfg.ExternalClients.Polygon.APIKey == "" {
		cfg.ExternalClients.Polygon.APIKey = key
	}
	if key := os.Getenv("ALPHAVANTAGE_API_KEY"); key != "" && cfg.ExternalClients.AlphaVantage.APIKey == "" {
		cfg.ExternalClients.AlphaVantage.APIKey = key
	}
	return &cfg, nil
}
