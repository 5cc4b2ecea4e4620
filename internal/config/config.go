package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Deployment modes
const (
	ModeFull   = "full"
	ModeStatic = "static"
)

// Search backends
const (
	BackendAzure         = "azure"
	BackendElasticsearch = "elasticsearch"
)

// Config holds all configuration for the chat server
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Search SearchConfig `mapstructure:"search"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	Mode         string   `mapstructure:"mode"`
	StaticDir    string   `mapstructure:"static_dir"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	MetricsKey   string   `mapstructure:"metrics_key"`
}

// LLMConfig holds the completion service configuration
type LLMConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	Deployment string `mapstructure:"deployment"`
	APIVersion string `mapstructure:"api_version"`
	APIKey     string `mapstructure:"api_key"`
}

// SearchConfig holds the search index configuration
type SearchConfig struct {
	Backend       string              `mapstructure:"backend"`
	Endpoint      string              `mapstructure:"endpoint"`
	Index         string              `mapstructure:"index"`
	Key           string              `mapstructure:"key"`
	TopK          int                 `mapstructure:"top_k"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// ElasticsearchConfig is used when search.backend is "elasticsearch"
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings maps config keys to the environment variable names used by the deployment
var envBindings = map[string]string{
	"server.host":                    "HOST",
	"server.port":                    "PORT",
	"server.mode":                    "SERVER_MODE",
	"server.static_dir":              "STATIC_DIR",
	"server.allow_origins":           "CORS_ALLOW_ORIGINS",
	"server.metrics_key":             "METRICS_API_KEY",
	"llm.endpoint":                   "AZURE_OPENAI_ENDPOINT",
	"llm.deployment":                 "AZURE_OPENAI_DEPLOYMENT",
	"llm.api_version":                "AZURE_OPENAI_API_VERSION",
	"llm.api_key":                    "AZURE_OPENAI_API_KEY",
	"search.backend":                 "SEARCH_BACKEND",
	"search.endpoint":                "AZURE_SEARCH_ENDPOINT",
	"search.index":                   "AZURE_SEARCH_INDEX",
	"search.key":                     "AZURE_SEARCH_KEY",
	"search.top_k":                   "SEARCH_TOP_K",
	"search.elasticsearch.addresses": "ELASTICSEARCH_ADDRESSES",
	"search.elasticsearch.username":  "ELASTICSEARCH_USERNAME",
	"search.elasticsearch.password":  "ELASTICSEARCH_PASSWORD",
	"log.level":                      "LOG_LEVEL",
	"log.format":                     "LOG_FORMAT",
}

// Load loads configuration from .env, an optional config file and the environment
func Load(configPath string) (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", ModeFull)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.metrics_key", "")

	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.deployment", "gpt-4")
	v.SetDefault("llm.api_version", "2024-02-01")
	v.SetDefault("llm.api_key", "")

	v.SetDefault("search.backend", BackendAzure)
	v.SetDefault("search.endpoint", "")
	v.SetDefault("search.index", "redlist-index")
	v.SetDefault("search.key", "")
	v.SetDefault("search.top_k", 3)
	v.SetDefault("search.elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("search.elasticsearch.username", "")
	v.SetDefault("search.elasticsearch.password", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that the selected mode has what it needs to start.
// Full mode fails fast on missing upstream endpoints instead of degrading at request time.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}

	switch c.Server.Mode {
	case ModeStatic:
		return nil
	case ModeFull:
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}

	if c.LLM.Endpoint == "" {
		return errors.New("AZURE_OPENAI_ENDPOINT is required in full mode")
	}
	if c.LLM.Deployment == "" {
		return errors.New("AZURE_OPENAI_DEPLOYMENT must not be empty")
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("invalid search top_k %d", c.Search.TopK)
	}

	switch c.Search.Backend {
	case BackendAzure:
		if c.Search.Endpoint == "" {
			return errors.New("AZURE_SEARCH_ENDPOINT is required in full mode")
		}
		if c.Search.Index == "" {
			return errors.New("AZURE_SEARCH_INDEX must not be empty")
		}
	case BackendElasticsearch:
		if len(c.Search.Elasticsearch.Addresses) == 0 {
			return errors.New("ELASTICSEARCH_ADDRESSES is required for the elasticsearch backend")
		}
		if c.Search.Index == "" {
			return errors.New("AZURE_SEARCH_INDEX must not be empty")
		}
	default:
		return fmt.Errorf("unknown search backend %q", c.Search.Backend)
	}

	return nil
}

// IsFull reports whether the chat API is served
func (c *Config) IsFull() bool {
	return c.Server.Mode == ModeFull
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
