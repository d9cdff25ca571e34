package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Vertex   VertexConfig   `mapstructure:"vertex"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
	LogLevel string         `mapstructure:"log_level"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type LLMConfig struct {
	Provider       string        `mapstructure:"provider"`
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	ImageModel     string        `mapstructure:"image_model"`
	Temperature    float64       `mapstructure:"temperature"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type VertexConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	Location        string `mapstructure:"location"`
	Model           string `mapstructure:"model"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type RedisConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

type MongoConfig struct {
	URI              string        `mapstructure:"uri"`
	DB               string        `mapstructure:"db"`
	CompletionLogTTL time.Duration `mapstructure:"completion_log_ttl"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type WeatherConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type SweepConfig struct {
	Schedule string        `mapstructure:"schedule"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string][]string{
	"server.port":                 {"PORT"},
	"server.mode":                 {"GIN_MODE"},
	"database.url":                {"DATABASE_URL", "POSTGRES_URI"},
	"database.max_idle_conns":     {"DB_MAX_IDLE_CONNS"},
	"database.max_open_conns":     {"DB_MAX_OPEN_CONNS"},
	"database.conn_max_lifetime":  {"DB_CONN_MAX_LIFETIME"},
	"database.conn_max_idle_time": {"DB_CONN_MAX_IDLE_TIME"},
	"llm.provider":                {"LLM_PROVIDER"},
	"llm.api_key":                 {"OPENAI_API_KEY"},
	"llm.base_url":                {"OPENAI_BASE_URL"},
	"llm.model":                   {"LLM_MODEL"},
	"llm.embedding_model":         {"LLM_EMBEDDING_MODEL"},
	"llm.image_model":             {"LLM_IMAGE_MODEL"},
	"llm.temperature":             {"LLM_TEMPERATURE"},
	"llm.timeout":                 {"LLM_TIMEOUT"},
	"vertex.project_id":           {"VERTEX_PROJECT_ID"},
	"vertex.location":             {"VERTEX_LOCATION"},
	"vertex.model":                {"VERTEX_MODEL"},
	"vertex.credentials_file":     {"GOOGLE_APPLICATION_CREDENTIALS"},
	"redis.addr":                  {"REDIS_ADDR", "REDIS_URI", "REDIS_URL"},
	"redis.prefix":                {"REDIS_PREFIX"},
	"mongo.uri":                   {"MONGO_URI"},
	"mongo.db":                    {"MONGO_DB"},
	"mongo.completion_log_ttl":    {"COMPLETION_LOG_TTL"},
	"auth.jwt_secret":             {"AUTH_JWT_SECRET"},
	"weather.cache_ttl":           {"WEATHER_CACHE_TTL"},
	"sweep.schedule":              {"SWEEP_SCHEDULE"},
	"sweep.timeout":               {"SWEEP_TIMEOUT"},
	"log_level":                   {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.embedding_model", "")
	v.SetDefault("llm.image_model", "")
	v.SetDefault("llm.temperature", 1.0)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("vertex.project_id", "")
	v.SetDefault("vertex.location", "us-central1")
	v.SetDefault("vertex.model", "gemini-1.5-flash")
	v.SetDefault("vertex.credentials_file", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.prefix", "prompt-svc:")
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.db", "prompt_svc")
	v.SetDefault("mongo.completion_log_ttl", 30*24*time.Hour)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("weather.cache_ttl", 30*time.Minute)
	v.SetDefault("sweep.schedule", "")
	v.SetDefault("sweep.timeout", time.Minute)
	v.SetDefault("log_level", "info")
}

// Load reads the configuration from the environment. Call godotenv.Load
// first so a local .env file is honoured.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	return &cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is not set"))
		}
	case ProviderVertex:
		if c.Vertex.ProjectID == "" {
			errs = append(errs, errors.New("VERTEX_PROJECT_ID is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER %q is not one of openai, vertex", c.LLM.Provider))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("LLM_TEMPERATURE %v is outside [0, 2]", c.LLM.Temperature))
	}
	return errors.Join(errs...)
}
