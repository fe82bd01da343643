package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDoctorsURL is the static endpoint serving the doctor listing.
const DefaultDoctorsURL = "https://srijandubey.github.io/campus-api-mock/SRM-C1-25.json"

// ConfigFileEnv names the environment variable pointing at an optional YAML file.
const ConfigFileEnv = "DOCTOR_DIRECTORY_CONFIG"

// Config holds all application configuration
type Config struct {
	Env        string           `yaml:"env"`
	Server     ServerConfig     `yaml:"server"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Redis      RedisConfig      `yaml:"redis"`
	Cache      CacheConfig      `yaml:"cache"`
	CORS       CORSConfig       `yaml:"cors"`
	OTEL       OTELConfig       `yaml:"otel"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DataSourceConfig describes where the doctor listing is fetched from
type DataSourceConfig struct {
	URL          string        `yaml:"url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig controls HTTP response caching
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// CORSConfig lists the origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	Endpoint       string `yaml:"endpoint"`
	Enabled        bool   `yaml:"enabled"`
}

// Defaults returns the built-in configuration used when neither a config
// file nor the environment provides a value.
func Defaults() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DataSource: DataSourceConfig{
			URL:          DefaultDoctorsURL,
			FetchTimeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    6379,
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		OTEL: OTELConfig{
			ServiceName:    "doctor-directory",
			ServiceVersion: "1.0.0",
		},
	}
}

// Load loads configuration from environment variables. When
// DOCTOR_DIRECTORY_CONFIG names a YAML file its values replace the built-in
// defaults; environment variables still take precedence over the file.
func Load() (*Config, error) {
	base := Defaults()
	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := loadFile(path, base); err != nil {
			return nil, err
		}
	}

	return &Config{
		Env: getEnv("APP_ENV", base.Env),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", base.Server.Host),
			Port: getEnvAsInt("SERVER_PORT", base.Server.Port),
		},
		DataSource: DataSourceConfig{
			URL:          getEnv("DOCTORS_URL", base.DataSource.URL),
			FetchTimeout: getEnvAsDuration("DOCTORS_FETCH_TIMEOUT", base.DataSource.FetchTimeout),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", base.Redis.Enabled),
			Host:     getEnv("REDIS_HOST", base.Redis.Host),
			Port:     getEnvAsInt("REDIS_PORT", base.Redis.Port),
			Password: getEnv("REDIS_PASSWORD", base.Redis.Password),
			DB:       getEnvAsInt("REDIS_DB", base.Redis.DB),
		},
		Cache: CacheConfig{
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", base.Cache.TTLSeconds),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", base.CORS.AllowedOrigins),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", base.OTEL.ServiceName),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", base.OTEL.ServiceVersion),
			Endpoint:       getEnv("OTEL_ENDPOINT", base.OTEL.Endpoint),
			Enabled:        getEnvAsBool("OTEL_ENABLED", base.OTEL.Enabled),
		},
	}, nil
}

// ServerAddr returns the listen address
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadFile(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
