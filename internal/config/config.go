package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override the config file,
// e.g. DATING_DATABASE__HOST overrides database.host.
const EnvPrefix = "DATING_"

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Storage  StorageConfig  `yaml:"storage" koanf:"storage"`
	Database DatabaseConfig `yaml:"database" koanf:"database"`
	AWS      AWSConfig      `yaml:"aws" koanf:"aws"`
	JWT      JWTConfig      `yaml:"jwt" koanf:"jwt"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port" koanf:"port" validate:"required,min=1,max=65535"`
	Host string `yaml:"host" koanf:"host"`
}

// StorageConfig selects the store backing the repository. SeedFile is only
// read by the memory driver, which otherwise starts empty.
type StorageConfig struct {
	Driver   string `yaml:"driver" koanf:"driver" validate:"required,oneof=postgres memory"`
	SeedFile string `yaml:"seed_file" koanf:"seed_file"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `yaml:"host" koanf:"host" validate:"required_if=Enabled true"`
	Port            int           `yaml:"port" koanf:"port"`
	User            string        `yaml:"user" koanf:"user"`
	Password        string        `yaml:"password" koanf:"password"`
	DBName          string        `yaml:"dbname" koanf:"dbname"`
	SSLMode         string        `yaml:"sslmode" koanf:"sslmode"`
	MaxConns        int32         `yaml:"max_conns" koanf:"max_conns" validate:"gte=0"`
	MinConns        int32         `yaml:"min_conns" koanf:"min_conns" validate:"gte=0"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" koanf:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" koanf:"max_conn_idle_time"`

	// Enabled is derived from the storage driver.
	Enabled bool `yaml:"-" koanf:"-"`
}

// AWSConfig holds the photo bucket configuration. Leaving S3Bucket empty
// serves photo URLs as stored.
type AWSConfig struct {
	Region        string        `yaml:"region" koanf:"region" validate:"required_with=S3Bucket"`
	S3Bucket      string        `yaml:"s3_bucket" koanf:"s3_bucket"`
	AccessKey     string        `yaml:"access_key" koanf:"access_key"`
	SecretKey     string        `yaml:"secret_key" koanf:"secret_key" validate:"required_with=AccessKey"`
	Endpoint      string        `yaml:"endpoint" koanf:"endpoint" validate:"omitempty,url"`
	PresignExpiry time.Duration `yaml:"presign_expiry" koanf:"presign_expiry"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `yaml:"secret" koanf:"secret" validate:"required,min=16"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level" koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Load reads configuration from a YAML file, applies DATING_ environment
// overrides and validates the result. A missing file is not an error when
// the environment supplies the configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 8080},
		Storage: StorageConfig{Driver: DriverPostgres},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		AWS: AWSConfig{PresignExpiry: 15 * time.Minute},
		Log: LogConfig{Level: "info"},
	}
}

// applyEnv overlays DATING_ variables. Double underscores separate nesting
// levels so that keys such as s3_bucket keep their single underscores.
func applyEnv(cfg *Config) error {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("failed to apply environment: %w", err)
	}
	return nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	c.Database.Enabled = c.Storage.Driver == DriverPostgres
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
