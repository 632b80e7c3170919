// Package config loads runtime settings from configs/config.yml, an optional
// .env file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Port       string           `mapstructure:"port"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Completion CompletionConfig `mapstructure:"completion"`
	Tutor      TutorConfig      `mapstructure:"tutor"`
	Admin      AdminConfig      `mapstructure:"admin"`
	HTTP       HTTPConfig       `mapstructure:"http"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // console | json
}

type DBConfig struct {
	Driver        string `mapstructure:"driver"` // sqlite | mongo
	Path          string `mapstructure:"path"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type CompletionConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryBase  time.Duration `mapstructure:"retry_base"`
}

type TutorConfig struct {
	Name          string `mapstructure:"name"`
	KnowledgeFile string `mapstructure:"knowledge_file"`
}

type AdminConfig struct {
	// SeedKey guards POST /api/admin/seed; empty leaves the route open.
	SeedKey string `mapstructure:"seed_key"`
}

type HTTPConfig struct {
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// flat variable names the service has always been deployed with
var legacyEnv = map[string]string{
	"port":               "PORT",
	"auth.jwt_secret":    "JWT_SECRET",
	"completion.api_key": "GEMINI_API_KEY",
	"db.mongo_uri":       "MONGODB_URI",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "ecostudy.db")
	v.SetDefault("db.mongo_uri", "")
	v.SetDefault("db.mongo_database", "ecostudy")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.model", "gemini-flash-latest")
	v.SetDefault("completion.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("completion.timeout", 30*time.Second)
	v.SetDefault("completion.max_retries", 0)
	v.SetDefault("completion.retry_base", 500*time.Millisecond)
	v.SetDefault("tutor.name", "EcoStudy AI")
	v.SetDefault("tutor.knowledge_file", "")
	v.SetDefault("admin.seed_key", "")
	v.SetDefault("http.cors_origins", []string{"*"})
}

// Load reads the config file at path, or configs/config.yml when path is
// empty. A missing default file is not an error; a missing explicit one is.
// The result is not validated; see Validate and ValidateDB.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if err := c.ValidateDB(); err != nil {
		return err
	}
	if c.Completion.Timeout <= 0 {
		return errors.New("completion.timeout must be positive")
	}
	if c.Completion.MaxRetries < 0 {
		return errors.New("completion.max_retries must not be negative")
	}
	return nil
}

// ValidateDB checks only the storage settings, for commands that never
// serve HTTP.
func (c *Config) ValidateDB() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.New("db.path must be set for the sqlite driver")
		}
	case DriverMongo:
		if c.DB.MongoURI == "" {
			return errors.New("db.mongo_uri (MONGODB_URI) must be set for the mongo driver")
		}
		if c.DB.MongoDatabase == "" {
			return errors.New("db.mongo_database must be set for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown db.driver %q; use %s or %s", c.DB.Driver, DriverSQLite, DriverMongo)
	}
	return nil
}
