package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"library_api/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults applied when neither config.yml nor the environment set a key.
const (
	defaultPort       = "4000"
	defaultTokenTTL   = 24 * time.Hour
	defaultBcryptCost = 10
	defaultLogLevel   = logger.InfoLevel
)

var (
	ErrMissingDatabaseURI = errors.New("database uri is not configured (DATABASE_URI)")
	ErrMissingJWTSecret   = errors.New("jwt secret is not configured (JWT_SECRET)")
)

// Config is read once at startup and handed to constructors.
type Config struct {
	Port        string
	DatabaseURI string
	JWTSecret   string
	TokenTTL    time.Duration
	BcryptCost  int
	LogLevel    string
}

// envBindings maps viper keys to the environment variables that override them.
var envBindings = map[string]string{
	"port":        "PORT",
	"db.uri":      "DATABASE_URI",
	"jwt.secret":  "JWT_SECRET",
	"jwt.ttl":     "JWT_TTL",
	"bcrypt.cost": "BCRYPT_COST",
	"log.level":   "LOG_LEVEL",
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configs/config.yml (optional) under configPath and applies
// environment overrides. A missing database uri or secret is an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetDefault("port", defaultPort)
	v.SetDefault("jwt.ttl", defaultTokenTTL)
	v.SetDefault("bcrypt.cost", defaultBcryptCost)
	v.SetDefault("log.level", defaultLogLevel)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetString("port"),
		DatabaseURI: strings.TrimSpace(v.GetString("db.uri")),
		JWTSecret:   v.GetString("jwt.secret"),
		TokenTTL:    v.GetDuration("jwt.ttl"),
		BcryptCost:  v.GetInt("bcrypt.cost"),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the startup-fatal conditions.
func (c *Config) Validate() error {
	if c.DatabaseURI == "" {
		return ErrMissingDatabaseURI
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive, got %s", c.TokenTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt.cost must be within [4, 31], got %d", c.BcryptCost)
	}
	return logger.ValidateLevel(c.LogLevel)
}
