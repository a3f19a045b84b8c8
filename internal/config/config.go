package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// minJWTSecretLen is the minimum secret length accepted for HS256.
// A shorter key weakens the HMAC below its intended margin, so startup
// fails instead of every request failing later.
const minJWTSecretLen = 32

var ErrWeakJWTSecret = errors.New("jwt secret must be at least 32 bytes")

type Config struct {
	App AppConfig
	DB  DBConfig
	JWT JWTConfig
}

type AppConfig struct {
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWTConfig struct {
	Secret       string
	ExpirationMS int64
}

// Expiration returns the configured token lifetime.
func (c JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationMS) * time.Millisecond
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Env vars alone are enough when no .env file is present. With
		// an explicit config file viper reports the miss as a plain
		// fs.ErrNotExist, not as ConfigFileNotFoundError.
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	cfg.App.Port = viper.GetString("APP_PORT")
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	cfg.DB.Host = viper.GetString("DB_HOST")
	cfg.DB.Port = viper.GetString("DB_PORT")
	cfg.DB.User = viper.GetString("DB_USER")
	cfg.DB.Password = viper.GetString("DB_PASSWORD")
	cfg.DB.Name = viper.GetString("DB_NAME")

	cfg.JWT.Secret = viper.GetString("JWT_SECRET")
	cfg.JWT.ExpirationMS = viper.GetInt64("JWT_EXPIRATION_MS")
	if cfg.JWT.ExpirationMS == 0 {
		cfg.JWT.ExpirationMS = (24 * time.Hour).Milliseconds()
	}

	if len(cfg.JWT.Secret) < minJWTSecretLen {
		return nil, ErrWeakJWTSecret
	}

	return &cfg, nil
}
