package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Biller struct {
	Name          string `toml:"name"`
	ABN           string `toml:"abn"`
	ACN           string `toml:"acn"`
	Address       string `toml:"address"`
	Phone         string `toml:"phone"`
	BSB           string `toml:"bsb"`
	AccountNumber string `toml:"account_number"`
}

type Config struct {
	DatabaseURL   string `toml:"database_url"`
	StoreDriver   string `toml:"store_driver"` // postgres or memory
	JWTSecret     string `toml:"jwt_secret"`
	ServerPort    string `toml:"server_port"`
	AdminEmail    string `toml:"admin_email"`
	AdminPassword string `toml:"admin_password"`
	PushEndpoint  string `toml:"push_endpoint"` // empty disables push, notifications are logged
	Biller        Biller `toml:"biller"`

	JWTExpiration time.Duration `toml:"-"`
}

// Load builds the configuration from defaults, an optional TOML file
// named by IRONCRAFT_CONFIG, and environment variables, in that order of
// precedence (env wins).
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   "postgresql://postgres@localhost:5432/ironcraft",
		StoreDriver:   "postgres",
		JWTSecret:     "your-super-secret-key-change-in-production",
		ServerPort:    "8080",
		AdminEmail:    "admin@ironcraft.local",
		AdminPassword: "admin",
		JWTExpiration: 24 * time.Hour,
	}

	if path := os.Getenv("IRONCRAFT_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.StoreDriver = getEnv("STORE_DRIVER", cfg.StoreDriver)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", cfg.AdminEmail)
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.PushEndpoint = getEnv("PUSH_ENDPOINT", cfg.PushEndpoint)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
