package config

import (
	"fmt"
	"os"
)

// Config holds everything the server needs from the environment.
type Config struct {
	SecretKey string // signs session cookies and API tokens
	DBPath    string // SQLite database file path
	UploadDir string // where uploaded avatars land
	Port      string
}

func Load() (*Config, error) {
	cfg := &Config{
		SecretKey: os.Getenv("SECRET_KEY"),
		DBPath:    getEnv("DB_PATH", "app.db"),
		UploadDir: getEnv("UPLOAD_DIR", "static/user_avatars"),
		Port:      getEnv("PORT", "8080"),
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY environment variable is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
