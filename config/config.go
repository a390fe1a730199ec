package config

import (
	"os"
)

// Config carries everything read from the environment at startup. It is
// built once in main and handed to the components that need it.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	RedisAddr string
	JWTSecret []byte
}

func Load() Config {
	cfg := Config{
		Port:      getenv("PORT", ":8080"),
		MongoURI:  getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getenv("MONGO_DB", "storefront"),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: []byte(getenv("JWT_SECRET", "dev_only_secret")),
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
