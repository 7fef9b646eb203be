package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	MongoURI  string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/gatherly"`
	MongoDB   string `env:"MONGODB_DB" envDefault:"gatherly"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Debug     bool   `env:"DEBUG" envDefault:"false"`
	LogPath   string `env:"LOG_PATH" envDefault:"logs/"`
}

var App Config

// Load reads .env (if present) and the process environment into App.
func Load() (*Config, error) {
	_ = godotenv.Load()
	if err := env.Parse(&App); err != nil {
		return nil, err
	}
	return &App, nil
}
