package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	Port     string  `env:"PORT" envDefault:"8080"`
	LogLevel int     `env:"LOG_LEVEL" envDefault:"0"`
	Mongo    Mongo   `envPrefix:"MONGO_"`
	JWT      JWT     `envPrefix:"JWT_"`
	SMTP     SMTP    `envPrefix:"SMTP_"`
	Suggest  Suggest `envPrefix:"SUGGEST_"`
}

// Mongo contains database connection parameters.
type Mongo struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DB" envDefault:"askme"`
}

// JWT contains session token parameters.
type JWT struct {
	Secret string `env:"SECRET" envDefault:"devsecret"`
}

// SMTP contains mail dispatch parameters. Addr is host:port.
type SMTP struct {
	Addr     string `env:"SERVER"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// Suggest contains parameters for the icebreaker-suggestion upstream.
type Suggest struct {
	URL string `env:"URL" envDefault:"https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.2"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
