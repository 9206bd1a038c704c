package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV"`
	Port         int    `envconfig:"PORT" default:"8080"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"*"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	// RateLimit is the number of requests per second allowed per client.
	// Zero disables the limiter.
	RateLimit float64 `envconfig:"RATE_LIMIT" default:"20"`

	DB struct {
		Driver      string `envconfig:"DB_DRIVER" default:"postgres"`
		Client      string `envconfig:"DB_CLIENT" default:"pgx"`
		Name        string `envconfig:"DB_NAME"`
		Host        string `envconfig:"DB_HOST"`
		Port        int    `envconfig:"DB_PORT" default:"5432"`
		User        string `envconfig:"DB_USER"`
		Pass        string `envconfig:"DB_PASS"`
		EnableSSL   bool   `envconfig:"ENABLE_SSL"`
		Path        string `envconfig:"DB_PATH" default:"contacts.db"`
		AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE"`
	}
	DynamoDB struct {
		Region        string `envconfig:"DDB_REGION"`
		Endpoint      string `envconfig:"DDB_ENDPOINT"`
		AccessKey     string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey     string `envconfig:"DDB_SECRET_KEY"`
		SessionToken  string `envconfig:"DDB_SESSION_TOKEN"`
		ContactsTable string `envconfig:"DDB_CONTACTS_TABLE" default:"contacts"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}
