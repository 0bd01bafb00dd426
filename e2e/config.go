package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// NOTIFY_HTTP_ADDR is the base URL of a running notify server, e.g. http://localhost:6687
	HTTPAddr string `envconfig:"NOTIFY_HTTP_ADDR"`
	// NOTIFY_GRPC_ADDR is the gRPC address of the same server, e.g. localhost:6688
	GRPCAddr string `envconfig:"NOTIFY_GRPC_ADDR"`
	// DATABASE_URL reaches the database the server listens on
	DatabaseURL string `envconfig:"DATABASE_URL"`
	JWTSecret   string `envconfig:"JWT_SECRET"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
