package main

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	DatabaseURL          string        `env:"DATABASE_URL,required=true" validate:"required"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Host                 string        `env:"HOST,default=0.0.0.0"`
	HTTPPort             int           `env:"HTTP_PORT,default=6687" validate:"gt=0,lt=65536"`
	GRPCPort             int           `env:"GRPC_PORT,default=6688" validate:"gt=0,lt=65536,nefield=HTTPPort"`
	JWTSecret            string        `env:"JWT_SECRET,required=true" validate:"min=32"`
	ChannelCapacity      int           `env:"CHANNEL_CAPACITY,default=256" validate:"gt=0"`
	HeartbeatInterval    time.Duration `env:"HEARTBEAT_INTERVAL,default=1s" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	StatsInterval        time.Duration `env:"STATS_INTERVAL,default=15s" validate:"gt=0"`
	ListenerMinReconnect time.Duration `env:"LISTENER_MIN_RECONNECT,default=10s" validate:"gt=0"`
	ListenerMaxReconnect time.Duration `env:"LISTENER_MAX_RECONNECT,default=1m" validate:"gtefield=ListenerMinReconnect"`
	RunMigrations        bool          `env:"RUN_MIGRATIONS,default=false"`
	ConnectRate          float64       `env:"CONNECT_RATE,default=1" validate:"gt=0"`
	ConnectBurst         int           `env:"CONNECT_BURST,default=10" validate:"gt=0"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
}

func (c Config) Validate() error {
	return validator.New().Struct(c)
}
