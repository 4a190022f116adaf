package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/libhub/library-service/internal/server"
	"github.com/libhub/library-service/internal/service"
	"github.com/libhub/library-service/pkg/auth"
	"github.com/libhub/library-service/pkg/kafka"
	"github.com/libhub/library-service/pkg/logger"
	"github.com/libhub/library-service/pkg/postgres"
)

type Config struct {
	Server   server.Config
	Database postgres.Config
	Kafka    kafka.Config
	Auth     auth.Config
	Fine     service.FinePolicy
	Log      logger.Log
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	safe := cfg
	safe.Auth.Secret = "***"
	safe.Database.Password = "***"
	jscfg, _ := json.MarshalIndent(safe, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}
