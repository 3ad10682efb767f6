package config

import (
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/book-exchange/pkg/auth"
	"github.com/Astemirdum/book-exchange/pkg/kafka"
	"github.com/Astemirdum/book-exchange/pkg/logger"
	"github.com/Astemirdum/book-exchange/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"PROVIDER_HTTP_HOST"`
	Port         string        `yaml:"port" envconfig:"PROVIDER_HTTP_PORT" default:"8090"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

type Config struct {
	Server   HTTPServer          `yaml:"server"`
	Kafka    kafka.Config        `yaml:"kafka"`
	Breaker  kafka.BreakerConfig `yaml:"breaker"`
	Database postgres.DB         `yaml:"db"`
	Auth     auth.Config         `yaml:"auth"`
	Log      logger.Log          `yaml:"log"`
	HashCost int                 `yaml:"hashCost" envconfig:"PASSWORD_HASH_COST" default:"10"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
