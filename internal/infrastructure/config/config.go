package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Detector  DetectorConfig
	Blocklist BlocklistConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=trust_core"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type DetectorConfig struct {
	Interval              time.Duration `env:"DETECTOR_INTERVAL,               default=5m"`
	Window                time.Duration `env:"DETECTOR_WINDOW,                 default=1h"`
	FetchBound            int64         `env:"DETECTOR_FETCH_BOUND,            default=1000"`
	FrequencyThreshold    int           `env:"DETECTOR_FREQUENCY_THRESHOLD,    default=50"`
	UnauthorizedThreshold int           `env:"DETECTOR_UNAUTHORIZED_THRESHOLD, default=10"`
}

type BlocklistConfig struct {
	RefreshInterval time.Duration `env:"BLOCKLIST_REFRESH_INTERVAL, default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
