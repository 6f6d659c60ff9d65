package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort        string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis             Redis     `yaml:"redis"`
	SQLiteStoragePath string    `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"tablebase.db"`
	Solver            Solver    `yaml:"solver"`
	TableBase         TableBase `yaml:"tablebase"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL     time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

type Solver struct {
	Variant    string `yaml:"variant" env:"SOLVER_VARIANT" env-default:"pruned"`
	Parallel   bool   `yaml:"parallel" env:"SOLVER_PARALLEL" env-default:"false"`
	FirstMark  uint8  `yaml:"first-mark" env:"SOLVER_FIRST_MARK" env-default:"1"`
	SecondMark uint8  `yaml:"second-mark" env:"SOLVER_SECOND_MARK" env-default:"2"`
}

type TableBase struct {
	BuildOnStart bool `yaml:"build-on-start" env:"TABLEBASE_BUILD_ON_START" env-default:"true"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads the file at path and applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
