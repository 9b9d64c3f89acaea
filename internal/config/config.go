package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	Storage   StorageConfig   `yaml:"storage"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type StorageConfig struct {
	// Driver selects the persistence adapter: file, postgres or memory.
	Driver      string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	Dir         string `yaml:"dir" env:"STORAGE_DIR" env-default:"./data"`
	DatabaseUrl string `yaml:"database_url" env:"DATABASE_URL"`
}

type AnalyticsConfig struct {
	// Seed pins the synthetic metric generator; 0 means time-seeded.
	Seed    int64 `yaml:"seed" env:"ANALYTICS_SEED" env-default:"0"`
	Workers int   `yaml:"workers" env:"ANALYTICS_WORKERS" env-default:"4"`
}

func MustLoad() *Config {
	path := fetchConfigPath()

	var config Config
	if path == "" {
		if err := cleanenv.ReadEnv(&config); err != nil {
			panic(err)
		}
		return &config
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("Config file not found in path")
	}

	if err := cleanenv.ReadConfig(path, &config); err != nil {
		panic(err)
	}
	return &config
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "config path")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
