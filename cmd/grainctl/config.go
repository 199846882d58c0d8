package main

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"io/fs"
	"os"
	"time"
)

const (
	envDatabasePath = "GRAINSTORE_DATABASE_PATH"
	envOpenTimeout  = "GRAINSTORE_OPEN_TIMEOUT"

	defaultDatabasePath = "grains.db"
	defaultOpenTimeout  = 5 * time.Second
)

type Config struct {
	DatabasePath string
	OpenTimeout  time.Duration
}

// LoadConfig reads settings from the environment after loading envFile, if
// it exists. Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("unable to load %s: %v", envFile, err)
		}
	}

	config := Config{
		DatabasePath: defaultDatabasePath,
		OpenTimeout:  defaultOpenTimeout,
	}

	if path := os.Getenv(envDatabasePath); path != "" {
		config.DatabasePath = path
	}

	if timeout := os.Getenv(envOpenTimeout); timeout != "" {
		if d, err := time.ParseDuration(timeout); err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %v", envOpenTimeout, timeout, err)
		} else {
			config.OpenTimeout = d
		}
	}

	return config, nil
}
