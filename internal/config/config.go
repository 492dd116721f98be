package config

import (
	"fmt"
	"os"
	"strconv"

	"secret-recovery/internal/solver"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL      string
	Port             string
	BindAddrs        string
	PushoverAppToken string
	PushoverUserKey  string
	SolverMethod     solver.Method
	MaxThreshold     int
	Workers          int
}

const (
	defaultMaxThreshold = 256
	defaultWorkers      = 4
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Port:             os.Getenv("PORT"),
		BindAddrs:        os.Getenv("BIND_ADDRS"),
		PushoverAppToken: os.Getenv("PUSHOVER_APP_TOKEN"),
		PushoverUserKey:  os.Getenv("PUSHOVER_USER_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.BindAddrs == "" {
		cfg.BindAddrs = "0.0.0.0"
	}

	method, err := solver.ParseMethod(os.Getenv("SOLVER_METHOD"))
	if err != nil {
		return nil, err
	}
	cfg.SolverMethod = method

	if cfg.MaxThreshold, err = intEnv("MAX_THRESHOLD", defaultMaxThreshold); err != nil {
		return nil, err
	}
	if cfg.Workers, err = intEnv("WORKERS", defaultWorkers); err != nil {
		return nil, err
	}

	return cfg, nil
}

// intEnv reads a positive integer, falling back to def when unset
func intEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return n, nil
}
