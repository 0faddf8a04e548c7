package config

import "errors"

var (
	// ErrInvalidConfig is returned when Validate rejects a loaded configuration.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading the config file or environment.
	ErrLoadConfig = errors.New("load config failed")
)
