// Package config provides configuration parsing and validation for the
// alert-engine and alert-api binaries.
package config

import (
	"fmt"
	"time"
)

// EngineConfig holds all configuration parameters for the alert engine.
type EngineConfig struct {
	RedisAddr    string
	EventsKey    string
	PostgresDSN  string
	KafkaBrokers string // empty disables alert.created fan-out
	AlertsTopic  string
	PollInterval time.Duration
}

// Validate checks that all required configuration fields are set and have
// valid values. Returns an error if validation fails, nil otherwise.
func (c *EngineConfig) Validate() error {
	if c.RedisAddr == "" {
		return fmt.Errorf("redis-addr cannot be empty")
	}
	if c.EventsKey == "" {
		return fmt.Errorf("events-key cannot be empty")
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres-dsn cannot be empty")
	}
	if c.KafkaBrokers != "" && c.AlertsTopic == "" {
		return fmt.Errorf("alerts-topic cannot be empty when kafka-brokers is set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive")
	}
	return nil
}

// APIConfig holds all configuration parameters for the alerts read API.
type APIConfig struct {
	HTTPPort    string
	PostgresDSN string
	RedisAddr   string // empty disables metrics reporting
}

// Validate checks that all required configuration fields are set.
func (c *APIConfig) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("http-port cannot be empty")
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres-dsn cannot be empty")
	}
	return nil
}
