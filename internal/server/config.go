package server

import (
	"fmt"
	"time"

	"github.com/zeusync/arena/internal/config"
)

// Config holds spectator feed settings.
type Config struct {
	ListenAddr string

	// WriteTimeout bounds a single frame write to one spectator.
	WriteTimeout time.Duration
	// SendBuffer is the number of frames queued per spectator before it is
	// considered too slow and dropped.
	SendBuffer int
	// MaxClients limits concurrent spectators; 0 means unlimited.
	MaxClients int
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:   "127.0.0.1:8090",
		WriteTimeout: 2 * time.Second,
		SendBuffer:   16,
		MaxClients:   64,
	}
}

// ConfigFrom applies the arena configuration on top of the defaults.
func ConfigFrom(c config.SpectatorConfig) Config {
	cfg := DefaultConfig()
	if c.Addr != "" {
		cfg.ListenAddr = c.Addr
	}
	return cfg
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: listen address is required", ErrInvalidConfig)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("%w: send buffer must be positive", ErrInvalidConfig)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("%w: write timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
