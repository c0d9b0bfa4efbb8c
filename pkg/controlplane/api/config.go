package api

import "time"

// Config configures the Admin API HTTP server.
type Config struct {
	// Port is the HTTP port to listen on. The serve command starts the
	// Admin API only when Port is positive; NewServer does not check it.
	Port int

	// TokenTTL is the lifetime assigned to newly issued bearer tokens.
	TokenTTL time.Duration

	// ReadTimeout, WriteTimeout, IdleTimeout bound the underlying
	// http.Server.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DecoderAvailable      bool
	RedactionMode         string
	RetentionDBDays       int
	RetentionJSONLDays    int
	RetentionSweepSeconds int
}

// applyDefaults fills in zero values with sensible defaults.
func (c *Config) applyDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 86400 * time.Second
	}
}
