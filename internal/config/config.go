// Package config handles configuration for the web client, including
// defaults, JSON overlay, environment variables (with optional .env file),
// and command-line flags.
package config

import "time"

// Config holds runtime settings for the budgetweb server.
//
// Fields:
//   - ListenAddr: bind address for the HTTP server.
//   - BackendBaseURL: base URL of the budgeting backend REST API.
//   - SessionCookieName: name of the backend's session cookie; the value is
//     opaque to this client and forwarded on every authenticated request.
//   - ReadTimeout / WriteTimeout: HTTP server timeouts for our own pages.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	ListenAddr        string
	BackendBaseURL    string
	SessionCookieName string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.BackendBaseURL = "http://127.0.0.1:5000"
	c.SessionCookieName = "sessionid"
	c.ReadTimeout = 10 * time.Second
	c.WriteTimeout = 30 * time.Second
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
