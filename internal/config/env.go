package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables. A .env file in the
// working directory is loaded first if present (it never overrides variables
// already set in the real environment).
//
// Recognized variables:
//
//	ADDRESS              bind address, e.g. ":3000"
//	BACKEND_URL          backend base URL
//	SESSION_COOKIE_NAME  backend session cookie name
//	READ_TIMEOUT         Go duration string, e.g. "10s"
//	WRITE_TIMEOUT        Go duration string
//	SHUTDOWN_TIMEOUT     Go duration string
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ADDRESS"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.BackendBaseURL = v
	}
	if v := os.Getenv("SESSION_COOKIE_NAME"); v != "" {
		cfg.SessionCookieName = v
	}

	durations := map[string]*time.Duration{
		"READ_TIMEOUT":     &cfg.ReadTimeout,
		"WRITE_TIMEOUT":    &cfg.WriteTimeout,
		"SHUTDOWN_TIMEOUT": &cfg.ShutdownTimeout,
	}
	for name, target := range durations {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*target = d
	}
}
