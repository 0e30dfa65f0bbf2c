package config

import (
	"encoding/json"
	"os"

	"budgetweb/internal/flagx"
	"budgetweb/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "10s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type jsonConfig struct {
	ListenAddr        string         `json:"listen_addr"`
	BackendBaseURL    string         `json:"backend_base_url"`
	SessionCookieName string         `json:"session_cookie_name"`
	ReadTimeout       timex.Duration `json:"read_timeout"`
	WriteTimeout      timex.Duration `json:"write_timeout"`
	ShutdownTimeout   timex.Duration `json:"shutdown_timeout"`
}

// parseJSON overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. When no file is named, nothing happens. A file that
// cannot be read or parsed panics; configuration errors should stop startup.
// Zero-valued fields in the file leave the existing values alone.
func parseJSON(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ListenAddr != "" {
		cfg.ListenAddr = jc.ListenAddr
	}
	if jc.BackendBaseURL != "" {
		cfg.BackendBaseURL = jc.BackendBaseURL
	}
	if jc.SessionCookieName != "" {
		cfg.SessionCookieName = jc.SessionCookieName
	}
	if jc.ReadTimeout.Duration != 0 {
		cfg.ReadTimeout = jc.ReadTimeout.Duration
	}
	if jc.WriteTimeout.Duration != 0 {
		cfg.WriteTimeout = jc.WriteTimeout.Duration
	}
	if jc.ShutdownTimeout.Duration != 0 {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
}
