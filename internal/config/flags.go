package config

import (
	"flag"
	"os"

	"budgetweb/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port to serve pages on
//	-b string   backend base URL
//	-n string   backend session cookie name
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to serve pages on")
	fs.StringVar(&cfg.BackendBaseURL, "b", cfg.BackendBaseURL, "backend base URL")
	fs.StringVar(&cfg.SessionCookieName, "n", cfg.SessionCookieName, "backend session cookie name")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
