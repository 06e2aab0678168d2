package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/diarify/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST API base URL
//	-m string   media base URL
//	-g string   address and port of the gRPC health endpoint
//	-i int      online check interval in seconds
//	-f string   path of the local SQLite store
//	-t int      request timeout in seconds
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// layers (-c/-config) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-g", "-i", "-f", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "REST API base URL")
	fs.StringVar(&cfg.MediaBaseURL, "m", cfg.MediaBaseURL, "media base URL (defaults to the API base URL)")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "address and port of the health endpoint")
	fs.StringVar(&cfg.StorePath, "f", cfg.StorePath, "local store file")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
