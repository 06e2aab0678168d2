package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the Diarify terminal client.
//
// Fields:
//   - APIBaseURL: root URL of the REST API, e.g. http://localhost:8080/.
//   - MediaBaseURL: root URL diary images are served from; empty means APIBaseURL.
//   - HealthAddr: host:port of the server's gRPC health endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - StorePath: SQLite file holding the credential and the session.
//   - RequestTimeout: upper bound for a single REST call.
type Config struct {
	APIBaseURL          string
	MediaBaseURL        string
	HealthAddr          string
	OnlineCheckInterval time.Duration
	StorePath           string
	RequestTimeout      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/"
	c.MediaBaseURL = ""
	c.HealthAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.StorePath = "diarify.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. The result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url must not be empty"))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, errors.New("online check interval must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	return errors.Join(errs...)
}
