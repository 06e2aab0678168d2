package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/diarify/internal/flagx"
	"github.com/dmitrijs2005/diarify/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration, so they may be strings like "3s" or nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	MediaBaseURL        string         `json:"media_base_url"`
	HealthAddr          string         `json:"health_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	StorePath           string         `json:"store_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with the fields present in the JSON file named
// by -c or -config. Absent fields keep their previous values. Read and
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.MediaBaseURL, jc.MediaBaseURL)
	setString(&cfg.HealthAddr, jc.HealthAddr)
	setString(&cfg.StorePath, jc.StorePath)
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
