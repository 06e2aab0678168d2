package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080/", c.APIBaseURL)
	assert.Empty(t, c.MediaBaseURL)
	assert.Equal(t, "127.0.0.1:50051", c.HealthAddr)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "diarify.db", c.StorePath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8080/", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url":    "http://json:1/",
		"health_addr":     "json:2",
		"request_timeout": "5s",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag:1/"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://flag:1/", cfg.APIBaseURL)
	assert.Equal(t, "json:2", cfg.HealthAddr)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero interval", func(c *Config) { c.OnlineCheckInterval = 0 }, "online check interval must be positive"},
		{"negative interval", func(c *Config) { c.OnlineCheckInterval = -time.Second }, "online check interval must be positive"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "request timeout must be positive"},
		{"no api url", func(c *Config) { c.APIBaseURL = "" }, "api base url must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadConfig_RejectsZeroInterval(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-i", "0"}

	cfg, err := LoadConfig()

	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "online check interval must be positive")
}
