package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "DIARIFY_"

// envFile is loaded into the environment before it is read. Variables that
// are already set win over the file.
var envFile = ".env"

// parseEnv overlays config with DIARIFY_* environment variables, after
// loading envFile if it exists. Malformed numbers and durations panic, like
// malformed flags.
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString(&config.HTTPAddr, "HTTP_ADDR")
	envString(&config.HealthAddr, "HEALTH_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	envInt(&config.BcryptCost, "BCRYPT_COST")
	envString(&config.RedisAddr, "REDIS_ADDR")
	envString(&config.RedisPassword, "REDIS_PASSWORD")
	envInt(&config.RedisDB, "REDIS_DB")
	envString(&config.MediaBackend, "MEDIA_BACKEND")
	envString(&config.MediaDir, "MEDIA_DIR")
	envString(&config.S3AccessKey, "S3_ACCESS_KEY")
	envString(&config.S3SecretKey, "S3_SECRET_KEY")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_ENDPOINT")
	envString(&config.LogLevel, "LOG_LEVEL")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
	}
	*dst = n
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
	}
	*dst = d
}
