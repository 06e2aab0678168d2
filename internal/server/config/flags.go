package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/diarify/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string       REST bind address (e.g., ":8080")
//	-g string       gRPC health bind address (e.g., ":50051")
//	-d string       PostgreSQL DSN
//	-s string       JWT HMAC secret key
//	-t int          access token validity, minutes
//	-k int          bcrypt cost
//	-r string       Redis address
//	-b string       media backend: local or s3
//	-media string   local media directory
//	-u string       S3 access key
//	-p string       S3 secret key
//	-bucket string  S3 bucket name
//	-region string  S3 region
//	-e string       S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l string       log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-g", "-d", "-s", "-t", "-k", "-r", "-b", "-media", "-u", "-p", "-bucket", "-region", "-e", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the REST API")
	fs.StringVar(&config.HealthAddr, "g", config.HealthAddr, "address and port to run the health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.MediaBackend, "b", config.MediaBackend, "media backend (local|s3)")
	fs.StringVar(&config.MediaDir, "media", config.MediaDir, "local media directory")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
