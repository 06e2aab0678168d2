// Package config loads runtime configuration for the Diarify terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   REST API base URL
//	-m string   media base URL
//	-g string   address:port of the gRPC health endpoint
//	-i int      online status check interval (seconds)
//	-f string   local store file
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8080/",
//	  "media_base_url": "http://localhost:8080/",
//	  "health_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "store_path": "diarify.db",
//	  "request_timeout": "15s"
//	}
package config
