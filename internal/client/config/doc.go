// Package config loads runtime configuration for the Messagely CLI.
//
// Sources, later wins:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the server HTTP API
//	-f string   path of the local sqlite cache
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// The JSON file uses timex.Duration, so durations may be "10s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "cache_path": "messagely.db",
//	  "timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
