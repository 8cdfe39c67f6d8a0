package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the Messagely CLI.
type Config struct {
	ServerURL           string
	CachePath           string
	Timeout             time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.CachePath = "messagely.db"
	c.Timeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig applies defaults, then the JSON file, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
