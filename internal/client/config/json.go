package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/messagely/internal/flagx"
	"github.com/dmitrijs2005/messagely/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI config file.
type JsonConfig struct {
	ServerURL           *string         `json:"server_url"`
	CachePath           *string         `json:"cache_path"`
	Timeout             *timex.Duration `json:"timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// parseJson overlays values from the file named by -c/-config. It panics on
// an unreadable or malformed file.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.CachePath != nil {
		cfg.CachePath = *jc.CachePath
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
