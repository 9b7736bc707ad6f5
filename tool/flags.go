package tool

import (
	"flag"

	"github.com/nulltale/nulltale-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseBackendURL, "useBackendUrl", "", "override backend base URL")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override local API port")
	flag.BoolVar(&cfg.SkipNotifyWS, "skipNotifyWS", false, "disable the WebSocket notify hub")
	flag.Parse()
	return cfg
}
