package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nulltale/nulltale-go/api"
	"github.com/nulltale/nulltale-go/gateway"
	"github.com/nulltale/nulltale-go/refresh"
	"github.com/nulltale/nulltale-go/tool"
	"github.com/nulltale/nulltale-go/upload"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if cfg.UseBackendURL != "" {
		appCfg.BackendURL = cfg.UseBackendURL
	}
	if cfg.UsePort > 0 {
		appCfg.Port = cfg.UsePort
	}
	if cfg.SkipNotifyWS {
		appCfg.NotifyWS = false
	}
	tool.CurrentConfig = appCfg

	// initialize logger
	tool.InitLogger()
	if cfg.Log == "" {
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	} else {
		switch strings.ToLower(cfg.Log) {
		case "dev":
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		case "prod":
			tool.DefaultLogger.SetLevel(log.InfoLevel)
		case "none":
			tool.DefaultLogger.SetLevel(log.FatalLevel)
		default:
			tool.DefaultLogger.Warnf("Unknown log mode %q, using debug level", cfg.Log)
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		}
	}

	gw := gateway.NewClient(appCfg.BackendURL)
	uploadCoordinator := upload.NewCoordinator(gw)
	refreshCoordinator := refresh.NewCoordinator(gw)
	refreshCoordinator.SetTiming(
		time.Duration(appCfg.RefreshTickMs)*time.Millisecond,
		time.Duration(appCfg.RefreshLingerMs)*time.Millisecond,
	)

	tool.DefaultLogger.Infof("Backend: %s", appCfg.BackendURL)

	apiServer := api.NewServer(appCfg.Port, appCfg.NotifyWS, gw, uploadCoordinator, refreshCoordinator)
	if err := apiServer.Start(); err != nil {
		tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
	}
}
