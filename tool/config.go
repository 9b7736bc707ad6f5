package tool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nulltale/nulltale-go/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		BackendURL:      "http://localhost:5000",
		WebURL:          "http://localhost:5173",
		Port:            53330,
		NotifyWS:        true,
		RefreshTickMs:   200,
		RefreshLingerMs: 1000,
	}
}

func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, create with default values
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	var configChanged bool
	if cfg.Port <= 0 {
		cfg.Port = defaultConfig().Port
		configChanged = true
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = defaultConfig().BackendURL
		configChanged = true
	}
	if cfg.RefreshTickMs <= 0 {
		cfg.RefreshTickMs = defaultConfig().RefreshTickMs
		configChanged = true
	}
	if cfg.RefreshLingerMs <= 0 {
		cfg.RefreshLingerMs = defaultConfig().RefreshLingerMs
		configChanged = true
	}
	if configChanged {
		if writeErr := writeConfig(path, cfg); writeErr != nil {
			DefaultLogger.Warnf("Failed to update config file: %v", writeErr)
		}
	}

	CurrentConfig = cfg
	return cfg, nil
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
