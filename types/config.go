package types

// AppConfig is the persisted YAML configuration.
type AppConfig struct {
	BackendURL      string `yaml:"backend_url"`       // NullTale backend base URL
	WebURL          string `yaml:"web_url"`           // web UI address, used for the QR code endpoint
	Port            int    `yaml:"port"`              // local companion API port
	NotifyWS        bool   `yaml:"notify_ws"`         // enable the WebSocket notify hub
	RefreshTickMs   int    `yaml:"refresh_tick_ms"`   // simulated progress tick interval
	RefreshLingerMs int    `yaml:"refresh_linger_ms"` // how long the 100% state stays visible
}

// Config holds runtime overrides from CLI flags.
type Config struct {
	Log           string
	UseConfigPath string
	UseBackendURL string
	UsePort       int
	SkipNotifyWS  bool
}
