package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// Generation backend
	OpenAI ModelSettings `json:"openai"`

	// HTTP API server
	Server ServerConfig `json:"server"`

	// UI preferences
	UI UIConfig `json:"ui"`
}

// ModelSettings for the generation backend
type ModelSettings struct {
	APIKey   string `json:"api_key,omitempty"`
	Model    string `json:"model,omitempty"`
	Endpoint string `json:"endpoint,omitempty"` // For proxies or compatible endpoints
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	ItemLimit int `json:"item_limit"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		OpenAI: ModelSettings{
			Model:    "gpt-5-mini",
			Endpoint: "https://api.openai.com/v1/chat/completions",
		},
		Server: ServerConfig{
			Addr:           ":8787",
			AllowedOrigins: []string{"*"},
		},
		UI: UIConfig{
			ItemLimit: 200,
		},
	}
}

// DataDir returns the X-RAY data directory, creating it if needed.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".xray")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".xray", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.applyDefaults()
	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = key
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		c.OpenAI.Model = model
	}
	if addr := os.Getenv("XRAY_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// applyDefaults fills zero-valued fields after loading an older config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = def.OpenAI.Model
	}
	if c.OpenAI.Endpoint == "" {
		c.OpenAI.Endpoint = def.OpenAI.Endpoint
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = def.Server.AllowedOrigins
	}
	if c.UI.ItemLimit == 0 {
		c.UI.ItemLimit = def.UI.ItemLimit
	}
}
