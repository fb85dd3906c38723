package gateway

import (
	_ "embed"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed config/settings.yaml
var defaultSettings []byte

// AgentSettings tunes one category's generation call.
type AgentSettings struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"` // 0 leaves the model default
}

// Settings holds per-category generation tuning.
type Settings struct {
	Learning    AgentSettings `yaml:"learning"`
	News        AgentSettings `yaml:"news"`
	Inspiration AgentSettings `yaml:"inspiration"`
}

// LoadSettings reads settings from ~/.xray/settings.yaml, falling back to
// the embedded defaults when the file does not exist.
func LoadSettings() (*Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return parseSettings(defaultSettings)
	}

	data, err := os.ReadFile(filepath.Join(home, ".xray", "settings.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return parseSettings(defaultSettings)
		}
		return nil, err
	}
	return parseSettings(data)
}

func parseSettings(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.applyDefaults()
	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.Learning.MaxTokens == 0 {
		s.Learning.MaxTokens = 2000
	}
	if s.News.MaxTokens == 0 {
		s.News.MaxTokens = 1500
	}
	if s.Inspiration.MaxTokens == 0 {
		s.Inspiration.MaxTokens = 1000
	}
}
