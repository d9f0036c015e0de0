package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/calcbot/core/config"
	coredatabase "github.com/m3rciful/calcbot/core/database"
)

// BroadcastConfig tunes admin broadcast fan-out.
type BroadcastConfig struct {
	// PerSendPauseMS is the delay between consecutive broadcast sends.
	PerSendPauseMS int `yaml:"per_send_pause_ms" envconfig:"BROADCAST_PER_SEND_PAUSE_MS"`
}

// Config is the full application configuration: the reusable core
// sections plus the bot's own database and broadcast settings.
type Config struct {
	Core      coreconfig.Config   `yaml:",inline"`
	Database  coredatabase.Config `yaml:"database"`
	Broadcast BroadcastConfig     `yaml:"broadcast"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads the YAML file, overlays environment variables, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if cfg.Broadcast.PerSendPauseMS < 0 {
		return nil, fmt.Errorf("broadcast.per_send_pause_ms must be >= 0")
	}
	return &cfg, nil
}
