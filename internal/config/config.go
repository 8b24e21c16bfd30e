package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
	"scrollkit/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version int          `toml:"version"`
	Scroll  Options      `toml:"scroll"`
	Demo    DemoSettings `toml:"demo"`
}

// DemoSettings configures the terminal demo host
type DemoSettings struct {
	ContentLines int `toml:"content_lines"`
	// Virtual pixels per terminal cell, so gesture physics work in pixel units
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
	FPS        int     `toml:"fps"`
	LoadBatch  int     `toml:"load_batch"` // lines added per pull-up load
	// Easing of keyboard and wheel scrolls: a predefined name or a
	// "cubic-bezier(x1, y1, x2, y2)" identifier
	Easing string `toml:"easing"`
}

// Validate checks the demo settings, returning a wrapped *domain.ConfigurationError
func (d DemoSettings) Validate() error {
	if d.Easing == "" {
		return nil
	}
	if _, err := ease.Parse(d.Easing); err != nil {
		return fmt.Errorf("invalid configuration: %w", &domain.ConfigurationError{Field: "demo.easing", Reason: err.Error()})
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "scrollkit", "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from the user config directory
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		// Return default config if file doesn't exist
		cfg := DefaultConfig()
		cs.publish(domain.ConfigLoadedEvent{Path: ""})
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}
	cs.publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	return cfg, nil
}

// Save saves the configuration to the user config directory
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	cs.publish(domain.ConfigSavedEvent{Path: cs.filePath})
	return nil
}

// LoadFromPath loads configuration from a specific path.
// Keys missing from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Scroll.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Demo.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (cs *configService) publish(event domain.DomainEvent) {
	if cs.bus != nil {
		cs.bus.Publish(event)
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	scroll := DefaultOptions()
	scroll.ProbeType = ProbeFrame
	scroll.Click = true
	scroll.PullDownRefresh = &PullDownOptions{Threshold: 60, Stop: 40}
	scroll.PullUpLoad = &PullUpOptions{Threshold: 0}

	return &Config{
		Version: 1,
		Scroll:  scroll,
		Demo: DemoSettings{
			ContentLines: 120,
			CellWidth:    8,
			CellHeight:   20,
			FPS:          60,
			LoadBatch:    30,
			Easing:       ease.Bounce.Name,
		},
	}
}
