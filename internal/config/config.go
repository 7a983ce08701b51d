// Package config loads the tank-monitor YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can use forms like "100ms".
type Duration time.Duration

// UnmarshalYAML parses a duration string such as "1s" or "250ms".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the daemon configuration.
type Config struct {
	Chip       string       `yaml:"chip"`
	Poll       Duration     `yaml:"poll"`
	Debounce   Duration     `yaml:"debounce"`
	ActiveHigh bool         `yaml:"active_high"`
	Heartbeat  Duration     `yaml:"heartbeat"`
	Broker     string       `yaml:"broker"`
	HTTPAddr   string       `yaml:"http_addr"`
	Tanks      []TankConfig `yaml:"tanks"`
}

// TankConfig maps one tank to its GPIO pins. Pins are listed in ascending
// threshold order; Labels, when present, must match the pin count and
// otherwise defaults to the standard four positions.
type TankConfig struct {
	Name   string   `yaml:"name"`
	Pins   []int    `yaml:"pins"`
	Labels []string `yaml:"labels,omitempty"`
}

// Default returns a default configuration matching the standard two-tank
// wiring on an 8-channel optocoupler board.
func Default() *Config {
	return &Config{
		Chip:       "gpiochip0",
		Poll:       Duration(time.Second),
		Debounce:   Duration(100 * time.Millisecond),
		ActiveHigh: true,
		Heartbeat:  Duration(15 * time.Minute),
		Broker:     "tcp://192.168.1.200:1883",
		HTTPAddr:   ":8080",
		Tanks: []TankConfig{
			{Name: "fresh", Pins: []int{0, 1, 2, 3}},
			{Name: "grey", Pins: []int{4, 5, 6, 7}},
		},
	}
}

// Load reads the configuration from a YAML file, falling back to Default
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects structurally broken configurations: unnamed or duplicate
// tanks and pins claimed twice. Tank shape (sensor count, label length) is
// validated by the core constructors at startup.
func (c *Config) Validate() error {
	if len(c.Tanks) == 0 {
		return fmt.Errorf("no tanks configured")
	}

	names := make(map[string]bool)
	pins := make(map[int]string)
	for _, tank := range c.Tanks {
		if tank.Name == "" {
			return fmt.Errorf("tank with empty name")
		}
		if names[tank.Name] {
			return fmt.Errorf("duplicate tank name %q", tank.Name)
		}
		names[tank.Name] = true

		for _, pin := range tank.Pins {
			if owner, used := pins[pin]; used {
				return fmt.Errorf("pin %d used by both %q and %q", pin, owner, tank.Name)
			}
			pins[pin] = tank.Name
		}
	}
	return nil
}
