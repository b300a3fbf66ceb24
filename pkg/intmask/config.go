package intmask

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RawConfig is the YAML structure of a mask configuration file.
type RawConfig struct {
	// Bits maps constant names to bit positions.
	Bits         map[string]uint `yaml:"bits"`
	Calculations []Calculation   `yaml:"calculations"`
	Literals     []DriverLiteral `yaml:"literals"`
}

// ParseConfig parses a mask configuration from YAML bytes.
func ParseConfig(data []byte) (*RawConfig, error) {
	var cfg RawConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing mask config: %w", err)
	}
	for i, calc := range cfg.Calculations {
		if calc.Name == "" {
			return nil, fmt.Errorf("calculation %d missing name", i)
		}
		if len(calc.Masks) == 0 {
			return nil, fmt.Errorf("calculation %s has no masks", calc.Name)
		}
	}
	return &cfg, nil
}

// Apply merges cfg into the calculator. Bits are added before calculations
// are checked, so a file may define the bits its own masks use.
func (c *Calculator) Apply(cfg *RawConfig) error {
	for name, pos := range cfg.Bits {
		if err := c.Table.Define(name, pos); err != nil {
			return err
		}
	}
	for _, calc := range cfg.Calculations {
		if calc.Name == AllCalculations {
			return fmt.Errorf("calculation name %q is reserved", AllCalculations)
		}
		if _, err := c.Lookup(calc.Name); err == nil {
			return fmt.Errorf("duplicate calculation %s", calc.Name)
		}
		if _, err := calc.Run(c.Table); err != nil {
			return err
		}
		c.Calculations = append(c.Calculations, calc)
	}
	c.Literals = append(c.Literals, cfg.Literals...)
	return nil
}

// LoadFile reads a mask configuration file and applies it.
func (c *Calculator) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return err
	}
	if err := c.Apply(cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
