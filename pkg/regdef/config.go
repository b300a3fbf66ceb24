package regdef

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RawVariantFile is the YAML structure of a variant definition file.
type RawVariantFile struct {
	Variants []RawVariantDef `yaml:"variants"`
}

// RawVariantDef represents a variant definition loaded from YAML.
type RawVariantDef struct {
	Name        string       `yaml:"name"`
	Macro       string       `yaml:"macro"`
	Trait       string       `yaml:"trait"`
	Description string       `yaml:"description"`
	Flags       []RawFlagDef `yaml:"flags"`
}

// RawFlagDef is either a single bit ({name, bit}) or a mask ({name, hi, lo}).
type RawFlagDef struct {
	Name string `yaml:"name"`
	Bit  *uint  `yaml:"bit"`
	Hi   *uint  `yaml:"hi"`
	Lo   *uint  `yaml:"lo"`
}

func (d RawFlagDef) flag() (Flag, error) {
	switch {
	case d.Bit != nil && d.Hi == nil && d.Lo == nil:
		return BitFlag(d.Name, *d.Bit), nil
	case d.Bit == nil && d.Hi != nil && d.Lo != nil:
		return MaskFlag(d.Name, *d.Hi, *d.Lo), nil
	default:
		return Flag{}, fmt.Errorf("flag %q: set either bit or both hi and lo", d.Name)
	}
}

// ParseVariants parses and validates variant definitions from YAML bytes.
func ParseVariants(data []byte) ([]*Variant, error) {
	var file RawVariantFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing variants: %w", err)
	}

	out := make([]*Variant, 0, len(file.Variants))
	for i, def := range file.Variants {
		v := &Variant{
			Name:        def.Name,
			Macro:       def.Macro,
			Trait:       def.Trait,
			Description: def.Description,
		}
		if v.Trait == "" {
			v.Trait = goConstName(def.Macro)
		}
		for _, fd := range def.Flags {
			f, err := fd.flag()
			if err != nil {
				return nil, fmt.Errorf("variant %d (%s): %w", i, def.Name, err)
			}
			v.Flags = append(v.Flags, f)
		}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// LoadVariants loads variant definitions from a YAML file.
func LoadVariants(path string) ([]*Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseVariants(data)
}

// LoadFile loads the variants in path and adds them to the registry.
func (r *Registry) LoadFile(path string) error {
	variants, err := LoadVariants(path)
	if err != nil {
		return err
	}
	for _, v := range variants {
		if err := r.Add(v); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
