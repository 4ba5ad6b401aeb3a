package weego

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// ConfigSchema declares a configuration file, for example:
//
//	name: hello
//	sections:
//	  - name: look
//	    options:
//	      - name: greeting
//	        type: string
//	        default: Hello
//	      - name: repeat
//	        type: integer
//	        min: 1
//	        max: 10
//	        default: 3
type ConfigSchema struct {
	Name     string          `yaml:"name"`
	Sections []SectionSchema `yaml:"sections"`
}

// SectionSchema declares one section.
type SectionSchema struct {
	Name                 string         `yaml:"name"`
	UserCanAddOptions    bool           `yaml:"user_can_add_options"`
	UserCanDeleteOptions bool           `yaml:"user_can_delete_options"`
	Options              []OptionSchema `yaml:"options"`
}

// OptionSchema declares one option. Default may be written as any YAML
// scalar; it is converted to the string form WeeChat expects.
type OptionSchema struct {
	Name         string   `yaml:"name"`
	Type         string   `yaml:"type"`
	Description  string   `yaml:"description"`
	StringValues []string `yaml:"string_values"`
	Min          int      `yaml:"min"` // Min and Max both zero: any int32
	Max          int      `yaml:"max"`
	Default      any      `yaml:"default"`
	NullAllowed  bool     `yaml:"null_allowed"`
}

// ParseConfigSchema decodes and validates a YAML schema.
func ParseConfigSchema(data []byte) (*ConfigSchema, error) {
	var s ConfigSchema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("weego: parse config schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks names, types and defaults.
func (s *ConfigSchema) Validate() error {
	if s.Name == "" {
		return missing("config name")
	}
	seen := make(map[string]bool)
	for _, sec := range s.Sections {
		if sec.Name == "" {
			return missing("section name")
		}
		if seen[sec.Name] {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidArgument, sec.Name)
		}
		seen[sec.Name] = true
		for _, opt := range sec.Options {
			if opt.Name == "" {
				return missing("option name")
			}
			if _, err := opt.defaultString(); err != nil {
				return fmt.Errorf("%w: option %s.%s: %v", ErrInvalidArgument, sec.Name, opt.Name, err)
			}
		}
	}
	return nil
}

// defaultString normalises Default for the option type.
func (o OptionSchema) defaultString() (string, error) {
	switch o.Type {
	case OptionTypeString, OptionTypeColor:
		return cast.ToStringE(o.Default)
	case OptionTypeBoolean:
		if s, ok := o.Default.(string); ok {
			switch strings.ToLower(s) {
			case "on", "yes":
				return "on", nil
			case "off", "no":
				return "off", nil
			}
		}
		b, err := cast.ToBoolE(o.Default)
		if err != nil {
			return "", err
		}
		if b {
			return "on", nil
		}
		return "off", nil
	case OptionTypeInteger:
		if len(o.StringValues) > 0 {
			return cast.ToStringE(o.Default)
		}
		n, err := cast.ToIntE(o.Default)
		if err != nil {
			return "", err
		}
		lo, hi := o.bounds()
		if n < lo || n > hi {
			return "", fmt.Errorf("default %d outside [%d, %d]", n, lo, hi)
		}
		return strconv.Itoa(n), nil
	default:
		return "", fmt.Errorf("unknown option type %q", o.Type)
	}
}

// bounds returns the range of a plain integer option.
func (o OptionSchema) bounds() (int, int) {
	if o.Type != OptionTypeInteger || len(o.StringValues) > 0 || o.Min != 0 || o.Max != 0 {
		return o.Min, o.Max
	}
	return math.MinInt32, math.MaxInt32
}

func (o OptionSchema) info() OptionInfo {
	def, _ := o.defaultString()
	lo, hi := o.bounds()
	return OptionInfo{
		Name:         o.Name,
		Description:  o.Description,
		StringValues: strings.Join(o.StringValues, "|"),
		Min:          lo,
		Max:          hi,
		Default:      def,
		NullAllowed:  o.NullAllowed,
	}
}

// Build creates the configuration file with its sections and options. If
// any step fails, whatever was created is freed again.
func (s *ConfigSchema) Build(w Weechat) (*Config, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cfg, err := ConfigNew[struct{}](w, s.Name, nil, struct{}{})
	if err != nil {
		return nil, err
	}
	if err := s.populate(cfg); err != nil {
		cfg.Close()
		return nil, err
	}
	return cfg, nil
}

func (s *ConfigSchema) populate(cfg *Config) error {
	for _, sec := range s.Sections {
		section, err := cfg.NewSection(SectionInfo{
			Name:                 sec.Name,
			UserCanAddOptions:    sec.UserCanAddOptions,
			UserCanDeleteOptions: sec.UserCanDeleteOptions,
		})
		if err != nil {
			return err
		}
		for _, opt := range sec.Options {
			if err := addOption(section, opt); err != nil {
				return err
			}
		}
	}
	return nil
}

func addOption(section *ConfigSection, opt OptionSchema) error {
	var err error
	info := opt.info()
	switch opt.Type {
	case OptionTypeString:
		_, err = NewStringOption(section, info, OptionCallbacks[struct{}, *StringOption]{}, struct{}{})
	case OptionTypeInteger:
		_, err = NewIntegerOption(section, info, OptionCallbacks[struct{}, *IntegerOption]{}, struct{}{})
	case OptionTypeBoolean:
		_, err = NewBooleanOption(section, info, OptionCallbacks[struct{}, *BooleanOption]{}, struct{}{})
	case OptionTypeColor:
		_, err = NewColorOption(section, info, OptionCallbacks[struct{}, *ColorOption]{}, struct{}{})
	}
	return err
}
