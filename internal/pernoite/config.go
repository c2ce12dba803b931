// Package pernoite fills the overnight guard sheet ("pernoite") from the
// names found in the daily duty roster.
package pernoite

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// A Role ties a template field key to the role label printed in the roster.
type Role struct {
	Key   string
	Label string
}

// RoleMapping lists roles in declaration order. Keys sharing a label take
// that label's names in the order they are declared.
type RoleMapping []Role

// UnmarshalYAML decodes a mapping node, keeping the document order.
func (m *RoleMapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: roles must be a mapping of field key to role label", value.Line)
	}
	var roles RoleMapping
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: label of %q must be a string", v.Line, k.Value)
		}
		roles = append(roles, Role{Key: k.Value, Label: v.Value})
	}
	*m = roles
	return nil
}

// Keys returns the field keys in declaration order.
func (m RoleMapping) Keys() []string {
	keys := make([]string, len(m))
	for i, r := range m {
		keys[i] = r.Key
	}
	return keys
}

// Composite joins several fields into one multi-line field.
type Composite struct {
	Key   string   `yaml:"key"`
	Parts []string `yaml:"parts"`
}

// Category counts how many of Fields are staffed.
type Category struct {
	Key    string   `yaml:"key"`
	Fields []string `yaml:"fields"`
}

// Group sums its categories into the Key field.
type Group struct {
	Key        string     `yaml:"key"`
	Categories []Category `yaml:"categories"`
}

type Headcount struct {
	Groups   []Group `yaml:"groups"`
	TotalKey string  `yaml:"total_key"`
}

// Keys returns every headcount field key: categories, group subtotals and
// the grand total.
func (h Headcount) Keys() []string {
	var keys []string
	for _, g := range h.Groups {
		for _, c := range g.Categories {
			keys = append(keys, c.Key)
		}
		keys = append(keys, g.Key)
	}
	if h.TotalKey != "" {
		keys = append(keys, h.TotalKey)
	}
	return keys
}

// Config describes how roster rows become template fields.
type Config struct {
	Roles RoleMapping `yaml:"roles"`

	// Optional fields read "–" instead of staying blank when the roster
	// has no name for them.
	Optional []string `yaml:"optional"`

	// Prefixes tags a field's value, e.g. CMT_GDA: "CMT DA GUARDA" turns
	// "SOUZA" into "CMT DA GUARDA: SOUZA".
	Prefixes map[string]string `yaml:"prefixes"`

	Composites []Composite `yaml:"composites"`
	Headcount  Headcount   `yaml:"headcount"`

	// CenterWhenEmpty fields get a centered paragraph when they substitute
	// the dash placeholder. Headcount fields are always centered.
	CenterWhenEmpty []string `yaml:"center_when_empty"`

	// ParagraphLineBreaks keeps multi-line values on separate lines in
	// plain paragraphs. Table cells always keep them.
	ParagraphLineBreaks bool `yaml:"paragraph_line_breaks"`
}

// Date field keys filled from the reference date.
const (
	KeyDate     = "DATA"
	KeyNextDate = "DATA_SEGUINTE"
	KeyWeekday  = "DIA_SEMANA"
)

// FieldOrder lists every key Resolve produces, in report order.
func (c *Config) FieldOrder() []string {
	keys := c.Roles.Keys()
	for _, comp := range c.Composites {
		keys = append(keys, comp.Key)
	}
	keys = append(keys, c.Headcount.Keys()...)
	return append(keys, KeyDate, KeyNextDate, KeyWeekday)
}

// Validate reports configuration mistakes: duplicate keys, blank labels and
// references to unknown fields.
func (c *Config) Validate() error {
	if len(c.Roles) == 0 {
		return errors.New("no roles configured")
	}
	known := make(map[string]bool)
	for _, key := range c.FieldOrder() {
		if key == "" {
			return errors.New("empty field key")
		}
		if known[key] {
			return fmt.Errorf("field %q defined more than once", key)
		}
		known[key] = true
	}
	for _, r := range c.Roles {
		if r.Label == "" {
			return fmt.Errorf("role %q has an empty label", r.Key)
		}
	}
	check := func(what string, keys []string) error {
		for _, k := range keys {
			if !known[k] {
				return fmt.Errorf("%s refers to unknown field %q", what, k)
			}
		}
		return nil
	}
	if err := check("optional", c.Optional); err != nil {
		return err
	}
	if err := check("center_when_empty", c.CenterWhenEmpty); err != nil {
		return err
	}
	for k := range c.Prefixes {
		if err := check("prefixes", []string{k}); err != nil {
			return err
		}
	}
	for _, comp := range c.Composites {
		if err := check("composite "+comp.Key, comp.Parts); err != nil {
			return err
		}
	}
	for _, g := range c.Headcount.Groups {
		for _, cat := range g.Categories {
			if err := check("headcount category "+cat.Key, cat.Fields); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadConfig reads a YAML configuration over DefaultConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	// yaml.v3 merges into an existing map; a prefixes section replaces the
	// defaults instead.
	if hasKey(&doc, "prefixes") {
		cfg.Prefixes = nil
	}
	if doc.Kind != 0 {
		if err := doc.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if cfg.Prefixes == nil {
		cfg.Prefixes = make(map[string]string)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// hasKey reports whether the top-level mapping of doc has key.
func hasKey(doc *yaml.Node, key string) bool {
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

func numbered(prefix string, n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s_%d", prefix, i+1)
	}
	return keys
}

// DefaultConfig returns the mapping used by the unit's current roster and
// template.
func DefaultConfig() *Config {
	roles := RoleMapping{
		{Key: "OFICIAL_DE_DIA", Label: "OFICIAL DE DIA"},
		{Key: "ADJUNTO", Label: "ADJUNTO"},
		{Key: "SGT_DE_DIA", Label: "SGT DE DIA"},
		{Key: "CB_DE_DIA", Label: "CB DE DIA"},
		{Key: "CMT_GDA", Label: "CMT DA GUARDA"},
		{Key: "CB_GDA_I", Label: "CB DA GDA I"},
		{Key: "CB_GDA_II", Label: "CB DA GDA II"},
	}
	sentinelas := numbered("SENTINELA", 6)
	for _, k := range sentinelas {
		roles = append(roles, Role{Key: k, Label: "SENTINELAS"})
	}
	plantoes := numbered("PLANTAO", 3)
	for _, k := range plantoes {
		roles = append(roles, Role{Key: k, Label: "PLANTÕES SU"})
	}
	roles = append(roles,
		Role{Key: "MOTORISTA", Label: "MOTORISTA DE DIA"},
		Role{Key: "TELEFONISTA", Label: "TELEFONISTA"},
	)

	optional := append([]string{"CB_GDA_I", "CB_GDA_II", "MOTORISTA", "TELEFONISTA"}, sentinelas...)
	optional = append(optional, plantoes...)

	center := append([]string{"CB_GUARNICAO"}, sentinelas...)
	center = append(center, plantoes...)

	return &Config{
		Roles:    roles,
		Optional: optional,
		Prefixes: map[string]string{
			"CMT_GDA": "CMT DA GUARDA",
		},
		Composites: []Composite{
			{Key: "CB_GUARNICAO", Parts: []string{"CB_GDA_I", "CB_GDA_II"}},
		},
		Headcount: Headcount{
			Groups: []Group{
				{
					Key: "EFETIVO_INTERNO",
					Categories: []Category{
						{Key: "INT_OF", Fields: []string{"OFICIAL_DE_DIA", "ADJUNTO"}},
						{Key: "INT_SGT", Fields: []string{"SGT_DE_DIA"}},
						{Key: "INT_CB", Fields: []string{"CB_DE_DIA"}},
						{Key: "INT_SD", Fields: append(append([]string{}, plantoes...), "MOTORISTA", "TELEFONISTA")},
					},
				},
				{
					Key: "EFETIVO_EXTERNO",
					Categories: []Category{
						{Key: "EXT_SGT", Fields: []string{"CMT_GDA"}},
						{Key: "EXT_CB", Fields: []string{"CB_GDA_I", "CB_GDA_II"}},
						{Key: "EXT_SD", Fields: sentinelas},
					},
				},
			},
			TotalKey: "EFETIVO_TOTAL",
		},
		CenterWhenEmpty:     center,
		ParagraphLineBreaks: true,
	}
}
