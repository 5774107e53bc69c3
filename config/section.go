package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// entry is one key of a section with its YAML value.
type entry struct {
	key  string
	node *yaml.Node
	used bool
}

// section is a top level mapping of the settings file. Keys are stored lower
// cased; every key must be read once, so that misspelt keys are reported.
type section struct {
	name    string
	line    int
	entries map[string]*entry
	order   []string
}

type sections map[string]*section

// get returns the named section or nil.
func (s sections) get(name string) *section {
	return s[strings.ToLower(name)]
}

func readSections(doc *yaml.Node) (sections, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: settings file is empty", ErrMissingSetting)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: settings must be a mapping of sections", ErrInvalidValue, root.Line)
	}
	out := make(sections)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if !knownSection(k.Value) {
			return nil, fmt.Errorf("%w: line %d: unknown section %q", ErrInvalidValue, k.Line, k.Value)
		}
		lower := strings.ToLower(k.Value)
		if prev, ok := out[lower]; ok {
			return nil, fmt.Errorf("%w: line %d: section %q repeats line %d", ErrInvalidValue, k.Line, k.Value, prev.line)
		}
		sec, err := newSection(k, v)
		if err != nil {
			return nil, err
		}
		out[lower] = sec
	}
	return out, nil
}

func newSection(k, v *yaml.Node) (*section, error) {
	sec := &section{name: k.Value, line: k.Line, entries: make(map[string]*entry)}
	switch {
	case v.Kind == yaml.ScalarNode && v.Tag == "!!null":
		return sec, nil
	case v.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("%w: line %d: section %q must be a mapping", ErrInvalidValue, k.Line, k.Value)
	}
	for i := 0; i+1 < len(v.Content); i += 2 {
		key, val := v.Content[i], v.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: [%s] %s (line %d) must be a single value", ErrInvalidValue, sec.name, key.Value, key.Line)
		}
		lower := strings.ToLower(key.Value)
		if _, ok := sec.entries[lower]; ok {
			return nil, fmt.Errorf("%w: [%s] %s (line %d) is repeated", ErrInvalidValue, sec.name, key.Value, key.Line)
		}
		sec.entries[lower] = &entry{key: key.Value, node: val}
		sec.order = append(sec.order, lower)
	}
	return sec, nil
}

// lookup returns the value of key and marks it as read.
func (sec *section) lookup(key string) (*yaml.Node, bool) {
	if sec == nil {
		return nil, false
	}
	e, ok := sec.entries[strings.ToLower(key)]
	if !ok {
		return nil, false
	}
	e.used = true
	return e.node, true
}

func (sec *section) string(key string) (string, bool, error) {
	node, ok := sec.lookup(key)
	if !ok {
		return "", false, nil
	}
	if node.Tag == "!!null" {
		return "", true, nil
	}
	return strings.TrimSpace(node.Value), true, nil
}

// decodeInto decodes the value of key into dst, leaving dst alone when the
// key is absent or empty.
func (sec *section) decodeInto(key string, dst any) (bool, error) {
	node, ok := sec.lookup(key)
	if !ok || node.Tag == "!!null" {
		return false, nil
	}
	if err := node.Decode(dst); err != nil {
		return false, sec.invalid(key, err)
	}
	return true, nil
}

func (sec *section) intInto(key string, dst *int) (bool, error) {
	return sec.decodeInto(key, dst)
}

func (sec *section) floatInto(key string, dst *float64) (bool, error) {
	return sec.decodeInto(key, dst)
}

func (sec *section) boolInto(key string, dst *bool) (bool, error) {
	return sec.decodeInto(key, dst)
}

// invalid reports the value of key, with its line, as unusable.
func (sec *section) invalid(key string, err error) error {
	e, ok := sec.entries[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w: [%s] %s: %w", ErrInvalidValue, sec.name, key, err)
	}
	return fmt.Errorf("%w: [%s] %s = %q (line %d): %w", ErrInvalidValue, sec.name, e.key, e.node.Value, e.node.Line, err)
}

// unused reports the first key nobody read.
func (sec *section) unused() error {
	if sec == nil {
		return nil
	}
	for _, k := range sec.order {
		if e := sec.entries[k]; !e.used {
			return fmt.Errorf("%w: [%s] unknown key %s (line %d)", ErrInvalidValue, sec.name, e.key, e.node.Line)
		}
	}
	return nil
}
