package config

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// checkKeys rejects top-level keys outside allowed.
func checkKeys(section string, value *yaml.Node, allowed []string) error {
	if value == nil || value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		k := value.Content[i]
		if k.Kind != yaml.ScalarNode {
			continue
		}
		if !slices.Contains(allowed, k.Value) {
			return fmt.Errorf("%s: unsupported key %q (line %d)", section, k.Value, k.Line)
		}
	}
	return nil
}

// strictDecode decodes node into out with unknown fields rejected at every depth.
// Node.Decode on its own does not carry KnownFields into nested values.
func strictDecode(node *yaml.Node, out any) error {
	b, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	return dec.Decode(out)
}
