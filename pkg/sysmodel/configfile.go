package sysmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads a system configuration from path, accepting either
// JSON or YAML based on the file extension (.yaml/.yml), and feeds it
// through LoadConfig. YAML is a convenience operator-facing format; the
// canonical wire schema stays the JSON one LoadConfig parses.
func LoadConfigFile(path string) (*SystemData, *Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("sysmodel: reading %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return LoadConfig(data)
	}

	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, nil, fmt.Errorf("sysmodel: parsing YAML %s: %w", path, err)
	}
	normalized := normalizeYAMLMaps(generic)

	jsonData, err := json.Marshal(normalized)
	if err != nil {
		return nil, nil, fmt.Errorf("sysmodel: converting YAML %s to JSON: %w", path, err)
	}
	return LoadConfig(jsonData)
}

// normalizeYAMLMaps converts the map[interface{}]interface{} nodes that
// yaml.v3 can produce for untyped maps into map[string]interface{}, which
// encoding/json can marshal.
func normalizeYAMLMaps(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = normalizeYAMLMaps(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAMLMaps(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = normalizeYAMLMaps(e)
		}
		return out
	default:
		return val
	}
}
