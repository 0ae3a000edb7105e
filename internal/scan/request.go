package scan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRequest reads a scan request from a YAML file. Fields missing from the
// file keep their DefaultRawConfig values.
func LoadRequest(path string) (RawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawConfig{}, fmt.Errorf("reading scan request: %w", err)
	}

	return DecodeRequest(data)
}

// DecodeRequest decodes a YAML scan request on top of DefaultRawConfig.
func DecodeRequest(data []byte) (RawConfig, error) {
	raw := DefaultRawConfig()
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RawConfig{}, fmt.Errorf("decoding scan request: %w", err)
	}

	return raw, nil
}
