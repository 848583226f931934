package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// NetworkOverride adds a network or overrides fields of a built-in one.
// Empty fields keep the built-in value.
type NetworkOverride struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Symbol      string `yaml:"symbol"`
	RPCURL      string `yaml:"rpc_url"`
	ChainID     int64  `yaml:"chain_id"`
	ExplorerURL string `yaml:"explorer_url"`
	PriceID     string `yaml:"price_id"`
	Enabled     *bool  `yaml:"enabled"`
}

// NetworksFile is the layout of NETWORKS_FILE.
type NetworksFile struct {
	Default  string            `yaml:"default"`
	Networks []NetworkOverride `yaml:"networks"`
}

// LoadNetworks reads a networks file from the given path.
// Environment variables in the format ${VAR_NAME} are expanded.
func LoadNetworks(path string) (*NetworksFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading networks file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var nf NetworksFile
	if err := yaml.Unmarshal([]byte(expandedData), &nf); err != nil {
		return nil, fmt.Errorf("parsing networks file: %w", err)
	}

	if err := nf.Validate(); err != nil {
		return nil, fmt.Errorf("validating networks file: %w", err)
	}
	return &nf, nil
}

// Validate checks that every entry has an id and ids are unique.
func (nf *NetworksFile) Validate() error {
	seen := make(map[string]bool, len(nf.Networks))
	for i, n := range nf.Networks {
		if n.ID == "" {
			return fmt.Errorf("networks[%d].id is required", i)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate network id %q", n.ID)
		}
		seen[n.ID] = true
		if n.ChainID < 0 {
			return fmt.Errorf("networks[%d].chain_id must not be negative", i)
		}
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
