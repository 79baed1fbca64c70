package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RoleConfig overrides one agent role's framing.
type RoleConfig struct {
	Name        string  `yaml:"name"`
	Preamble    string  `yaml:"preamble"`
	Temperature float64 `yaml:"temperature"`
}

// RolesConfig is the optional YAML roles file. ${VAR} placeholders in
// preambles are expanded from the environment.
type RolesConfig struct {
	Roles []RoleConfig `yaml:"roles"`
}

// LoadRoles loads role overrides from the given YAML file. An empty path
// yields an empty config (built-in preambles apply).
func LoadRoles(path string) (*RolesConfig, error) {
	if path == "" {
		return &RolesConfig{}, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("roles file does not exist: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roles file: %w", err)
	}

	var cfg RolesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse roles file: %w", err)
	}

	for i := range cfg.Roles {
		cfg.Roles[i].Preamble = os.ExpandEnv(cfg.Roles[i].Preamble)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("roles validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the roles file for obvious mistakes.
func (c *RolesConfig) Validate() error {
	seen := make(map[string]bool)
	for _, role := range c.Roles {
		if role.Name == "" {
			return fmt.Errorf("role with empty name")
		}
		if seen[role.Name] {
			return fmt.Errorf("duplicate role: %s", role.Name)
		}
		seen[role.Name] = true
		if role.Temperature < 0 || role.Temperature > 2 {
			return fmt.Errorf("role %s: temperature out of range: %v", role.Name, role.Temperature)
		}
	}
	return nil
}

// Role returns the override for the named role, if present.
func (c *RolesConfig) Role(name string) (RoleConfig, bool) {
	for _, role := range c.Roles {
		if role.Name == name {
			return role, true
		}
	}
	return RoleConfig{}, false
}
