// Package config provides configuration loading and defaults for the
// nebulon-mcp server.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ResourceFilter holds allowlist and denylist entries for a resource category.
type ResourceFilter struct {
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// SafetyConfig groups resource filters for nPods and key-value metadata.
type SafetyConfig struct {
	NPods     ResourceFilter `yaml:"npods"`
	KeyValues ResourceFilter `yaml:"key_values"`
}

// AuditConfig controls audit logging behaviour.
type AuditConfig struct {
	Enabled   bool   `yaml:"enabled"`
	LogPath   string `yaml:"log_path"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// ServerConfig holds network and authentication settings for the MCP
// server surface.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// APIConfig holds connection details for the Nebulon ON cloud API.
type APIConfig struct {
	URL string `yaml:"url"`
	// Timeout is the HTTP request timeout in seconds.
	Timeout int `yaml:"timeout"`
	// ClientName and ClientVersion identify this client in the server-side
	// audit log via the Nebulon-Client-App header.
	ClientName    string `yaml:"client_name"`
	ClientVersion string `yaml:"client_version"`
	// Username and Password are the Nebulon ON credentials used to
	// establish the session at startup.
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// Verbose enables diagnostic logging of every request and response.
	Verbose bool `yaml:"verbose"`
}

// TokenConfig tunes token delivery to SPUs and the recipe wait loop.
type TokenConfig struct {
	// DeliveryTimeout is the per-SPU token delivery timeout in seconds.
	DeliveryTimeout int `yaml:"delivery_timeout"`
	// RecipePollInterval is the fixed interval between recipe status polls
	// in seconds.
	RecipePollInterval int `yaml:"recipe_poll_interval"`
	// RecipeMaxAttempts bounds the number of recipe status polls before a
	// pending recipe is reported as timed out.
	RecipeMaxAttempts int `yaml:"recipe_max_attempts"`
}

// Config is the top-level configuration structure for the nebulon-mcp
// server.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Safety SafetyConfig `yaml:"safety"`
	Audit  AuditConfig  `yaml:"audit"`
	API    APIConfig    `yaml:"api"`
	Token  TokenConfig  `yaml:"token"`
}

// LoadConfig reads and parses a YAML configuration file from the given path.
// It returns a pointer to the populated Config and any error encountered.
// On error, nil is returned for the config pointer.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a new Config populated with sensible default values.
// Each call returns a distinct instance.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Audit: AuditConfig{
			Enabled: true,
			LogPath: "/config/audit.log",
		},
		API: APIConfig{
			URL:        "https://ucapi.nebcloud.nebuloninc.com",
			Timeout:    60,
			ClientName: "nebulon-mcp",
		},
		Token: TokenConfig{
			DeliveryTimeout:    120,
			RecipePollInterval: 5,
			RecipeMaxAttempts:  540,
		},
	}
}

// ApplyEnvOverrides updates cfg in place with values from environment
// variables. Recognized variables:
//   - NEBULON_MCP_AUTH_TOKEN overrides cfg.Server.AuthToken
//   - NEBULON_API_URL overrides cfg.API.URL
//   - NEBULON_USERNAME overrides cfg.API.Username
//   - NEBULON_PASSWORD overrides cfg.API.Password
func ApplyEnvOverrides(cfg *Config) {
	if token := os.Getenv("NEBULON_MCP_AUTH_TOKEN"); token != "" {
		cfg.Server.AuthToken = token
	}
	if url := os.Getenv("NEBULON_API_URL"); url != "" {
		cfg.API.URL = url
	}
	if user := os.Getenv("NEBULON_USERNAME"); user != "" {
		cfg.API.Username = user
	}
	if pass := os.Getenv("NEBULON_PASSWORD"); pass != "" {
		cfg.API.Password = pass
	}
}

// EnsureAuthToken generates a random auth token and sets it on cfg if
// cfg.Server.AuthToken is empty. It returns the token (existing or
// generated) and any error encountered during generation.
func EnsureAuthToken(cfg *Config) (string, error) {
	if cfg.Server.AuthToken != "" {
		return cfg.Server.AuthToken, nil
	}
	token, err := GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("generate auth token: %w", err)
	}
	cfg.Server.AuthToken = token
	return token, nil
}

// GenerateRandomToken returns a 32-character hex-encoded cryptographically
// random token string.
func GenerateRandomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}
	return hex.EncodeToString(b), nil
}
