/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"
	"go.uber.org/zap/zapcore"

	"github.com/ssargent/snsrecords/pkg/address"
)

// Config represents the snsrec configuration
type Config struct {
	RPC     RPC     `yaml:"rpc"`
	Program Program `yaml:"program"`
	Cache   Cache   `yaml:"cache"`
	API     API     `yaml:"api"`
	Logging Logging `yaml:"logging"`
}

// RPC configures the JSON-RPC node records are read from
type RPC struct {
	Endpoint   string        `yaml:"endpoint"`
	Timeout    time.Duration `yaml:"timeout"`
	Commitment string        `yaml:"commitment"`
}

// Program selects the deployed program ids
type Program struct {
	RecordsID     string `yaml:"records_id"`
	NameServiceID string `yaml:"name_service_id"`
}

// Cache configures the local account cache
type Cache struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// API configures the HTTP gateway
type API struct {
	Bind   string `yaml:"bind"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		RPC: RPC{
			Endpoint:   "https://api.mainnet-beta.solana.com",
			Timeout:    10 * time.Second,
			Commitment: "confirmed",
		},
		Program: Program{
			RecordsID:     address.ProgramID.String(),
			NameServiceID: address.NameServiceProgramID.String(),
		},
		Cache: Cache{
			Enabled: false,
			Dir:     "./cache",
			TTL:     5 * time.Minute,
		},
		API: API{
			Bind: "127.0.0.1",
			Port: 8080,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Validate checks that the configuration can be used to build a client
func (c *Config) Validate() error {
	if c.RPC.Endpoint == "" {
		return fmt.Errorf("rpc.endpoint is required")
	}
	if c.RPC.Timeout < 0 {
		return fmt.Errorf("rpc.timeout must not be negative")
	}
	switch c.RPC.Commitment {
	case "", "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("rpc.commitment %q is not processed, confirmed or finalized", c.RPC.Commitment)
	}
	if _, err := c.RecordsProgramID(); err != nil {
		return err
	}
	if _, err := c.NameServiceProgramID(); err != nil {
		return err
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required when the cache is enabled")
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	return nil
}

// RecordsProgramID parses program.records_id, defaulting to mainnet
func (c *Config) RecordsProgramID() (solana.PublicKey, error) {
	return parseProgram("program.records_id", c.Program.RecordsID, address.ProgramID)
}

// NameServiceProgramID parses program.name_service_id, defaulting to mainnet
func (c *Config) NameServiceProgramID() (solana.PublicKey, error) {
	return parseProgram("program.name_service_id", c.Program.NameServiceID, address.NameServiceProgramID)
}

func parseProgram(field, value string, fallback solana.PublicKey) (solana.PublicKey, error) {
	if value == "" {
		return fallback, nil
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s: %w", field, err)
	}
	return key, nil
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unset keys keep their defaults.
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions (0600), the file may hold the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a default configuration with a generated gateway API key
func BootstrapConfig(configPath string, cacheDir string) (*Config, error) {
	config := DefaultConfig()
	if cacheDir != "" {
		config.Cache.Dir = cacheDir
		config.Cache.Enabled = true
	}

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.API.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./snsrec.yaml"
	}

	// For Linux/macOS, use ~/.config/snsrec/config.yaml
	configDir := filepath.Join(homeDir, ".config", "snsrec")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
