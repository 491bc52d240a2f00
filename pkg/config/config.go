/*
Package config manages TOML config for penserve services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/penserve/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Gen    GenConfig    `toml:"gen"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// GenConfig holds generation defaults.
type GenConfig struct {
	Order     int    `toml:"order"`
	MaxTokens int    `toml:"max_tokens"`
	Separator string `toml:"separator"`
	Tokenizer string `toml:"tokenizer"` // "words", "chars", "regex"
	Pattern   string `toml:"pattern"`   // for the regex tokenizer
	Intern    bool   `toml:"intern"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
	MaxOrder int `toml:"max_order"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultCount int `toml:"default_count"`
	VocabLimit   int `toml:"vocab_limit"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Gen: GenConfig{
			Order:     2,
			MaxTokens: 200,
			Separator: " ",
			Tokenizer: "words",
			Pattern:   `[\s]+`,
			Intern:    true,
		},
		Server: ServerConfig{
			MaxLimit: 2048,
			MaxOrder: 16,
		},
		CLI: CliConfig{
			DefaultCount: 50,
			VocabLimit:   20,
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/penserve
// 2. Current executable dir
// 3. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "penserve")
	if err := utils.EnsureDir(primaryPath); err == nil {
		return primaryPath, nil
	}
	return utils.GetExecutableDir()
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: ~/.config/penserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages whatever sections still parse
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if genSection, ok := utils.ExtractSection(tempConfig, "gen"); ok {
		extractGenConfig(genSection, &config.Gen)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

// extractGenConfig extracts generation configuration from a map
func extractGenConfig(data map[string]any, gen *GenConfig) {
	if val, ok := utils.ExtractInt64(data, "order"); ok {
		gen.Order = val
	}
	if val, ok := utils.ExtractInt64(data, "max_tokens"); ok {
		gen.MaxTokens = val
	}
	if val, ok := utils.ExtractString(data, "separator"); ok {
		gen.Separator = val
	}
	if val, ok := utils.ExtractString(data, "tokenizer"); ok {
		gen.Tokenizer = val
	}
	if val, ok := utils.ExtractString(data, "pattern"); ok {
		gen.Pattern = val
	}
	if val, ok := utils.ExtractBool(data, "intern"); ok {
		gen.Intern = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_order"); ok {
		server.MaxOrder = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_count"); ok {
		cli.DefaultCount = val
	}
	if val, ok := utils.ExtractInt64(data, "vocab_limit"); ok {
		cli.VocabLimit = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes generation defaults and saves to file
func (c *Config) Update(configPath string, order, maxTokens *int) error {
	if order != nil {
		c.Gen.Order = *order
	}
	if maxTokens != nil {
		c.Gen.MaxTokens = *maxTokens
	}
	return SaveConfig(c, configPath)
}
