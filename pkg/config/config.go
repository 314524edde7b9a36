/*
Package config manages TOML config for spellserve.
*/
package config

import (
	"path/filepath"
	"time"

	"github.com/bastiangx/spellserve/internal/logger"
	"github.com/bastiangx/spellserve/internal/utils"
	"github.com/bastiangx/spellserve/pkg/trie"
)

var log = logger.New("config")

// FileName is the config file looked up in the config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxWordLen       int `toml:"max_word_len"`
	SuggestTimeoutMs int `toml:"suggest_timeout_ms"`
	MaxSuggestions   int `toml:"max_suggestions"`
	CacheSize        int `toml:"cache_size"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path         string `toml:"path"`
	CachePath    string `toml:"cache_path"`
	Charset      string `toml:"charset"`
	RebuildCache bool   `toml:"rebuild_cache"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxWordLen:       64,
			SuggestTimeoutMs: 250,
			MaxSuggestions:   trie.MaxSuggestions,
			CacheSize:        1024,
		},
		Dict: DictConfig{
			Charset: "utf-8",
		},
		CLI: CliConfig{
			DefaultLimit:    10,
			DefaultNoFilter: false,
		},
	}
}

// SuggestTimeout returns the per-request suggestion budget. Zero disables it.
func (s ServerConfig) SuggestTimeout() time.Duration {
	return time.Duration(s.SuggestTimeoutMs) * time.Millisecond
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [ConfigDir]/config.toml, created with defaults if missing
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string, paths *utils.PathResolver) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	if paths == nil {
		return DefaultConfig(), "", nil
	}
	defaultPath, err := paths.GetConfigPath(FileName)
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

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys that fail to decode keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse recovers whatever sections still parse as generic TOML
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	config.sanitize()
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_word_len"); ok {
		server.MaxWordLen = val
	}
	if val, ok := utils.ExtractInt64(data, "suggest_timeout_ms"); ok {
		server.SuggestTimeoutMs = val
	}
	if val, ok := utils.ExtractInt64(data, "max_suggestions"); ok {
		server.MaxSuggestions = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "cache_path"); ok {
		dict.CachePath = val
	}
	if val, ok := utils.ExtractString(data, "charset"); ok {
		dict.Charset = val
	}
	if val, ok := utils.ExtractBool(data, "rebuild_cache"); ok {
		dict.RebuildCache = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// sanitize replaces out-of-range values with defaults
func (c *Config) sanitize() {
	def := DefaultConfig()

	if c.Server.MaxWordLen < 1 {
		log.Warnf("Invalid max_word_len %d, using %d", c.Server.MaxWordLen, def.Server.MaxWordLen)
		c.Server.MaxWordLen = def.Server.MaxWordLen
	}
	if c.Server.SuggestTimeoutMs < 0 {
		log.Warnf("Invalid suggest_timeout_ms %d, using %d", c.Server.SuggestTimeoutMs, def.Server.SuggestTimeoutMs)
		c.Server.SuggestTimeoutMs = def.Server.SuggestTimeoutMs
	}
	if c.Server.MaxSuggestions < 1 || c.Server.MaxSuggestions > def.Server.MaxSuggestions {
		log.Warnf("Invalid max_suggestions %d, using %d", c.Server.MaxSuggestions, def.Server.MaxSuggestions)
		c.Server.MaxSuggestions = def.Server.MaxSuggestions
	}
	if c.Server.CacheSize < 0 {
		c.Server.CacheSize = 0
	}
	if c.CLI.DefaultLimit < 1 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
	if c.Dict.Charset == "" {
		c.Dict.Charset = def.Dict.Charset
	}
}

// RebuildConfigFile force creates a new config file with defaults at configPath
func RebuildConfigFile(configPath string) error {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
