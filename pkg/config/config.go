/*
Package config manages TOML configuration for the nlp session and server.

Where the config file lives is the caller's job (nlpd resolves it through
internal/fsutil.PathResolver, which knows about dictionary/config install
layouts); this package only knows how to load, recover, and persist the
TOML once a path has been chosen.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the entire configuration structure.
type Config struct {
	Session SessionConfig `toml:"session"`
	Dict    DictConfig    `toml:"dict"`
	Server  ServerConfig  `toml:"server"`
}

// SessionConfig has spell/suggest tuning options.
type SessionConfig struct {
	DefaultLocale       string `toml:"default_locale"`
	MaxSuggestionCount  int    `toml:"max_suggestion_count"`
	MaxSpellResults     int    `toml:"max_spell_results"`
	MaxEditDistance     int    `toml:"max_edit_distance"`
	KeyProximityPath    string `toml:"key_proximity_path"`
	HotCacheSize        int    `toml:"hot_cache_size"`
	WeightUnigramFactor int    `toml:"weight_unigram_factor"`
}

// DictConfig holds base/user dictionary options. BaseDictionaryDir is a
// directory glob-scanned for *.fldic files; UserDictionaryDir, despite the
// name carried over from the base-dir sibling, is a single file path (the
// mutable user dictionary is one dictionary, not a directory of them).
type DictConfig struct {
	BaseDictionaryDir string `toml:"base_dictionary_dir"`
	UserDictionaryDir string `toml:"user_dictionary_dir"`
	AutoPersist       bool   `toml:"auto_persist"`
}

// ServerConfig has msgpack IPC server options.
type ServerConfig struct {
	SocketPath  string `toml:"socket_path"`
	MaxRequestQ int    `toml:"max_request_queue"`
}

// DefaultConfig returns a Config with default values. DefaultLocale
// matches the dictionary session's own default locale tag.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			DefaultLocale:       "en_us",
			MaxSuggestionCount:  16,
			MaxSpellResults:     8,
			MaxEditDistance:     2,
			KeyProximityPath:    "",
			HotCacheSize:        512,
			WeightUnigramFactor: 1,
		},
		Dict: DictConfig{
			BaseDictionaryDir: "dictionaries/base",
			UserDictionaryDir: "dictionaries/user/user.fldic",
			AutoPersist:       true,
		},
		Server: ServerConfig{
			SocketPath:  "",
			MaxRequestQ: 64,
		},
	}
}

// InitConfig loads config from configPath, writing a default file there if
// none exists yet. Any failure along the way (unwritable directory, a
// config file that can't even be partially recovered) falls back to
// built-in defaults rather than aborting startup.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		log.Warnf("failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("created default config file at %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads config from a TOML file, falling back to a partial
// recovery pass if the file doesn't decode cleanly.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse re-reads configPath as a loose map[string]any and copies
// over whatever session/dict/server keys parse cleanly, so one malformed
// key doesn't discard an otherwise-valid file.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return config, nil
	}
	var loose map[string]any
	if _, err := toml.Decode(string(data), &loose); err != nil {
		log.Warnf("could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := loose["session"].(map[string]any); ok {
		extractSessionConfig(section, &config.Session)
	}
	if section, ok := loose["dict"].(map[string]any); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := loose["server"].(map[string]any); ok {
		extractServerConfig(section, &config.Server)
	}
	return config, nil
}

func extractSessionConfig(data map[string]any, session *SessionConfig) {
	if val, ok := data["default_locale"].(string); ok {
		session.DefaultLocale = val
	}
	if val, ok := extractInt(data, "max_suggestion_count"); ok {
		session.MaxSuggestionCount = val
	}
	if val, ok := extractInt(data, "max_spell_results"); ok {
		session.MaxSpellResults = val
	}
	if val, ok := extractInt(data, "max_edit_distance"); ok {
		session.MaxEditDistance = val
	}
	if val, ok := data["key_proximity_path"].(string); ok {
		session.KeyProximityPath = val
	}
	if val, ok := extractInt(data, "hot_cache_size"); ok {
		session.HotCacheSize = val
	}
	if val, ok := extractInt(data, "weight_unigram_factor"); ok {
		session.WeightUnigramFactor = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := data["base_dictionary_dir"].(string); ok {
		dict.BaseDictionaryDir = val
	}
	if val, ok := data["user_dictionary_dir"].(string); ok {
		dict.UserDictionaryDir = val
	}
	if val, ok := data["auto_persist"].(bool); ok {
		dict.AutoPersist = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := data["socket_path"].(string); ok {
		server.SocketPath = val
	}
	if val, ok := extractInt(data, "max_request_queue"); ok {
		server.MaxRequestQ = val
	}
}

// extractInt reads an int64-typed TOML value (toml.Decode's integer type)
// as an int.
func extractInt(data map[string]any, key string) (int, bool) {
	val, ok := data[key].(int64)
	if !ok {
		return 0, false
	}
	return int(val), true
}

// SaveConfig writes config to a TOML file at configPath.
func SaveConfig(config *Config, configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(config)
}
