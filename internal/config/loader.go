package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configDir  = ".config/chartnote"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary. Absent fields keep their
// defaults; durations are parsed from strings.
type rawConfig struct {
	Plugins rawPluginsConfig `json:"plugins"`
	AI      AIConfig         `json:"ai"`
	Keymap  KeymapConfig     `json:"keymap"`
	UI      rawUIConfig      `json:"ui"`
}

type rawPluginsConfig struct {
	Editor  rawEditorConfig  `json:"editor"`
	Phrases rawPhrasesConfig `json:"phrases"`
}

type rawEditorConfig struct {
	AutosaveDebounce string `json:"autosaveDebounce"`
	DBPath           string `json:"dbPath"`
}

type rawPhrasesConfig struct {
	StorePath  string `json:"storePath"`
	WatchStore *bool  `json:"watchStore"`
}

type rawUIConfig struct {
	ShowFooter *bool `json:"showFooter"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/chartnote/config.json.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)

	cfg.Plugins.Phrases.StorePath = ExpandPath(cfg.Plugins.Phrases.StorePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges raw config values into the defaults.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Editor
	if raw.Plugins.Editor.AutosaveDebounce != "" {
		if d, err := time.ParseDuration(raw.Plugins.Editor.AutosaveDebounce); err == nil {
			cfg.Plugins.Editor.AutosaveDebounce = d
		}
	}
	if raw.Plugins.Editor.DBPath != "" {
		cfg.Plugins.Editor.DBPath = raw.Plugins.Editor.DBPath
	}

	// Phrases
	if raw.Plugins.Phrases.StorePath != "" {
		cfg.Plugins.Phrases.StorePath = raw.Plugins.Phrases.StorePath
	}
	if raw.Plugins.Phrases.WatchStore != nil {
		cfg.Plugins.Phrases.WatchStore = *raw.Plugins.Phrases.WatchStore
	}

	// AI
	if raw.AI.Model != "" {
		cfg.AI.Model = raw.AI.Model
	}

	// Keymap
	if raw.Keymap.Overrides != nil {
		for k, v := range raw.Keymap.Overrides {
			cfg.Keymap.Overrides[k] = v
		}
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
}

// Save writes the configuration to the default location.
func Save(cfg *Config) error {
	path := ConfigPath()
	if path == "" {
		return os.ErrNotExist
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// DefaultPhraseStorePath returns the default phrase store location.
func DefaultPhraseStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "phrases.json"
	}
	return filepath.Join(home, configDir, "phrases.json")
}
