// Package config loads and saves the chartnote configuration file.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Plugins PluginsConfig `json:"plugins"`
	AI      AIConfig      `json:"ai"`
	Keymap  KeymapConfig  `json:"keymap"`
	UI      UIConfig      `json:"ui"`
}

// PluginsConfig holds per-plugin configuration.
type PluginsConfig struct {
	Editor  EditorPluginConfig  `json:"editor"`
	Phrases PhrasesPluginConfig `json:"phrases"`
}

// EditorPluginConfig configures the note editor plugin.
type EditorPluginConfig struct {
	// AutosaveDebounce is how long after the last keystroke the note is
	// written back to the store.
	AutosaveDebounce time.Duration `json:"autosaveDebounce"`
	// DBPath is the note database path relative to the working directory.
	DBPath string `json:"dbPath"`
}

// PhrasesPluginConfig configures the phrase manager plugin.
type PhrasesPluginConfig struct {
	// StorePath overrides the phrase store location (default:
	// ~/.config/chartnote/phrases.json). Supports ~ expansion.
	StorePath string `json:"storePath"`
	// WatchStore reloads the phrase list when the backing file changes
	// outside the process.
	WatchStore bool `json:"watchStore"`
}

// AIConfig configures draft generation.
type AIConfig struct {
	// Model is the Gemini model used for phrase drafts.
	Model string `json:"model"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter bool `json:"showFooter"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Plugins: PluginsConfig{
			Editor: EditorPluginConfig{
				AutosaveDebounce: time.Second,
				DBPath:           ".chartnote/notes.db",
			},
			Phrases: PhrasesPluginConfig{
				WatchStore: true,
			},
		},
		AI: AIConfig{
			Model: "gemini-2.0-flash",
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter: true,
		},
	}
}

// Validate checks the configuration for errors, normalizing bad values.
func (c *Config) Validate() error {
	if c.Plugins.Editor.AutosaveDebounce <= 0 {
		c.Plugins.Editor.AutosaveDebounce = time.Second
	}
	if c.Plugins.Editor.DBPath == "" {
		c.Plugins.Editor.DBPath = ".chartnote/notes.db"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.0-flash"
	}
	return nil
}
