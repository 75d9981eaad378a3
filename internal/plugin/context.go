package plugin

import (
	"log/slog"

	"github.com/mkessler/chartnote/internal/config"
	"github.com/mkessler/chartnote/internal/keymap"
	"github.com/mkessler/chartnote/internal/phrase"
)

// Context carries shared dependencies into plugins at Init time.
type Context struct {
	WorkDir string
	Config  *config.Config
	Logger  *slog.Logger
	Keymap  *keymap.Registry

	// Phrases is the shared phrase store. The phrases plugin owns
	// mutation; the editor only reads.
	Phrases *phrase.Store

	// Version is the build version, used for display and bundle emission.
	Version string
}
