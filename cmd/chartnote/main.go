package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkessler/chartnote/internal/app"
	"github.com/mkessler/chartnote/internal/bundle"
	"github.com/mkessler/chartnote/internal/config"
	"github.com/mkessler/chartnote/internal/keymap"
	"github.com/mkessler/chartnote/internal/phrase"
	"github.com/mkessler/chartnote/internal/plugin"
	"github.com/mkessler/chartnote/internal/plugins/editor"
	"github.com/mkessler/chartnote/internal/plugins/phrases"
	"github.com/mkessler/chartnote/internal/state"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath    = flag.String("config", "", "path to config file")
	projectRoot   = flag.String("project", ".", "project root directory")
	debugFlag     = flag.Bool("debug", false, "enable debug logging")
	versionFlag   = flag.Bool("version", false, "print version and exit")
	shortVersion  = flag.Bool("v", false, "print version and exit (short)")
	exportFlag    = flag.Bool("export", false, "export phrases to the project directory and exit")
	emitPluginDir = flag.String("emit-plugin", "", "write the companion editor plugin bundle to DIR and exit")
	pluginVersion = flag.String("plugin-version", "", "version stamp for -emit-plugin (default: build version)")
)

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("chartnote version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	workDir, err := filepath.Abs(*projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve project root: %v\n", err)
		os.Exit(1)
	}

	// Headless bundle emission: no TUI, no state.
	if *emitPluginDir != "" {
		version := *pluginVersion
		if version == "" {
			version = effectiveVersion(Version)
		}
		written, err := bundle.Write(*emitPluginDir, version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to emit plugin bundle: %v\n", err)
			os.Exit(1)
		}
		for _, path := range written {
			fmt.Println(path)
		}
		os.Exit(0)
	}

	storePath := cfg.Plugins.Phrases.StorePath
	if storePath == "" {
		storePath = config.DefaultPhraseStorePath()
	}
	phraseStore := phrase.NewStore(storePath, logger)

	// Headless phrase export: no TUI, no state.
	if *exportFlag {
		path, err := phraseStore.Export(workDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to export phrases: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
		os.Exit(0)
	}

	// Load persistent state (ignore errors - state is optional)
	_ = state.Init()

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	km.ApplyOverrides(cfg.Keymap.Overrides)

	pluginCtx := &plugin.Context{
		WorkDir: workDir,
		Config:  cfg,
		Logger:  logger,
		Keymap:  km,
		Phrases: phraseStore,
		Version: effectiveVersion(Version),
	}

	// Registration order determines tab order.
	registry := plugin.NewRegistry()
	registry.Register(editor.New())
	registry.Register(phrases.New())

	for _, p := range registry.Plugins() {
		if err := p.Init(pluginCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize %s plugin: %v\n", p.ID(), err)
			os.Exit(1)
		}
	}

	initialPlugin := state.GetActivePlugin()
	model := app.New(registry, km, cfg, effectiveVersion(Version), initialPlugin)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}

	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chartnote [options]\n\n")
		fmt.Fprintf(os.Stderr, "A TUI clinical note editor with dot-phrase expansion.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
