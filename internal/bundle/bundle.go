// Package bundle emits the companion plugin for a third-party note-taking
// host application. The artifacts are static text templates parameterized
// only by version; chartnote never executes or parses them.
package bundle

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates/manifest.json.tmpl templates/main.js.tmpl
var templateFS embed.FS

// Artifacts emitted into the bundle directory.
const (
	ManifestName = "manifest.json"
	ScriptName   = "main.js"
)

type params struct {
	Version string
}

// Write renders the companion plugin bundle into dir, creating it if needed.
// Returns the paths of the written files.
func Write(dir, version string) ([]string, error) {
	if version == "" {
		version = "0.0.0"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create bundle dir: %w", err)
	}

	files := map[string]string{
		"templates/manifest.json.tmpl": ManifestName,
		"templates/main.js.tmpl":       ScriptName,
	}

	var written []string
	for src, dst := range files {
		out, err := render(src, params{Version: version})
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, dst)
		if err := os.WriteFile(path, out, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", dst, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func render(name string, p params) ([]byte, error) {
	tmpl, err := template.ParseFS(templateFS, name)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
