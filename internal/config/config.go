// Package config holds the plugin surface exposed to the build pipeline.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"diagramify/internal/renderer"
)

// Options configures one Transformer.
type Options struct {
	// RenderThemes determines which artifacts are produced; the first entry
	// is the initially visible one.
	RenderThemes []string `yaml:"renderThemes"`
	// SvgClassNames are extra class tokens appended to each rendered
	// graphic's root element.
	SvgClassNames []string `yaml:"svgClassNames"`
	// Languages lists the fence languages treated as diagram blocks.
	Languages []string `yaml:"languages"`
	// Concurrency caps simultaneous renderer invocations; 0 means unbounded.
	Concurrency int `yaml:"concurrency"`
	// CacheDir overrides the artifact cache location (default: temp dir).
	CacheDir string `yaml:"cacheDir"`
	// MermaidBinary overrides the mermaid-cli executable name.
	MermaidBinary string `yaml:"mermaidBinary"`
	// Process is forwarded verbatim to renderers that launch a process.
	Process renderer.ProcessOptions `yaml:"rendererProcessOptions"`
}

// Default returns the options used when nothing is configured.
func Default() Options {
	return Options{
		RenderThemes: []string{"default"},
		Languages:    []string{"mermaid"},
		Process:      renderer.ProcessOptions{Headless: true},
	}
}

// Normalize fills zero values with defaults so callers can hand-build a
// partial Options.
func (o *Options) Normalize() {
	if len(o.RenderThemes) == 0 {
		o.RenderThemes = []string{"default"}
	}
	if len(o.Languages) == 0 {
		o.Languages = []string{"mermaid"}
	}
	if o.Concurrency < 0 {
		o.Concurrency = 0
	}
}

// Load reads YAML options from path on top of the defaults.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse config %s: %w", path, err)
	}
	opts.Normalize()
	return opts, nil
}
