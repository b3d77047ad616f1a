// Package renderer defines the collaborator interface for turning a staged
// diagram source file into an SVG artifact file.
package renderer

import "context"

// ProcessOptions are launch parameters forwarded verbatim to renderers that
// spawn an external process. In-process renderers ignore them.
type ProcessOptions struct {
	Headless  bool     `yaml:"headless"`
	ExtraArgs []string `yaml:"extraArgs"`
}

// Request describes one render invocation. InputPath holds the diagram
// source, OutputPath is where the renderer must produce SVG markup.
type Request struct {
	InputPath  string
	OutputPath string
	Theme      string
	// SVGID is embedded as the root id of the produced markup so styling and
	// behavior can target the diagram.
	SVGID      string
	Background string
	Process    ProcessOptions
}

// Renderer produces the artifact at req.OutputPath or fails. Implementations
// must be safe for concurrent use.
type Renderer interface {
	Render(ctx context.Context, req Request) error
}
