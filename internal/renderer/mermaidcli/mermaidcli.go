// Package mermaidcli invokes the mermaid-cli (mmdc) external renderer.
package mermaidcli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"diagramify/internal/renderer"
)

// DefaultBinary is the mermaid-cli executable looked up on PATH.
const DefaultBinary = "mmdc"

// Renderer shells out to mermaid-cli for each request.
type Renderer struct {
	Binary string
}

// New returns a Renderer using the given binary name, or DefaultBinary if
// empty.
func New(binary string) *Renderer {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Renderer{Binary: binary}
}

// launchConfig is the puppeteer config file mmdc accepts via -p.
type launchConfig struct {
	Headless bool     `json:"headless"`
	Args     []string `json:"args,omitempty"`
}

// writeLaunchConfig persists the process options to a temp file and returns
// its path with a cleanup func.
func writeLaunchConfig(p renderer.ProcessOptions) (string, func(), error) {
	data, err := json.Marshal(launchConfig{Headless: p.Headless, Args: p.ExtraArgs})
	if err != nil {
		return "", nil, err
	}
	f, err := os.CreateTemp("", "mermaid-puppeteer-*.json")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// buildArgs assembles the mmdc argument list for a request.
func buildArgs(req renderer.Request, configPath string) []string {
	args := []string{"-i", req.InputPath, "-o", req.OutputPath}
	if req.Theme != "" {
		args = append(args, "-t", req.Theme)
	}
	bg := req.Background
	if bg == "" {
		bg = "transparent"
	}
	args = append(args, "-b", bg)
	if req.SVGID != "" {
		args = append(args, "--svgId", req.SVGID)
	}
	if configPath != "" {
		args = append(args, "-p", configPath)
	}
	return args
}

// Render runs mmdc. A nonzero exit or a missing binary is reported with the
// command output included.
func (r *Renderer) Render(ctx context.Context, req renderer.Request) error {
	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("mermaid-cli not found: %w", err)
	}

	configPath, cleanup, err := writeLaunchConfig(req.Process)
	if err != nil {
		return fmt.Errorf("write puppeteer config: %w", err)
	}
	defer cleanup()

	cmd := exec.CommandContext(ctx, bin, buildArgs(req, configPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("mmdc failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
