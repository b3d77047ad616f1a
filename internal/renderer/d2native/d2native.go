// Package d2native renders D2 diagrams in process, without an external tool.
// It implements the same Renderer interface as the mermaid-cli wrapper so the
// cache layer can treat both languages uniformly.
package d2native

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/spf13/afero"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	d2log "oss.terrastruct.com/d2/lib/log"
	"oss.terrastruct.com/d2/lib/textmeasure"
	"oss.terrastruct.com/util-go/go2"

	"diagramify/internal/renderer"
)

// themeIDs maps the plugin-facing theme names onto D2 theme catalog IDs.
// Unknown names fall back to the default theme; D2 itself has no notion of
// the mermaid theme vocabulary.
var themeIDs = map[string]int64{
	"default": 0,
	"neutral": 0,
	"null":    0,
	"base":    1,
	"forest":  101,
	"dark":    200,
}

// Renderer holds a lazily-initialized pool of text-measurement rulers, one
// per worker, since a ruler is not safe for concurrent use.
type Renderer struct {
	Fs afero.Fs

	pool     chan *textmeasure.Ruler
	initOnce sync.Once
	workers  int
}

// New creates a Renderer. Rulers are created on first render.
func New() *Renderer {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return &Renderer{
		Fs:      afero.NewOsFs(),
		pool:    make(chan *textmeasure.Ruler, workers),
		workers: workers,
	}
}

func (r *Renderer) ensureInitialized() {
	r.initOnce.Do(func() {
		for i := 0; i < r.workers; i++ {
			go func() {
				ruler, err := textmeasure.NewRuler()
				if err != nil {
					log.Printf("⚠️  Failed to initialize text ruler: %v", err)
					return
				}
				r.pool <- ruler
			}()
		}
	})
}

// ThemeID resolves a theme name to its D2 theme catalog ID.
func ThemeID(theme string) int64 {
	if id, ok := themeIDs[theme]; ok {
		return id
	}
	return 0
}

// Render compiles the D2 source at req.InputPath and writes SVG to
// req.OutputPath.
func (r *Renderer) Render(ctx context.Context, req renderer.Request) error {
	r.ensureInitialized()

	source, err := afero.ReadFile(r.Fs, req.InputPath)
	if err != nil {
		return fmt.Errorf("read d2 source: %w", err)
	}

	var ruler *textmeasure.Ruler
	select {
	case ruler = <-r.pool:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { r.pool <- ruler }()

	layout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	compileOpts := &d2lib.CompileOptions{
		Ruler: ruler,
		LayoutResolver: func(engine string) (d2graph.LayoutGraph, error) {
			return layout, nil
		},
	}
	renderOpts := &d2svg.RenderOpts{
		ThemeID: go2.Pointer(ThemeID(req.Theme)),
		Pad:     go2.Pointer(int64(0)),
	}

	ctx = d2log.WithDefault(ctx)
	diagram, _, err := d2lib.Compile(ctx, string(source), compileOpts, renderOpts)
	if err != nil {
		return fmt.Errorf("d2 compile failed: %w", err)
	}

	out, err := d2svg.Render(diagram, renderOpts)
	if err != nil {
		return fmt.Errorf("d2 render failed: %w", err)
	}
	if err := afero.WriteFile(r.Fs, req.OutputPath, out, 0644); err != nil {
		return fmt.Errorf("write d2 artifact: %w", err)
	}
	return nil
}
