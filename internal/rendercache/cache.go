// Package rendercache memoizes diagram renders on disk. Diagram source plus
// theme fully determines the artifact, so the cache is a pure content-keyed
// memoization layer with no eviction.
package rendercache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"diagramify/internal/identity"
	"diagramify/internal/renderer"
	"diagramify/internal/svgutil"
)

// RenderFailure reports that the renderer did not produce the expected
// artifact for one (diagram, theme) pair.
type RenderFailure struct {
	Identity string
	Theme    string
	Err      error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("render diagram %s theme %q: %v", e.Identity, e.Theme, e.Err)
}

func (e *RenderFailure) Unwrap() error { return e.Err }

// Cache memoizes renders for one diagram language.
type Cache struct {
	store      Store
	renderer   renderer.Renderer
	namespace  string
	fs         afero.Fs
	workDir    string
	stagingExt string
}

// Option configures a Cache.
type Option func(*Cache)

// WithFs substitutes the filesystem used for staging and artifact readback.
func WithFs(fs afero.Fs) Option {
	return func(c *Cache) { c.fs = fs }
}

// WithWorkDir sets the directory for staging and renderer output files.
func WithWorkDir(dir string) Option {
	return func(c *Cache) { c.workDir = dir }
}

// WithStagingExt sets the extension of staged source files (".mmd", ".d2").
func WithStagingExt(ext string) Option {
	return func(c *Cache) { c.stagingExt = ext }
}

// New creates a cache for the given diagram language namespace.
func New(store Store, r renderer.Renderer, namespace string, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		renderer:   r,
		namespace:  namespace,
		fs:         afero.NewOsFs(),
		workDir:    os.TempDir(),
		stagingExt: ".mmd",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RenderOnce returns the artifact for (source, theme). A cached artifact is
// returned verbatim without invoking the renderer; cached reports which path
// was taken. On a miss the source is staged, the renderer invoked, and the
// optimized artifact stored before returning. Nothing is cached on failure.
//
// There is no cross-call locking: two concurrent misses for the same key both
// render and the last writer wins, which is only a performance concern for a
// deterministic renderer.
func (c *Cache) RenderOnce(ctx context.Context, source, theme string, p renderer.ProcessOptions) (artifact []byte, cached bool, err error) {
	id := identity.Identify(c.namespace, source)
	key := identity.IdentifyWithTheme(c.namespace, source, theme)
	name := key + "-" + theme

	if art, ok, err := c.store.Get(name); err != nil {
		return nil, false, fmt.Errorf("cache read for %s: %w", name, err)
	} else if ok {
		return art, true, nil
	}

	in := filepath.Join(c.workDir, name+c.stagingExt)
	out := filepath.Join(c.workDir, name+".svg")
	if err := afero.WriteFile(c.fs, in, []byte(source), 0644); err != nil {
		return nil, false, fmt.Errorf("stage diagram source %s: %w", name, err)
	}

	req := renderer.Request{
		InputPath:  in,
		OutputPath: out,
		Theme:      theme,
		SVGID:      id,
		Background: "transparent",
		Process:    p,
	}
	if err := c.renderer.Render(ctx, req); err != nil {
		return nil, false, &RenderFailure{Identity: id, Theme: theme, Err: err}
	}

	raw, err := afero.ReadFile(c.fs, out)
	if err != nil {
		return nil, false, &RenderFailure{Identity: id, Theme: theme, Err: fmt.Errorf("renderer produced no output: %w", err)}
	}

	art := svgutil.Optimize(raw)
	if err := c.store.Put(name, art); err != nil {
		return nil, false, fmt.Errorf("cache write for %s: %w", name, err)
	}
	return art, false, nil
}
