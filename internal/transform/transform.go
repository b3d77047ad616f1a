// Package transform rewrites a parsed HTML document so that every diagram
// code block is replaced by its rendered, themed SVG variants. Discovery,
// rendering, and rewriting make one pass: each diagram's splice happens as
// soon as its own render set is complete, independent of other diagrams.
package transform

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"diagramify/internal/config"
	"diagramify/internal/metrics"
	"diagramify/internal/rendercache"
	"diagramify/internal/renderer"
)

// Transformer runs the discover/render/rewrite pipeline over a document.
type Transformer struct {
	opts      config.Options
	caches    map[string]*rendercache.Cache
	languages []string
	sem       *semaphore.Weighted
	treeMu    sync.Mutex
	metrics   *metrics.TransformMetrics
}

// New builds a Transformer. renderers maps each diagram language to its
// renderer; configured languages without a renderer are skipped with a
// warning. All languages share the one artifact store.
func New(opts config.Options, store rendercache.Store, renderers map[string]renderer.Renderer) *Transformer {
	opts.Normalize()

	caches := make(map[string]*rendercache.Cache, len(opts.Languages))
	var languages []string
	for _, lang := range opts.Languages {
		r, ok := renderers[lang]
		if !ok || r == nil {
			log.Printf("⚠️  no renderer configured for %q blocks, skipping", lang)
			continue
		}
		var copts []rendercache.Option
		if lang == "d2" {
			copts = append(copts, rendercache.WithStagingExt(".d2"))
		}
		if opts.CacheDir != "" {
			copts = append(copts, rendercache.WithWorkDir(opts.CacheDir))
		}
		caches[lang] = rendercache.New(store, r, lang, copts...)
		languages = append(languages, lang)
	}

	var sem *semaphore.Weighted
	if opts.Concurrency > 0 {
		sem = semaphore.NewWeighted(int64(opts.Concurrency))
	}

	return &Transformer{
		opts:      opts,
		caches:    caches,
		languages: languages,
		sem:       sem,
		metrics:   metrics.New(),
	}
}

// Metrics exposes the counters for the last Transform call.
func (t *Transformer) Metrics() *metrics.TransformMetrics { return t.metrics }

// Transform mutates doc in place. All diagrams render concurrently, and per
// diagram all themes render concurrently; a failure anywhere fails the whole
// call once every started render has settled, though splices already
// completed for successful diagrams are kept.
func (t *Transformer) Transform(ctx context.Context, doc *html.Node) error {
	start := time.Now()
	defer func() { t.metrics.SetDuration(time.Since(start)) }()

	diagrams := discover(doc, t.languages)
	t.metrics.SetFound(len(diagrams))
	if len(diagrams) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range diagrams {
		g.Go(func() error {
			byTheme, err := t.renderDiagram(gctx, d)
			if err != nil {
				return err
			}
			// html.Node mutation is not safe across goroutines even on
			// disjoint splice points; rewrites are short, so serialize them.
			t.treeMu.Lock()
			err = t.rewrite(d, byTheme)
			t.treeMu.Unlock()
			if err != nil {
				return err
			}
			t.metrics.AddRendered()
			return nil
		})
	}
	return g.Wait()
}

// renderDiagram fans out over the requested themes and assembles the full
// theme map before returning. Theme order is the caller-supplied request
// order; completion order is arbitrary.
func (t *Transformer) renderDiagram(ctx context.Context, d discovered) (map[string][]byte, error) {
	cache := t.caches[d.Lang]
	if cache == nil {
		return nil, fmt.Errorf("no renderer for %q blocks", d.Lang)
	}

	byTheme := make(map[string][]byte, len(t.opts.RenderThemes))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, theme := range t.opts.RenderThemes {
		g.Go(func() error {
			if t.sem != nil {
				if err := t.sem.Acquire(gctx, 1); err != nil {
					return err
				}
				defer t.sem.Release(1)
			}
			artifact, cached, err := cache.RenderOnce(gctx, d.Source, theme, t.opts.Process)
			if err != nil {
				return err
			}
			if cached {
				t.metrics.AddCacheHit()
			} else {
				t.metrics.AddCacheMiss()
			}
			mu.Lock()
			byTheme[theme] = artifact
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return byTheme, nil
}
