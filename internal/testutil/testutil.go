// Package testutil holds shared fixtures for renderer and cache tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/afero"

	"diagramify/internal/renderer"
)

// FakeRenderer writes a canned SVG to the output path and records calls.
type FakeRenderer struct {
	Fs afero.Fs
	// SVG overrides the produced markup verbatim; when empty, a default svg
	// embedding the request's id and theme is written.
	SVG string
	// Fail makes every invocation fail.
	Fail bool
	// FailTheme makes only that theme's invocations fail.
	FailTheme string
	// SkipOutput makes the render "succeed" without producing the artifact.
	SkipOutput bool

	mu    sync.Mutex
	calls int
}

var ErrFakeRender = errors.New("fake render failure")

func (r *FakeRenderer) Render(ctx context.Context, req renderer.Request) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if r.Fail || (r.FailTheme != "" && r.FailTheme == req.Theme) {
		return ErrFakeRender
	}
	if r.SkipOutput {
		return nil
	}

	svg := r.SVG
	if svg == "" {
		svg = fmt.Sprintf(`<svg id="%s" data-rendered-theme="%s"><g><text>diagram</text></g></svg>`, req.SVGID, req.Theme)
	}
	fs := r.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return afero.WriteFile(fs, req.OutputPath, []byte(svg), 0644)
}

// Calls returns how many times Render was invoked.
func (r *FakeRenderer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// MemStore is an in-memory artifact store that records call counts, so tests
// can assert cache behavior without touching the filesystem.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
	Gets int
	Puts int
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gets++
	art, ok := s.data[key]
	return art, ok, nil
}

func (s *MemStore) Put(key string, artifact []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Puts++
	s.data[key] = append([]byte(nil), artifact...)
	return nil
}

// Len returns the number of stored artifacts.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
