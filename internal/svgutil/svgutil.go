// Package svgutil post-processes rendered SVG markup before it is cached.
package svgutil

import (
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

var minifier = func() *minify.M {
	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}()

var (
	dataAttrRe   = regexp.MustCompile(`\s+data-(?:id|node)="[^"]*"`)
	emptyStyleRe = regexp.MustCompile(`\s+style=""`)
)

// Optimize scrubs renderer bookkeeping attributes and minifies the markup.
// If minification fails the scrubbed markup is returned unchanged.
func Optimize(artifact []byte) []byte {
	out := dataAttrRe.ReplaceAll(artifact, nil)
	out = emptyStyleRe.ReplaceAll(out, nil)

	minified, err := minifier.Bytes("image/svg+xml", out)
	if err != nil {
		return out
	}
	return minified
}
