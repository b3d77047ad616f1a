// Package markdown produces the HTML this pipeline transforms. Its only
// diagram-specific behavior is the code-block wrapper: configured diagram
// fences come out as plain pre/code with a language- class token so discovery
// finds them, while every other fence gets the highlighted wrapper.
package markdown

import (
	"bytes"
	"strings"

	chroma_html "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Converter turns markdown into the HTML document the transformer consumes.
type Converter struct {
	md           goldmark.Markdown
	diagramLangs map[string]bool
}

// NewConverter configures the goldmark pipeline. diagramLanguages lists the
// fence languages to leave unhighlighted for later diagram rendering.
func NewConverter(diagramLanguages []string) *Converter {
	c := &Converter{diagramLangs: make(map[string]bool, len(diagramLanguages))}
	for _, lang := range diagramLanguages {
		c.diagramLangs[strings.ToLower(lang)] = true
	}

	c.md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			meta.Meta,
			&admonitions.Extender{},
			highlighting.NewHighlighting(
				highlighting.WithStyle("nord"),
				highlighting.WithFormatOptions(
					chroma_html.WithClasses(true),
				),
				highlighting.WithWrapperRenderer(c.codeBlockWrapper),
			),
			passthrough.New(passthrough.Config{
				InlineDelimiters: []passthrough.Delimiters{{Open: "$", Close: "$"}, {Open: "\\(", Close: "\\)"}},
				BlockDelimiters:  []passthrough.Delimiters{{Open: "$$", Close: "$$"}, {Open: "\\[", Close: "\\]"}},
			}),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return c
}

func (c *Converter) codeBlockWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	langBytes, _ := ctx.Language()
	lang := strings.ToLower(strings.TrimSpace(string(langBytes)))

	if c.diagramLangs[lang] {
		if entering {
			_, _ = w.WriteString(`<pre><code class="language-` + lang + `">`)
		} else {
			_, _ = w.WriteString("</code></pre>\n")
		}
		return
	}

	if lang == "" {
		lang = "text"
	}
	if entering {
		_, _ = w.WriteString(`<div class="code-wrapper" data-lang="` + lang + `">`)
	} else {
		_, _ = w.WriteString(`</div>`)
	}
}

// Convert renders src and returns the HTML along with any front matter.
func (c *Converter) Convert(src []byte) ([]byte, map[string]interface{}, error) {
	var buf bytes.Buffer
	pc := parser.NewContext()
	if err := c.md.Convert(src, &buf, parser.WithContext(pc)); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), meta.Get(pc), nil
}
