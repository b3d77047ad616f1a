package transform

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	groupClass   = "diagram-container"
	groupIDAttr  = "data-diagram-id"
	variantClass = "diagram-variant"
	hiddenClass  = "diagram-hidden"
	themeAttr    = "data-diagram-theme"
)

// fragmentContext is the context element under which rendered markup is
// re-parsed into tree nodes.
var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

// resolveTarget decides what gets replaced and where. Diagram blocks are
// conventionally nested inside a pre wrapper that has no meaning once the
// block becomes a rendered image, so when the immediate parent is a pre, the
// pre itself is replaced and the grandparent is the splice point; otherwise
// the diagram node is replaced directly under its parent.
func resolveTarget(node *html.Node, ancestors []*html.Node) (target, spliceParent *html.Node) {
	if len(ancestors) == 0 {
		return node, nil
	}
	parent := ancestors[len(ancestors)-1]
	if parent.Type == html.ElementNode && parent.Data == "pre" {
		if len(ancestors) < 2 {
			return parent, nil
		}
		return parent, ancestors[len(ancestors)-2]
	}
	return node, parent
}

// rewrite splices the rendered theme variants into the tree in place of the
// diagram block. One variant container is built per requested theme, in
// request order; the first is visible and the rest are hidden, encoding "pick
// the first theme as the default display".
func (t *Transformer) rewrite(d discovered, byTheme map[string][]byte) error {
	group := elem("div",
		html.Attribute{Key: "class", Val: groupClass},
		html.Attribute{Key: groupIDAttr, Val: d.Identity},
	)

	visible := false
	for _, theme := range t.opts.RenderThemes {
		artifact, ok := byTheme[theme]
		if !ok {
			continue
		}

		class := variantClass
		variant := elem("div", html.Attribute{Key: themeAttr, Val: theme})
		if visible {
			class += " " + hiddenClass
			variant.Attr = append(variant.Attr, html.Attribute{Key: "hidden", Val: ""})
		}
		visible = true
		setAttr(variant, "class", class)

		nodes, err := html.ParseFragment(bytes.NewReader(artifact), fragmentContext)
		if err != nil {
			return fmt.Errorf("parse rendered markup for %s theme %q: %w", d.Identity, theme, err)
		}
		for _, n := range nodes {
			if n.Type == html.ElementNode && strings.EqualFold(n.Data, "svg") {
				appendClasses(n, t.opts.SvgClassNames)
			}
			variant.AppendChild(n)
		}
		group.AppendChild(variant)
	}

	target, spliceParent := resolveTarget(d.Node, d.Ancestors)
	if spliceParent == nil || !replaceChild(spliceParent, target, group) {
		// The tree changed between discovery and rewrite. Leave the original
		// block in place rather than failing the whole transform.
		log.Printf("⚠️  diagram %s: original block no longer in tree, leaving it untouched", d.Identity)
		t.metrics.AddSpliceMiss()
	}
	return nil
}

// replaceChild swaps old for repl at the same index among parent's children.
// No other sibling is disturbed.
func replaceChild(parent, old, repl *html.Node) bool {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c == old {
			parent.InsertBefore(repl, c)
			parent.RemoveChild(c)
			return true
		}
	}
	return false
}
