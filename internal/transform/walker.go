package transform

import (
	"strings"

	"golang.org/x/net/html"

	"diagramify/internal/identity"
)

// discovered describes one diagram block found during traversal.
type discovered struct {
	Lang      string
	Source    string
	Identity  string
	Node      *html.Node
	Ancestors []*html.Node // root-first chain, excluding the node itself
}

// discover walks the tree depth first, parents before children, and collects
// every code element tagged with a configured diagram language. The node's id
// attribute is set to its theme-independent identity during discovery, before
// any rendering starts, so the identity is stable regardless of which themes
// are requested or in what order renders complete.
//
// Duplicate source text is not deduplicated: two identical blocks are two
// occurrences sharing one identity and therefore the same cache entries.
func discover(doc *html.Node, languages []string) []discovered {
	var found []discovered
	var chain []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if lang, ok := diagramLanguage(n, languages); ok {
			source := textContent(n)
			if source != "" {
				id := identity.Identify(lang, source)
				setAttr(n, "id", id)
				ancestors := make([]*html.Node, len(chain))
				copy(ancestors, chain)
				found = append(found, discovered{
					Lang:      lang,
					Source:    source,
					Identity:  id,
					Node:      n,
					Ancestors: ancestors,
				})
			}
		}
		chain = append(chain, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		chain = chain[:len(chain)-1]
	}
	walk(doc)
	return found
}

// diagramLanguage reports whether n is a code element whose class list
// carries a language-<lang> token for one of the configured languages.
func diagramLanguage(n *html.Node, languages []string) (string, bool) {
	if n.Type != html.ElementNode || n.Data != "code" {
		return "", false
	}
	class, ok := attrValue(n, "class")
	if !ok {
		return "", false
	}
	for _, token := range strings.Fields(class) {
		lang, found := strings.CutPrefix(strings.ToLower(token), "language-")
		if !found {
			continue
		}
		for _, want := range languages {
			if lang == want {
				return lang, true
			}
		}
	}
	return "", false
}

// textContent flattens the subtree's text, preserving interior whitespace.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
