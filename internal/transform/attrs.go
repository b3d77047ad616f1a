package transform

import (
	"strings"

	"golang.org/x/net/html"
)

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// setAttr updates an existing attribute in place or appends a new one.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// appendClasses adds tokens to the node's class list, preserving existing
// tokens and order.
func appendClasses(n *html.Node, tokens []string) {
	if len(tokens) == 0 {
		return
	}
	existing, _ := attrValue(n, "class")
	joined := strings.Join(tokens, " ")
	if existing != "" {
		joined = existing + " " + joined
	}
	setAttr(n, "class", joined)
}

func elem(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, Attr: attrs}
}
