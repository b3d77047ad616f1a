package transform

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"diagramify/internal/identity"
)

func parseDoc(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return doc
}

func TestDiscover_FindsMermaidBlocks(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<pre><code class="language-mermaid">graph TD; A--&gt;B;</code></pre>
		<pre><code class="language-go">fmt.Println(42)</code></pre>
	</body></html>`)

	found := discover(doc, []string{"mermaid"})
	if len(found) != 1 {
		t.Fatalf("discover() found %d diagrams, want 1", len(found))
	}

	d := found[0]
	if d.Lang != "mermaid" {
		t.Errorf("Lang = %q, want mermaid", d.Lang)
	}
	if d.Source != "graph TD; A-->B;" {
		t.Errorf("Source = %q, entities should be decoded", d.Source)
	}
	if want := identity.Identify("mermaid", d.Source); d.Identity != want {
		t.Errorf("Identity = %q, want %q", d.Identity, want)
	}

	// Discovery stamps the theme-independent identity onto the node.
	if id, ok := attrValue(d.Node, "id"); !ok || id != d.Identity {
		t.Errorf("node id = %q, want %q", id, d.Identity)
	}

	if len(d.Ancestors) == 0 || d.Ancestors[len(d.Ancestors)-1].Data != "pre" {
		t.Error("ancestor chain should end at the pre wrapper")
	}
}

func TestDiscover_DocumentOrder(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<pre><code class="language-mermaid">graph TD; A--&gt;B;</code></pre>
		<pre><code class="language-mermaid">graph LR; C--&gt;D;</code></pre>
	</body></html>`)

	found := discover(doc, []string{"mermaid"})
	if len(found) != 2 {
		t.Fatalf("discover() found %d diagrams, want 2", len(found))
	}
	if found[0].Source != "graph TD; A-->B;" || found[1].Source != "graph LR; C-->D;" {
		t.Errorf("discovery order does not match document order: %q, %q",
			found[0].Source, found[1].Source)
	}
}

func TestDiscover_DuplicateContentIsTwoOccurrences(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<pre><code class="language-mermaid">graph TD; A--&gt;B;</code></pre>
		<pre><code class="language-mermaid">graph TD; A--&gt;B;</code></pre>
	</body></html>`)

	found := discover(doc, []string{"mermaid"})
	if len(found) != 2 {
		t.Fatalf("duplicate blocks collapsed: got %d, want 2", len(found))
	}
	if found[0].Identity != found[1].Identity {
		t.Error("identical sources should share one identity")
	}
	if found[0].Node == found[1].Node {
		t.Error("occurrences should reference distinct nodes")
	}
}

func TestDiscover_SkipsEmptyBlocks(t *testing.T) {
	doc := parseDoc(t, `<html><body><pre><code class="language-mermaid">   </code></pre></body></html>`)
	if found := discover(doc, []string{"mermaid"}); len(found) != 0 {
		t.Errorf("discover() found %d diagrams in empty block, want 0", len(found))
	}
}

func TestDiagramLanguage(t *testing.T) {
	cases := []struct {
		name      string
		html      string
		languages []string
		wantLang  string
		wantOK    bool
	}{
		{"mermaid", `<code class="language-mermaid">x</code>`, []string{"mermaid"}, "mermaid", true},
		{"extra tokens", `<code class="foo language-mermaid bar">x</code>`, []string{"mermaid"}, "mermaid", true},
		{"mixed case", `<code class="Language-Mermaid">x</code>`, []string{"mermaid"}, "mermaid", true},
		{"d2 enabled", `<code class="language-d2">x</code>`, []string{"mermaid", "d2"}, "d2", true},
		{"d2 disabled", `<code class="language-d2">x</code>`, []string{"mermaid"}, "", false},
		{"other language", `<code class="language-go">x</code>`, []string{"mermaid"}, "", false},
		{"no class", `<code>x</code>`, []string{"mermaid"}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := parseDoc(t, "<html><body>"+tc.html+"</body></html>")
			found := discover(doc, tc.languages)
			if tc.wantOK && (len(found) != 1 || found[0].Lang != tc.wantLang) {
				t.Errorf("discover() = %v, want one %s diagram", found, tc.wantLang)
			}
			if !tc.wantOK && len(found) != 0 {
				t.Errorf("discover() = %v, want none", found)
			}
		})
	}
}
