package markdown

import (
	"strings"
	"testing"
)

func TestConvert_DiagramFenceStaysPlain(t *testing.T) {
	src := "# Title\n\n```mermaid\ngraph TD; A-->B;\n```\n"
	conv := NewConverter([]string{"mermaid"})

	out, _, err := conv.Convert([]byte(src))
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `<code class="language-mermaid">`) {
		t.Errorf("mermaid fence not emitted as plain code block:\n%s", html)
	}
	if !strings.Contains(html, "graph TD; A--&gt;B;") && !strings.Contains(html, "graph TD; A-->B;") {
		t.Errorf("diagram source lost:\n%s", html)
	}
}

func TestConvert_OtherFencesGetWrapper(t *testing.T) {
	src := "```go\nfmt.Println(42)\n```\n"
	conv := NewConverter([]string{"mermaid"})

	out, _, err := conv.Convert([]byte(src))
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `<div class="code-wrapper" data-lang="go">`) {
		t.Errorf("go fence missing code wrapper:\n%s", html)
	}
	if strings.Contains(html, `<code class="language-go">`) {
		t.Errorf("go fence emitted as diagram-style block:\n%s", html)
	}
}

func TestConvert_FrontMatter(t *testing.T) {
	src := "---\ntitle: Test Page\ndraft: true\n---\n\nBody text.\n"
	conv := NewConverter([]string{"mermaid"})

	out, meta, err := conv.Convert([]byte(src))
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if got, _ := meta["title"].(string); got != "Test Page" {
		t.Errorf("meta title = %q, want Test Page", got)
	}
	if strings.Contains(string(out), "title: Test Page") {
		t.Error("front matter leaked into body HTML")
	}
}

func TestConvert_MultipleDiagramLanguages(t *testing.T) {
	src := "```mermaid\ngraph TD; A-->B;\n```\n\n```d2\nx -> y\n```\n"
	conv := NewConverter([]string{"mermaid", "d2"})

	out, _, err := conv.Convert([]byte(src))
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	html := string(out)
	for _, want := range []string{`<code class="language-mermaid">`, `<code class="language-d2">`} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %s:\n%s", want, html)
		}
	}
}
