package svgutil

import (
	"bytes"
	"testing"
)

func TestOptimize_ScrubsBookkeepingAttrs(t *testing.T) {
	in := []byte(`<svg id="mermaid-abc" data-id="n1" data-node="x" style=""><g data-id="n2"><text>hi</text></g></svg>`)
	out := Optimize(in)

	if !bytes.Contains(out, []byte("<svg")) {
		t.Fatalf("output is not svg: %s", out)
	}
	if !bytes.Contains(out, []byte("mermaid-abc")) {
		t.Errorf("root id was dropped: %s", out)
	}
	for _, gone := range []string{"data-id", "data-node", `style=""`} {
		if bytes.Contains(out, []byte(gone)) {
			t.Errorf("output still contains %q: %s", gone, out)
		}
	}
}

func TestOptimize_NotLarger(t *testing.T) {
	in := []byte(`<svg viewBox="0 0 10 10">   <g>  <rect x="1" y="1"/>  </g>   </svg>`)
	out := Optimize(in)
	if len(out) > len(in) {
		t.Errorf("optimize grew the artifact: %d -> %d bytes", len(in), len(out))
	}
	if !bytes.Contains(out, []byte("rect")) {
		t.Errorf("content lost: %s", out)
	}
}
