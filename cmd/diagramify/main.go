// Command diagramify reads a markdown or HTML document, renders every
// diagram code block to themed SVG variants, and writes the transformed HTML.
package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"diagramify/internal/config"
	"diagramify/internal/markdown"
	"diagramify/internal/rendercache"
	"diagramify/internal/renderer"
	"diagramify/internal/renderer/d2native"
	"diagramify/internal/renderer/mermaidcli"
	"diagramify/internal/transform"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	outPath := flag.String("o", "", "output file (default: stdout)")
	themesFlag := flag.String("themes", "", "comma-separated theme list override")
	languagesFlag := flag.String("languages", "", "comma-separated diagram language override")
	cacheDir := flag.String("cache-dir", "", "artifact cache directory override")
	concurrency := flag.Int("concurrency", 0, "max simultaneous renders (0 = unbounded)")
	boltPath := flag.String("cache-db", "", "use a persistent bolt artifact store at this path")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: diagramify [flags] <file.md|file.html>")
	}
	inputPath := flag.Arg(0)

	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		opts = loaded
	}
	if *themesFlag != "" {
		opts.RenderThemes = splitList(*themesFlag)
	}
	if *languagesFlag != "" {
		opts.Languages = splitList(*languagesFlag)
	}
	if *cacheDir != "" {
		opts.CacheDir = *cacheDir
	}
	if *concurrency > 0 {
		opts.Concurrency = *concurrency
	}
	opts.Normalize()

	source, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", inputPath, err)
	}

	docHTML := source
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".md", ".markdown":
		converter := markdown.NewConverter(opts.Languages)
		docHTML, _, err = converter.Convert(source)
		if err != nil {
			log.Fatalf("❌ Markdown conversion failed: %v", err)
		}
	}

	doc, err := html.Parse(bytes.NewReader(docHTML))
	if err != nil {
		log.Fatalf("❌ Failed to parse document: %v", err)
	}

	var store rendercache.Store
	if *boltPath != "" {
		bs, err := rendercache.OpenBolt(*boltPath)
		if err != nil {
			log.Fatalf("❌ Failed to open artifact store: %v", err)
		}
		defer func() { _ = bs.Close() }()
		store = bs
	} else {
		store = rendercache.NewFileStore(nil, opts.CacheDir)
	}

	renderers := map[string]renderer.Renderer{
		"mermaid": mermaidcli.New(opts.MermaidBinary),
	}
	for _, lang := range opts.Languages {
		if lang == "d2" {
			renderers["d2"] = d2native.New()
		}
	}

	t := transform.New(opts, store, renderers)
	if err := t.Transform(context.Background(), doc); err != nil {
		log.Fatalf("❌ Transform failed: %v", err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("❌ Failed to create %s: %v", *outPath, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if err := html.Render(out, doc); err != nil {
		log.Fatalf("❌ Failed to serialize document: %v", err)
	}

	log.Printf("🎨 %s", t.Metrics().Summary())
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
