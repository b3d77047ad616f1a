// Package identity derives stable content-based fingerprints for diagram
// source text. The same source always hashes to the same token, which makes
// the tokens usable both as render-cache keys and as DOM-facing ids.
package identity

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// TokenLength is the number of hex characters kept from the digest.
const TokenLength = 16

// Identify returns a theme-independent fingerprint of source, prefixed with
// the diagram-language namespace (e.g. "mermaid-3f9ab2c41d06e857").
func Identify(namespace, source string) string {
	h := blake3.New()
	_, _ = h.WriteString(namespace + ":" + source)
	return namespace + "-" + hex.EncodeToString(h.Sum(nil))[:TokenLength]
}

// IdentifyWithTheme salts the fingerprint with the theme name, so the same
// diagram rendered in two themes gets two distinct cache keys while staying
// stable across runs for a fixed theme.
func IdentifyWithTheme(namespace, source, theme string) string {
	h := blake3.New()
	_, _ = h.WriteString(namespace + ":" + source)
	_, _ = h.WriteString("\x00" + theme)
	return namespace + "-" + hex.EncodeToString(h.Sum(nil))[:TokenLength]
}
