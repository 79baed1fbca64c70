// Package documents assembles the case-document context blob consumed by the
// analysis agents. The core treats the result as opaque text.
package documents

import (
	"fmt"
	"strings"
)

// Document is one case document already converted to text upstream.
type Document struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content"`
}

// BuildContext renders all documents as a single text blob in the
// "=== name ===" block format the analysis prompts expect.
func BuildContext(docs []Document) string {
	if len(docs) == 0 {
		return "No documents provided."
	}

	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, fmt.Sprintf("=== %s ===\n%s", doc.Name, doc.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// Summarize renders a short per-document digest for intent classification,
// truncating each document's text.
func Summarize(docs []Document, limit int) string {
	if limit <= 0 {
		limit = 200
	}
	lines := make([]string, 0, len(docs))
	for _, doc := range docs {
		text := doc.Content
		if len(text) > limit {
			text = text[:limit] + "..."
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", doc.Name, doc.Type, text))
	}
	return strings.Join(lines, "\n")
}
