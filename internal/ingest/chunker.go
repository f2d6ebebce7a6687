// Package ingest splits raw document text into chunks sized for downstream
// tagging and card generation.
package ingest

import "strings"

// charsPerToken is the rough chars-per-token ratio used to convert a token
// budget into a character budget.
const charsPerToken = 4

// ChunkText splits text into chunks of at most maxTokens (approximate),
// preferring paragraph boundaries. A single paragraph larger than the budget
// is split on sentence-ish boundaries, and as a last resort hard-split.
// Whitespace-only input yields no chunks.
func ChunkText(text string, maxTokens int) []string {
	maxChars := maxTokens * charsPerToken
	if maxChars <= 0 {
		maxChars = 800 * charsPerToken
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, para := range splitParagraphs(text) {
		if current.Len() > 0 && current.Len()+len(para)+2 > maxChars {
			flush()
		}
		if len(para) > maxChars {
			flush()
			for _, piece := range splitLong(para, maxChars) {
				chunks = append(chunks, piece)
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()
	return chunks
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitLong breaks one oversized paragraph on sentence ends where possible.
func splitLong(para string, maxChars int) []string {
	var out []string
	for len(para) > maxChars {
		cut := maxChars
		if idx := lastSentenceEnd(para[:maxChars]); idx > maxChars/2 {
			cut = idx + 1
		}
		out = append(out, strings.TrimSpace(para[:cut]))
		para = strings.TrimSpace(para[cut:])
	}
	if para != "" {
		out = append(out, para)
	}
	return out
}

func lastSentenceEnd(s string) int {
	best := -1
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '.', '!', '?':
			if s[i+1] == ' ' || s[i+1] == '\n' {
				best = i
			}
		}
	}
	return best
}
