package processing

import (
	"regexp"
	"strings"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// ChunkText splits text into paragraphs and cuts long ones into overlapping
// windows of at most size runes.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var out []string
	for _, p := range paragraphBreak.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, splitLong(p, size, overlap)...)
	}
	return out
}

func splitLong(s string, max, overlap int) []string {
	r := []rune(s)
	if len(r) <= max {
		return []string{s}
	}
	var res []string
	for i := 0; i < len(r); i += max - overlap {
		end := min(i+max, len(r))
		if chunk := strings.TrimSpace(string(r[i:end])); chunk != "" {
			res = append(res, chunk)
		}
		if end == len(r) {
			break
		}
	}
	return res
}
