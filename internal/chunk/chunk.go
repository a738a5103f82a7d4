// Package chunk cuts long texts for transports with a per-message limit.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// Split cuts s into pieces of at most maxRunes characters, preferring to cut
// just after a newline. Joining the pieces gives s back.
func Split(s string, maxRunes int) []string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return []string{s}
	}
	var chunks []string
	for s != "" {
		end := byteOffset(s, maxRunes)
		if end < len(s) {
			if idx := strings.LastIndex(s[:end], "\n"); idx > 0 {
				end = idx + 1
			}
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}

// byteOffset returns the byte index just past the first n runes of s.
func byteOffset(s string, n int) int {
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}
