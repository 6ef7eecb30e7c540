package textutil

import "strings"

// Ellipsis is appended when a summary is cut mid-sentence.
const Ellipsis = "..."

// boundaryRatio is how far into the limit a boundary must lie to be used.
const boundaryRatio = 0.7

var sentenceEnds = []string{". ", "! ", "? "}

// TruncateSummary shortens text to at most maxLength characters. It prefers
// ending after the last sentence terminator inside the limit, then the last
// word boundary (with an ellipsis), and falls back to a hard cut with an
// ellipsis. Boundaries at or before 70% of the limit are ignored. Lengths are
// counted in runes.
func TruncateSummary(text string, maxLength int) string {
	chars := []rune(text)
	if len(chars) <= maxLength {
		return text
	}

	truncated := string(chars[:maxLength])
	threshold := float64(maxLength) * boundaryRatio

	sentenceEnd := -1
	for _, end := range sentenceEnds {
		if idx := runeIndex(truncated, strings.LastIndex(truncated, end)); idx > sentenceEnd {
			sentenceEnd = idx
		}
	}
	if float64(sentenceEnd) > threshold {
		return string(chars[:sentenceEnd+1])
	}

	wordEnd := runeIndex(truncated, strings.LastIndex(truncated, " "))
	if float64(wordEnd) > threshold {
		return string(chars[:wordEnd]) + Ellipsis
	}

	return truncated + Ellipsis
}

// runeIndex converts a byte offset in s to a rune offset, keeping -1.
func runeIndex(s string, byteIdx int) int {
	if byteIdx < 0 {
		return -1
	}
	return len([]rune(s[:byteIdx]))
}
