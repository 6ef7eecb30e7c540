package extractor

// Delimiters is an open/close character pair tracked by FindClose.
type Delimiters struct {
	Open  byte
	Close byte
}

var (
	Braces   = Delimiters{Open: '{', Close: '}'}
	Brackets = Delimiters{Open: '[', Close: ']'}
)

// FindClose scans text forward from the opening delimiter at openPos and
// returns the index of its matching close delimiter. Depth starts at 1 on the
// opening delimiter and changes by one on every open or close character, so
// nesting depth is unbounded. When the delimiters never balance it returns
// len(text) and false.
func FindClose(text string, openPos int, d Delimiters) (int, bool) {
	depth := 1
	for pos := openPos + 1; pos < len(text); pos++ {
		switch text[pos] {
		case d.Open:
			depth++
		case d.Close:
			depth--
			if depth == 0 {
				return pos, true
			}
		}
	}
	return len(text), false
}

// Inner returns the text strictly between the delimiter at openPos and its
// match. For unbalanced input it returns everything after openPos.
func Inner(text string, openPos int, d Delimiters) (string, bool) {
	end, ok := FindClose(text, openPos, d)
	return text[openPos+1 : end], ok
}
