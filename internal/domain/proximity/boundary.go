package proximity

import (
	"unicode"
	"unicode/utf8"
)

// asciiWord caches IsWordChar for the ASCII range.
var asciiWord [utf8.RuneSelf]bool

func init() {
	for r := rune(0); r < utf8.RuneSelf; r++ {
		asciiWord[r] = isWordRune(r)
	}
}

// IsWordChar reports whether r is part of a word: letters, digits, and the
// word-internal punctuation apostrophe, hyphen and underscore.
func IsWordChar(r rune) bool {
	if r >= 0 && r < utf8.RuneSelf {
		return asciiWord[r]
	}
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	switch r {
	case '\'', '-', '_':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsBoundaryMatch reports whether text[pos:pos+length] is a whole token: it must lie
// inside text, and the characters on either side (when present) must not be word characters.
func IsBoundaryMatch(text []byte, pos, length int) bool {
	if pos < 0 || length < 0 || pos >= len(text) || pos+length > len(text) {
		return false
	}
	if pos > 0 {
		if r, _ := utf8.DecodeLastRune(text[:pos]); IsWordChar(r) {
			return false
		}
	}
	if end := pos + length; end < len(text) {
		if r, _ := utf8.DecodeRune(text[end:]); IsWordChar(r) {
			return false
		}
	}
	return true
}

// WordsBetween counts the maximal runs of word characters in text[from:to].
func WordsBetween(text []byte, from, to int) int {
	n, _ := countWords(text, from, to, -1)
	return n
}

// wordGap measures the WordCount gap between from and to: the number of word runs
// in between, minus one, floored at zero. Counting stops as soon as the gap exceeds
// limit, in which case ok is false.
func wordGap(text []byte, from, to, limit int) (gap int, ok bool) {
	words, within := countWords(text, from, to, limit+1)
	if !within {
		return words - 1, false
	}
	return max(0, words-1), words-1 <= limit
}

// countWords counts word runs in text[from:to]. With stopAfter >= 0 it gives up
// once the count exceeds stopAfter and reports within=false.
func countWords(text []byte, from, to, stopAfter int) (words int, within bool) {
	from = max(from, 0)
	to = min(to, len(text))
	inWord := false
	for i := from; i < to; {
		r, size := rune(text[i]), 1
		if r >= utf8.RuneSelf {
			r, size = utf8.DecodeRune(text[i:to])
		}
		i += size
		if !IsWordChar(r) {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			words++
			if stopAfter >= 0 && words > stopAfter {
				return words, false
			}
		}
	}
	return words, true
}
