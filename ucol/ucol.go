// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

// Package ucol provides the Unicode helpers the rest of libmuse relies on for
// collation: UTF-8 validation, code-point iteration, display width, and
// case/diacritic-insensitive comparison. Filenames and free-form tag text are
// never assumed to be clean UTF-8, so every function here degrades instead of
// panicking on invalid input.
package ucol

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// invalidPlaceholderWidth is the display width used for each byte of an
// invalid UTF-8 sequence, rendered by the caller as "<XX>".
const invalidPlaceholderWidth = 4

// ValidUTF8 reports whether s is entirely well-formed UTF-8.
func ValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

// RuneForward decodes the rune starting at byte offset i and returns it along
// with the offset of the following rune. An invalid sequence decodes as
// utf8.RuneError with a 1-byte advance, matching utf8.DecodeRuneInString.
func RuneForward(s string, i int) (r rune, next int) {
	if i >= len(s) {
		return utf8.RuneError, i
	}
	r, size := utf8.DecodeRuneInString(s[i:])
	return r, i + size
}

// RuneBackward decodes the rune ending at byte offset i and returns it along
// with the offset of its first byte.
func RuneBackward(s string, i int) (r rune, prev int) {
	if i <= 0 {
		return utf8.RuneError, 0
	}
	r, size := utf8.DecodeLastRuneInString(s[:i])
	return r, i - size
}

// Width returns the terminal display width of s. Invalid byte sequences are
// rendered as a fixed-width "<XX>" placeholder (width 4) for each byte
// consumed, which is how the UI shows unparsable filename bytes.
func Width(s string) int {
	width := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			width += invalidPlaceholderWidth
			i++
			continue
		}
		width += runeWidth(r)
		i += size
	}
	return width
}

func runeWidth(r rune) int {
	switch {
	case r == 0:
		return 0
	case r < 0x20:
		return invalidPlaceholderWidth
	case isCombining(r):
		return 0
	case isWide(r):
		return 2
	default:
		return 1
	}
}

func isCombining(r rune) bool {
	return unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r)
}

// isWide approximates East Asian Wide/Fullwidth ranges. It is a table lookup
// over the common CJK blocks, not a full Unicode East Asian Width database.
func isWide(r rune) bool {
	switch {
	case r >= 0x1100 && r <= 0x115F: // Hangul Jamo
		return true
	case r >= 0x2E80 && r <= 0xA4CF && r != 0x303F: // CJK ... Yi
		return true
	case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
		return true
	case r >= 0xF900 && r <= 0xFAFF: // CJK compatibility ideographs
		return true
	case r >= 0xFF00 && r <= 0xFF60: // Fullwidth forms
		return true
	case r >= 0xFFE0 && r <= 0xFFE6:
		return true
	case r >= 0x20000 && r <= 0x3FFFD: // CJK extensions
		return true
	}
	return false
}

// foldRune folds r to its canonical comparison form. ASCII A-Z is folded by
// table, everything else falls through to unicode.ToLower, which is a
// reasonable locale-tolerant default when no locale-specific casing is
// available.
func foldRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	if r < utf8.RuneSelf {
		return r
	}
	return unicode.ToLower(r)
}

// EqualFold reports whether a and b are equal under case folding. It takes an
// ASCII fast path before falling back to rune-by-rune folding so the common
// case (plain ASCII tag values) never allocates.
func EqualFold(a, b string) bool {
	if a == b {
		return true
	}
	if isASCII(a) && isASCII(b) {
		return strings.EqualFold(a, b)
	}
	for len(a) > 0 && len(b) > 0 {
		ra, na := RuneForward(a, 0)
		rb, nb := RuneForward(b, 0)
		if foldRune(ra) != foldRune(rb) {
			return false
		}
		a, b = a[na:], b[nb:]
	}
	return len(a) == 0 && len(b) == 0
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// HasPrefixFold reports whether s starts with prefix under case folding.
func HasPrefixFold(s, prefix string) bool {
	if isASCII(s) && isASCII(prefix) {
		if len(prefix) > len(s) {
			return false
		}
		return strings.EqualFold(s[:len(prefix)], prefix)
	}
	folded := foldString(s)
	return strings.HasPrefix(folded, foldString(prefix))
}

// ContainsFold reports whether substr occurs anywhere in s under case
// folding.
func ContainsFold(s, substr string) bool {
	if isASCII(s) && isASCII(substr) {
		return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
	}
	return strings.Contains(foldString(s), foldString(substr))
}

func foldString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteRune(foldRune(r))
		i += size
	}
	return b.String()
}

// diacriticBase is a small precomputed decomposition table mapping common
// Latin composed code points to their base letter. It is not a full Unicode
// NFD table: it covers the ranges that actually occur in tag text
// (Latin-1 Supplement and Latin Extended-A).
var diacriticBase = buildDiacriticBase()

func buildDiacriticBase() map[rune]rune {
	m := map[rune]rune{}
	groups := map[rune]string{
		'a': "àáâãäåāăą",
		'c': "çćĉċč",
		'e': "èéêëēĕėęě",
		'i': "ìíîïĩīĭįı",
		'n': "ñńņňŉ",
		'o': "òóôõöøōŏő",
		'u': "ùúûüũūŭůűų",
		'y': "ýÿŷ",
		's': "śŝşš",
		'z': "źżž",
	}
	for base, composed := range groups {
		for _, r := range composed {
			m[r] = base
			m[unicode.ToUpper(r)] = unicode.ToUpper(base)
		}
	}
	return m
}

// StripDiacritics strips diacritics from composed Latin code points by table
// lookup, leaving unknown code points untouched.
func StripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if base, ok := diacriticBase[r]; ok {
			r = base
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CollationKey folds s and strips diacritics, producing the key used for
// sorting and equality-insensitive comparison throughout track and library.
func CollationKey(s string) string {
	return foldString(StripDiacritics(s))
}
