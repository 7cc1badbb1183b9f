package scan

import (
	"unicode"
	"unicode/utf8"
)

// fold lower-cases b rune by rune, keeping every rune whose lower-case form has a
// different encoded length. The result has exactly len(b) bytes and every offset in it
// addresses the same rune as in b, so matches found in folded text can be sliced from b.
func fold(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r != utf8.RuneError || size > 1 {
			if l := unicode.ToLower(r); l != r && utf8.RuneLen(l) == size {
				out = utf8.AppendRune(out, l)
				i += size
				continue
			}
		}
		out = append(out, b[i:i+size]...)
		i += size
	}
	return out
}
