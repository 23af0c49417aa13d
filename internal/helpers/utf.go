package helpers

import "unicode/utf8"

// String literals such as "\uD800" decode to lone surrogates, which UTF-8
// can't represent. They are stored as WTF-8 instead, which encodes them like
// any other three-byte code point. See https://simonsapin.github.io/wtf-8/.

func isSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

// AppendWTF8Rune is like "utf8.AppendRune" except that lone surrogates are
// kept instead of being replaced.
func AppendWTF8Rune(buf []byte, r rune) []byte {
	if !isSurrogate(r) {
		return utf8.AppendRune(buf, r)
	}
	return append(buf, 0xE0|byte(r>>12), 0x80|byte(r>>6)&0x3F, 0x80|byte(r)&0x3F)
}

// DecodeWTF8Rune is like "utf8.DecodeRuneInString" except that encoded
// surrogates are decoded instead of being rejected.
func DecodeWTF8Rune(s string) (rune, int) {
	c, width := utf8.DecodeRuneInString(s)

	// Surrogates are "ED A0 80" through "ED BF BF"
	if c == utf8.RuneError && width == 1 && len(s) >= 3 &&
		s[0] == 0xED && s[1]&0xE0 == 0xA0 && s[2]&0xC0 == 0x80 {
		return rune(s[1]&0x3F)<<6 | rune(s[2]&0x3F) | 0xD000, 3
	}
	return c, width
}
