package helpers

import "unicode/utf8"

const hexChars = "0123456789ABCDEF"
const firstASCII = 0x20
const lastASCII = 0x7E
const firstHighSurrogate = 0xD800
const lastLowSurrogate = 0xDFFF

func canPrintWithoutEscape(c rune, quoteChar byte, asciiOnly bool) bool {
	if c <= lastASCII {
		return c >= firstASCII && c != '\\' && c != rune(quoteChar)
	}
	return !asciiOnly && c != '\uFEFF' && c != '\u2028' && c != '\u2029' &&
		(c < firstHighSurrogate || c > lastLowSurrogate)
}

// QuoteWith escapes "text" for a JavaScript string literal delimited by
// "quoteChar", which must be one of ' " or `.
func QuoteWith(text string, quoteChar byte, asciiOnly bool) []byte {
	bytes := make([]byte, 0, len(text)+2)
	bytes = append(bytes, quoteChar)
	i := 0
	n := len(text)

	for i < n {
		c, width := DecodeWTF8Rune(text[i:])

		// Fast path: a run of characters that don't need escaping
		if canPrintWithoutEscape(c, quoteChar, asciiOnly) {
			start := i
			i += width
			for i < n {
				c, width = DecodeWTF8Rune(text[i:])
				if !canPrintWithoutEscape(c, quoteChar, asciiOnly) {
					break
				}
				i += width
			}
			bytes = append(bytes, text[start:i]...)
			continue
		}
		i += width

		switch c {
		case '\b':
			bytes = append(bytes, "\\b"...)
		case '\f':
			bytes = append(bytes, "\\f"...)
		case '\n':
			bytes = append(bytes, "\\n"...)
		case '\r':
			bytes = append(bytes, "\\r"...)
		case '\t':
			bytes = append(bytes, "\\t"...)
		case '\v':
			bytes = append(bytes, "\\v"...)
		case '\\':
			bytes = append(bytes, "\\\\"...)

		default:
			if c == rune(quoteChar) {
				bytes = append(bytes, '\\', quoteChar)
			} else if c == utf8.RuneError && width == 1 {
				// Invalid UTF-8 is passed through as the replacement character
				bytes = append(bytes, "\\uFFFD"...)
			} else if c <= 0xFF {
				bytes = append(bytes, '\\', 'x', hexChars[c>>4], hexChars[c&15])
			} else if c <= 0xFFFF {
				bytes = append(bytes, '\\', 'u', hexChars[c>>12], hexChars[(c>>8)&15], hexChars[(c>>4)&15], hexChars[c&15])
			} else {
				c -= 0x10000
				lo := firstHighSurrogate + ((c >> 10) & 0x3FF)
				hi := 0xDC00 + (c & 0x3FF)
				bytes = append(
					bytes,
					'\\', 'u', hexChars[lo>>12], hexChars[(lo>>8)&15], hexChars[(lo>>4)&15], hexChars[lo&15],
					'\\', 'u', hexChars[hi>>12], hexChars[(hi>>8)&15], hexChars[(hi>>4)&15], hexChars[hi&15],
				)
			}
		}
	}

	return append(bytes, quoteChar)
}
