// Package mutf8 decodes the modified UTF-8 encoding used by class file string constants.
//
// Modified UTF-8 differs from standard UTF-8 in two ways: the NUL character is encoded
// as the two byte sequence 0xC0 0x80, and supplementary characters are stored as a pair
// of three byte encoded UTF-16 surrogates instead of a single four byte sequence.
package mutf8

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrMalformed is returned for byte sequences that are not valid modified UTF-8.
var ErrMalformed = errors.New("malformed modified UTF-8")

// Decode converts modified UTF-8 bytes to a Go string.
func Decode(b []byte) (string, error) {
	if isASCII(b) {
		return string(b), nil
	}

	var sb strings.Builder
	sb.Grow(len(b))

	for i := 0; i < len(b); {
		r, n, err := decodeUnit(b, i)
		if err != nil {
			return "", err
		}
		i += n

		if utf16.IsSurrogate(r) {
			if r < 0xDC00 && i < len(b) {
				low, m, err := decodeUnit(b, i)
				if err == nil && low >= 0xDC00 && low <= 0xDFFF {
					sb.WriteRune(utf16.DecodeRune(r, low))
					i += m
					continue
				}
			}
			// unpaired surrogates can not be represented in a Go string
			sb.WriteRune(utf8.RuneError)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// decodeUnit decodes one UTF-16 code unit encoded in 1 to 3 bytes at offset i.
func decodeUnit(b []byte, i int) (rune, int, error) {
	c := b[i]
	switch {
	case c == 0:
		return 0, 0, fmt.Errorf("%w: raw NUL byte at offset %d", ErrMalformed, i)

	case c < 0x80:
		return rune(c), 1, nil

	case c&0xE0 == 0xC0:
		if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
			return 0, 0, fmt.Errorf("%w: invalid 2 byte sequence at offset %d", ErrMalformed, i)
		}
		return rune(c&0x1F)<<6 | rune(b[i+1]&0x3F), 2, nil

	case c&0xF0 == 0xE0:
		if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
			return 0, 0, fmt.Errorf("%w: invalid 3 byte sequence at offset %d", ErrMalformed, i)
		}
		return rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F), 3, nil

	default:
		return 0, 0, fmt.Errorf("%w: invalid lead byte 0x%02x at offset %d", ErrMalformed, c, i)
	}
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c == 0 || c >= 0x80 {
			return false
		}
	}
	return true
}
