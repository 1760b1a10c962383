package keyuri

import (
	"errors"
	"math"
)

// Low-level decoding errors. Parse translates these into the URI-level
// errors before returning them.
var (
	// ErrInvalidEncoding reports a byte that is not valid for the decoder
	// consuming it (a non-digit in an integer, a character outside the
	// Base32 alphabet).
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrOutOfRange reports a decimal integer that does not fit in 64 bits.
	ErrOutOfRange = errors.New("value out of range")

	// ErrBufferTooShort reports percent-decoded text overflowing its
	// destination buffer.
	ErrBufferTooShort = errors.New("buffer too short")

	// ErrInvalidEscape reports a malformed or non-printable percent escape.
	ErrInvalidEscape = errors.New("invalid text escape")
)

const parseUint64MaxDigits = 20

// parseUint64 decodes an unsigned decimal integer. At most 20 digits are
// accepted and any value past 2^64-1 is rejected with ErrOutOfRange; a
// non-digit byte is rejected with ErrInvalidEncoding. The empty string
// decodes to zero.
func parseUint64(text string) (uint64, error) {
	var total uint64
	for i := 0; i < len(text); i++ {
		if i == parseUint64MaxDigits {
			return 0, ErrOutOfRange
		}
		c := text[i]
		if c < '0' || c > '9' {
			return 0, ErrInvalidEncoding
		}
		digit := uint64(c - '0')
		if total > math.MaxUint64/10 || math.MaxUint64-total*10 < digit {
			return 0, ErrOutOfRange
		}
		total = total*10 + digit
	}
	return total, nil
}

// decodeBase32 decodes RFC 4648 Base32 text into dst, returning the number
// of bytes produced. Padding characters are skipped wherever they appear
// and residual bits that do not form a whole byte are discarded, so
// unpadded input is accepted. dst must be large enough for
// len(text)*5/8 bytes.
//
// The decoder is a 16-bit shift register: each character contributes five
// bits from the left, and whenever eight or more bits are buffered the top
// byte is emitted and shifted out.
func decodeBase32(dst []byte, text string) (int, error) {
	var shift uint16
	bits := 0
	n := 0

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '=' {
			continue
		}

		var value byte
		switch {
		case c >= 'A' && c <= 'Z':
			value = c - 'A'
		case c >= '2' && c <= '7':
			value = c - '2' + 26
		default:
			return n, ErrInvalidEncoding
		}

		shift |= uint16(value) << (16 - 5 - bits)
		bits += 5

		if bits >= 8 {
			dst[n] = byte(shift >> 8)
			n++
			shift <<= 8
			bits -= 8
		}
	}

	return n, nil
}

// decodeText percent-decodes text into dst, returning the number of bytes
// produced. A '%' introduces exactly two case-insensitive hex nibbles and
// the decoded byte must be printable ASCII (0x20-0x7e); anything else is
// ErrInvalidEscape. Unescaped bytes are copied through unchanged.
func decodeText(dst []byte, text string) (int, error) {
	n := 0
	for i := 0; i < len(text); {
		if n == len(dst) {
			return n, ErrBufferTooShort
		}

		if text[i] != '%' {
			dst[n] = text[i]
			n++
			i++
			continue
		}

		if len(text)-i < 3 {
			return n, ErrInvalidEscape
		}
		hi, ok := unhexNibble(text[i+1])
		if !ok {
			return n, ErrInvalidEscape
		}
		lo, ok := unhexNibble(text[i+2])
		if !ok {
			return n, ErrInvalidEscape
		}
		decoded := hi<<4 | lo
		if decoded < 0x20 || decoded > 0x7e {
			return n, ErrInvalidEscape
		}

		dst[n] = decoded
		n++
		i += 3
	}
	return n, nil
}

func unhexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 0xa, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 0xa, true
	}
	return 0, false
}
