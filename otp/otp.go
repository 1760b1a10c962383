// Package otp generates one-time passcodes using the HOTP (RFC 4226) and
// TOTP (RFC 6238) algorithms over the mac package's HMAC engine.
package otp

import (
	"io"
	"strconv"

	"github.com/bradleycha/cliauth-sub000/mac"
	"github.com/bradleycha/cliauth-sub000/sha"
	"github.com/bradleycha/cliauth-sub000/stream"
)

// HOTP is a single-use passcode generator. The secret key is streamed in
// with the WriteKey methods, then Finalize produces the passcode. To
// generate another code the context must be recreated.
type HOTP struct {
	mac     *mac.HMAC
	counter uint64
	digits  uint8
}

// NewHOTP returns an HOTP context for the given hash, counter value, and
// digit count. digits must be in [1, 9].
func NewHOTP(h sha.Hash, counter uint64, digits uint8) *HOTP {
	return &HOTP{mac: mac.New(h), counter: counter, digits: digits}
}

// WriteKey ingests p as part of the secret key.
func (h *HOTP) WriteKey(p []byte) (int, error) {
	return h.mac.WriteKey(p)
}

// ReadKeyFrom ingests exactly n key bytes from r. On a read failure the
// bytes ingested so far are kept and the count is accurate, so the caller
// may resume.
func (h *HOTP) ReadKeyFrom(r io.Reader, n int) (int, error) {
	return h.mac.ReadKeyFrom(r, n)
}

// Finalize runs the HMAC over the 8-byte big-endian counter and reduces the
// tag to a passcode of the configured digit count via dynamic truncation
// (RFC 4226 §5.3).
func (h *HOTP) Finalize() uint32 {
	h.mac.FinalizeKey()
	stream.WriteUint64BE(h.mac, h.counter)
	tag := h.mac.Finalize()
	return truncate(tag) % pow10(h.digits)
}

// truncate implements the RFC 4226 §5.3 dynamic truncation: the low nibble
// of the last tag byte selects a 4-byte window, read big-endian with the
// top bit cleared.
func truncate(tag []byte) uint32 {
	offset := tag[len(tag)-1] & 0x0f
	r := stream.NewByteReader(tag[offset : offset+4])
	word, _ := stream.ReadUint32BE(r)
	return word & 0x7fffffff
}

func pow10(digits uint8) uint32 {
	modulus := uint32(1)
	for ; digits != 0; digits-- {
		modulus *= 10
	}
	return modulus
}

// TOTPCounter derives the HOTP counter for the TOTP algorithm: the number of
// whole periods elapsed between timeInitial and timeCurrent. timeCurrent
// must not precede timeInitial and period must be positive.
func TOTPCounter(timeInitial, timeCurrent, period uint64) uint64 {
	return (timeCurrent - timeInitial) / period
}

// Format renders a passcode zero-padded to the given digit count.
func Format(code uint32, digits uint8) string {
	const padding = "000000000"

	s := strconv.FormatUint(uint64(code), 10)
	if len(s) < int(digits) {
		s = padding[:int(digits)-len(s)] + s
	}
	return s
}
