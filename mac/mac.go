// Package mac implements the HMAC construction of RFC 2104 / FIPS 198-1 on
// top of the sha package.
//
// The key is ingested as a stream and is never buffered in full: keys up to
// one hash block accumulate in the K0 buffer, and the moment the key exceeds
// one block the context switches to hashing it down, as the RFC's key
// normalization requires. Key length is therefore unbounded while the
// context itself stays a fixed-size struct.
package mac

import (
	"io"

	"github.com/bradleycha/cliauth-sub000/sha"
)

const (
	ipad = 0x36
	opad = 0x5c
)

// HMAC is a streaming HMAC context bound to one hash context. The lifecycle
// is WriteKey/ReadKeyFrom calls, FinalizeKey, Write calls for the message,
// then Finalize. Reset returns the context to the start of the key phase.
type HMAC struct {
	hash            sha.Hash
	k0              [sha.MaxBlockSize]byte
	digest          [sha.MaxDigestSize]byte
	k0Capacity      int
	k0HashInitiated bool
}

// New returns an HMAC context using h, which must be freshly reset or
// otherwise unused.
func New(h sha.Hash) *HMAC {
	return &HMAC{hash: h, k0Capacity: h.BlockSize()}
}

// Size returns the length of the final authentication tag in bytes.
func (m *HMAC) Size() int {
	return m.hash.Size()
}

// Reset discards all key and message state, returning the context to the
// start of the key ingestion phase.
func (m *HMAC) Reset() {
	m.k0Capacity = m.hash.BlockSize()
	m.k0HashInitiated = false
}

// WriteKey ingests p as part of the secret key. It must not be called after
// FinalizeKey. The dispatch covers three cases: the key already exceeded one
// block and is being hashed down; this call pushes it past one block; or it
// still fits and is appended to K0.
func (m *HMAC) WriteKey(p []byte) (int, error) {
	blockLen := m.hash.BlockSize()

	// Case 1: the key already exceeded one block.
	if m.k0HashInitiated {
		return m.hash.Write(p)
	}

	// Case 2: this call pushes the key past one block. Top off K0, hash
	// the full K0, then hash the remainder straight through. The initiated
	// flag is only raised once remainder bytes actually enter the hash, so
	// a key that fills K0 exactly still finalizes through the raw-key path.
	if len(p) > m.k0Capacity {
		filled := copy(m.k0[blockLen-m.k0Capacity:blockLen], p)
		m.k0Capacity = 0
		remainder := p[filled:]

		m.hash.Reset()
		m.hash.Write(m.k0[:blockLen])
		m.hash.Write(remainder)
		if len(remainder) > 0 {
			m.k0HashInitiated = true
		}
		return len(p), nil
	}

	// Case 3: the key still fits in K0.
	n := copy(m.k0[blockLen-m.k0Capacity:blockLen], p)
	m.k0Capacity -= n
	return n, nil
}

// ReadKeyFrom ingests exactly n key bytes from r, looping over short reads.
// It returns the number of bytes ingested; on a read failure the context
// keeps the bytes ingested so far and the caller may resume with the rest.
func (m *HMAC) ReadKeyFrom(r io.Reader, n int) (int, error) {
	var chunk [sha.MaxBlockSize]byte
	total := 0
	for total < n {
		want := n - total
		if want > len(chunk) {
			want = len(chunk)
		}
		read, err := r.Read(chunk[:want])
		if read > 0 {
			m.WriteKey(chunk[:read])
			total += read
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// FinalizeKey completes key normalization and starts the inner hash. After
// this call the Write methods ingest message bytes.
func (m *HMAC) FinalizeKey() {
	blockLen := m.hash.BlockSize()

	if m.k0HashInitiated {
		// The key was hashed down; its digest becomes the head of K0.
		digest := m.hash.Finalize()
		used := copy(m.k0[:], digest)
		for i := used; i < blockLen; i++ {
			m.k0[i] = 0
		}
	} else {
		// The raw key sits in K0 already; zero the tail.
		for i := blockLen - m.k0Capacity; i < blockLen; i++ {
			m.k0[i] = 0
		}
	}

	for i := 0; i < blockLen; i++ {
		m.k0[i] ^= ipad
	}

	m.hash.Reset()
	m.hash.Write(m.k0[:blockLen])
}

// Write ingests message bytes. FinalizeKey must have been called.
func (m *HMAC) Write(p []byte) (int, error) {
	return m.hash.Write(p)
}

// Finalize completes the construction and returns the authentication tag
// H((K0^opad) || H((K0^ipad) || message)). The slice aliases the hash
// context and is valid until the next Reset.
func (m *HMAC) Finalize() []byte {
	blockLen := m.hash.BlockSize()
	digestLen := m.hash.Size()

	inner := m.hash.Finalize()
	copy(m.digest[:], inner[:digestLen])

	// K0 currently holds K0^ipad; one xor with ipad^opad flips it to
	// K0^opad without a second pass over the raw key.
	for i := 0; i < blockLen; i++ {
		m.k0[i] ^= ipad ^ opad
	}

	m.hash.Reset()
	m.hash.Write(m.k0[:blockLen])
	m.hash.Write(m.digest[:digestLen])
	return m.hash.Finalize()
}
