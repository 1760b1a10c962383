package sha

import (
	"encoding/binary"
	"math/bits"
)

const (
	sha2x32BlockLen     = 64
	sha2x32StateWords   = 8
	sha2x32Rounds       = 64
	sha2x32ScheduleLen  = 64
	sha2x32LengthPrefix = sha2x32BlockLen - 8
)

// FIPS 180-4 §4.2.2.
var sha2x32RoundConstants = [sha2x32Rounds]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5,
	0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3,
	0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc,
	0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7,
	0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13,
	0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3,
	0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5,
	0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208,
	0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

var sha224Initial = [sha2x32StateWords]uint32{
	0xc1059ed8, 0x367cd507, 0x3070dd17, 0xf70e5939,
	0xffc00b31, 0x68581511, 0x64f98fa7, 0xbefa4fa4,
}

var sha256Initial = [sha2x32StateWords]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// sha2x32Context is the shared context of the 32-bit SHA-2 family
// (SHA-224 and SHA-256); only the initial values and the digest length
// differ between the two.
type sha2x32Context struct {
	state    [sha2x32StateWords]uint32
	schedule [sha2x32ScheduleLen]uint32
	block    [sha2x32BlockLen]byte
	out      [32]byte
	capacity int
	total    uint64
	kind     Kind
}

func (c *sha2x32Context) Reset() {
	if c.kind == SHA224 {
		c.state = sha224Initial
	} else {
		c.state = sha256Initial
	}
	c.capacity = sha2x32BlockLen
	c.total = 0
}

func (c *sha2x32Context) Write(p []byte) (int, error) {
	c.total += uint64(len(p))
	c.fill(p)
	return len(p), nil
}

func (c *sha2x32Context) fill(p []byte) {
	for len(p) > 0 {
		n := copy(c.block[sha2x32BlockLen-c.capacity:], p)
		c.capacity -= n
		p = p[n:]
		if c.capacity == 0 {
			c.compress()
			c.capacity = sha2x32BlockLen
		}
	}
}

func (c *sha2x32Context) Finalize() []byte {
	var pad [sha2x32BlockLen + 8]byte
	pad[0] = 0x80

	residual := int(c.total % sha2x32BlockLen)
	padLen := sha2x32LengthPrefix - residual
	if padLen <= 0 {
		padLen += sha2x32BlockLen
	}
	binary.BigEndian.PutUint64(pad[padLen:], c.total<<3)
	c.fill(pad[:padLen+8])

	for i, word := range c.state {
		binary.BigEndian.PutUint32(c.out[i*4:], word)
	}
	return c.out[:c.Size()]
}

func (c *sha2x32Context) Size() int      { return c.kind.Size() }
func (c *sha2x32Context) BlockSize() int { return sha2x32BlockLen }
func (c *sha2x32Context) Kind() Kind     { return c.kind }

func sha2x32Choose(x, y, z uint32) uint32 { return (x & y) ^ (^x & z) }
func sha2x32Major(x, y, z uint32) uint32  { return (x & y) ^ (x & z) ^ (y & z) }

func sha2x32SigmaU0(x uint32) uint32 {
	return bits.RotateLeft32(x, -2) ^ bits.RotateLeft32(x, -13) ^ bits.RotateLeft32(x, -22)
}

func sha2x32SigmaU1(x uint32) uint32 {
	return bits.RotateLeft32(x, -6) ^ bits.RotateLeft32(x, -11) ^ bits.RotateLeft32(x, -25)
}

func sha2x32SigmaL0(x uint32) uint32 {
	return bits.RotateLeft32(x, -7) ^ bits.RotateLeft32(x, -18) ^ (x >> 3)
}

func sha2x32SigmaL1(x uint32) uint32 {
	return bits.RotateLeft32(x, -17) ^ bits.RotateLeft32(x, -19) ^ (x >> 10)
}

func (c *sha2x32Context) compress() {
	w := &c.schedule
	for t := 0; t < 16; t++ {
		w[t] = binary.BigEndian.Uint32(c.block[t*4:])
	}
	for t := 16; t < sha2x32ScheduleLen; t++ {
		w[t] = sha2x32SigmaL1(w[t-2]) + w[t-7] + sha2x32SigmaL0(w[t-15]) + w[t-16]
	}

	a, b, cc, d := c.state[0], c.state[1], c.state[2], c.state[3]
	e, f, g, h := c.state[4], c.state[5], c.state[6], c.state[7]
	for t := 0; t < sha2x32Rounds; t++ {
		t1 := h + sha2x32SigmaU1(e) + sha2x32Choose(e, f, g) + sha2x32RoundConstants[t] + w[t]
		t2 := sha2x32SigmaU0(a) + sha2x32Major(a, b, cc)
		h = g
		g = f
		f = e
		e = d + t1
		d = cc
		cc = b
		b = a
		a = t1 + t2
	}

	c.state[0] += a
	c.state[1] += b
	c.state[2] += cc
	c.state[3] += d
	c.state[4] += e
	c.state[5] += f
	c.state[6] += g
	c.state[7] += h
}
