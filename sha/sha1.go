package sha

import (
	"encoding/binary"
	"math/bits"
)

const (
	sha1BlockLen     = 64
	sha1StateWords   = 5
	sha1Rounds       = 80
	sha1ScheduleLen  = 80
	sha1LengthPrefix = sha1BlockLen - 8
)

// Round constants, one per 20-round quarter.
var sha1RoundConstants = [4]uint32{
	0x5a827999, 0x6ed9eba1, 0x8f1bbcdc, 0xca62c1d6,
}

var sha1Initial = [sha1StateWords]uint32{
	0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476, 0xc3d2e1f0,
}

type sha1Context struct {
	state    [sha1StateWords]uint32
	schedule [sha1ScheduleLen]uint32
	block    [sha1BlockLen]byte
	out      [20]byte
	capacity int
	total    uint64
}

func (c *sha1Context) Reset() {
	c.state = sha1Initial
	c.capacity = sha1BlockLen
	c.total = 0
}

func (c *sha1Context) Write(p []byte) (int, error) {
	c.total += uint64(len(p))
	c.fill(p)
	return len(p), nil
}

// fill appends bytes to the ring buffer, compressing each time it fills.
func (c *sha1Context) fill(p []byte) {
	for len(p) > 0 {
		n := copy(c.block[sha1BlockLen-c.capacity:], p)
		c.capacity -= n
		p = p[n:]
		if c.capacity == 0 {
			c.compress()
			c.capacity = sha1BlockLen
		}
	}
}

func (c *sha1Context) Finalize() []byte {
	var pad [sha1BlockLen + 8]byte
	pad[0] = 0x80

	residual := int(c.total % sha1BlockLen)
	padLen := sha1LengthPrefix - residual
	if padLen <= 0 {
		padLen += sha1BlockLen
	}
	binary.BigEndian.PutUint64(pad[padLen:], c.total<<3)
	c.fill(pad[:padLen+8])

	for i, word := range c.state {
		binary.BigEndian.PutUint32(c.out[i*4:], word)
	}
	return c.out[:]
}

func (c *sha1Context) Size() int      { return 20 }
func (c *sha1Context) BlockSize() int { return sha1BlockLen }
func (c *sha1Context) Kind() Kind     { return SHA1 }

func sha1Choose(x, y, z uint32) uint32 { return (x & y) | (^x & z) }
func sha1Parity(x, y, z uint32) uint32 { return x ^ y ^ z }
func sha1Major(x, y, z uint32) uint32  { return (x & y) | (x & z) | (y & z) }

func (c *sha1Context) compress() {
	w := &c.schedule
	for t := 0; t < 16; t++ {
		w[t] = binary.BigEndian.Uint32(c.block[t*4:])
	}
	for t := 16; t < sha1ScheduleLen; t++ {
		w[t] = bits.RotateLeft32(w[t-3]^w[t-8]^w[t-14]^w[t-16], 1)
	}

	a, b, cc, d, e := c.state[0], c.state[1], c.state[2], c.state[3], c.state[4]
	for t := 0; t < sha1Rounds; t++ {
		var f uint32
		switch {
		case t < 20:
			f = sha1Choose(b, cc, d)
		case t < 40:
			f = sha1Parity(b, cc, d)
		case t < 60:
			f = sha1Major(b, cc, d)
		default:
			f = sha1Parity(b, cc, d)
		}
		tmp := bits.RotateLeft32(a, 5) + f + e + sha1RoundConstants[t/20] + w[t]
		e = d
		d = cc
		cc = bits.RotateLeft32(b, 30)
		b = a
		a = tmp
	}

	c.state[0] += a
	c.state[1] += b
	c.state[2] += cc
	c.state[3] += d
	c.state[4] += e
}
