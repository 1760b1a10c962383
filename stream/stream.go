// Package stream provides the byte-stream primitives shared by the hash, MAC
// and OTP layers: a cursor reader over an in-memory slice, read-exactly
// helpers for fixed-width integers, and a ring-buffered writer.
//
// The integer helpers here carry the byte-order conversions of the OTP layer
// (the big-endian counter message and the truncation window); the sha package
// encodes its state and length words with encoding/binary directly.
package stream

import (
	"encoding/binary"
	"io"
)

// ByteReader is a cursor over an in-memory byte slice. It reports io.EOF once
// the slice is exhausted and otherwise satisfies short-read semantics: a Read
// returns min(len(p), remaining) bytes.
type ByteReader struct {
	bytes    []byte
	position int
}

// NewByteReader returns a ByteReader positioned at the start of b. The reader
// retains b; the caller must not mutate it while reading.
func NewByteReader(b []byte) *ByteReader {
	return &ByteReader{bytes: b}
}

// Len returns the number of unread bytes.
func (r *ByteReader) Len() int {
	return len(r.bytes) - r.position
}

func (r *ByteReader) Read(p []byte) (int, error) {
	if r.position >= len(r.bytes) {
		return 0, io.EOF
	}
	n := copy(p, r.bytes[r.position:])
	r.position += n
	return n, nil
}

// ReadFull reads exactly len(p) bytes from r, looping over short reads. It
// returns the number of bytes read; if fewer than len(p) bytes were read the
// error explains why (io.EOF when nothing was read, io.ErrUnexpectedEOF when
// the stream ended partway).
func ReadFull(r io.Reader, p []byte) (int, error) {
	return io.ReadFull(r, p)
}

// ReadUint8 reads one byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16BE reads a big-endian 16-bit integer.
func ReadUint16BE(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadUint16LE reads a little-endian 16-bit integer.
func ReadUint16LE(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// ReadUint32BE reads a big-endian 32-bit integer.
func ReadUint32BE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadUint32LE reads a little-endian 32-bit integer.
func ReadUint32LE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadUint64BE reads a big-endian 64-bit integer.
func ReadUint64BE(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// ReadUint64LE reads a little-endian 64-bit integer.
func ReadUint64LE(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteUint8 writes one byte.
func WriteUint8(w io.Writer, v uint8) error {
	buf := [1]byte{v}
	_, err := w.Write(buf[:])
	return err
}

// WriteUint16BE writes a big-endian 16-bit integer.
func WriteUint16BE(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteUint16LE writes a little-endian 16-bit integer.
func WriteUint16LE(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteUint32BE writes a big-endian 32-bit integer.
func WriteUint32BE(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteUint32LE writes a little-endian 32-bit integer.
func WriteUint32LE(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteUint64BE writes a big-endian 64-bit integer.
func WriteUint64BE(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteUint64LE writes a little-endian 64-bit integer.
func WriteUint64LE(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
