package stream_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/bradleycha/cliauth-sub000/stream"
)

func TestByteReader(t *testing.T) {
	r := stream.NewByteReader([]byte("abcdef"))
	if r.Len() != 6 {
		t.Fatalf("Len: got %d, want 6", r.Len())
	}

	buf := make([]byte, 4)
	n, err := r.Read(buf)
	if n != 4 || err != nil {
		t.Fatalf("first read: got %d, %v; want 4, nil", n, err)
	}
	if string(buf[:n]) != "abcd" {
		t.Errorf("first read: got %q, want %q", buf[:n], "abcd")
	}

	// Short read at the end of the stream.
	n, err = r.Read(buf)
	if n != 2 || err != nil {
		t.Fatalf("second read: got %d, %v; want 2, nil", n, err)
	}
	if string(buf[:n]) != "ef" {
		t.Errorf("second read: got %q, want %q", buf[:n], "ef")
	}

	if _, err = r.Read(buf); err != io.EOF {
		t.Errorf("exhausted read: got %v, want io.EOF", err)
	}
}

func TestReadFullShortStream(t *testing.T) {
	r := stream.NewByteReader([]byte("abc"))
	buf := make([]byte, 8)
	n, err := stream.ReadFull(r, buf)
	if n != 3 || err != io.ErrUnexpectedEOF {
		t.Errorf("ReadFull: got %d, %v; want 3, io.ErrUnexpectedEOF", n, err)
	}
}

func TestIntegerHelpers(t *testing.T) {
	var buf bytes.Buffer

	stream.WriteUint8(&buf, 0xab)
	stream.WriteUint16BE(&buf, 0x0102)
	stream.WriteUint16LE(&buf, 0x0304)
	stream.WriteUint32BE(&buf, 0x05060708)
	stream.WriteUint32LE(&buf, 0x090a0b0c)
	stream.WriteUint64BE(&buf, 0x0102030405060708)
	stream.WriteUint64LE(&buf, 0x1112131415161718)

	want := []byte{
		0xab,
		0x01, 0x02,
		0x04, 0x03,
		0x05, 0x06, 0x07, 0x08,
		0x0c, 0x0b, 0x0a, 0x09,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x18, 0x17, 0x16, 0x15, 0x14, 0x13, 0x12, 0x11,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("encoded: got %x, want %x", buf.Bytes(), want)
	}

	r := stream.NewByteReader(buf.Bytes())
	if v, err := stream.ReadUint8(r); v != 0xab || err != nil {
		t.Errorf("ReadUint8: got %#x, %v", v, err)
	}
	if v, err := stream.ReadUint16BE(r); v != 0x0102 || err != nil {
		t.Errorf("ReadUint16BE: got %#x, %v", v, err)
	}
	if v, err := stream.ReadUint16LE(r); v != 0x0304 || err != nil {
		t.Errorf("ReadUint16LE: got %#x, %v", v, err)
	}
	if v, err := stream.ReadUint32BE(r); v != 0x05060708 || err != nil {
		t.Errorf("ReadUint32BE: got %#x, %v", v, err)
	}
	if v, err := stream.ReadUint32LE(r); v != 0x090a0b0c || err != nil {
		t.Errorf("ReadUint32LE: got %#x, %v", v, err)
	}
	if v, err := stream.ReadUint64BE(r); v != 0x0102030405060708 || err != nil {
		t.Errorf("ReadUint64BE: got %#x, %v", v, err)
	}
	if v, err := stream.ReadUint64LE(r); v != 0x1112131415161718 || err != nil {
		t.Errorf("ReadUint64LE: got %#x, %v", v, err)
	}
	if _, err := stream.ReadUint8(r); err != io.EOF {
		t.Errorf("read past end: got %v, want io.EOF", err)
	}
}

// limitedWriter accepts up to limit bytes, then fails.
type limitedWriter struct {
	accepted []byte
	limit    int
}

var errWriterFull = errors.New("writer full")

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.limit <= 0 {
		return 0, errWriterFull
	}
	n := len(p)
	if n > w.limit {
		n = w.limit
	}
	w.accepted = append(w.accepted, p[:n]...)
	w.limit -= n
	if n < len(p) {
		return n, errWriterFull
	}
	return n, nil
}

func TestBufferedWriter(t *testing.T) {
	var backing bytes.Buffer
	buf := make([]byte, 8)
	w := stream.NewBufferedWriter(&backing, buf)

	n, err := w.Write([]byte("abcdefghij"))
	if n != 10 || err != nil {
		t.Fatalf("Write: got %d, %v; want 10, nil", n, err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := backing.String(); got != "abcdefghij" {
		t.Errorf("flushed: got %q, want %q", got, "abcdefghij")
	}
	if w.Buffered() != 0 {
		t.Errorf("Buffered after flush: got %d, want 0", w.Buffered())
	}
}

func TestBufferedWriterFragmentedFlush(t *testing.T) {
	backing := &limitedWriter{limit: 4}
	buf := make([]byte, 8)
	w := stream.NewBufferedWriter(backing, buf)

	// Fill with six bytes, then fail partway through the flush so the
	// buffer becomes a fragmented ring.
	if _, err := w.Write([]byte("abcdef")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Flush(); !errors.Is(err, errWriterFull) {
		t.Fatalf("Flush: got %v, want errWriterFull", err)
	}
	if w.Buffered() != 2 {
		t.Fatalf("Buffered after failed flush: got %d, want 2", w.Buffered())
	}

	// The remaining bytes wrap around the end of the ring.
	if _, err := w.Write([]byte("ghij")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Retrying the flush emits the tail slice, then the head slice.
	backing.limit = 16
	if err := w.Flush(); err != nil {
		t.Fatalf("retried Flush: %v", err)
	}
	if got := string(backing.accepted); got != "abcdefghij" {
		t.Errorf("accepted: got %q, want %q", got, "abcdefghij")
	}
}
