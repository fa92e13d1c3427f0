package model

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encoder accumulates the little-endian, variable-length binary model
// layout of spec.md §6: every processor writes window, its interned
// string table, then its own extra state, in registration order.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Add4B(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) Add1B(v byte) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) AddString(s string) {
	e.Add4B(int32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) WriteTo(w io.Writer) error {
	_, err := w.Write(e.buf)
	return err
}

// Decoder reads back what Encoder wrote. It assumes a trusted,
// well-formed file: a short read is reported through an error rather
// than recovered from, per spec.md §7's "load assumes a trusted file"
// policy.
type Decoder struct {
	buf []byte
	pos int
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

func (d *Decoder) Next4B() (int32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, fmt.Errorf("binary model decoder: short read, want 4 bytes at offset %d, have %d", d.pos, len(d.buf)-d.pos)
	}
	v := binary.LittleEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return int32(v), nil
}

func (d *Decoder) Next1B() (byte, error) {
	if d.pos+1 > len(d.buf) {
		return 0, fmt.Errorf("binary model decoder: short read, want 1 byte at offset %d", d.pos)
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

func (d *Decoder) NextString() (string, error) {
	n, err := d.Next4B()
	if err != nil {
		return "", err
	}
	if n < 0 || d.pos+int(n) > len(d.buf) {
		return "", fmt.Errorf("binary model decoder: short read, want %d string bytes at offset %d", n, d.pos)
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}
