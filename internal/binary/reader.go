// Package binary provides byte-order aware reads over a seekable source.
//
// The byte order of an ICU data file is declared by a single header byte,
// so it is decided once by the caller and fixed for the lifetime of a
// Cursor. Every multi-byte read uses that order.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Order selects how multi-byte integers are assembled.
type Order uint8

const (
	// LittleEndian is declared by header byte 8 == 0.
	LittleEndian Order = iota
	// BigEndian is declared by header byte 8 == 1.
	BigEndian
)

// ByteOrder returns the encoding/binary implementation of o.
func (o Order) ByteOrder() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (o Order) String() string {
	switch o {
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	default:
		return fmt.Sprintf("Order(%d)", uint8(o))
	}
}

// OrderedReader is a seekable byte source with a fixed multi-byte read order.
//
// The plain reads consume from the current position. The From variants seek
// to an absolute offset first and leave the position after the value read.
type OrderedReader interface {
	io.ReadSeeker

	Order() Order
	Pos() int64

	ReadBytes(n int) ([]byte, error)
	ReadUint8() (uint8, error)
	ReadUint16() (uint16, error)
	ReadUint32() (uint32, error)

	ReadUint8From(off int64) (uint8, error)
	ReadUint16From(off int64) (uint16, error)
	ReadUint32From(off int64) (uint32, error)
}

// Cursor is the OrderedReader adapter over any io.ReadSeeker.
// A Cursor must not be shared between goroutines.
type Cursor struct {
	r     io.ReadSeeker
	order Order
	bo    binary.ByteOrder
	pos   int64
}

var _ OrderedReader = (*Cursor)(nil)

// Wrap returns a Cursor reading r in the given order, starting at r's
// current position.
func Wrap(r io.ReadSeeker, order Order) *Cursor {
	c := &Cursor{
		r:     r,
		order: order,
		bo:    order.ByteOrder(),
	}
	if pos, err := r.Seek(0, io.SeekCurrent); err == nil {
		c.pos = pos
	}
	return c
}

// Order returns the read order fixed at construction.
func (c *Cursor) Order() Order {
	return c.order
}

// Pos returns the current absolute position.
func (c *Cursor) Pos() int64 {
	return c.pos
}

// Read implements io.Reader.
func (c *Cursor) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.pos += int64(n)
	return n, err
}

// Seek implements io.Seeker.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	pos, err := c.r.Seek(offset, whence)
	if err != nil {
		return c.pos, err
	}
	c.pos = pos
	return pos, nil
}

// ReadBytes reads exactly n bytes from the current position.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(c.r, buf)
	c.pos += int64(read)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadUint8 reads one byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	buf, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (c *Cursor) ReadUint16() (uint16, error) {
	buf, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return c.bo.Uint16(buf), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	buf, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return c.bo.Uint32(buf), nil
}

// ReadUint8From seeks to off and reads one byte.
func (c *Cursor) ReadUint8From(off int64) (uint8, error) {
	if err := c.seekTo(off); err != nil {
		return 0, err
	}
	return c.ReadUint8()
}

// ReadUint16From seeks to off and reads an unsigned 16-bit integer.
func (c *Cursor) ReadUint16From(off int64) (uint16, error) {
	if err := c.seekTo(off); err != nil {
		return 0, err
	}
	return c.ReadUint16()
}

// ReadUint32From seeks to off and reads an unsigned 32-bit integer.
func (c *Cursor) ReadUint32From(off int64) (uint32, error) {
	if err := c.seekTo(off); err != nil {
		return 0, err
	}
	return c.ReadUint32()
}

func (c *Cursor) seekTo(off int64) error {
	_, err := c.Seek(off, io.SeekStart)
	return err
}
