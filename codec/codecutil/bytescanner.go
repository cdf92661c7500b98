/*
NAME
  bytescanner.go

DESCRIPTION
  bytescanner.go provides a forward-only byte-level scanner with bounded
  lookahead, used as the byte-stream primitive for frame-oriented decoders.
  It originated as a plain reload-on-demand scanner; it has since grown
  Peek/Mark/Restore so that a caller attempting to parse a frame can give up
  partway through and retry the same bytes as a different frame type,
  without the underlying io.Reader supporting real seeks.
*/

// Package codecutil implements byte-level scanning primitives shared by
// frame-oriented decoders.
package codecutil

import (
	"errors"
	"io"
)

// ErrNoMark is returned by Restore when called without a preceding Mark.
var ErrNoMark = errors.New("codecutil: Restore called without Mark")

// ByteScanner is a forward-only byte scanner with bounded lookahead.
//
// It satisfies io.ByteReader. Bytes already returned by ReadByte/Take are
// normally discarded as soon as possible, but a call to Mark retains them
// (and everything read since) until the matching Restore or Unmark, so a
// failed parse attempt can be replayed.
type ByteScanner struct {
	buf []byte // lookahead window; buf[0] corresponds to stream offset basePos
	off int    // index of the next unread byte within buf
	mark int   // index of the active mark within buf, or -1 if unmarked

	basePos int64 // absolute stream offset of buf[0]
	eof     bool  // true once r has reported io.EOF; buffered bytes may remain

	r io.Reader
}

// NewByteScanner returns a scanner initialised with an io.Reader and a read
// buffer. buf only supplies the initial backing storage: ensure reads at
// least 4096 bytes per refill and grows buf as needed, so neither the read
// size nor how much lookahead Peek/Mark can accumulate is bounded by it.
func NewByteScanner(r io.Reader, buf []byte) *ByteScanner {
	return &ByteScanner{r: r, buf: buf[:0], mark: -1}
}

// ReadByte reads and returns the next byte in the stream.
func (c *ByteScanner) ReadByte() (byte, error) {
	if err := c.ensure(1); err != nil {
		return 0, err
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// Peek returns the next n bytes without advancing the read position. The
// returned slice aliases the scanner's internal buffer and is only valid
// until the next call that mutates the scanner (ReadByte, Take, Restore,
// Unmark, or another Peek/ensure). If fewer than n bytes remain before EOF,
// Peek returns the short slice along with io.EOF (or io.ErrUnexpectedEOF if
// some bytes were available).
func (c *ByteScanner) Peek(n int) ([]byte, error) {
	err := c.ensure(n)
	avail := len(c.buf) - c.off
	if avail > n {
		avail = n
	}
	out := c.buf[c.off : c.off+avail]
	if err != nil {
		if avail > 0 {
			return out, io.ErrUnexpectedEOF
		}
		return out, io.EOF
	}
	return out, nil
}

// Take reads and returns the next n bytes, advancing the read position. The
// returned slice is a copy and safe to retain.
func (c *ByteScanner) Take(n int) ([]byte, error) {
	if err := c.ensure(n); err != nil {
		if len(c.buf)-c.off < n {
			return nil, err
		}
	}
	out := make([]byte, n)
	copy(out, c.buf[c.off:c.off+n])
	c.off += n
	return out, nil
}

// Mark records the current read position so a subsequent Restore can return
// to it. Only one mark is active at a time; a second Mark call moves the
// mark forward to the new position, releasing the earlier one.
func (c *ByteScanner) Mark() {
	c.mark = c.off
}

// Restore rewinds the read position to the most recent Mark. It returns
// ErrNoMark if no mark is active.
func (c *ByteScanner) Restore() error {
	if c.mark < 0 {
		return ErrNoMark
	}
	c.off = c.mark
	c.mark = -1
	return nil
}

// Unmark releases the active mark without rewinding, allowing the scanner
// to reclaim the buffered bytes on the next ensure.
func (c *ByteScanner) Unmark() {
	c.mark = -1
}

// Position returns the absolute number of bytes consumed from the
// underlying reader so far (i.e. the offset of the next unread byte).
func (c *ByteScanner) Position() uint64 {
	return uint64(c.basePos) + uint64(c.off)
}

// EOF reports whether the stream is exhausted: no buffered bytes remain and
// the underlying reader has returned io.EOF.
func (c *ByteScanner) EOF() bool {
	return c.eof && c.off >= len(c.buf)
}

// ScanUntil scans the scanner's underlying io.Reader until a delim byte has
// been read, appending all read bytes to dst. It returns the resulting
// appended data, the last read byte, and whether reading stopped due to an
// error rather than finding delim.
func (c *ByteScanner) ScanUntil(dst []byte, delim byte) (res []byte, b byte, err error) {
	for {
		b, err = c.ReadByte()
		if err != nil {
			return dst, b, err
		}
		dst = append(dst, b)
		if b == delim {
			return dst, b, nil
		}
	}
}

// ensure makes at least n unread bytes available starting at c.off,
// compacting already-consumed bytes (other than those retained by an
// active mark) out of the front of the buffer before reading more from r.
func (c *ByteScanner) ensure(n int) error {
	for len(c.buf)-c.off < n {
		if c.eof {
			return io.EOF
		}
		c.compact()

		grow := n - (len(c.buf) - c.off)
		if grow < 4096 {
			grow = 4096
		}
		start := len(c.buf)
		if cap(c.buf) < start+grow {
			bigger := make([]byte, start, start+grow)
			copy(bigger, c.buf)
			c.buf = bigger
		}
		c.buf = c.buf[:start+grow]

		read, err := c.r.Read(c.buf[start : start+grow])
		c.buf = c.buf[:start+read]
		if err != nil {
			if err != io.EOF {
				return err
			}
			c.eof = true
		}
		if read == 0 && c.eof {
			return io.EOF
		}
	}
	return nil
}

// compact discards bytes that can no longer be retrieved (those before the
// active mark, or before off if unmarked), shifting the remainder to the
// front of buf and advancing basePos accordingly.
func (c *ByteScanner) compact() {
	keepFrom := c.off
	if c.mark >= 0 && c.mark < keepFrom {
		keepFrom = c.mark
	}
	if keepFrom == 0 {
		return
	}
	n := copy(c.buf, c.buf[keepFrom:])
	c.buf = c.buf[:n]
	c.basePos += int64(keepFrom)
	c.off -= keepFrom
	if c.mark >= 0 {
		c.mark -= keepFrom
	}
}
