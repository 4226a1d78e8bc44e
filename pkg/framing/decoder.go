package framing

import (
	"bytes"
	"fmt"
)

// DefaultMaxBuffered is the default cap on bytes held for an incomplete frame.
const DefaultMaxBuffered = 1 << 20

// Terminator ends every frame.
const Terminator = '\n'

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxBuffered sets the cap on buffered bytes. Values <= 0 keep the default.
func WithMaxBuffered(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxBuffered = n
		}
	}
}

// Decoder reassembles frames across reads.
type Decoder struct {
	buf         []byte
	maxBuffered int
}

// NewDecoder returns an empty decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{maxBuffered: DefaultMaxBuffered}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Feed appends p to the buffer and returns the complete, non-blank frames it
// now holds, without their terminators. The returned slices are copies and stay
// valid after later calls.
//
// When the remainder after the last terminator exceeds the cap, Feed returns the
// frames completed so far together with ErrFrameTooLarge and discards the
// remainder.
func (d *Decoder) Feed(p []byte) ([][]byte, error) {
	d.buf = append(d.buf, p...)

	var frames [][]byte
	start := 0
	for {
		idx := bytes.IndexByte(d.buf[start:], Terminator)
		if idx < 0 {
			break
		}
		line := bytes.TrimSpace(d.buf[start : start+idx])
		start += idx + 1
		if len(line) == 0 {
			continue
		}
		frames = append(frames, bytes.Clone(line))
	}

	// Compact so the buffer only holds the partial tail.
	rest := len(d.buf) - start
	copy(d.buf, d.buf[start:])
	d.buf = d.buf[:rest]

	if rest > d.maxBuffered {
		d.Reset()
		return frames, fmt.Errorf("%w: %d bytes buffered, limit %d", ErrFrameTooLarge, rest, d.maxBuffered)
	}
	return frames, nil
}

// Buffered returns the number of bytes waiting for a terminator.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Flush returns the buffered partial frame, if it is not blank, and empties the
// buffer. Callers use it when the peer closes the stream; the listener does not
// treat an unterminated tail as a frame.
func (d *Decoder) Flush() []byte {
	line := bytes.TrimSpace(d.buf)
	var out []byte
	if len(line) > 0 {
		out = bytes.Clone(line)
	}
	d.Reset()
	return out
}

// Reset discards any buffered bytes.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
}
