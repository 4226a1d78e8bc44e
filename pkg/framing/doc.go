// Package framing splits a continuous byte stream into newline-delimited frames.
//
// A Decoder is bound to one connection. Feed appends whatever bytes the last
// read produced and returns every complete frame found so far; a trailing
// partial frame stays buffered until a later Feed completes it. Frames that are
// blank after trimming whitespace are dropped.
//
// Decoders are not safe for concurrent use. Each connection owns its own
// Decoder, so frames from different producers can never interleave.
//
// The buffer is capped (DefaultMaxBuffered unless WithMaxBuffered says
// otherwise). When an unterminated frame grows past the cap Feed returns
// ErrFrameTooLarge and the caller is expected to close the connection.
package framing
