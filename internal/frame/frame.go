// Package frame implements the relay's wire codec: a length-prefixed
// envelope carrying a session tag and an opaque payload between relay
// clients, and a simpler length-prefixed envelope used for server output.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the number of bytes in a client-to-server frame header:
// 4 bytes big-endian payload length, 1 byte session id.
const HeaderSize = 5

// OutHeaderSize is the header size the server uses when writing frames
// back out to clients: 4 bytes big-endian payload length, no session byte.
const OutHeaderSize = 4

// ErrBadFrame is returned when the stream closes mid-header or mid-payload.
// Callers treat it as an ordinary disconnect, not a protocol violation worth
// surfacing.
var ErrBadFrame = errors.New("frame: stream closed mid-frame")

// Frame is a single inbound frame read from a relay client.
type Frame struct {
	PayloadLength uint32
	SessionID     uint8
	Payload       []byte
}

// Read reads one frame from r. It returns ErrBadFrame if the header or
// payload is truncated by EOF (a clean or abrupt disconnect), and the
// underlying error for any other I/O failure.
func Read(r io.Reader) (Frame, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrBadFrame
		}
		return Frame{}, fmt.Errorf("frame: read header: %w", err)
	}

	length := binary.BigEndian.Uint32(header[0:4])
	session := header[4]

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Frame{}, ErrBadFrame
			}
			return Frame{}, fmt.Errorf("frame: read payload: %w", err)
		}
	}

	return Frame{PayloadLength: length, SessionID: session, Payload: payload}, nil
}

// WriteOut writes payload to w using the server-output framing: a 4-byte
// big-endian length prefix with no session byte.
func WriteOut(w io.Writer, payload []byte) error {
	var header [OutHeaderSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("frame: write header: %w", err)
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("frame: write payload: %w", err)
		}
	}
	return nil
}
