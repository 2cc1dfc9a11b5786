package utils

import (
	"encoding/binary"
	"fmt"
	"io"
)

var (
	ErrEndOfStream = fmt.Errorf("stream: read past end: %w", io.ErrUnexpectedEOF)
)

// Stream is a forward-only cursor over an in-memory byte sequence.
// Reads advance the cursor only when they succeed.
type Stream struct {
	data []byte
	pos  int
}

func NewStream(data []byte) *Stream {
	return &Stream{data: data}
}

func (s *Stream) Pos() int { return s.pos }
func (s *Stream) Len() int { return len(s.data) - s.pos }

func (s *Stream) ReadByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, ErrEndOfStream
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

// ReadBytes returns the next n bytes. The slice aliases the stream's buffer.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(s.data)-s.pos {
		return nil, ErrEndOfStream
	}
	buf := s.data[s.pos : s.pos+n : s.pos+n]
	s.pos += n
	return buf, nil
}

func (s *Stream) ReadText(n int) (string, error) {
	buf, err := s.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return Text(buf).String(), nil
}

func (s *Stream) ReadUint16LE() (uint16, error) {
	buf, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// Read implements io.Reader. A short read at the end of the data is an
// ErrEndOfStream, never a partial success.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	buf, err := s.ReadBytes(len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, buf), nil
}
