package gif

import (
	"errors"
	"fmt"
	"io"

	"gitgub.com/cam-per/gifanim/gif/block"
	"gitgub.com/cam-per/gifanim/gif/compose"
	"gitgub.com/cam-per/gifanim/gif/lzw"
)

// Error kinds. Every error returned by Decode matches exactly one of these
// under errors.Is, except cancellation, which matches the context error.
var (
	ErrNotAGifFile           = block.ErrNotAGifFile
	ErrUnexpectedEndOfStream = io.ErrUnexpectedEOF
	ErrUnknownBlockSentinel  = block.ErrUnknownBlock
	ErrInvalidLzwCode        = lzw.ErrInvalidCode
	ErrNoColorTable          = compose.ErrNoColorTable
	ErrPixelOutOfRange       = compose.ErrBadPixel
	ErrSource                = errors.New("gif: source unavailable")
)

// DecodeError locates a decode failure in the stream.
type DecodeError struct {
	// Op is one of "header", "block", "lzw", "compose" or "cancel".
	Op string
	// Block is the zero-based index of the block being processed; the
	// header is block 0.
	Block  int
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("gif: %s failed at block %d (offset %d): %v", e.Op, e.Block, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SourceError reports that the bytes to decode could not be obtained.
type SourceError struct {
	Name string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("gif: reading source: %v", e.Err)
	}
	return fmt.Sprintf("gif: reading %s: %v", e.Name, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool { return target == ErrSource }
