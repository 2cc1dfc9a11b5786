// Package gif decodes GIF87a and GIF89a files into fully composited
// animation frames.
package gif

import (
	"image"
	"time"

	"gitgub.com/cam-per/gifanim/gif/block"
	"gitgub.com/cam-per/gifanim/gif/compose"
)

type Frame = compose.Frame

type Animation struct {
	Header *block.Header
	Frames []Frame
	// LoopCount is the NETSCAPE2.0 iteration count, 0 meaning forever, or
	// -1 when the file has no looping extension.
	LoopCount int
	Comments  []string
	// Extensions holds the application, plain text and unknown
	// extensions in stream order.
	Extensions []block.Block
}

func (anim *Animation) Bounds() image.Rectangle { return anim.Header.Bounds() }

// Duration is the sum of all frame delays for one pass of the animation.
func (anim *Animation) Duration() time.Duration {
	var total time.Duration
	for _, frame := range anim.Frames {
		total += frame.Duration()
	}
	return total
}
