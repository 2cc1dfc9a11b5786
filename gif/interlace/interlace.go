// Package interlace reorders GIF interlaced rows into top-to-bottom order.
package interlace

// passes are the (start row, step) pairs of the four interlace passes.
var passes = [4]struct{ start, step int }{
	{0, 8},
	{4, 8},
	{2, 4},
	{1, 2},
}

// Rows returns, for each row stored in an interlaced image of the given
// height, the display row it belongs to.
func Rows(height int) []int {
	rows := make([]int, 0, height)
	for _, pass := range passes {
		for y := pass.start; y < height; y += pass.step {
			rows = append(rows, y)
		}
	}
	return rows
}

// Deinterlace returns the pixels of an interlaced image in display order.
// Rows are width pixels long; a trailing partial row is left where it is.
func Deinterlace(pixels []byte, width int) []byte {
	if width <= 0 {
		return pixels
	}
	height := len(pixels) / width
	out := make([]byte, len(pixels))
	for from, to := range Rows(height) {
		copy(out[to*width:(to+1)*width], pixels[from*width:(from+1)*width])
	}
	copy(out[height*width:], pixels[height*width:])
	return out
}
