// Package timeline maps elapsed playback time to animation frames.
package timeline

import (
	"time"

	"gitgub.com/cam-per/gifanim/gif"
)

const (
	// MinDelay is the shortest delay a frame is shown for.
	MinDelay = 2
	// DefaultDelay replaces a zero delay, as browsers do.
	DefaultDelay = 10
)

type Timeline struct {
	ends []time.Duration
	// plays is the number of passes, 0 meaning forever.
	plays int
}

// Delay is the display time of a frame with the given delay in hundredths
// of a second.
func Delay(centiseconds int) time.Duration {
	switch {
	case centiseconds == 0:
		centiseconds = DefaultDelay
	case centiseconds < MinDelay:
		centiseconds = MinDelay
	}
	return time.Duration(centiseconds) * 10 * time.Millisecond
}

// New builds the timeline of anim. A NETSCAPE loop count of n plays the
// animation n+1 times; without one it plays once.
func New(anim *gif.Animation) *Timeline {
	t := &Timeline{ends: make([]time.Duration, len(anim.Frames))}
	var end time.Duration
	for i, frame := range anim.Frames {
		end += Delay(frame.Delay)
		t.ends[i] = end
	}

	switch {
	case anim.LoopCount < 0:
		t.plays = 1
	case anim.LoopCount == 0:
		t.plays = 0
	default:
		t.plays = anim.LoopCount + 1
	}
	return t
}

// Cycle is the length of one pass.
func (t *Timeline) Cycle() time.Duration {
	if len(t.ends) == 0 {
		return 0
	}
	return t.ends[len(t.ends)-1]
}

func (t *Timeline) Forever() bool { return t.plays == 0 }

// At returns the frame shown after elapsed, how long until it changes and
// whether playback has finished. A finished timeline holds the last frame.
func (t *Timeline) At(elapsed time.Duration) (frame int, remaining time.Duration, done bool) {
	cycle := t.Cycle()
	if cycle == 0 {
		return len(t.ends) - 1, 0, true
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if !t.Forever() && elapsed >= cycle*time.Duration(t.plays) {
		return len(t.ends) - 1, 0, true
	}

	pos := elapsed % cycle
	for i, end := range t.ends {
		if pos < end {
			return i, end - pos, false
		}
	}
	return len(t.ends) - 1, 0, true
}
