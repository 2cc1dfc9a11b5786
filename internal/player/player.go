// Package player shows a decoded animation in a window. Play must run on
// the main OS thread.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"gitgub.com/cam-per/gifanim/gif"
	"gitgub.com/cam-per/gifanim/internal/rendering"
	"gitgub.com/cam-per/gifanim/internal/timeline"
)

const program = "frame"

type Options struct {
	Title string
	// Scale multiplies the window size; 0 means 1.
	Scale  int
	Logger *slog.Logger
}

// quad is two triangles covering the viewport: x, y, u, v per vertex.
// Texture rows run top to bottom, so v is flipped.
var quad = []float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	1, 1, 1, 0,
	-1, -1, 0, 1,
	1, 1, 1, 0,
	-1, 1, 0, 0,
}

type player struct {
	anim     *gif.Animation
	timeline *timeline.Timeline
	window   *glfw.Window
	logger   *slog.Logger

	texture uint32
	vao     uint32
	vbo     uint32

	shown   int
	paused  bool
	pausedT time.Duration
	start   time.Time
}

// Play opens a window and shows anim until it finishes, the window is
// closed, Escape is pressed or ctx is done. Space pauses.
func Play(ctx context.Context, anim *gif.Animation, opts Options) error {
	if len(anim.Frames) == 0 {
		return fmt.Errorf("player: animation has no frames")
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("player: init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	bounds := anim.Bounds()
	window, err := glfw.CreateWindow(bounds.Dx()*opts.Scale, bounds.Dy()*opts.Scale, opts.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("player: create window: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("player: init gl: %w", err)
	}
	if err := rendering.LoadShaders(rendering.Shaders()); err != nil {
		return err
	}
	if err := rendering.CompileShaders(); err != nil {
		return err
	}
	defer rendering.DeletePrograms()

	p := &player{
		anim:     anim,
		timeline: timeline.New(anim),
		window:   window,
		logger:   opts.Logger,
		shown:    -1,
	}
	p.setup()
	defer p.teardown()

	window.SetKeyCallback(p.onKey)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})
	width, height := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))

	p.start = time.Now()
	return p.loop(ctx)
}

func (p *player) setup() {
	rendering.UseProgram(program)
	handle := rendering.Program(program)
	gl.Uniform1i(gl.GetUniformLocation(handle, gl.Str("frame\x00")), 0)
	gl.Uniform1f(gl.GetUniformLocation(handle, gl.Str("checker\x00")), 8)

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)

	bounds := p.anim.Bounds()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(bounds.Dx()), int32(bounds.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
}

func (p *player) teardown() {
	gl.DeleteTextures(1, &p.texture)
	gl.DeleteBuffers(1, &p.vbo)
	gl.DeleteVertexArrays(1, &p.vao)
}

func (p *player) onKey(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeySpace:
		if p.paused {
			p.start = time.Now().Add(-p.pausedT)
		} else {
			p.pausedT = time.Since(p.start)
		}
		p.paused = !p.paused
	}
}

func (p *player) elapsed() time.Duration {
	if p.paused {
		return p.pausedT
	}
	return time.Since(p.start)
}

func (p *player) loop(ctx context.Context) error {
	for !p.window.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, remaining, done := p.timeline.At(p.elapsed())
		if frame != p.shown {
			p.upload(frame)
		}
		p.draw()

		if done {
			p.logger.Debug("playback finished", slog.Int("frame", frame))
			glfw.WaitEvents()
			continue
		}
		if p.paused {
			remaining = time.Second
		}
		glfw.WaitEventsTimeout(remaining.Seconds())
	}
	return nil
}

func (p *player) upload(frame int) {
	img := p.anim.Frames[frame].Image
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(img.Rect.Dx()), int32(img.Rect.Dy()),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	p.shown = frame
	p.window.SetTitle(fmt.Sprintf("frame %d/%d", frame+1, len(p.anim.Frames)))
	p.logger.Debug("frame", slog.Int("index", frame), slog.Int("delay", p.anim.Frames[frame].Delay))
}

func (p *player) draw() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quad)/4))
	p.window.SwapBuffers()
}
