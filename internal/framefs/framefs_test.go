package framefs_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"gitgub.com/cam-per/gifanim/gif"
	"gitgub.com/cam-per/gifanim/internal/framefs"
	"gitgub.com/cam-per/gifanim/internal/giftest"
)

func animation(t *testing.T) *gif.Animation {
	t.Helper()
	palette := []color.RGBA{{A: 0xff}, {R: 0xff, A: 0xff}, {G: 0xff, A: 0xff}, {B: 0xff, A: 0xff}}
	pixels := make([]byte, 8*4)
	for i := range pixels {
		pixels[i] = byte(i % 4)
	}
	data := giftest.New().
		Header(8, 4, palette).
		Netscape(0).
		GraphicControl(1, 4, -1).
		Image(giftest.Image{Width: 8, Height: 4, Pixels: pixels}).
		GraphicControl(1, 12, -1).
		Image(giftest.Image{Left: 2, Top: 1, Width: 2, Height: 2, Pixels: []byte{3, 3, 3, 3}}).
		Trailer().
		Bytes()

	anim, err := gif.Decode(context.Background(), data)
	require.NoError(t, err)
	return anim
}

func TestFS(t *testing.T) {
	anim := animation(t)
	for _, format := range framefs.Formats {
		fsys, err := framefs.New(anim, format, 0)
		require.NoError(t, err)
		require.NoError(t, fstest.TestFS(fsys,
			framefs.FrameName(0, format),
			framefs.FrameName(1, format),
			framefs.IndexName), string(format))
	}
}

func TestUnknownFormat(t *testing.T) {
	_, err := framefs.New(animation(t), "gif", 0)
	require.Error(t, err)

	_, err = framefs.ParseFormat("jpeg")
	require.Error(t, err)
	f, err := framefs.ParseFormat("rgba.zst")
	require.NoError(t, err)
	require.Equal(t, framefs.Zstd, f)
}

func TestPNGFrames(t *testing.T) {
	anim := animation(t)
	fsys, err := framefs.New(anim, framefs.PNG, 0)
	require.NoError(t, err)

	for i, frame := range anim.Frames {
		f, err := fsys.Open(framefs.FrameName(i, framefs.PNG))
		require.NoError(t, err)
		img, err := png.Decode(f)
		require.NoError(t, err)
		require.NoError(t, f.Close())

		require.Equal(t, frame.Image.Bounds(), img.Bounds())
		for y := 0; y < 4; y++ {
			for x := 0; x < 8; x++ {
				require.Equal(t, frame.Image.RGBAAt(x, y), color.RGBAModel.Convert(img.At(x, y)))
			}
		}
	}
}

func TestBMPFrames(t *testing.T) {
	anim := animation(t)
	fsys, err := framefs.New(anim, framefs.BMP, 0)
	require.NoError(t, err)

	f, err := fsys.Open(framefs.FrameName(1, framefs.BMP))
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())

	r, g, b, _ := img.At(2, 1).RGBA()
	require.Equal(t, [3]uint32{0, 0, 0xffff}, [3]uint32{r, g, b})
}

func TestZstdFrames(t *testing.T) {
	anim := animation(t)
	fsys, err := framefs.New(anim, framefs.Zstd, 0)
	require.NoError(t, err)

	data, err := fs.ReadFile(fsys, framefs.FrameName(0, framefs.Zstd))
	require.NoError(t, err)

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	pix, err := dec.DecodeAll(data, nil)
	require.NoError(t, err)
	require.Equal(t, anim.Frames[0].Image.Pix, pix)
}

func TestZstdFramesConcurrent(t *testing.T) {
	anim := animation(t)
	fsys, err := framefs.New(anim, framefs.Zstd, 0)
	require.NoError(t, err)

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()

	var wg sync.WaitGroup
	out := make([][]byte, len(anim.Frames))
	errs := make([]error, len(anim.Frames))
	for i := range anim.Frames {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i], errs[i] = fs.ReadFile(fsys, framefs.FrameName(i, framefs.Zstd))
		}()
	}
	wg.Wait()

	for i, frame := range anim.Frames {
		require.NoError(t, errs[i])
		pix, err := dec.DecodeAll(out[i], nil)
		require.NoError(t, err)
		require.Equal(t, frame.Image.Pix, pix)
	}
}

func TestScaledFrames(t *testing.T) {
	anim := animation(t)
	fsys, err := framefs.New(anim, framefs.PNG, 16)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 16, 8), fsys.Bounds())

	f, err := fsys.Open(framefs.FrameName(0, framefs.PNG))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Width)
	require.Equal(t, 8, cfg.Height)
}

func TestIndex(t *testing.T) {
	fsys, err := framefs.New(animation(t), framefs.PNG, 0)
	require.NoError(t, err)

	data, err := fs.ReadFile(fsys, framefs.IndexName)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, []string{
		"# 8x4 loops=0",
		"frame_0000.png 4 40ms",
		"frame_0001.png 12 120ms",
	}, lines)
}

func TestCopyFS(t *testing.T) {
	fsys, err := framefs.New(animation(t), framefs.PNG, 0)
	require.NoError(t, err)

	out := t.TempDir()
	require.NoError(t, os.CopyFS(out, fsys))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"frame_0000.png", "frame_0001.png", "frames.txt"}, names)

	_, err = os.Stat(filepath.Join(out, "frame_0001.png"))
	require.NoError(t, err)
}

func TestOpenMissing(t *testing.T) {
	fsys, err := framefs.New(animation(t), framefs.PNG, 0)
	require.NoError(t, err)

	_, err = fsys.Open("frame_0009.png")
	require.ErrorIs(t, err, fs.ErrNotExist)
	_, err = fsys.Open("../frames.txt")
	require.ErrorIs(t, err, fs.ErrInvalid)
}
