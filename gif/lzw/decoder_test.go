package lzw

import (
	"bytes"
	"compress/lzw"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, litWidth int, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.LSB, litWidth)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func indices(rng *rand.Rand, litWidth, n int, runs bool) []byte {
	data := make([]byte, n)
	for i := range data {
		if runs && i > 0 && rng.Intn(4) != 0 {
			data[i] = data[i-1]
			continue
		}
		data[i] = byte(rng.Intn(1 << litWidth))
	}
	return data
}

func TestDecodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for litWidth := 2; litWidth <= 8; litWidth++ {
		for _, n := range []int{1, 2, 17, 300, 5000, 70000} {
			for _, runs := range []bool{false, true} {
				want := indices(rng, litWidth, n, runs)

				got, err := Decode(litWidth, encode(t, litWidth, want))
				require.NoError(t, err, "litWidth=%d n=%d runs=%v", litWidth, n, runs)
				require.Equal(t, want, got, "litWidth=%d n=%d runs=%v", litWidth, n, runs)
			}
		}
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode(2, encode(t, 2, nil))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecodeRepeatedSymbol(t *testing.T) {
	// A single repeated index exercises the code == dictionary length case
	// on almost every step.
	want := bytes.Repeat([]byte{3}, 10000)

	got, err := Decode(2, encode(t, 2, want))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecoderReuse(t *testing.T) {
	var decoder Decoder
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 3; i++ {
		want := indices(rng, 8, 9000, true)
		got, err := decoder.Decode(nil, 8, encode(t, 8, want))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecodeAppends(t *testing.T) {
	var decoder Decoder
	want := []byte{1, 0, 1, 1, 0}

	got, err := decoder.Decode([]byte{9, 9}, 2, encode(t, 2, want))
	require.NoError(t, err)
	require.Equal(t, append([]byte{9, 9}, want...), got)
}

func TestDecodeLimit(t *testing.T) {
	want := indices(rand.New(rand.NewSource(3)), 4, 1000, false)

	decoder := Decoder{Limit: 10}
	got, err := decoder.Decode(nil, 4, encode(t, 4, want))
	require.NoError(t, err)
	require.Equal(t, want[:10], got)
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	want := []byte{0, 1, 2, 3, 3, 3, 2, 1}
	payload := append(encode(t, 2, want), 0xde, 0xad, 0xbe, 0xef)

	got, err := Decode(2, payload)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecodeWithoutEndCode(t *testing.T) {
	// min code size 2: clear=4, eoi=5, width 3.
	// codes 4 (clear), 1, 2 fill bits 0..8; the remaining seven zero bits
	// read as 0 (width 3) and 0 (width 4) before the payload runs out.
	payload := []byte{0x8c, 0x00}

	got, err := Decode(2, payload)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 0, 0}, got)
}

func TestDecodeInvalidCode(t *testing.T) {
	// clear (4) followed by 7 while the dictionary holds 6 entries.
	_, err := Decode(2, []byte{0x3c})
	require.ErrorIs(t, err, ErrInvalidCode)

	// clear (4) followed by 6: "one past the end" with no previous code.
	_, err = Decode(2, []byte{0x34})
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestDecodeMinCodeSize(t *testing.T) {
	_, err := Decode(0, []byte{0})
	require.ErrorIs(t, err, ErrInvalidCode)

	_, err = Decode(9, []byte{0})
	require.ErrorIs(t, err, ErrInvalidCode)
}
