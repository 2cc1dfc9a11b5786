package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexDump(t *testing.T) {
	var out bytes.Buffer
	data := []byte("NETSCAPE2.0\x03\x01\x00\x00\x00\xff")

	require.NoError(t, HexDump(&out, data, 0x20))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "00000020  4e 45 54 53 43 41 50 45 32 2e 30 03 01 00 00 00 "))
	require.True(t, strings.HasSuffix(lines[0], "|NETSCAPE2.0.....|"))
	require.True(t, strings.HasPrefix(lines[1], "00000030  ff "))
	require.True(t, strings.HasSuffix(lines[1], " |.|"))
}

func TestHexDumpEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, HexDump(&out, nil, 0))
	require.Zero(t, out.Len())
}
