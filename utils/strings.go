package utils

import (
	"golang.org/x/text/encoding/charmap"
)

// Text is raw GIF text: comments, application identifiers and plain text
// extension data are all 8-bit Latin-1.
type Text []byte

func (t Text) String() string {
	buf, err := charmap.ISO8859_1.NewDecoder().Bytes(t)
	if err != nil {
		return string(t)
	}
	return string(buf)
}
