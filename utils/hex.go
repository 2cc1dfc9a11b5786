package utils

import (
	"encoding/hex"
	"fmt"
	"io"
	"unicode"
)

// HexDump writes data as 16-byte rows of hex and printable ASCII. Row
// addresses start at base.
func HexDump(w io.Writer, data []byte, base int) error {
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i:end]

		if _, err := fmt.Fprintf(w, "%08x  ", base+i); err != nil {
			return err
		}

		// hex
		hexStr := hex.EncodeToString(chunk)
		for j := 0; j < len(hexStr); j += 2 {
			if _, err := fmt.Fprintf(w, "%s ", hexStr[j:j+2]); err != nil {
				return err
			}
		}
		// padding if not full 16
		for j := len(chunk); j < 16; j++ {
			if _, err := fmt.Fprint(w, "   "); err != nil {
				return err
			}
		}

		// ascii
		line := make([]byte, 0, len(chunk)+3)
		line = append(line, " |"...)
		for _, b := range chunk {
			if b < 0x80 && unicode.IsPrint(rune(b)) {
				line = append(line, b)
			} else {
				line = append(line, '.')
			}
		}
		line = append(line, "|\n"...)
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
