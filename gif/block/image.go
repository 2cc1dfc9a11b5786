package block

import (
	"fmt"
)

func (parser *Parser) parseImage(offset int) (*Image, error) {
	img := &Image{pos: pos{offset}}

	var geometry [4]int
	for i := range geometry {
		v, err := parser.s.ReadUint16LE()
		if err != nil {
			return nil, fmt.Errorf("gif: reading image descriptor: %w", err)
		}
		geometry[i] = int(v)
	}
	img.Left, img.Top, img.Width, img.Height = geometry[0], geometry[1], geometry[2], geometry[3]

	fields, err := parser.s.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("gif: reading image descriptor: %w", err)
	}
	img.Interlaced = fields&ifInterlace != 0
	img.Sorted = fields&ifSortFlag != 0

	if fields&ifLocalColorTable != 0 {
		if img.LocalColorTable, err = parser.palette.Decode(fields & fColorTableSize); err != nil {
			return nil, fmt.Errorf("gif: reading local color table: %w", err)
		}
	}

	minCodeSize, err := parser.s.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("gif: reading image data: %w", err)
	}
	img.MinCodeSize = int(minCodeSize)

	if img.Data, err = parser.readSubBlocks(); err != nil {
		return nil, fmt.Errorf("gif: reading image data: %w", err)
	}
	return img, nil
}
