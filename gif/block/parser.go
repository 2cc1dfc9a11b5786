package block

import (
	"errors"
	"fmt"
	"io"

	"gitgub.com/cam-per/gifanim/gif/pal"
	"gitgub.com/cam-per/gifanim/utils"
)

var (
	ErrNotAGifFile  = errors.New("gif: not a GIF file")
	ErrUnknownBlock = errors.New("gif: unknown block")
)

// UnknownBlockError reports a block sentinel that is not an extension,
// image descriptor or trailer.
type UnknownBlockError struct {
	Sentinel byte
	Offset   int
}

func (e *UnknownBlockError) Error() string {
	return fmt.Sprintf("gif: unknown block type: 0x%.2x at offset %d", e.Sentinel, e.Offset)
}

func (e *UnknownBlockError) Is(target error) bool { return target == ErrUnknownBlock }

type Parser struct {
	s       *utils.Stream
	palette *pal.Decoder
	header  *Header
	done    bool
}

func NewParser(data []byte) *Parser {
	s := utils.NewStream(data)
	return &Parser{
		s:       s,
		palette: pal.NewDecoder(s),
	}
}

// Offset is the current position in the stream.
func (parser *Parser) Offset() int { return parser.s.Pos() }

// Header returns the logical screen once the first block has been read.
func (parser *Parser) Header() *Header { return parser.header }

// Next parses the next block. The first call returns the *Header; after the
// *Trailer, or after any error, Next returns io.EOF.
func (parser *Parser) Next() (Block, error) {
	if parser.done {
		return nil, io.EOF
	}
	block, err := parser.next()
	if err != nil {
		parser.done = true
		return nil, err
	}
	if block.Kind() == KindTrailer {
		parser.done = true
	}
	return block, nil
}

func (parser *Parser) next() (Block, error) {
	if parser.header == nil {
		header, err := parser.parseHeader()
		if err != nil {
			return nil, err
		}
		parser.header = header
		return header, nil
	}

	offset := parser.s.Pos()
	sentinel, err := parser.s.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("gif: reading block: %w", err)
	}

	switch sentinel {
	case sExtension:
		return parser.parseExtension(offset)
	case sImageDescriptor:
		return parser.parseImage(offset)
	case sTrailer:
		return &Trailer{pos{offset}}, nil
	default:
		return nil, &UnknownBlockError{Sentinel: sentinel, Offset: offset}
	}
}

func (parser *Parser) parseHeader() (*Header, error) {
	header := &Header{pos: pos{parser.s.Pos()}}

	signature, err := parser.s.ReadText(3)
	if err != nil || signature != "GIF" {
		return nil, ErrNotAGifFile
	}
	header.Signature = signature

	if header.Version, err = parser.s.ReadText(3); err != nil {
		return nil, fmt.Errorf("gif: reading header: %w", err)
	}

	width, err := parser.s.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("gif: reading logical screen: %w", err)
	}
	height, err := parser.s.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("gif: reading logical screen: %w", err)
	}
	fields, err := parser.s.ReadBytes(3)
	if err != nil {
		return nil, fmt.Errorf("gif: reading logical screen: %w", err)
	}

	header.Width = int(width)
	header.Height = int(height)
	header.ColorResolution = (fields[0] & fColorResolution) >> 4
	header.Sorted = fields[0]&fSortFlag != 0
	header.BackgroundIndex = fields[1]
	header.PixelAspect = fields[2]

	if fields[0]&fColorTableFlag != 0 {
		if header.GlobalColorTable, err = parser.palette.Decode(fields[0] & fColorTableSize); err != nil {
			return nil, fmt.Errorf("gif: reading global color table: %w", err)
		}
	}
	return header, nil
}

// readSubBlocks concatenates (n, n bytes) sub-blocks up to the zero-length
// terminator.
func (parser *Parser) readSubBlocks() ([]byte, error) {
	var data []byte
	for {
		n, err := parser.s.ReadByte()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return data, nil
		}
		chunk, err := parser.s.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		data = append(data, chunk...)
	}
}
