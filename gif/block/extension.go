package block

import (
	"encoding/binary"
	"fmt"

	"gitgub.com/cam-per/gifanim/utils"
)

func (parser *Parser) parseExtension(offset int) (Block, error) {
	label, err := parser.s.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("gif: reading extension: %w", err)
	}

	var block Block
	switch label {
	case eGraphicControl:
		block, err = parser.parseGraphicControl(offset)
	case eComment:
		block, err = parser.parseComment(offset)
	case ePlainText:
		block, err = parser.parsePlainText(offset)
	case eApplication:
		block, err = parser.parseApplication(offset)
	default:
		block, err = parser.parseUnknown(offset, label)
	}
	if err != nil {
		return nil, fmt.Errorf("gif: reading extension 0x%.2x: %w", label, err)
	}
	return block, nil
}

func (parser *Parser) parseGraphicControl(offset int) (*GraphicControl, error) {
	// block size (always 4), packed fields, delay (2), transparent index,
	// terminator
	if _, err := parser.s.ReadByte(); err != nil {
		return nil, err
	}
	fields, err := parser.s.ReadByte()
	if err != nil {
		return nil, err
	}
	delay, err := parser.s.ReadUint16LE()
	if err != nil {
		return nil, err
	}
	index, err := parser.s.ReadByte()
	if err != nil {
		return nil, err
	}
	if _, err := parser.s.ReadByte(); err != nil {
		return nil, err
	}

	return &GraphicControl{
		pos:              pos{offset},
		Disposal:         Disposal((fields & gcDisposalMethod) >> 2),
		UserInput:        fields&gcUserInputSet != 0,
		Transparent:      fields&gcTransparentColorSet != 0,
		TransparentIndex: index,
		Delay:            delay,
	}, nil
}

func (parser *Parser) parseComment(offset int) (*Comment, error) {
	data, err := parser.readSubBlocks()
	if err != nil {
		return nil, err
	}
	return &Comment{pos: pos{offset}, Text: utils.Text(data).String()}, nil
}

func (parser *Parser) parsePlainText(offset int) (*PlainText, error) {
	// block size, always 12
	if _, err := parser.s.ReadByte(); err != nil {
		return nil, err
	}
	h, err := parser.s.ReadBytes(12)
	if err != nil {
		return nil, err
	}
	data, err := parser.readSubBlocks()
	if err != nil {
		return nil, err
	}

	return &PlainText{
		pos:        pos{offset},
		Left:       int(binary.LittleEndian.Uint16(h[0:2])),
		Top:        int(binary.LittleEndian.Uint16(h[2:4])),
		Width:      int(binary.LittleEndian.Uint16(h[4:6])),
		Height:     int(binary.LittleEndian.Uint16(h[6:8])),
		CellWidth:  h[8],
		CellHeight: h[9],
		Foreground: h[10],
		Background: h[11],
		Text:       utils.Text(data).String(),
	}, nil
}

func (parser *Parser) parseApplication(offset int) (Block, error) {
	// block size, always 11
	if _, err := parser.s.ReadByte(); err != nil {
		return nil, err
	}
	identifier, err := parser.s.ReadText(8)
	if err != nil {
		return nil, err
	}
	authCode, err := parser.s.ReadText(3)
	if err != nil {
		return nil, err
	}
	data, err := parser.readSubBlocks()
	if err != nil {
		return nil, err
	}

	if identifier == netscapeIdentifier {
		ext := &Netscape{pos: pos{offset}, AuthCode: authCode, Data: data}
		ext.decode()
		return ext, nil
	}
	return &Application{
		pos:        pos{offset},
		Identifier: identifier,
		AuthCode:   authCode,
		Data:       data,
	}, nil
}

func (parser *Parser) parseUnknown(offset int, label byte) (*Unknown, error) {
	data, err := parser.readSubBlocks()
	if err != nil {
		return nil, err
	}
	return &Unknown{pos: pos{offset}, Label: label, Data: data}, nil
}
