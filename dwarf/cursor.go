package dwarf

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	signExtensionMask = ^uint64(0)

	// Dwarf 2 on a 32-bit address space.  The loader rejects units whose
	// header declares another size.
	SupportedAddressSize = 4
)

// Cursor decodes dwarf primitives from raw section bytes.  Dwarf producers
// match the host byte order; only little endian hosts are supported.
type Cursor struct {
	binary.ByteOrder

	Content  []byte
	Position int

	// Byte width of DW_FORM_addr values.  Set from the compile unit header.
	AddressSize int
}

func NewCursor(content []byte) *Cursor {
	return &Cursor{
		ByteOrder:   binary.LittleEndian,
		Content:     content,
		Position:    0,
		AddressSize: SupportedAddressSize,
	}
}

func (cursor *Cursor) Clone() *Cursor {
	return &Cursor{
		ByteOrder:   cursor.ByteOrder,
		Content:     cursor.Content,
		Position:    cursor.Position,
		AddressSize: cursor.AddressSize,
	}
}

func (cursor *Cursor) remaining() []byte {
	return cursor.Content[cursor.Position:]
}

func (cursor *Cursor) HasReachedEnd() bool {
	return len(cursor.remaining()) == 0
}

func (cursor *Cursor) Seek(offset int, whence int) (int, error) {
	pos := 0
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = cursor.Position + offset
	case io.SeekEnd:
		pos = len(cursor.Content) + offset
	}

	if pos < 0 || len(cursor.Content) < pos {
		return 0, fmt.Errorf("out of bound seek (%d)", pos)
	}

	cursor.Position = pos
	return pos, nil
}

func (cursor *Cursor) Bytes(size int) ([]byte, error) {
	content := cursor.remaining()
	if size < 0 || len(content) < size {
		return nil, fmt.Errorf(
			"out of bound slice %d [%d:%d+%d]",
			len(content),
			cursor.Position,
			cursor.Position,
			size)
	}

	content = content[:size]
	cursor.Position += size
	return content, nil
}

func (cursor *Cursor) String() (string, error) {
	content := cursor.remaining()
	if len(content) == 0 {
		return "", fmt.Errorf("cannot decode string: %w", io.EOF)
	}

	end := -1
	for idx, char := range content {
		if char == 0 {
			end = idx
			break
		}
	}

	if end == -1 {
		return "", fmt.Errorf("string not terminated (%d)", cursor.Position)
	}

	cursor.Position += end + 1 // +1 for trailing \0

	// exclude trailing \0
	return string(content[:end]), nil
}

func (cursor *Cursor) decode(out interface{}, name string) error {
	n, err := binary.Decode(cursor.remaining(), cursor.ByteOrder, out)
	if err != nil {
		return fmt.Errorf(
			"failed to decode %s (%d): %w",
			name,
			cursor.Position,
			err)
	}

	cursor.Position += n
	return nil
}

func (cursor *Cursor) U8() (uint8, error) {
	var result uint8
	err := cursor.decode(&result, "U8")
	return result, err
}

func (cursor *Cursor) S8() (int8, error) {
	var result int8
	err := cursor.decode(&result, "S8")
	return result, err
}

func (cursor *Cursor) U16() (uint16, error) {
	var result uint16
	err := cursor.decode(&result, "U16")
	return result, err
}

func (cursor *Cursor) U32() (uint32, error) {
	var result uint32
	err := cursor.decode(&result, "U32")
	return result, err
}

// Address reads an AddressSize-wide unsigned word.
func (cursor *Cursor) Address() (uint64, error) {
	if cursor.AddressSize != SupportedAddressSize {
		return 0, fmt.Errorf(
			"unsupported address size (%d)",
			cursor.AddressSize)
	}

	val, err := cursor.U32()
	return uint64(val), err
}

func (cursor *Cursor) uleb128(
	bitSize int,
) (
	uint64, // decoded uint
	int, // shift
	byte, // upper byte
	error,
) {
	content := cursor.remaining()
	if len(content) == 0 {
		return 0, 0, 0, fmt.Errorf("cannot decode LEB128: %w", io.EOF)
	}

	result := uint64(0)
	shift := 0
	numBytes := 0
	current := byte(0)
	for len(content) > 0 && bitSize > shift {
		current = content[0]
		content = content[1:]

		result |= uint64(current&0x7f) << shift
		shift += 7
		numBytes += 1

		if (current & 0x80) == 0 {
			cursor.Position += numBytes
			return result, shift, current, nil
		}
	}

	return 0, 0, 0, fmt.Errorf("LEB128 not terminated (%d)", cursor.Position)
}

func (cursor *Cursor) ULEB128(bitSize int) (uint64, error) {
	result, _, _, err := cursor.uleb128(bitSize)
	if err != nil {
		return 0, err
	}

	return result, err
}

func (cursor *Cursor) SLEB128(bitSize int) (int64, error) {
	result, shift, upper, err := cursor.uleb128(bitSize)
	if err != nil {
		return 0, err
	}

	if shift < bitSize && (upper&0x40) != 0 {
		result |= signExtensionMask << shift
	}

	return int64(result), nil
}

// SkipValue advances past a single attribute value without decoding it.
// The byte width is dictated by the value's format.
func (cursor *Cursor) SkipValue(format Format) error {
	step := 0
	switch format {
	case DW_FORM_ref_addr, DW_FORM_addr:
		step = cursor.AddressSize

	case DW_FORM_flag, DW_FORM_data1, DW_FORM_ref1:
		step = 1

	case DW_FORM_data2, DW_FORM_ref2:
		step = 2

	case DW_FORM_data4, DW_FORM_ref4, DW_FORM_strp:
		step = 4

	case DW_FORM_data8, DW_FORM_ref8:
		step = 8

	case DW_FORM_sdata, DW_FORM_udata, DW_FORM_ref_udata:
		_, _, _, err := cursor.uleb128(64)
		return err

	case DW_FORM_string:
		_, err := cursor.String()
		return err

	case DW_FORM_block:
		count, err := cursor.ULEB128(32)
		if err != nil {
			return err
		}
		step = int(count)

	case DW_FORM_block1:
		count, err := cursor.U8()
		if err != nil {
			return err
		}
		step = int(count)

	case DW_FORM_block2:
		count, err := cursor.U16()
		if err != nil {
			return err
		}
		step = int(count)

	case DW_FORM_block4:
		count, err := cursor.U32()
		if err != nil {
			return err
		}
		step = int(count)

	default:
		return fmt.Errorf("unhandled attribute format (%s)", format)
	}

	_, err := cursor.Bytes(step)
	return err
}
