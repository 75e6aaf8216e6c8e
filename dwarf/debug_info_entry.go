package dwarf

import (
	"io"

	"github.com/golang/glog"
)

// DebugInfoEntry is a single record of the compile unit tree.  Attribute
// values are not decoded up front; each valueOffsets[i] records where the
// i-th value starts in .debug_info and the value is decoded on demand
// against AttributeSpecs[i].Format.
type DebugInfoEntry struct {
	Unit *CompileUnit
	SectionOffset

	*Abbreviation
	valueOffsets []int

	Children []*DebugInfoEntry
}

func (entry *DebugInfoEntry) SpecIndex(attr Attribute) int {
	for idx, spec := range entry.AttributeSpecs {
		if attr == spec.Attribute {
			return idx
		}
	}
	return -1
}

// AttributeForm returns the wire format of the given attribute.
func (entry *DebugInfoEntry) AttributeForm(attr Attribute) (Format, bool) {
	idx := entry.SpecIndex(attr)
	if idx == -1 {
		return 0, false
	}
	return entry.AttributeSpecs[idx].Format, true
}

func (entry *DebugInfoEntry) cursorAt(idx int) *Cursor {
	cursor := NewCursor(entry.Unit.debug)
	cursor.AddressSize = entry.Unit.AddressSize
	cursor.Position = entry.valueOffsets[idx]
	return cursor
}

// uintValue decodes the attribute at idx as an unsigned integer.  data8 and
// ref8 values cannot be represented on a 32-bit address space and decode to
// zero.
func (entry *DebugInfoEntry) uintValue(idx int) (uint64, bool) {
	decode := entry.cursorAt(idx)

	var val uint64
	var err error
	switch entry.AttributeSpecs[idx].Format {
	case DW_FORM_addr, DW_FORM_ref_addr:
		val, err = decode.Address()

	case DW_FORM_flag, DW_FORM_data1:
		var v uint8
		v, err = decode.U8()
		val = uint64(v)

	case DW_FORM_data2:
		var v uint16
		v, err = decode.U16()
		val = uint64(v)

	case DW_FORM_data4:
		var v uint32
		v, err = decode.U32()
		val = uint64(v)

	case DW_FORM_data8:
		glog.Warningf("Unhandled 64-bit support (%s)", DW_FORM_data8)
		return 0, true

	case DW_FORM_udata:
		val, err = decode.ULEB128(64)

	case DW_FORM_sdata:
		var v int64
		v, err = decode.SLEB128(64)
		val = uint64(v)

	default:
		return 0, false
	}

	if err != nil {
		glog.Warningf(
			"failed to decode %s value at 0x%x: %v",
			entry.AttributeSpecs[idx].Format,
			entry.valueOffsets[idx],
			err)
		return 0, false
	}

	return val, true
}

// Uint returns the attribute's value as an unsigned integer.
func (entry *DebugInfoEntry) Uint(attr Attribute) (uint64, bool) {
	idx := entry.SpecIndex(attr)
	if idx == -1 {
		return 0, false
	}
	return entry.uintValue(idx)
}

// Int returns the attribute's value as a signed integer.  Only sdata
// carries a sign on the wire; other integer forms pass through unchanged.
func (entry *DebugInfoEntry) Int(attr Attribute) (int64, bool) {
	idx := entry.SpecIndex(attr)
	if idx == -1 {
		return 0, false
	}

	if entry.AttributeSpecs[idx].Format == DW_FORM_sdata {
		val, err := entry.cursorAt(idx).SLEB128(64)
		if err != nil {
			glog.Warningf(
				"failed to decode DW_FORM_sdata value at 0x%x: %v",
				entry.valueOffsets[idx],
				err)
			return 0, false
		}
		return val, true
	}

	val, ok := entry.uintValue(idx)
	return int64(val), ok
}

// Flag returns the attribute's value interpreted as a boolean.
func (entry *DebugInfoEntry) Flag(attr Attribute) (bool, bool) {
	val, ok := entry.Uint(attr)
	return val != 0, ok
}

// String returns the attribute's string value, either inline or through
// the .debug_str section.
func (entry *DebugInfoEntry) String(attr Attribute) (string, bool) {
	idx := entry.SpecIndex(attr)
	if idx == -1 {
		return "", false
	}

	decode := entry.cursorAt(idx)
	switch entry.AttributeSpecs[idx].Format {
	case DW_FORM_string:
		val, err := decode.String()
		if err != nil {
			glog.Warningf("failed to decode DW_FORM_string value: %v", err)
			return "", false
		}
		return val, true

	case DW_FORM_strp:
		offset, err := decode.U32()
		if err != nil {
			glog.Warningf("failed to decode DW_FORM_strp value: %v", err)
			return "", false
		}

		strings := NewCursor(entry.Unit.str)
		_, err = strings.Seek(int(offset), io.SeekStart)
		if err == nil {
			var val string
			val, err = strings.String()
			if err == nil {
				return val, true
			}
		}
		glog.Warningf("invalid .debug_str offset (%d): %v", offset, err)
		return "", false
	}

	return "", false
}

// Block returns the attribute's length-prefixed byte range.
func (entry *DebugInfoEntry) Block(attr Attribute) ([]byte, bool) {
	idx := entry.SpecIndex(attr)
	if idx == -1 {
		return nil, false
	}

	decode := entry.cursorAt(idx)

	var count int
	switch entry.AttributeSpecs[idx].Format {
	case DW_FORM_block:
		val, err := decode.ULEB128(32)
		if err != nil {
			return nil, false
		}
		count = int(val)

	case DW_FORM_block1:
		val, err := decode.U8()
		if err != nil {
			return nil, false
		}
		count = int(val)

	case DW_FORM_block2:
		val, err := decode.U16()
		if err != nil {
			return nil, false
		}
		count = int(val)

	case DW_FORM_block4:
		val, err := decode.U32()
		if err != nil {
			return nil, false
		}
		count = int(val)

	default:
		return nil, false
	}

	content, err := decode.Bytes(count)
	if err != nil {
		glog.Warningf(
			"failed to decode %s value at 0x%x: %v",
			entry.AttributeSpecs[idx].Format,
			entry.valueOffsets[idx],
			err)
		return nil, false
	}

	return content, true
}

// Reference returns the attribute's value as a .debug_info byte offset.
// ref1/ref2/ref4/ref_udata are relative to the unit's start; ref_addr is
// already section absolute.  ref8 cannot be represented on a 32-bit
// address space and decodes to the unit start.
func (entry *DebugInfoEntry) Reference(
	attr Attribute,
) (
	SectionOffset,
	bool,
) {
	idx := entry.SpecIndex(attr)
	if idx == -1 {
		return 0, false
	}

	decode := entry.cursorAt(idx)

	var raw uint64
	var err error
	switch entry.AttributeSpecs[idx].Format {
	case DW_FORM_ref1:
		var v uint8
		v, err = decode.U8()
		raw = uint64(v)

	case DW_FORM_ref2:
		var v uint16
		v, err = decode.U16()
		raw = uint64(v)

	case DW_FORM_ref4:
		var v uint32
		v, err = decode.U32()
		raw = uint64(v)

	case DW_FORM_ref8:
		glog.Warningf("Unhandled 64-bit support (%s)", DW_FORM_ref8)
		return entry.Unit.Start, true

	case DW_FORM_ref_udata:
		raw, err = decode.ULEB128(64)

	case DW_FORM_ref_addr:
		raw, err = decode.Address()
		if err != nil {
			return 0, false
		}
		return SectionOffset(raw), true

	default:
		return 0, false
	}

	if err != nil {
		glog.Warningf(
			"failed to decode %s value at 0x%x: %v",
			entry.AttributeSpecs[idx].Format,
			entry.valueOffsets[idx],
			err)
		return 0, false
	}

	return entry.Unit.Start + SectionOffset(raw), true
}

// TypeEntry resolves the DW_AT_type cross reference through the unit's
// offset table.
func (entry *DebugInfoEntry) TypeEntry() (*DebugInfoEntry, bool) {
	offset, ok := entry.Reference(DW_AT_type)
	if !ok {
		return nil, false
	}

	target, ok := entry.Unit.EntryAt(offset)
	if !ok {
		glog.Warningf("unable to find back reference to type 0x%x", offset)
		return nil, false
	}

	return target, true
}
