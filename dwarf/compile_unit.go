package dwarf

import (
	"fmt"
	"io"
)

// Byte offset from the start of the .debug_info section.
type SectionOffset int

const compileUnitHeaderSize = 11 // length + version + abbrev offset + addr size

// CompileUnit is the translation unit scoped container of debug info
// entries.  Parsing happens in two steps: the header is read eagerly so a
// bad unit can be skipped without poisoning its successors, while the DIE
// tree is only built once the caller has validated the header.
type CompileUnit struct {
	Start        SectionOffset // offset of the unit header
	ContentStart SectionOffset // offset of the root DIE
	End          SectionOffset

	Version            uint16
	AbbreviationOffset SectionOffset
	AddressSize        int

	debug []byte // the entire .debug_info section
	str   []byte // .debug_str, nil when absent

	abbrevTable AbbreviationTable

	root            *DebugInfoEntry
	entriesByOffset map[SectionOffset]*DebugInfoEntry
}

// ParseCompileUnit decodes one compilation unit header from .debug_info and
// advances the cursor to the start of the next unit.  The DIE tree is not
// built; see ParseEntries.
func ParseCompileUnit(decode *Cursor, str []byte) (*CompileUnit, error) {
	start := SectionOffset(decode.Position)

	size, err := decode.U32()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse compile unit. invalid size: %w",
			err)
	}
	if size == ^uint32(0) {
		return nil, fmt.Errorf(
			"failed to parse compile unit. 64-bit dwarf format not supported")
	}

	version, err := decode.U16()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse compile unit. invalid version: %w",
			err)
	}

	abbrevOffset, err := decode.U32()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse compile unit. invalid abbreviation offset: %w",
			err)
	}

	addrSize, err := decode.U8()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse compile unit. invalid address size: %w",
			err)
	}

	// size does not include the size field itself, but includes the other
	// header fields:
	// size = len(version + abbrevOffset + addrSize) + len(content)
	//      = 7 + len(content)
	contentLength := int(size) - 7
	if contentLength < 0 {
		return nil, fmt.Errorf(
			"failed to parse compile unit. invalid content length (%d)",
			contentLength)
	}

	contentStart := SectionOffset(decode.Position)

	_, err = decode.Bytes(contentLength)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse compile unit. invalid content: %w",
			err)
	}

	return &CompileUnit{
		Start:              start,
		ContentStart:       contentStart,
		End:                SectionOffset(decode.Position),
		Version:            version,
		AbbreviationOffset: SectionOffset(abbrevOffset),
		AddressSize:        int(addrSize),
		debug:              decode.Content,
		str:                str,
	}, nil
}

func (unit *CompileUnit) Contains(offset SectionOffset) bool {
	return unit.Start <= offset && offset < unit.End
}

// ParseEntries loads the unit's abbreviation table and builds its DIE tree.
// The caller must have validated Version and AddressSize beforehand.
func (unit *CompileUnit) ParseEntries(abbrev []byte) error {
	if unit.root != nil {
		return nil
	}

	table, err := ParseAbbreviationTable(abbrev, unit.AbbreviationOffset)
	if err != nil {
		return err
	}
	unit.abbrevTable = table
	unit.entriesByOffset = map[SectionOffset]*DebugInfoEntry{}

	decode := NewCursor(unit.debug)
	decode.AddressSize = unit.AddressSize
	_, err = decode.Seek(int(unit.ContentStart), io.SeekStart)
	if err != nil {
		return err
	}

	root, err := unit.parseEntry(decode)
	if err != nil {
		return err
	}
	if root == nil {
		return fmt.Errorf("failed to parse DIEs. empty compile unit")
	}

	unit.root = root
	return nil
}

// parseEntry builds one DIE and, recursively, its children.  A nil entry
// with nil error indicates the end-of-sibling-list sentinel.
func (unit *CompileUnit) parseEntry(
	decode *Cursor,
) (
	*DebugInfoEntry,
	error,
) {
	offset := SectionOffset(decode.Position)

	code, err := decode.ULEB128(64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DIE. invalid code: %w", err)
	}

	if code == 0 {
		return nil, nil
	}

	abbrev, ok := unit.abbrevTable[code]
	if !ok {
		return nil, fmt.Errorf(
			"failed to parse DIE. abbreviation (%d) not found at 0x%x",
			code,
			offset)
	}

	entry := &DebugInfoEntry{
		Unit:          unit,
		SectionOffset: offset,
		Abbreviation:  abbrev,
	}

	if len(abbrev.AttributeSpecs) > 0 {
		entry.valueOffsets = make([]int, len(abbrev.AttributeSpecs))
		for idx, spec := range abbrev.AttributeSpecs {
			entry.valueOffsets[idx] = decode.Position
			err := decode.SkipValue(spec.Format)
			if err != nil {
				return nil, fmt.Errorf(
					"failed to parse DIE at 0x%x: %w",
					offset,
					err)
			}
		}
	}

	unit.entriesByOffset[offset] = entry

	if abbrev.HasChildren {
		for decode.Position < int(unit.End) {
			child, err := unit.parseEntry(decode)
			if err != nil {
				return nil, err
			}
			if child == nil {
				break
			}

			entry.Children = append(entry.Children, child)
		}
	}

	// DW_AT_sibling is a resync hint.  Normally the cursor already points
	// at the sibling once the children have been consumed.
	sibling, ok := entry.Reference(DW_AT_sibling)
	if ok && decode.Position != int(sibling) {
		_, err := decode.Seek(int(sibling), io.SeekStart)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to parse DIE. invalid sibling offset (0x%x): %w",
				sibling,
				err)
		}
	}

	return entry, nil
}

func (unit *CompileUnit) Root() *DebugInfoEntry {
	return unit.root
}

// EntryAt returns the DIE keyed by its byte offset in .debug_info.  Both
// forward and backward references resolve through this table.
func (unit *CompileUnit) EntryAt(offset SectionOffset) (*DebugInfoEntry, bool) {
	entry, ok := unit.entriesByOffset[offset]
	return entry, ok
}
