package dwarf

import (
	"fmt"
	"io"
)

type AttributeSpec struct {
	Attribute
	Format
}

type Abbreviation struct {
	Code uint64
	Tag
	HasChildren    bool
	AttributeSpecs []AttributeSpec
}

// AbbreviationTable maps a compile unit's entry codes to their declarations.
type AbbreviationTable map[uint64]*Abbreviation

// ParseAbbreviationTable reads one abbreviation set from the .debug_abbrev
// section, starting at the given offset.  The set ends at the zero entry
// code.  Each declaration's attribute list ends at the (0, 0) sentinel,
// which is consumed but not stored.
func ParseAbbreviationTable(
	abbrev []byte,
	offset SectionOffset,
) (
	AbbreviationTable,
	error,
) {
	decode := NewCursor(abbrev)
	_, err := decode.Seek(int(offset), io.SeekStart)
	if err != nil {
		return nil, fmt.Errorf("invalid abbreviation offset (%d): %w", offset, err)
	}

	table := AbbreviationTable{}
	for {
		code, err := decode.ULEB128(64)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to parse abbreviation. invalid code: %w",
				err)
		}

		if code == 0 {
			break
		}

		tag, err := decode.ULEB128(64)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to parse abbreviation. invalid tag: %w",
				err)
		}

		hasChildren, err := decode.U8()
		if err != nil {
			return nil, fmt.Errorf(
				"failed to parse abbreviation. invalid hasChildren: %w",
				err)
		}

		var specs []AttributeSpec
		for {
			attribute, err := decode.ULEB128(64)
			if err != nil {
				return nil, fmt.Errorf(
					"failed to parse abbreviation. invalid attribute: %w",
					err)
			}

			format, err := decode.ULEB128(64)
			if err != nil {
				return nil, fmt.Errorf(
					"failed to parse abbreviation. invalid format: %w",
					err)
			}

			if attribute == 0 {
				break
			}

			specs = append(
				specs,
				AttributeSpec{
					Attribute: Attribute(attribute),
					Format:    Format(format),
				})
		}

		table[code] = &Abbreviation{
			Code:           code,
			Tag:            Tag(tag),
			HasChildren:    hasChildren != 0,
			AttributeSpecs: specs,
		}
	}

	return table, nil
}
