package elf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Resources:
// https://refspecs.linuxfoundation.org/

const (
	ElfIdentifierSize = 16

	Class32                                = 1
	DataEncodingTwosComplementLittleEndian = 1

	SectionTypeNoBits = 8

	DebugInformationSection  = ".debug_info"
	DebugAbbreviationSection = ".debug_abbrev"
	DebugStringSection       = ".debug_str"
	DebugLineSection         = ".debug_line"
)

var (
	IdentifierMagic = []byte{0x7f, 'E', 'L', 'F'}
)

type Identifier struct {
	Magic      [4]byte
	Class      uint8
	Data       uint8
	Version    uint8
	OSABI      uint8
	ABIVersion uint8
	Pad        [7]byte
}

type Header struct {
	Type                    uint16
	Machine                 uint16
	Version                 uint32
	Entry                   uint32
	ProgramHeaderOffset     uint32
	SectionHeaderOffset     uint32
	Flags                   uint32
	HeaderSize              uint16
	ProgramHeaderEntrySize  uint16
	NumProgramHeaderEntries uint16
	SectionHeaderEntrySize  uint16
	NumSectionHeaderEntries uint16
	SectionNameSectionIndex uint16
}

type SectionHeader struct {
	NameIndex uint32
	Type      uint32
	Flags     uint32
	Addr      uint32
	Offset    uint32
	Size      uint32
	Link      uint32
	Info      uint32
	AddrAlign uint32
	EntrySize uint32
}

type Section struct {
	SectionHeader

	Name    string
	content []byte
}

// RawContent returns the section's bytes, nil for no-bits sections.
func (section *Section) RawContent() []byte {
	return section.content
}

// File is a 32-bit little endian elf image, parsed far enough to hand out
// section contents.
type File struct {
	Header
	Sections []*Section
}

func (file *File) GetSection(name string) *Section {
	for _, section := range file.Sections {
		if section.Name == name {
			return section
		}
	}

	return nil
}

func Parse(reader io.Reader) (*File, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read elf file: %w", err)
	}

	return ParseBytes(content)
}

func ParseBytes(content []byte) (*File, error) {
	id := &Identifier{}
	n, err := binary.Decode(content, binary.LittleEndian, id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse elf identifier: %w", err)
	}
	if n != ElfIdentifierSize {
		panic("should never happen")
	}

	if !bytes.Equal(id.Magic[:], IdentifierMagic) {
		return nil, fmt.Errorf("invalid elf magic number")
	}

	if id.Class != Class32 {
		return nil, fmt.Errorf("unsupported elf class (%d)", id.Class)
	}

	if id.Data != DataEncodingTwosComplementLittleEndian {
		return nil, fmt.Errorf("unsupported elf data encoding (%d)", id.Data)
	}

	file := &File{}
	_, err = binary.Decode(
		content[ElfIdentifierSize:],
		binary.LittleEndian,
		&file.Header)
	if err != nil {
		return nil, fmt.Errorf("failed to parse elf header: %w", err)
	}

	err = parseSections(content, file)
	if err != nil {
		return nil, err
	}

	return file, nil
}

func parseSections(content []byte, file *File) error {
	offset := int(file.SectionHeaderOffset)
	entrySize := int(file.SectionHeaderEntrySize)
	numEntries := int(file.NumSectionHeaderEntries)

	if offset == 0 || numEntries == 0 {
		return nil
	}

	if offset+entrySize*numEntries > len(content) {
		return fmt.Errorf("section header table out of bound")
	}

	for idx := 0; idx < numEntries; idx++ {
		section := &Section{}
		_, err := binary.Decode(
			content[offset+idx*entrySize:],
			binary.LittleEndian,
			&section.SectionHeader)
		if err != nil {
			return fmt.Errorf("failed to parse section header (%d): %w", idx, err)
		}

		if section.Type != SectionTypeNoBits && section.Size > 0 {
			start := int(section.Offset)
			end := start + int(section.Size)
			if start < 0 || end > len(content) {
				return fmt.Errorf("section content (%d) out of bound", idx)
			}
			section.content = content[start:end]
		}

		file.Sections = append(file.Sections, section)
	}

	// section names live in the section name string table
	nameIndex := int(file.SectionNameSectionIndex)
	if nameIndex >= len(file.Sections) {
		return fmt.Errorf("section name table index out of bound")
	}
	names := file.Sections[nameIndex].content

	for _, section := range file.Sections {
		start := int(section.NameIndex)
		if start >= len(names) {
			continue
		}

		end := bytes.IndexByte(names[start:], 0)
		if end == -1 {
			continue
		}

		section.Name = string(names[start : start+end])
	}

	return nil
}

// DebugSections returns the byte contents of the four dwarf sections.  The
// line section may be nil; the other three must be present.
func (file *File) DebugSections() (
	debug []byte,
	abbrev []byte,
	str []byte,
	line []byte,
	err error,
) {
	for _, required := range []string{
		DebugInformationSection,
		DebugAbbreviationSection,
		DebugStringSection,
	} {
		if file.GetSection(required) == nil {
			return nil, nil, nil, nil, fmt.Errorf(
				"elf section %s not found",
				required)
		}
	}

	debug = file.GetSection(DebugInformationSection).RawContent()
	abbrev = file.GetSection(DebugAbbreviationSection).RawContent()
	str = file.GetSection(DebugStringSection).RawContent()

	lineSection := file.GetSection(DebugLineSection)
	if lineSection != nil {
		line = lineSection.RawContent()
	}

	return debug, abbrev, str, line, nil
}
