package dwarf

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
)

type CompileUnitSuite struct{}

func TestCompileUnit(t *testing.T) {
	suite.RunTests(t, &CompileUnitSuite{})
}

// buildUnit prefixes the unit content with a compilation unit header.
func buildUnit(version uint16, content []byte) []byte {
	builder := &sectionBuilder{}
	builder.u32(uint32(len(content) + 7)).
		u16(version).
		u32(0). // abbreviation offset
		u8(SupportedAddressSize).
		bytes(content...)
	return builder.content
}

func (CompileUnitSuite) abbrevSection() []byte {
	builder := &sectionBuilder{}

	// 1: compile_unit with children
	builder.uleb(1).
		uleb(uint64(DW_TAG_compile_unit)).
		u8(1).
		uleb(uint64(DW_AT_name)).uleb(uint64(DW_FORM_string)).
		uleb(0).uleb(0)

	// 2: base_type, name in .debug_str
	builder.uleb(2).
		uleb(uint64(DW_TAG_base_type)).
		u8(0).
		uleb(uint64(DW_AT_byte_size)).uleb(uint64(DW_FORM_data1)).
		uleb(uint64(DW_AT_encoding)).uleb(uint64(DW_FORM_data1)).
		uleb(uint64(DW_AT_name)).uleb(uint64(DW_FORM_strp)).
		uleb(0).uleb(0)

	// 3: pointer_type
	builder.uleb(3).
		uleb(uint64(DW_TAG_pointer_type)).
		u8(0).
		uleb(uint64(DW_AT_type)).uleb(uint64(DW_FORM_ref4)).
		uleb(0).uleb(0)

	// 4: subprogram with children and a sibling hint
	builder.uleb(4).
		uleb(uint64(DW_TAG_subprogram)).
		u8(1).
		uleb(uint64(DW_AT_sibling)).uleb(uint64(DW_FORM_ref4)).
		uleb(uint64(DW_AT_name)).uleb(uint64(DW_FORM_string)).
		uleb(0).uleb(0)

	builder.uleb(0)
	return builder.content
}

func (s CompileUnitSuite) TestEntryTree(t *testing.T) {
	str := (&sectionBuilder{}).str("int").content

	content := &sectionBuilder{}

	content.uleb(1).str("a.c") // root

	baseTypeOffset := compileUnitHeaderSize + content.len()
	content.uleb(2).u8(4).u8(5).u32(0)

	pointerOffset := compileUnitHeaderSize + content.len()
	content.uleb(3).u32(uint32(baseTypeOffset))

	content.uleb(0) // end of root children

	decode := NewCursor(buildUnit(2, content.content))
	unit, err := ParseCompileUnit(decode, str)
	expect.Nil(t, err)
	expect.Equal(t, 2, int(unit.Version))
	expect.Equal(t, SupportedAddressSize, unit.AddressSize)

	err = unit.ParseEntries(s.abbrevSection())
	expect.Nil(t, err)

	root := unit.Root()
	expect.Equal(t, DW_TAG_compile_unit, root.Tag)
	expect.Equal(t, 2, len(root.Children))

	name, ok := root.String(DW_AT_name)
	expect.True(t, ok)
	expect.Equal(t, "a.c", name)

	baseType := root.Children[0]
	expect.Equal(t, DW_TAG_base_type, baseType.Tag)
	expect.Equal(t, SectionOffset(baseTypeOffset), baseType.SectionOffset)

	size, ok := baseType.Uint(DW_AT_byte_size)
	expect.True(t, ok)
	expect.Equal(t, 4, size)

	name, ok = baseType.String(DW_AT_name)
	expect.True(t, ok)
	expect.Equal(t, "int", name)

	pointer := root.Children[1]
	expect.Equal(t, DW_TAG_pointer_type, pointer.Tag)
	expect.Equal(t, SectionOffset(pointerOffset), pointer.SectionOffset)

	target, ok := pointer.TypeEntry()
	expect.True(t, ok)
	expect.True(t, target == baseType)
}

// Every entry must be addressable by its recorded byte offset.
func (s CompileUnitSuite) TestEntryOffsetAddressability(t *testing.T) {
	content := &sectionBuilder{}
	content.uleb(1).str("a.c")
	content.uleb(2).u8(4).u8(5).u32(0)
	content.uleb(2).u8(1).u8(6).u32(0)
	content.uleb(0)

	decode := NewCursor(buildUnit(2, content.content))
	unit, err := ParseCompileUnit(decode, (&sectionBuilder{}).str("int").content)
	expect.Nil(t, err)

	err = unit.ParseEntries(s.abbrevSection())
	expect.Nil(t, err)

	var verify func(*DebugInfoEntry)
	verify = func(entry *DebugInfoEntry) {
		found, ok := unit.EntryAt(entry.SectionOffset)
		expect.True(t, ok)
		expect.True(t, found == entry)

		for _, child := range entry.Children {
			verify(child)
		}
	}
	verify(unit.Root())
}

// The sibling attribute repositions the cursor past bytes the builder
// would otherwise misparse.
func (s CompileUnitSuite) TestSiblingResync(t *testing.T) {
	content := &sectionBuilder{}
	content.uleb(1).str("a.c")

	content.uleb(4)
	siblingValuePosition := content.len()
	content.u32(0). // sibling, patched below
			str("fn")
	content.uleb(0)           // end of subprogram children
	content.bytes(0xff, 0xff) // garbage the resync hint skips over
	siblingTarget := compileUnitHeaderSize + content.len()
	content.uleb(2).u8(4).u8(5).u32(0)
	content.uleb(0) // end of root children

	// patch the sibling value (unit relative == section absolute here)
	patched := (&sectionBuilder{}).u32(uint32(siblingTarget)).content
	copy(content.content[siblingValuePosition:], patched)

	decode := NewCursor(buildUnit(2, content.content))
	unit, err := ParseCompileUnit(decode, (&sectionBuilder{}).str("int").content)
	expect.Nil(t, err)

	err = unit.ParseEntries(s.abbrevSection())
	expect.Nil(t, err)

	root := unit.Root()
	expect.Equal(t, 2, len(root.Children))
	expect.Equal(t, DW_TAG_subprogram, root.Children[0].Tag)
	expect.Equal(t, DW_TAG_base_type, root.Children[1].Tag)
	expect.Equal(
		t,
		SectionOffset(siblingTarget),
		root.Children[1].SectionOffset)
}

func (s CompileUnitSuite) TestMissingAbbreviation(t *testing.T) {
	content := &sectionBuilder{}
	content.uleb(9).str("a.c").uleb(0)

	decode := NewCursor(buildUnit(2, content.content))
	unit, err := ParseCompileUnit(decode, nil)
	expect.Nil(t, err)

	err = unit.ParseEntries(s.abbrevSection())
	expect.Error(t, err, "abbreviation (9) not found")
}

// A bad version unit must not prevent its successors from parsing.
func (s CompileUnitSuite) TestUnsupportedVersionHeader(t *testing.T) {
	first := &sectionBuilder{}
	first.uleb(1).str("old.c").uleb(0)

	second := &sectionBuilder{}
	second.uleb(1).str("new.c").uleb(0)

	section := &sectionBuilder{}
	section.bytes(buildUnit(3, first.content)...)
	section.bytes(buildUnit(2, second.content)...)

	decode := NewCursor(section.content)

	unit, err := ParseCompileUnit(decode, nil)
	expect.Nil(t, err)
	expect.Equal(t, 3, int(unit.Version))

	unit, err = ParseCompileUnit(decode, nil)
	expect.Nil(t, err)
	expect.Equal(t, 2, int(unit.Version))

	err = unit.ParseEntries(s.abbrevSection())
	expect.Nil(t, err)

	name, ok := unit.Root().String(DW_AT_name)
	expect.True(t, ok)
	expect.Equal(t, "new.c", name)

	expect.True(t, decode.HasReachedEnd())
}

func (CompileUnitSuite) Test64BitFormatRejected(t *testing.T) {
	builder := &sectionBuilder{}
	builder.u32(^uint32(0)).u16(2).u32(0).u8(4)

	decode := NewCursor(builder.content)
	_, err := ParseCompileUnit(decode, nil)
	expect.Error(t, err, "64-bit dwarf format not supported")
}
