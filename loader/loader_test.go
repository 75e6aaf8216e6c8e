package loader

import (
	"encoding/binary"
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
	"golang.org/x/arch/x86/x86asm"

	"github.com/pattyshack/symdb/dwarf"
	"github.com/pattyshack/symdb/elf"
	"github.com/pattyshack/symdb/symtab"
)

type LoaderSuite struct{}

func TestLoader(t *testing.T) {
	suite.RunTests(t, &LoaderSuite{})
}

// sectionBuilder assembles little endian section images for tests.
type sectionBuilder struct {
	content []byte
}

func (builder *sectionBuilder) u8(val uint8) *sectionBuilder {
	builder.content = append(builder.content, val)
	return builder
}

func (builder *sectionBuilder) u16(val uint16) *sectionBuilder {
	builder.content = binary.LittleEndian.AppendUint16(builder.content, val)
	return builder
}

func (builder *sectionBuilder) u32(val uint32) *sectionBuilder {
	builder.content = binary.LittleEndian.AppendUint32(builder.content, val)
	return builder
}

func (builder *sectionBuilder) uleb(val uint64) *sectionBuilder {
	for {
		current := byte(val & 0x7f)
		val >>= 7

		if val == 0 {
			builder.content = append(builder.content, current)
			return builder
		}

		builder.content = append(builder.content, current|0x80)
	}
}

func (builder *sectionBuilder) sleb(val int64) *sectionBuilder {
	for {
		current := byte(val & 0x7f)
		val >>= 7

		if (val == 0 && current&0x40 == 0) ||
			(val == -1 && current&0x40 != 0) {

			builder.content = append(builder.content, current)
			return builder
		}

		builder.content = append(builder.content, current|0x80)
	}
}

func (builder *sectionBuilder) str(val string) *sectionBuilder {
	builder.content = append(builder.content, []byte(val)...)
	builder.content = append(builder.content, 0)
	return builder
}

func (builder *sectionBuilder) bytes(vals ...byte) *sectionBuilder {
	builder.content = append(builder.content, vals...)
	return builder
}

func (builder *sectionBuilder) len() int {
	return len(builder.content)
}

func abbrevEntry(
	builder *sectionBuilder,
	code uint64,
	tag dwarf.Tag,
	hasChildren bool,
	attrFormPairs ...uint64,
) {
	builder.uleb(code).uleb(uint64(tag))
	if hasChildren {
		builder.u8(1)
	} else {
		builder.u8(0)
	}
	for idx := 0; idx < len(attrFormPairs); idx += 2 {
		builder.uleb(attrFormPairs[idx]).uleb(attrFormPairs[idx+1])
	}
	builder.uleb(0).uleb(0)
}

const unitHeaderSize = 11

// buildUnit prefixes the unit content with a compilation unit header.
func buildUnit(version uint16, content []byte) []byte {
	builder := &sectionBuilder{}
	builder.u32(uint32(len(content) + 7)).
		u16(version).
		u32(0).
		u8(4).
		bytes(content...)
	return builder.content
}

func parseModule(
	t *testing.T,
	base uint64,
	thunks []elf.ThunkArea,
	abbrev []byte,
	info []byte,
	line []byte,
) *symtab.Module {
	module := symtab.NewModule("test", base)
	ok := Parse(module, base, thunks, info, abbrev, nil, line)
	expect.True(t, ok)
	return module
}

// A single compile unit with nothing but a name produces one compiland.
func (LoaderSuite) TestMinimalUnit(t *testing.T) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		false,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrev.uleb(0)

	info := &sectionBuilder{}
	info.uleb(1).str("foo.c")

	module := parseModule(
		t,
		0,
		nil,
		abbrev.content,
		buildUnit(2, info.content),
		nil)

	expect.Equal(t, 1, len(module.Compilands))
	expect.Equal(t, "foo.c", module.SourceGet(module.Compilands[0].Source))

	expect.Equal(t, symtab.SymDia, module.SymbolType)
	expect.Equal(t, [4]byte{'D', 'W', 'A', 'R'}, module.Signature)
	expect.True(t, module.LineNumbers)
	expect.True(t, module.GlobalSymbols)
	expect.True(t, module.TypeInfo)
	expect.True(t, module.SourceIndexed)
	expect.True(t, module.Publics)
}

func (LoaderSuite) TestBaseTypeAndPointer(t *testing.T) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		2,
		dwarf.DW_TAG_base_type,
		false,
		uint64(dwarf.DW_AT_byte_size), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_encoding), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		3,
		dwarf.DW_TAG_pointer_type,
		false,
		uint64(dwarf.DW_AT_type), uint64(dwarf.DW_FORM_ref4),
		uint64(dwarf.DW_AT_byte_size), uint64(dwarf.DW_FORM_data1))
	abbrev.uleb(0)

	info := &sectionBuilder{}
	info.uleb(1).str("test.c")

	baseTypeOffset := unitHeaderSize + info.len()
	info.uleb(2).u8(4).u8(uint8(dwarf.DW_ATE_signed)).str("int")

	info.uleb(3).u32(uint32(baseTypeOffset)).u8(4)

	info.uleb(0)

	module := parseModule(
		t,
		0,
		nil,
		abbrev.content,
		buildUnit(2, info.content),
		nil)

	expect.Equal(t, 2, len(module.Types))

	basic, ok := module.Types[0].(*symtab.BasicType)
	expect.True(t, ok)
	expect.Equal(t, symtab.BasicInt, basic.Kind)
	expect.Equal(t, "int", basic.Name)
	expect.Equal(t, 4, basic.Size)

	pointer, ok := module.Types[1].(*symtab.PointerType)
	expect.True(t, ok)
	expect.True(t, pointer.PointsTo == symtab.Symt(basic))
}

// A forward type reference triggers the referenced DIE's build out of
// order; the memoized result is shared instead of rebuilt.
func (LoaderSuite) TestForwardReferenceMemoization(t *testing.T) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		2,
		dwarf.DW_TAG_base_type,
		false,
		uint64(dwarf.DW_AT_byte_size), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_encoding), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		3,
		dwarf.DW_TAG_pointer_type,
		false,
		uint64(dwarf.DW_AT_type), uint64(dwarf.DW_FORM_ref4))
	abbrev.uleb(0)

	info := &sectionBuilder{}
	info.uleb(1).str("test.c")

	// two pointers referencing a base type that only appears later
	pointerSize := 1 + 4
	firstPointerOffset := unitHeaderSize + info.len()
	baseTypeOffset := firstPointerOffset + 2*pointerSize

	info.uleb(3).u32(uint32(baseTypeOffset))
	info.uleb(3).u32(uint32(baseTypeOffset))
	info.uleb(2).u8(4).u8(uint8(dwarf.DW_ATE_unsigned)).str("unsigned int")
	info.uleb(0)

	module := parseModule(
		t,
		0,
		nil,
		abbrev.content,
		buildUnit(2, info.content),
		nil)

	// the base type was built once, on first reference
	expect.Equal(t, 3, len(module.Types))

	basic, ok := module.Types[0].(*symtab.BasicType)
	expect.True(t, ok)
	expect.Equal(t, symtab.BasicUInt, basic.Kind)

	first, ok := module.Types[1].(*symtab.PointerType)
	expect.True(t, ok)
	second, ok := module.Types[2].(*symtab.PointerType)
	expect.True(t, ok)

	expect.True(t, first.PointsTo == symtab.Symt(basic))
	expect.True(t, second.PointsTo == symtab.Symt(basic))
}

// A bit field member is placed LSB-first: 4*8 - 20 - 4 = 8.
func (LoaderSuite) TestStructBitField(t *testing.T) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		2,
		dwarf.DW_TAG_structure_type,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_byte_size), uint64(dwarf.DW_FORM_data1))
	abbrevEntry(
		abbrev,
		3,
		dwarf.DW_TAG_member,
		false,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_type), uint64(dwarf.DW_FORM_ref4),
		uint64(dwarf.DW_AT_data_member_location), uint64(dwarf.DW_FORM_block1),
		uint64(dwarf.DW_AT_bit_offset), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_bit_size), uint64(dwarf.DW_FORM_data1))
	abbrevEntry(
		abbrev,
		4,
		dwarf.DW_TAG_base_type,
		false,
		uint64(dwarf.DW_AT_byte_size), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_encoding), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrev.uleb(0)

	info := &sectionBuilder{}
	info.uleb(1).str("test.c")

	structOffset := unitHeaderSize + info.len()
	memberSize := 1 + 2 + 4 + 3 + 1 + 1 // code + name + ref + block + offsets
	baseTypeOffset := structOffset + (1 + 2 + 1) + memberSize + 1

	info.uleb(2).str("S").u8(4)
	info.uleb(3).
		str("f").
		u32(uint32(baseTypeOffset)).
		u8(2).u8(uint8(dwarf.DW_OP_plus_uconst)).u8(0). // location block
		u8(20).                                         // bit offset
		u8(4)                                           // bit size
	info.uleb(0) // end of struct children

	info.uleb(4).u8(4).u8(uint8(dwarf.DW_ATE_unsigned)).str("uint")
	info.uleb(0)

	module := parseModule(
		t,
		0,
		nil,
		abbrev.content,
		buildUnit(2, info.content),
		nil)

	var udt *symtab.UDT
	for _, typ := range module.Types {
		if found, ok := typ.(*symtab.UDT); ok {
			udt = found
		}
	}
	expect.NotNil(t, udt)
	expect.Equal(t, symtab.UDTStruct, udt.Kind)
	expect.Equal(t, "S", udt.Name)
	expect.Equal(t, 4, udt.Size)

	expect.Equal(t, 1, len(udt.Members))
	member := udt.Members[0]
	expect.Equal(t, "f", member.Name)
	expect.Equal(t, 8, member.BitOffset)
	expect.Equal(t, 4, member.BitSize)

	basic, ok := member.Type.(*symtab.BasicType)
	expect.True(t, ok)
	expect.Equal(t, symtab.BasicUInt, basic.Kind)
}

func (LoaderSuite) subprogramSections(
	frameBaseOps []byte,
	locationOps []byte,
) (
	[]byte, // abbrev
	[]byte, // info
) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		2,
		dwarf.DW_TAG_subprogram,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_low_pc), uint64(dwarf.DW_FORM_addr),
		uint64(dwarf.DW_AT_high_pc), uint64(dwarf.DW_FORM_addr),
		uint64(dwarf.DW_AT_frame_base), uint64(dwarf.DW_FORM_block1))
	abbrevEntry(
		abbrev,
		3,
		dwarf.DW_TAG_formal_parameter,
		false,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_type), uint64(dwarf.DW_FORM_ref4),
		uint64(dwarf.DW_AT_location), uint64(dwarf.DW_FORM_block1))
	abbrevEntry(
		abbrev,
		4,
		dwarf.DW_TAG_base_type,
		false,
		uint64(dwarf.DW_AT_byte_size), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_encoding), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrev.uleb(0)

	info := &sectionBuilder{}
	info.uleb(1).str("test.c")

	subprogramSize := 1 + 5 + 4 + 4 + 1 + len(frameBaseOps)
	parameterSize := 1 + 5 + 4 + 1 + len(locationOps)
	baseTypeOffset := unitHeaderSize + info.len() +
		subprogramSize + parameterSize + 1

	info.uleb(2).
		str("main").
		u32(0x1000).
		u32(0x1080).
		u8(uint8(len(frameBaseOps))).bytes(frameBaseOps...)
	info.uleb(3).
		str("argc").
		u32(uint32(baseTypeOffset)).
		u8(uint8(len(locationOps))).bytes(locationOps...)
	info.uleb(0) // end of subprogram children

	info.uleb(4).u8(4).u8(uint8(dwarf.DW_ATE_signed)).str("int")
	info.uleb(0)

	return abbrev.content, buildUnit(2, info.content)
}

// A parameter located at breg5 - 16 becomes a register relative local.
func (s LoaderSuite) TestRegisterRelativeParameter(t *testing.T) {
	base := uint64(0x8048000)

	abbrev, info := s.subprogramSections(
		[]byte{uint8(dwarf.DW_OP_reg0) + 5},
		[]byte{uint8(dwarf.DW_OP_breg0) + 5, 0x70}) // sleb(-16)

	module := parseModule(t, base, nil, abbrev, info, nil)

	function, ok := module.FindNearest(base + 0x1000).(*symtab.Function)
	expect.True(t, ok)
	expect.Equal(t, "main", function.Name)
	expect.Equal(t, base+0x1000, function.Address)
	expect.Equal(t, 0x80, function.Size)

	expect.Equal(t, 1, len(function.Locals))
	local := function.Locals[0]
	expect.Equal(t, "argc", local.Name)
	expect.True(t, local.IsParam)
	expect.Equal(t, int(x86asm.EBP), local.Register)
	expect.True(t, local.RegRel)
	expect.Equal(t, -16, local.Offset)

	basic, ok := local.Type.(*symtab.BasicType)
	expect.True(t, ok)
	expect.Equal(t, symtab.BasicInt, basic.Kind)

	// parameter types also extend the function signature
	expect.Equal(t, 1, len(function.Signature.Params))
	expect.True(t, function.Signature.Params[0] == symtab.Symt(basic))
}

// A frame relative location resolves against the subprogram's frame
// register and offset.
func (s LoaderSuite) TestFrameRelativeParameter(t *testing.T) {
	abbrev, info := s.subprogramSections(
		[]byte{uint8(dwarf.DW_OP_breg0) + 5, 0x08}, // frame = breg5 + 8
		[]byte{uint8(dwarf.DW_OP_fbreg), 0x6c})     // sleb(-20)

	module := parseModule(t, 0, nil, abbrev, info, nil)

	function, ok := module.FindNearest(0x1000).(*symtab.Function)
	expect.True(t, ok)

	expect.Equal(t, 1, len(function.Locals))
	local := function.Locals[0]
	expect.Equal(t, int(x86asm.EBP), local.Register)
	expect.True(t, local.RegRel)
	expect.Equal(t, -12, local.Offset) // -20 + frame offset 8
}

// A subprogram whose entry point lies in a thunk area produces nothing.
func (s LoaderSuite) TestThunkExclusion(t *testing.T) {
	base := uint64(0x8048000)

	abbrev, info := s.subprogramSections(
		[]byte{uint8(dwarf.DW_OP_reg0) + 5},
		[]byte{uint8(dwarf.DW_OP_breg0) + 5, 0x70})

	module := parseModule(
		t,
		base,
		[]elf.ThunkArea{
			{Start: base + 0x800, End: base + 0x2000},
		},
		abbrev,
		info,
		nil)

	for _, symbol := range module.Symbols() {
		_, isFunction := symbol.(*symtab.Function)
		expect.False(t, isFunction)
	}
}

// A global variable's linkage follows DW_AT_external.
func (LoaderSuite) TestGlobalVariables(t *testing.T) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		2,
		dwarf.DW_TAG_variable,
		false,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_location), uint64(dwarf.DW_FORM_block1),
		uint64(dwarf.DW_AT_external), uint64(dwarf.DW_FORM_flag))
	abbrev.uleb(0)

	info := &sectionBuilder{}
	info.uleb(1).str("test.c")
	info.uleb(2).
		str("shared").
		u8(5).u8(uint8(dwarf.DW_OP_addr)).u32(0x2000).
		u8(1)
	info.uleb(2).
		str("hidden").
		u8(5).u8(uint8(dwarf.DW_OP_addr)).u32(0x3000).
		u8(0)
	info.uleb(0)

	base := uint64(0x400000)
	module := parseModule(t, base, nil, abbrev.content, buildUnit(2, info.content), nil)

	symbols := module.Symbols()
	expect.Equal(t, 2, len(symbols))

	shared, ok := symbols[0].(*symtab.GlobalVariable)
	expect.True(t, ok)
	expect.Equal(t, "shared", shared.Name)
	expect.Equal(t, base+0x2000, shared.Address)
	expect.False(t, shared.Local)

	hidden, ok := symbols[1].(*symtab.GlobalVariable)
	expect.True(t, ok)
	expect.Equal(t, "hidden", hidden.Name)
	expect.True(t, hidden.Local)
}

// A version 3 unit is skipped with a warning; later units still load.
func (LoaderSuite) TestUnsupportedVersionUnit(t *testing.T) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		false,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrev.uleb(0)

	old := &sectionBuilder{}
	old.uleb(1).str("old.c")

	current := &sectionBuilder{}
	current.uleb(1).str("new.c")

	info := &sectionBuilder{}
	info.bytes(buildUnit(3, old.content)...)
	info.bytes(buildUnit(2, current.content)...)

	module := parseModule(t, 0, nil, abbrev.content, info.content, nil)

	expect.Equal(t, 1, len(module.Compilands))
	expect.Equal(t, "new.c", module.SourceGet(module.Compilands[0].Source))
}

func (LoaderSuite) TestEnumTypedefArray(t *testing.T) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		2,
		dwarf.DW_TAG_enumeration_type,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		3,
		dwarf.DW_TAG_enumerator,
		false,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_const_value), uint64(dwarf.DW_FORM_sdata))
	abbrevEntry(
		abbrev,
		4,
		dwarf.DW_TAG_base_type,
		false,
		uint64(dwarf.DW_AT_byte_size), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_encoding), uint64(dwarf.DW_FORM_data1),
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string))
	abbrevEntry(
		abbrev,
		5,
		dwarf.DW_TAG_typedef,
		false,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_type), uint64(dwarf.DW_FORM_ref4))
	abbrevEntry(
		abbrev,
		6,
		dwarf.DW_TAG_array_type,
		true,
		uint64(dwarf.DW_AT_type), uint64(dwarf.DW_FORM_ref4))
	abbrevEntry(
		abbrev,
		7,
		dwarf.DW_TAG_subrange_type,
		false,
		uint64(dwarf.DW_AT_upper_bound), uint64(dwarf.DW_FORM_data1))
	abbrev.uleb(0)

	info := &sectionBuilder{}
	info.uleb(1).str("test.c")

	info.uleb(2).str("color")
	info.uleb(3).str("red").sleb(1)
	info.uleb(3).str("blue").sleb(-2)
	info.uleb(0) // end of enum children

	baseTypeOffset := unitHeaderSize + info.len()
	info.uleb(4).u8(4).u8(uint8(dwarf.DW_ATE_signed)).str("int")

	info.uleb(5).str("my_int").u32(uint32(baseTypeOffset))

	info.uleb(6).u32(uint32(baseTypeOffset))
	info.uleb(7).u8(3)
	info.uleb(0) // end of array children

	info.uleb(0)

	module := parseModule(t, 0, nil, abbrev.content, buildUnit(2, info.content), nil)

	var enum *symtab.Enum
	var typedef *symtab.Typedef
	var array *symtab.ArrayType
	var basic *symtab.BasicType
	for _, typ := range module.Types {
		switch found := typ.(type) {
		case *symtab.Enum:
			enum = found
		case *symtab.Typedef:
			typedef = found
		case *symtab.ArrayType:
			array = found
		case *symtab.BasicType:
			basic = found
		}
	}

	expect.NotNil(t, enum)
	expect.Equal(t, "color", enum.Name)
	expect.Equal(
		t,
		[]symtab.EnumElement{
			{Name: "red", Value: 1},
			{Name: "blue", Value: -2},
		},
		enum.Elements)

	expect.NotNil(t, typedef)
	expect.Equal(t, "my_int", typedef.Name)
	expect.True(t, typedef.Of == symtab.Symt(basic))

	expect.NotNil(t, array)
	expect.Equal(t, int64(0), array.Min)
	expect.Equal(t, int64(3), array.Max)
	expect.True(t, array.Elem == symtab.Symt(basic))
}

// Line rows are attached to the function covering their address, with
// offsets relative to the function start.
func (s LoaderSuite) TestLineNumbers(t *testing.T) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		true,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_comp_dir), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_stmt_list), uint64(dwarf.DW_FORM_data4))
	abbrevEntry(
		abbrev,
		2,
		dwarf.DW_TAG_subprogram,
		false,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_low_pc), uint64(dwarf.DW_FORM_addr),
		uint64(dwarf.DW_AT_high_pc), uint64(dwarf.DW_FORM_addr))
	abbrev.uleb(0)

	info := &sectionBuilder{}
	info.uleb(1).str("a.c").str("/src").u32(0)
	info.uleb(2).str("main").u32(0x1000).u32(0x1100)
	info.uleb(0)

	// line program header
	header := &sectionBuilder{}
	header.u8(1).u8(1).u8(0xff).u8(4).u8(13)
	for _, count := range []uint8{0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 1} {
		header.u8(count)
	}
	header.str("") // no include directories
	header.str("a.c").uleb(0).uleb(0).uleb(0)
	header.str("")

	program := &sectionBuilder{}
	program.u8(0).uleb(5).u8(dwarf.DW_LNE_set_address).u32(0x1000)
	program.u8(dwarf.DW_LNS_copy)
	program.u8(13 + 6) // address += 1, line += 1
	program.u8(0).uleb(1).u8(dwarf.DW_LNE_end_sequence)

	line := &sectionBuilder{}
	line.u32(uint32(2 + 4 + header.len() + program.len())).
		u16(2).
		u32(uint32(header.len())).
		bytes(header.content...).
		bytes(program.content...)

	module := parseModule(
		t,
		0,
		nil,
		abbrev.content,
		buildUnit(2, info.content),
		line.content)

	function, ok := module.FindNearest(0x1000).(*symtab.Function)
	expect.True(t, ok)

	// the end of sequence row repeats the last generated row
	expect.Equal(t, 3, len(function.Lines))

	// the line file resolves to the same path as the compiland source
	expect.Equal(
		t,
		symtab.LineRecord{
			Source: module.Compilands[0].Source,
			Line:   1,
			Offset: 0,
		},
		function.Lines[0])
	expect.Equal(t, 2, function.Lines[1].Line)
	expect.Equal(t, uint64(1), function.Lines[1].Offset)

	expect.Equal(t, "/src/a.c", module.SourceGet(function.Lines[0].Source))
}

// Absent line section degrades to a module without line records.
func (s LoaderSuite) TestStrippedLineSection(t *testing.T) {
	abbrev := &sectionBuilder{}
	abbrevEntry(
		abbrev,
		1,
		dwarf.DW_TAG_compile_unit,
		false,
		uint64(dwarf.DW_AT_name), uint64(dwarf.DW_FORM_string),
		uint64(dwarf.DW_AT_stmt_list), uint64(dwarf.DW_FORM_data4))
	abbrev.uleb(0)

	info := &sectionBuilder{}
	info.uleb(1).str("a.c").u32(0)

	module := parseModule(
		t,
		0,
		nil,
		abbrev.content,
		buildUnit(2, info.content),
		nil)

	expect.Equal(t, 1, len(module.Compilands))
}
