package loader

import (
	"github.com/golang/glog"

	"github.com/pattyshack/symdb/dwarf"
	"github.com/pattyshack/symdb/symtab"
)

func (loader *unitLoader) parseBaseType(
	entry *dwarf.DebugInfoEntry,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	name := loader.findName(entry, "base_type")
	size, _ := entry.Uint(dwarf.DW_AT_byte_size)

	encoding, ok := entry.Uint(dwarf.DW_AT_encoding)
	if !ok {
		encoding = uint64(dwarf.DW_ATE_void)
	}

	var kind symtab.BasicKind
	switch dwarf.BaseTypeEncoding(encoding) {
	case dwarf.DW_ATE_void:
		kind = symtab.BasicVoid
	case dwarf.DW_ATE_address:
		kind = symtab.BasicULong
	case dwarf.DW_ATE_boolean:
		kind = symtab.BasicBool
	case dwarf.DW_ATE_complex_float:
		kind = symtab.BasicComplex
	case dwarf.DW_ATE_float:
		kind = symtab.BasicFloat
	case dwarf.DW_ATE_signed:
		kind = symtab.BasicInt
	case dwarf.DW_ATE_unsigned:
		kind = symtab.BasicUInt
	case dwarf.DW_ATE_signed_char, dwarf.DW_ATE_unsigned_char:
		kind = symtab.BasicChar
	default:
		kind = symtab.BasicNoType
	}

	symt = loader.module.NewBasic(kind, name, size)
	loader.built[entry.SectionOffset] = symt

	if entry.HasChildren {
		glog.Warningf("unsupported children on %s", entry.Tag)
	}
	return symt
}

func (loader *unitLoader) parseTypedef(
	entry *dwarf.DebugInfoEntry,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	name := loader.findName(entry, "typedef")
	refType := loader.lookupType(entry)

	symt = loader.module.NewTypedef(refType, name)
	loader.built[entry.SectionOffset] = symt

	if entry.HasChildren {
		glog.Warningf("unsupported children on %s", entry.Tag)
	}
	return symt
}

func (loader *unitLoader) parsePointerType(
	entry *dwarf.DebugInfoEntry,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	refType := loader.lookupType(entry)

	symt = loader.module.NewPointer(refType)
	loader.built[entry.SectionOffset] = symt

	if entry.HasChildren {
		glog.Warningf("unsupported children on %s", entry.Tag)
	}
	return symt
}

// C++ references collapse to plain pointers.
func (loader *unitLoader) parseReferenceType(
	entry *dwarf.DebugInfoEntry,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	refType := loader.lookupType(entry)

	symt = loader.module.NewPointer(refType)
	loader.built[entry.SectionOffset] = symt

	if entry.HasChildren {
		glog.Warningf("unsupported children on %s", entry.Tag)
	}
	return symt
}

// const and volatile qualifiers are not represented in the symbol
// database; the qualified type resolves to its referent.
func (loader *unitLoader) parseQualifiedType(
	entry *dwarf.DebugInfoEntry,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	symt = loader.lookupType(entry)
	loader.built[entry.SectionOffset] = symt

	if entry.HasChildren {
		glog.Warningf("unsupported children on %s", entry.Tag)
	}
	return symt
}

func (loader *unitLoader) parseArrayType(
	entry *dwarf.DebugInfoEntry,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	if !entry.HasChildren {
		glog.Warningf("array without range information at 0x%x", entry.SectionOffset)
		return nil
	}

	refType := loader.lookupType(entry)

	var idxType symtab.Symt
	min := int64(0)
	max := int64(0)
	for _, child := range entry.Children {
		switch child.Tag {
		case dwarf.DW_TAG_subrange_type:
			idxType = loader.lookupType(child)

			min, _ = child.Int(dwarf.DW_AT_lower_bound)
			max, _ = child.Int(dwarf.DW_AT_upper_bound)

			count, ok := child.Int(dwarf.DW_AT_count)
			if ok {
				max = min + count
			}
		default:
			glog.Warningf(
				"unhandled tag %s in array at 0x%x",
				child.Tag,
				entry.SectionOffset)
		}
	}

	symt = loader.module.NewArray(min, max, refType, idxType)
	loader.built[entry.SectionOffset] = symt
	return symt
}

func (loader *unitLoader) parseEnumerationType(
	entry *dwarf.DebugInfoEntry,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	name := loader.findName(entry, "enum")

	enum := loader.module.NewEnum(name)
	loader.built[entry.SectionOffset] = enum

	for _, child := range entry.Children {
		switch child.Tag {
		case dwarf.DW_TAG_enumerator:
			elementName := loader.findName(child, "enum_value")
			value, _ := child.Int(dwarf.DW_AT_const_value)
			loader.module.AddEnumElement(enum, elementName, value)
		default:
			glog.Warningf(
				"unhandled tag %s in enumeration at 0x%x",
				child.Tag,
				entry.SectionOffset)
		}
	}

	return enum
}

func (loader *unitLoader) parseUDTType(
	entry *dwarf.DebugInfoEntry,
	kind symtab.UDTKind,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	name := loader.findName(entry, "udt")
	size, _ := entry.Uint(dwarf.DW_AT_byte_size)

	udt := loader.module.NewUDT(kind, name, size)
	loader.built[entry.SectionOffset] = udt

	for _, child := range entry.Children {
		switch child.Tag {
		case dwarf.DW_TAG_member:
			loader.parseUDTMember(child, udt)
		case dwarf.DW_TAG_enumeration_type:
			loader.parseEnumerationType(child)
		case dwarf.DW_TAG_structure_type,
			dwarf.DW_TAG_class_type,
			dwarf.DW_TAG_union_type:
			// TODO(nested): materialize nested udt definitions; for now
			// they resolve lazily when referenced by a member type.
		default:
			glog.Warningf(
				"unhandled tag %s in udt at 0x%x",
				child.Tag,
				entry.SectionOffset)
		}
	}

	return udt
}

func (loader *unitLoader) parseUDTMember(
	entry *dwarf.DebugInfoEntry,
	udt *symtab.UDT,
) {
	name := loader.findName(entry, "udt_member")
	eltType := loader.lookupType(entry)

	// The member location is usually the block [DW_OP_plus_uconst, n];
	// anything fancier degrades to whatever the expression stack yields.
	offset := int64(0)
	location, ok, err := entry.EvaluateLocation(dwarf.DW_AT_data_member_location)
	if err != nil {
		glog.Warningf(
			"failed to evaluate member location at 0x%x: %v",
			entry.SectionOffset,
			err)
	} else if ok {
		offset = location.Offset
	}

	bitSize, _ := entry.Uint(dwarf.DW_AT_bit_size)

	bitOffset, ok := entry.Uint(dwarf.DW_AT_bit_offset)
	if ok {
		// Dwarf numbers bit fields from the MSB; the database wants an
		// LSB-first position (i386).
		containerSize, ok := entry.Uint(dwarf.DW_AT_byte_size)
		if !ok {
			containerSize = symtab.TypeLength(eltType)
		}
		bitOffset = containerSize*8 - bitOffset - bitSize
	}

	loader.module.AddUDTElement(
		udt,
		name,
		eltType,
		uint64(offset<<3)+bitOffset,
		bitSize)

	if entry.HasChildren {
		glog.Warningf("unsupported children on %s", entry.Tag)
	}
}

func (loader *unitLoader) parseSubroutineType(
	entry *dwarf.DebugInfoEntry,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	retType := loader.lookupType(entry)

	signature := loader.module.NewFunctionSignature(retType)
	loader.built[entry.SectionOffset] = signature

	for _, child := range entry.Children {
		switch child.Tag {
		case dwarf.DW_TAG_formal_parameter:
			loader.module.AddSignatureParameter(
				signature,
				loader.lookupType(child))
		case dwarf.DW_TAG_unspecified_parameters:
			glog.Warningf("unsupported unspecified parameters")
		}
	}

	return signature
}
