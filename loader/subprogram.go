package loader

import (
	"github.com/golang/glog"

	"github.com/pattyshack/symdb/dwarf"
	"github.com/pattyshack/symdb/elf"
	"github.com/pattyshack/symdb/registers"
	"github.com/pattyshack/symdb/symtab"
)

// subprogram carries the state shared while walking one subprogram's
// subtree.  function is nil for declarations and for top level variables.
type subprogram struct {
	*unitLoader

	compiland *symtab.Compiland
	function  *symtab.Function

	frameRegister int
	frameOffset   int64
}

func (loader *unitLoader) parseSubprogram(
	entry *dwarf.DebugInfoEntry,
	compiland *symtab.Compiland,
) symtab.Symt {
	symt, ok := loader.built[entry.SectionOffset]
	if ok {
		return symt
	}

	lowPC, _ := entry.Uint(dwarf.DW_AT_low_pc)
	highPC, _ := entry.Uint(dwarf.DW_AT_high_pc)

	// Functions defined as inline assembly get dwarf debug info for the
	// loader's synthetic stubs.  Those are materialized from the symbol
	// table instead, so drop them here.
	if elf.IsInThunkArea(loader.base+lowPC, loader.thunks) >= 0 {
		return nil
	}

	isDeclaration, _ := entry.Flag(dwarf.DW_AT_declaration)

	name := loader.findName(entry, "subprogram")
	retType := loader.lookupType(entry)

	signature := loader.module.NewFunctionSignature(retType)

	subpgm := &subprogram{
		unitLoader: loader,
		compiland:  compiland,
	}

	if !isDeclaration {
		subpgm.function = loader.module.NewFunction(
			compiland,
			name,
			loader.base+lowPC,
			highPC-lowPC,
			signature)
		loader.built[entry.SectionOffset] = subpgm.function
	}

	frame, ok, err := entry.EvaluateLocation(dwarf.DW_AT_frame_base)
	if err != nil {
		glog.Warningf(
			"failed to evaluate frame base at 0x%x: %v",
			entry.SectionOffset,
			err)
	} else if ok {
		switch frame.Kind {
		case dwarf.RegisterLocation:
			subpgm.frameRegister = frame.Register
			subpgm.frameOffset = frame.Offset
		case dwarf.MemoryLocation:
			// A bare constant is most likely a location list offset.
			// Those are not handled; fall back to an unknown frame.
		}
	}

	for _, child := range entry.Children {
		switch child.Tag {
		case dwarf.DW_TAG_variable, dwarf.DW_TAG_formal_parameter:
			subpgm.parseVariable(nil, child)
		case dwarf.DW_TAG_lexical_block:
			subpgm.parseBlock(nil, child)
		case dwarf.DW_TAG_inlined_subroutine:
			subpgm.parseInlinedSubroutine(child)
		case dwarf.DW_TAG_subprogram:
			// likely a nested declaration; skip
		case dwarf.DW_TAG_label:
			subpgm.parseLabel(child)
		case dwarf.DW_TAG_class_type,
			dwarf.DW_TAG_structure_type,
			dwarf.DW_TAG_union_type,
			dwarf.DW_TAG_enumeration_type,
			dwarf.DW_TAG_typedef:
			// the type is loaded when referenced; skip
		case dwarf.DW_TAG_unspecified_parameters:
			glog.Warningf("unsupported unspecified parameters")
		default:
			glog.Warningf(
				"unhandled tag %s in subprogram at 0x%x",
				child.Tag,
				entry.SectionOffset)
		}
	}

	loader.module.NormalizeFunction(subpgm.function)

	return loader.built[entry.SectionOffset]
}

// parseVariable handles formal parameters, locals, and global variables
// (block and function are nil for the latter).
func (subpgm *subprogram) parseVariable(
	block *symtab.Block,
	entry *dwarf.DebugInfoEntry,
) {
	isParam := entry.Tag == dwarf.DW_TAG_formal_parameter

	paramType := subpgm.lookupType(entry)
	name := subpgm.findName(entry, "parameter")

	location, ok, err := entry.EvaluateLocation(dwarf.DW_AT_location)
	if err != nil {
		glog.Warningf(
			"failed to evaluate location of %s at 0x%x: %v",
			name,
			entry.SectionOffset,
			err)
	} else if ok {
		switch location.Kind {
		case dwarf.MemoryLocation:
			// it's a global variable
			external, _ := entry.Flag(dwarf.DW_AT_external)
			subpgm.module.NewGlobalVariable(
				subpgm.compiland,
				name,
				!external,
				subpgm.base+uint64(location.Offset),
				paramType)

		case dwarf.FrameRelativeLocation:
			if subpgm.function == nil {
				glog.Warningf("frame relative %s outside a function", name)
				break
			}
			subpgm.module.AddFuncLocal(
				subpgm.function,
				isParam,
				int(registers.Map(subpgm.frameRegister)),
				true,
				location.Offset+subpgm.frameOffset,
				block,
				paramType,
				name)

		case dwarf.RegisterLocation:
			// a variable relative to a register, or held in the register
			// itself
			if subpgm.function == nil {
				glog.Warningf("register bound %s outside a function", name)
				break
			}
			subpgm.module.AddFuncLocal(
				subpgm.function,
				isParam,
				int(registers.Map(location.Register)),
				location.Deref,
				location.Offset,
				block,
				paramType,
				name)
		}
	}

	constValue, ok := entry.Uint(dwarf.DW_AT_const_value)
	if ok {
		glog.Warningf("NIY: const value %#x for %s", constValue, name)
	}

	if isParam && subpgm.function != nil && subpgm.function.Signature != nil {
		subpgm.module.AddSignatureParameter(
			subpgm.function.Signature,
			paramType)
	}

	if entry.HasChildren {
		glog.Warningf("unsupported children on %s", entry.Tag)
	}
}

func (subpgm *subprogram) parseBlock(
	parent *symtab.Block,
	entry *dwarf.DebugInfoEntry,
) {
	if subpgm.function == nil {
		return
	}

	lowPC, _ := entry.Uint(dwarf.DW_AT_low_pc)
	highPC, _ := entry.Uint(dwarf.DW_AT_high_pc)

	block := subpgm.module.OpenFuncBlock(
		subpgm.function,
		parent,
		subpgm.base+lowPC,
		highPC-lowPC)

	for _, child := range entry.Children {
		switch child.Tag {
		case dwarf.DW_TAG_inlined_subroutine:
			subpgm.parseInlinedSubroutine(child)
		case dwarf.DW_TAG_variable:
			subpgm.parseVariable(block, child)
		case dwarf.DW_TAG_lexical_block:
			subpgm.parseBlock(block, child)
		case dwarf.DW_TAG_subprogram:
			// likely a nested declaration; skip
		case dwarf.DW_TAG_formal_parameter:
			// gcc emits these for exception handling; skip
		case dwarf.DW_TAG_class_type,
			dwarf.DW_TAG_structure_type,
			dwarf.DW_TAG_union_type,
			dwarf.DW_TAG_enumeration_type:
			// the type is loaded when referenced; skip
		default:
			glog.Warningf(
				"unhandled tag %s in lexical block at 0x%x",
				child.Tag,
				entry.SectionOffset)
		}
	}

	subpgm.module.CloseFuncBlock(subpgm.function, block)
}

// parseInlinedSubroutine walks an inlined body without materializing it;
// only labels survive, attached to the enclosing function.
func (subpgm *subprogram) parseInlinedSubroutine(
	entry *dwarf.DebugInfoEntry,
) {
	for _, child := range entry.Children {
		switch child.Tag {
		case dwarf.DW_TAG_formal_parameter,
			dwarf.DW_TAG_variable,
			dwarf.DW_TAG_lexical_block:
			// inlined bodies are not materialized yet; skip
		case dwarf.DW_TAG_inlined_subroutine:
			subpgm.parseInlinedSubroutine(child)
		case dwarf.DW_TAG_label:
			subpgm.parseLabel(child)
		default:
			glog.Warningf(
				"unhandled tag %s in inlined subroutine at 0x%x",
				child.Tag,
				entry.SectionOffset)
		}
	}
}

func (subpgm *subprogram) parseLabel(entry *dwarf.DebugInfoEntry) {
	if subpgm.function == nil {
		return
	}

	lowPC, _ := entry.Uint(dwarf.DW_AT_low_pc)
	name := subpgm.findName(entry, "label")

	subpgm.module.AddFunctionPoint(
		subpgm.function,
		subpgm.base+lowPC,
		name)
}
