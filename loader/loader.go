// Package loader translates dwarf 2 debug information into symbol
// database objects: one compiland per compilation unit, with its types,
// functions, variables, lexical blocks and line records.
package loader

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/pattyshack/symdb/dwarf"
	"github.com/pattyshack/symdb/elf"
	"github.com/pattyshack/symdb/symtab"
)

// Parse populates the module from the raw bytes of the four dwarf
// sections.  loadOffset is the runtime address the image is loaded at;
// every address found in the sections is biased by it.  line may be nil
// when the line section was stripped.
//
// A compilation unit whose content cannot be loaded is skipped with a
// warning and does not poison the remaining units.  A unit header that
// cannot be decoded ends the walk, since the next unit cannot be located.
// User visible failures degrade to missing symbols or missing line
// information.
func Parse(
	module *symtab.Module,
	loadOffset uint64,
	thunks []elf.ThunkArea,
	debug []byte,
	abbrev []byte,
	str []byte,
	line []byte,
) bool {
	state := &parser{
		module: module,
		base:   loadOffset,
		thunks: thunks,
		abbrev: abbrev,
		line:   line,
	}

	decode := dwarf.NewCursor(debug)
	for !decode.HasReachedEnd() {
		unit, err := dwarf.ParseCompileUnit(decode, str)
		if err != nil {
			// Without a valid unit length there is no way to resync to the
			// next unit.
			glog.Warningf("failed to parse compilation unit: %v", err)
			break
		}

		err = state.parseCompilationUnit(unit)
		if err != nil {
			glog.Warningf(
				"failed to load compilation unit at 0x%x: %v",
				unit.Start,
				err)
		}
	}

	module.SymbolType = symtab.SymDia
	module.Signature = [4]byte{'D', 'W', 'A', 'R'}
	module.LineNumbers = true
	module.GlobalSymbols = true
	module.TypeInfo = true
	module.SourceIndexed = true
	module.Publics = true
	return true
}

type parser struct {
	module *symtab.Module
	base   uint64
	thunks []elf.ThunkArea

	abbrev []byte
	line   []byte

	// Monotonic counter backing synthetic names for anonymous entries.
	// Scoped to the parser instance so parses are reproducible.
	nameIndex int
}

// unitLoader carries the per compilation unit state.  It is discarded at
// the unit boundary; only the symbol database objects survive.
type unitLoader struct {
	*parser

	unit *dwarf.CompileUnit

	// Memoized semantic results keyed by DIE offset.  The cache makes the
	// entry graph tolerant of cycles and resolves forward references at
	// most once.
	built map[dwarf.SectionOffset]symtab.Symt
}

func (parser *parser) parseCompilationUnit(unit *dwarf.CompileUnit) error {
	if unit.Version != 2 {
		return fmt.Errorf("dwarf version %d not supported", unit.Version)
	}

	if unit.AddressSize != dwarf.SupportedAddressSize {
		return fmt.Errorf("address size %d not supported", unit.AddressSize)
	}

	err := unit.ParseEntries(parser.abbrev)
	if err != nil {
		return err
	}

	root := unit.Root()
	if root.Tag != dwarf.DW_TAG_compile_unit {
		return fmt.Errorf("root DIE is %s, expected a compilation unit", root.Tag)
	}

	loader := &unitLoader{
		parser: parser,
		unit:   unit,
		built:  map[dwarf.SectionOffset]symtab.Symt{},
	}

	name := loader.findName(root, "compiland")
	compilationDir, _ := root.String(dwarf.DW_AT_comp_dir)

	source := parser.module.SourceNew(compilationDir, name)
	compiland := parser.module.NewCompiland(source)
	loader.built[root.SectionOffset] = compiland

	for _, child := range root.Children {
		loader.loadOneEntry(child, compiland)
	}

	stmtList, ok := root.Uint(dwarf.DW_AT_stmt_list)
	if ok {
		loader.parseLineNumbers(
			compilationDir,
			dwarf.SectionOffset(stmtList))
	}

	return nil
}

// loadOneEntry materializes the symbol database object for one DIE.  The
// type and subprogram handlers memoize through the built table, so out of
// order resolution triggered by type references is idempotent; variables
// are not recorded in the table.  Unhandled tags leave no object behind.
func (loader *unitLoader) loadOneEntry(
	entry *dwarf.DebugInfoEntry,
	compiland *symtab.Compiland,
) {
	switch entry.Tag {
	case dwarf.DW_TAG_typedef:
		loader.parseTypedef(entry)
	case dwarf.DW_TAG_base_type:
		loader.parseBaseType(entry)
	case dwarf.DW_TAG_pointer_type:
		loader.parsePointerType(entry)
	case dwarf.DW_TAG_class_type:
		loader.parseUDTType(entry, symtab.UDTClass)
	case dwarf.DW_TAG_structure_type:
		loader.parseUDTType(entry, symtab.UDTStruct)
	case dwarf.DW_TAG_union_type:
		loader.parseUDTType(entry, symtab.UDTUnion)
	case dwarf.DW_TAG_array_type:
		loader.parseArrayType(entry)
	case dwarf.DW_TAG_const_type:
		loader.parseQualifiedType(entry)
	case dwarf.DW_TAG_volatile_type:
		loader.parseQualifiedType(entry)
	case dwarf.DW_TAG_reference_type:
		loader.parseReferenceType(entry)
	case dwarf.DW_TAG_enumeration_type:
		loader.parseEnumerationType(entry)
	case dwarf.DW_TAG_subprogram:
		loader.parseSubprogram(entry, compiland)
	case dwarf.DW_TAG_subroutine_type:
		loader.parseSubroutineType(entry)
	case dwarf.DW_TAG_variable:
		subpgm := &subprogram{
			unitLoader: loader,
			compiland:  compiland,
		}
		subpgm.parseVariable(nil, entry)
	default:
		glog.Warningf(
			"unhandled tag %s at 0x%x",
			entry.Tag,
			entry.SectionOffset)
	}
}

// findName returns the entry's DW_AT_name, or a synthetic
// "<prefix>_<n>" name for anonymous entries.
func (loader *unitLoader) findName(
	entry *dwarf.DebugInfoEntry,
	prefix string,
) string {
	name, ok := entry.String(dwarf.DW_AT_name)
	if ok {
		return name
	}

	name = fmt.Sprintf("%s_%d", prefix, loader.nameIndex)
	loader.nameIndex++
	return name
}

// lookupType resolves the entry's DW_AT_type cross reference, forcing the
// referenced DIE's semantic build if it has not happened yet.  An absent
// DW_AT_type yields the null type (void).
func (loader *unitLoader) lookupType(
	entry *dwarf.DebugInfoEntry,
) symtab.Symt {
	target, ok := entry.TypeEntry()
	if !ok {
		return nil
	}

	symt, ok := loader.built[target.SectionOffset]
	if !ok {
		loader.loadOneEntry(target, nil)
		symt = loader.built[target.SectionOffset]
	}

	return symt
}
