package loader

import (
	"github.com/golang/glog"

	"github.com/pattyshack/symdb/dwarf"
	"github.com/pattyshack/symdb/symtab"
)

// parseLineNumbers runs the unit's line number program and attaches each
// generated row to the function covering its address.  Rows not covered
// by any function are dropped.
func (loader *unitLoader) parseLineNumbers(
	compilationDir string,
	offset dwarf.SectionOffset,
) {
	if loader.line == nil {
		// section with line numbers stripped
		return
	}

	program, err := dwarf.ParseLineProgram(
		loader.line,
		offset,
		loader.unit.AddressSize,
		compilationDir)
	if err != nil {
		glog.Warningf("failed to parse line program at 0x%x: %v", offset, err)
		return
	}

	sources := make([]int, 0, len(program.Files))
	for _, file := range program.Files {
		sources = append(
			sources,
			loader.module.SourceNew(file.Dir, file.Name))
	}

	err = program.Run(
		loader.base,
		func(row dwarf.LineRow) {
			if row.File <= 0 || row.File > len(sources) {
				return
			}

			function, ok := loader.module.FindNearest(row.Address).(*symtab.Function)
			if !ok {
				return
			}

			loader.module.AddFuncLine(
				function,
				sources[row.File-1],
				row.Line,
				row.Address-function.Address)
		})
	if err != nil {
		glog.Warningf("failed to run line program at 0x%x: %v", offset, err)
	}
}
