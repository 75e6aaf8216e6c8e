package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/pattyshack/symdb/dwarf"
	"github.com/pattyshack/symdb/elf"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("USAGE: print-dwarf <file>")
		os.Exit(1)
	}

	content, err := os.ReadFile(os.Args[1])
	if err != nil {
		panic(err)
	}

	elfFile, err := elf.ParseBytes(content)
	if err != nil {
		panic(err)
	}

	debug, abbrev, str, _, err := elfFile.DebugSections()
	if err != nil {
		panic(err)
	}

	fmt.Println(".debug_info:")

	decode := dwarf.NewCursor(debug)
	for !decode.HasReachedEnd() {
		unit, err := dwarf.ParseCompileUnit(decode, str)
		if err != nil {
			panic(err)
		}

		fmt.Printf(
			"  CompileUnit: Start = %d Version = %d AbbrevOffset = %d\n",
			unit.Start,
			unit.Version,
			unit.AbbreviationOffset)

		table, err := dwarf.ParseAbbreviationTable(
			abbrev,
			unit.AbbreviationOffset)
		if err != nil {
			panic(err)
		}

		printAbbreviationTable(table)

		err = unit.ParseEntries(abbrev)
		if err != nil {
			panic(err)
		}

		printDebugInfoEntry(unit.Root(), 0)
	}
}

func printAbbreviationTable(table dwarf.AbbreviationTable) {
	sorted := []*dwarf.Abbreviation{}
	for _, abbrev := range table {
		sorted = append(sorted, abbrev)
	}
	sort.Slice(
		sorted,
		func(i int, j int) bool { return sorted[i].Code < sorted[j].Code })

	for _, abbrev := range sorted {
		fmt.Printf(
			"    Code: %d\tHasChildren: %v\tTag: %s\n",
			abbrev.Code,
			abbrev.HasChildren,
			abbrev.Tag)
		for _, spec := range abbrev.AttributeSpecs {
			fmt.Printf(
				"      Attribute: %s\tFormat: %s\n",
				spec.Attribute,
				spec.Format)
		}
	}
}

func printDebugInfoEntry(entry *dwarf.DebugInfoEntry, level int) {
	indent := ""
	for i := 0; i < level; i++ {
		indent += "| "
	}

	name, found := entry.String(dwarf.DW_AT_name)
	if found {
		name = " (" + name + ")"
	}

	fmt.Printf("    %s%08x: %s%s\n", indent, entry.SectionOffset, entry.Tag, name)
	for _, spec := range entry.AttributeSpecs {
		fmt.Printf(
			"    %s    %s (%s)\n",
			indent,
			spec.Attribute,
			spec.Format)
	}

	for _, child := range entry.Children {
		printDebugInfoEntry(child, level+1)
	}
}
