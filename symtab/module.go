package symtab

import (
	"sort"
)

type SymbolType int

const (
	SymNone = SymbolType(iota)

	// Debug info loaded from dwarf sections.
	SymDia
)

// Symbol is a named, addressable entry of the module's symbol table.
type Symbol interface {
	Symt

	SymbolName() string
	SymbolAddress() uint64
}

// Module collects every symbol-database object loaded for one binary image.
// All objects are owned by the module and outlive the parser that created
// them.
type Module struct {
	Name string

	// Runtime address the image was loaded at.  All symbol addresses are
	// absolute (base + section relative value).
	Base uint64

	SymbolType SymbolType
	Signature  [4]byte

	// Capability flags set once debug information has been loaded.
	LineNumbers   bool
	GlobalSymbols bool
	TypeInfo      bool
	SourceIndexed bool
	Publics       bool

	// Every type object created for this module, in creation order.
	Types []Symt

	Compilands []*Compiland

	sources     []string
	sourceIndex map[string]int

	addrSorted []Symbol
	sortDirty  bool
}

func NewModule(name string, base uint64) *Module {
	return &Module{
		Name:        name,
		Base:        base,
		sourceIndex: map[string]int{},
	}
}

func (module *Module) addSymbol(symbol Symbol) {
	module.addrSorted = append(module.addrSorted, symbol)
	module.sortDirty = true
}

// Symbols returns the module's symbols sorted by address.
func (module *Module) Symbols() []Symbol {
	module.sortSymbols()
	return module.addrSorted
}

func (module *Module) sortSymbols() {
	if !module.sortDirty {
		return
	}

	sort.SliceStable(
		module.addrSorted,
		func(i int, j int) bool {
			return module.addrSorted[i].SymbolAddress() <
				module.addrSorted[j].SymbolAddress()
		})
	module.sortDirty = false
}

// FindNearest returns the symbol with the largest address not exceeding
// the given address, or nil if every symbol lies above it.
func (module *Module) FindNearest(address uint64) Symbol {
	module.sortSymbols()

	idx := sort.Search(
		len(module.addrSorted),
		func(i int) bool {
			return module.addrSorted[i].SymbolAddress() > address
		})

	if idx == 0 {
		return nil
	}

	return module.addrSorted[idx-1]
}
