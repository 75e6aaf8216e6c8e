package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"gopkg.in/yaml.v3"

	"github.com/pattyshack/symdb/elf"
	"github.com/pattyshack/symdb/loader"
	"github.com/pattyshack/symdb/symtab"
)

type command struct {
	name string
	run  func(*symtab.Module, []string) error
}

var (
	commands = []command{
		{
			name: "addr",
			run:  lookupAddress,
		},
		{
			name: "fn",
			run:  lookupFunction,
		},
		{
			name: "globals",
			run:  listGlobals,
		},
		{
			name: "types",
			run:  listTypes,
		},
		{
			name: "dump",
			run:  dumpModule,
		},
	}
)

func parseAddress(arg string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 64)
}

func lookupAddress(module *symtab.Module, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: addr <hex address>")
	}

	address, err := parseAddress(args[0])
	if err != nil {
		return fmt.Errorf("invalid address %s: %w", args[0], err)
	}

	symbol := module.FindNearest(address)
	if symbol == nil {
		fmt.Println("no symbol")
		return nil
	}

	fmt.Printf(
		"%s + 0x%x\n",
		symbol.SymbolName(),
		address-symbol.SymbolAddress())

	function, ok := symbol.(*symtab.Function)
	if !ok {
		return nil
	}

	offset := address - function.Address
	for idx := len(function.Lines) - 1; idx >= 0; idx-- {
		record := function.Lines[idx]
		if record.Offset <= offset {
			fmt.Printf(
				"%s:%d\n",
				module.SourceGet(record.Source),
				record.Line)
			break
		}
	}

	return nil
}

func lookupFunction(module *symtab.Module, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fn <name>")
	}

	for _, symbol := range module.Symbols() {
		function, ok := symbol.(*symtab.Function)
		if !ok || function.Name != args[0] {
			continue
		}

		fmt.Printf(
			"%s [0x%x, 0x%x) params=%d locals=%d lines=%d\n",
			function.Name,
			function.Address,
			function.Address+function.Size,
			len(function.Signature.Params),
			len(function.Locals),
			len(function.Lines))
	}

	return nil
}

func listGlobals(module *symtab.Module, args []string) error {
	for _, symbol := range module.Symbols() {
		variable, ok := symbol.(*symtab.GlobalVariable)
		if !ok {
			continue
		}

		linkage := "global"
		if variable.Local {
			linkage = "local"
		}
		fmt.Printf("0x%08x %s (%s)\n", variable.Address, variable.Name, linkage)
	}

	return nil
}

func listTypes(module *symtab.Module, args []string) error {
	for _, typ := range module.Types {
		switch sym := typ.(type) {
		case *symtab.BasicType:
			fmt.Printf("basic %s (size %d)\n", sym.Name, sym.Size)
		case *symtab.PointerType:
			fmt.Println("pointer")
		case *symtab.ArrayType:
			fmt.Printf("array [%d..%d]\n", sym.Min, sym.Max)
		case *symtab.Typedef:
			fmt.Printf("typedef %s\n", sym.Name)
		case *symtab.Enum:
			fmt.Printf("enum %s (%d values)\n", sym.Name, len(sym.Elements))
		case *symtab.UDT:
			fmt.Printf("udt %s (%d members)\n", sym.Name, len(sym.Members))
		case *symtab.FunctionSignature:
			fmt.Printf("signature (%d params)\n", len(sym.Params))
		}
	}

	return nil
}

type functionSummary struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Size    uint64 `yaml:"size"`
	Params  int    `yaml:"params"`
	Locals  int    `yaml:"locals"`
	Lines   int    `yaml:"lines"`
}

type moduleSummary struct {
	Name      string            `yaml:"name"`
	Base      string            `yaml:"base"`
	Signature string            `yaml:"signature"`
	Sources   int               `yaml:"sources"`
	Functions []functionSummary `yaml:"functions"`
	Globals   []string          `yaml:"globals"`
}

func dumpModule(module *symtab.Module, args []string) error {
	summary := moduleSummary{
		Name:      module.Name,
		Base:      fmt.Sprintf("0x%x", module.Base),
		Signature: string(module.Signature[:]),
		Sources:   module.SourceCount(),
	}

	for _, symbol := range module.Symbols() {
		switch sym := symbol.(type) {
		case *symtab.Function:
			summary.Functions = append(
				summary.Functions,
				functionSummary{
					Name:    sym.Name,
					Address: fmt.Sprintf("0x%x", sym.Address),
					Size:    sym.Size,
					Params:  len(sym.Signature.Params),
					Locals:  len(sym.Locals),
					Lines:   len(sym.Lines),
				})
		case *symtab.GlobalVariable:
			summary.Globals = append(summary.Globals, sym.Name)
		}
	}

	content, err := yaml.Marshal(summary)
	if err != nil {
		return err
	}

	fmt.Print(string(content))
	return nil
}

func main() {
	base := ""
	flag.StringVar(&base, "base", "0", "image load address (hex)")

	flag.Parse()
	args := flag.Args()

	if len(args) != 1 {
		fmt.Println("USAGE: symdb [-base addr] <elf-file>")
		os.Exit(1)
	}

	loadAddress, err := parseAddress(base)
	if err != nil {
		panic(err)
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		panic(err)
	}

	file, err := elf.ParseBytes(content)
	if err != nil {
		panic(err)
	}

	debug, abbrev, str, line, err := file.DebugSections()
	if err != nil {
		panic(err)
	}

	module := symtab.NewModule(args[0], loadAddress)
	if !loader.Parse(module, loadAddress, nil, debug, abbrev, str, line) {
		panic("failed to load debug information")
	}

	fmt.Printf(
		"loaded %d symbols from %s\n",
		len(module.Symbols()),
		args[0])

	rl, err := readline.New("symdb > ")
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	lastLine := ""
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				break
			}
			panic(err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			line = lastLine
		}
		lastLine = line

		if line == "" {
			continue
		}

		args := strings.Split(line, " ")
		if args[0] == "quit" {
			break
		}

		found := false
		for _, cmd := range commands {
			if strings.HasPrefix(cmd.name, args[0]) {
				found = true
				err := cmd.run(module, args[1:])
				if err != nil {
					fmt.Println(err)
				}
			}
		}

		if !found {
			fmt.Println("invalid command:", args[0])
		}
	}
}
