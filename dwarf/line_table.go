package dwarf

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
)

const (
	DW_LNS_copy             = 0x01
	DW_LNS_advance_pc       = 0x02
	DW_LNS_advance_line     = 0x03
	DW_LNS_set_file         = 0x04
	DW_LNS_set_column       = 0x05
	DW_LNS_negate_stmt      = 0x06
	DW_LNS_set_basic_block  = 0x07
	DW_LNS_const_add_pc     = 0x08
	DW_LNS_fixed_advance_pc = 0x09

	DW_LNE_end_sequence = 0x01
	DW_LNE_set_address  = 0x02
	DW_LNE_define_file  = 0x03
)

type LineFile struct {
	Dir  string
	Name string

	ModificationTime uint64
	Length           uint64
}

// LineProgram is one compile unit's .debug_line program: the decoded header
// plus the undecoded state machine byte code.
type LineProgram struct {
	MinInstructionLength uint8
	DefaultIsStmt        bool
	LineBase             int8
	LineRange            uint8
	OpcodeBase           uint8

	// Operand counts for standard op codes 1 .. OpcodeBase-1, used to skip
	// op codes this evaluator does not know.
	StandardOpcodeLengths []uint8

	// Directory 0 is the unit's compilation directory.  Relative include
	// directories are joined with it.
	Directories []string
	Files       []LineFile

	content     []byte
	addressSize int
}

// A row of the generated line table.  File indexes into LineProgram.Files
// 1-based.
type LineRow struct {
	Address uint64
	File    int
	Line    int
}

// ParseLineProgram decodes the line program header found at the given
// offset of the .debug_line section.
func ParseLineProgram(
	line []byte,
	offset SectionOffset,
	addressSize int,
	compilationDir string,
) (
	*LineProgram,
	error,
) {
	decode := NewCursor(line)
	decode.AddressSize = addressSize
	_, err := decode.Seek(int(offset), io.SeekStart)
	if err != nil {
		return nil, fmt.Errorf("invalid line program offset (%d): %w", offset, err)
	}

	length, err := decode.U32()
	if err != nil {
		return nil, fmt.Errorf("failed to decode line program length: %w", err)
	}

	end := decode.Position + int(length)
	if end > len(line) {
		return nil, fmt.Errorf(
			"line program length (%d) exceeds section",
			length)
	}

	version, err := decode.U16()
	if err != nil {
		return nil, fmt.Errorf("failed to decode line program version: %w", err)
	}
	if version != 2 {
		glog.Warningf("line program version %d, expected 2", version)
	}

	headerLength, err := decode.U32()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to decode line program header length: %w",
			err)
	}
	expectedContentStart := decode.Position + int(headerLength)

	minInstructionLen, err := decode.U8()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to decode line program minimum instruction length: %w",
			err)
	}

	defaultIsStmt, err := decode.U8()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to decode line program default is statement: %w",
			err)
	}

	lineBase, err := decode.S8()
	if err != nil {
		return nil, fmt.Errorf("failed to decode line program line base: %w", err)
	}

	lineRange, err := decode.U8()
	if err != nil {
		return nil, fmt.Errorf("failed to decode line program line range: %w", err)
	}
	if lineRange == 0 {
		return nil, fmt.Errorf("invalid line program line range (0)")
	}

	opCodeBase, err := decode.U8()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to decode line program op code base: %w",
			err)
	}
	if opCodeBase == 0 {
		return nil, fmt.Errorf("invalid line program op code base (0)")
	}

	opCodeLengths := make([]uint8, opCodeBase-1)
	for idx := range opCodeLengths {
		num, err := decode.U8()
		if err != nil {
			return nil, fmt.Errorf(
				"failed to decode standard op code (%d) num operands: %w",
				idx+1,
				err)
		}
		opCodeLengths[idx] = num
	}

	if compilationDir == "" {
		compilationDir = "."
	}

	included := []string{compilationDir}
	for {
		dir, err := decode.String()
		if err != nil {
			return nil, fmt.Errorf(
				"failed to decode line program included directories: %w",
				err)
		}

		if dir == "" {
			break
		}

		if !strings.HasPrefix(dir, "/") {
			// include directory relative to compilation directory
			dir = compilationDir + "/" + dir
		}

		included = append(included, dir)
	}

	program := &LineProgram{
		MinInstructionLength:  minInstructionLen,
		DefaultIsStmt:         defaultIsStmt != 0,
		LineBase:              lineBase,
		LineRange:             lineRange,
		OpcodeBase:            opCodeBase,
		StandardOpcodeLengths: opCodeLengths,
		Directories:           included,
		addressSize:           addressSize,
	}

	for {
		name, err := decode.String()
		if err != nil {
			return nil, fmt.Errorf(
				"failed to decode line program file entry name: %w",
				err)
		}

		if name == "" {
			break
		}

		dirIndex, err := decode.ULEB128(64)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to decode line program file entry directory index: %w",
				err)
		}
		if dirIndex >= uint64(len(included)) {
			return nil, fmt.Errorf(
				"invalid line program file entry directory index (%d)",
				dirIndex)
		}

		modTime, err := decode.ULEB128(64)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to decode line program file entry modification time: %w",
				err)
		}

		fileLength, err := decode.ULEB128(64)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to decode line program file entry length: %w",
				err)
		}

		program.Files = append(
			program.Files,
			LineFile{
				Dir:              included[dirIndex],
				Name:             name,
				ModificationTime: modTime,
				Length:           fileLength,
			})
	}

	if decode.Position != expectedContentStart {
		return nil, fmt.Errorf(
			"failed to decode line program header. unexpected length")
	}

	content, err := decode.Bytes(end - decode.Position)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to read line program content bytes: %w",
			err)
	}
	program.content = content

	return program, nil
}

// Run executes the line number state machine, calling emit for each
// generated row in program order.  base is added to DW_LNE_set_address
// operands.  The state registers reset after each end-of-sequence; the
// outer loop continues until the program's declared length is exhausted.
func (program *LineProgram) Run(base uint64, emit func(LineRow)) error {
	decode := NewCursor(program.content)
	decode.AddressSize = program.addressSize

	for !decode.HasReachedEnd() {
		address := uint64(0)
		file := 1
		line := int64(1)
		isStmt := program.DefaultIsStmt
		endSequence := false

		for !endSequence {
			opCode, err := decode.U8()
			if err != nil {
				return fmt.Errorf("failed to decode line op code: %w", err)
			}

			if opCode >= program.OpcodeBase {
				delta := opCode - program.OpcodeBase

				address += uint64(delta/program.LineRange) *
					uint64(program.MinInstructionLength)
				line += int64(program.LineBase) +
					int64(delta%program.LineRange)
				emit(LineRow{Address: address, File: file, Line: int(line)})
				continue
			}

			switch opCode {
			case DW_LNS_copy:
				emit(LineRow{Address: address, File: file, Line: int(line)})

			case DW_LNS_advance_pc:
				delta, err := decode.ULEB128(64)
				if err != nil {
					return fmt.Errorf(
						"failed to decode DW_LNS_advance_pc operand: %w",
						err)
				}
				address += uint64(program.MinInstructionLength) * delta

			case DW_LNS_advance_line:
				delta, err := decode.SLEB128(64)
				if err != nil {
					return fmt.Errorf(
						"failed to decode DW_LNS_advance_line operand: %w",
						err)
				}
				line += delta

			case DW_LNS_set_file:
				index, err := decode.ULEB128(64)
				if err != nil {
					return fmt.Errorf(
						"failed to decode DW_LNS_set_file operand: %w",
						err)
				}
				file = int(index)

			case DW_LNS_set_column:
				_, err := decode.ULEB128(64)
				if err != nil {
					return fmt.Errorf(
						"failed to decode DW_LNS_set_column operand: %w",
						err)
				}

			case DW_LNS_negate_stmt:
				isStmt = !isStmt

			case DW_LNS_set_basic_block:
				// the basic block flag has no consumer in the generated
				// table

			case DW_LNS_const_add_pc:
				address += uint64((255-program.OpcodeBase)/program.LineRange) *
					uint64(program.MinInstructionLength)

			case DW_LNS_fixed_advance_pc:
				delta, err := decode.U16()
				if err != nil {
					return fmt.Errorf(
						"failed to decode DW_LNS_fixed_advance_pc operand: %w",
						err)
				}
				address += uint64(delta)

			case 0: // extended op
				_, err := decode.ULEB128(64) // length, unused
				if err != nil {
					return fmt.Errorf(
						"failed to decode extended op length: %w",
						err)
				}

				extOpCode, err := decode.U8()
				if err != nil {
					return fmt.Errorf(
						"failed to decode extended op code: %w",
						err)
				}

				switch extOpCode {
				case DW_LNE_end_sequence:
					emit(LineRow{Address: address, File: file, Line: int(line)})
					endSequence = true

				case DW_LNE_set_address:
					word, err := decode.Address()
					if err != nil {
						return fmt.Errorf(
							"failed to decode DW_LNE_set_address operand: %w",
							err)
					}
					address = base + word

				case DW_LNE_define_file:
					glog.Warningf("DW_LNE_define_file not handled")
					_, err := decode.String()
					if err != nil {
						return fmt.Errorf(
							"failed to skip DW_LNE_define_file operand: %w",
							err)
					}
					for i := 0; i < 3; i++ {
						_, err := decode.ULEB128(64)
						if err != nil {
							return fmt.Errorf(
								"failed to skip DW_LNE_define_file operand: %w",
								err)
						}
					}

				default:
					glog.Warningf("unsupported extended op code %#x", extOpCode)
				}

			default:
				glog.Warningf("unsupported line op code %#x", opCode)
				for i := 0; i < int(program.StandardOpcodeLengths[opCode-1]); i++ {
					_, err := decode.ULEB128(64)
					if err != nil {
						return fmt.Errorf(
							"failed to skip op code (%#x) operand: %w",
							opCode,
							err)
					}
				}
			}
		}
	}

	return nil
}
