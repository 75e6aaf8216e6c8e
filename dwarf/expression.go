package dwarf

import (
	"fmt"

	"github.com/golang/glog"
)

// Sentinel register dispositions.  The evaluator tracks its register
// selection with NoRegister and FrameRegister; callers receive the same
// information as a Location tagged sum.  RegisterDeref is not used by the
// evaluator; Location.Deref carries that bit.
const (
	NoRegister    = 0x7FFFFFFF
	FrameRegister = 0x7FFFFFFE
	RegisterDeref = 0x80000000
)

type LocationKind int

const (
	// A memory address or plain constant offset.
	MemoryLocation = LocationKind(iota)

	// A dwarf register, possibly holding the address of the value rather
	// than the value itself (Deref).
	RegisterLocation

	// An offset from the enclosing function's frame base.
	FrameRelativeLocation
)

// Location is the outcome of evaluating a location attribute.
type Location struct {
	Kind LocationKind

	// Dwarf register number; only meaningful for RegisterLocation.
	Register int

	// The value lives behind the register instead of in it.
	Deref bool

	Offset int64
}

const locationStackCapacity = 64

// EvaluateLocation computes the given location attribute.  Constant forms
// are the offset directly; block forms run the expression stack machine.
// The second result is false when the attribute is absent.
func (entry *DebugInfoEntry) EvaluateLocation(
	attr Attribute,
) (
	Location,
	bool,
	error,
) {
	idx := entry.SpecIndex(attr)
	if idx == -1 {
		return Location{}, false, nil
	}

	switch entry.AttributeSpecs[idx].Format {
	case DW_FORM_data1, DW_FORM_data2, DW_FORM_data4, DW_FORM_data8,
		DW_FORM_udata, DW_FORM_sdata:

		// we've got a constant
		val, ok := entry.Int(attr)
		if !ok {
			return Location{}, false, fmt.Errorf(
				"failed to decode constant location value")
		}
		return Location{Kind: MemoryLocation, Offset: val}, true, nil
	}

	block, ok := entry.Block(attr)
	if !ok {
		return Location{}, false, fmt.Errorf(
			"invalid location form (%s)",
			entry.AttributeSpecs[idx].Format)
	}

	loc, err := evaluateExpression(block, entry.Unit.AddressSize)
	if err != nil {
		return Location{}, false, err
	}
	return loc, true, nil
}

// evaluateExpression runs a dwarf location expression on a small value
// stack.  Register selections are recorded on the side; the result is the
// top of stack plus the register disposition.  An unsupported op code
// terminates the evaluation with the result accumulated so far.
func evaluateExpression(
	instructions []byte,
	addressSize int,
) (
	Location,
	error,
) {
	var stack [locationStackCapacity]int64
	stk := 0

	inRegister := NoRegister
	deref := false
	pieceFound := false

	push := func(val int64) error {
		stk++
		if stk >= locationStackCapacity {
			return fmt.Errorf("location expression stack overflow")
		}
		stack[stk] = val
		return nil
	}

	result := func() Location {
		loc := Location{Offset: stack[stk]}
		switch inRegister {
		case NoRegister:
			loc.Kind = MemoryLocation
		case FrameRegister:
			loc.Kind = FrameRelativeLocation
			loc.Deref = deref
		default:
			loc.Kind = RegisterLocation
			loc.Register = inRegister
			loc.Deref = deref
		}
		return loc
	}

	decode := NewCursor(instructions)
	decode.AddressSize = addressSize

	for !decode.HasReachedEnd() {
		opByte, err := decode.U8()
		if err != nil {
			return Location{}, err
		}
		op := Operation(opByte)

		if DW_OP_reg0 <= op && op <= DW_OP_reg31 ||
			DW_OP_breg0 <= op && op <= DW_OP_breg31 {

			regno := 0
			if op >= DW_OP_breg0 {
				regno = int(op - DW_OP_breg0)
			} else {
				regno = int(op - DW_OP_reg0)
			}

			// A single register selection is all the symbol database can
			// represent.  Consecutive selections split across a piece of
			// the same object keep the original register.
			if !pieceFound || regno != inRegister+1 {
				if inRegister != NoRegister {
					glog.Warningf(
						"only supporting one register (%d -> %d)",
						inRegister,
						regno)
				}
				inRegister = regno
			}

			if op >= DW_OP_breg0 {
				offset, err := decode.SLEB128(64)
				if err != nil {
					return Location{}, err
				}
				err = push(offset)
				if err != nil {
					return Location{}, err
				}
				deref = true
			}
			continue
		}

		switch op {
		case DW_OP_addr:
			val, err := decode.Address()
			if err != nil {
				return Location{}, err
			}
			err = push(int64(val))
			if err != nil {
				return Location{}, err
			}

		case DW_OP_const1u:
			val, err := decode.U8()
			if err != nil {
				return Location{}, err
			}
			err = push(int64(val))
			if err != nil {
				return Location{}, err
			}

		case DW_OP_const1s:
			val, err := decode.U8()
			if err != nil {
				return Location{}, err
			}
			err = push(int64(int8(val)))
			if err != nil {
				return Location{}, err
			}

		case DW_OP_const2u:
			val, err := decode.U16()
			if err != nil {
				return Location{}, err
			}
			err = push(int64(val))
			if err != nil {
				return Location{}, err
			}

		case DW_OP_const2s:
			val, err := decode.U16()
			if err != nil {
				return Location{}, err
			}
			err = push(int64(int16(val)))
			if err != nil {
				return Location{}, err
			}

		case DW_OP_const4u:
			val, err := decode.U32()
			if err != nil {
				return Location{}, err
			}
			err = push(int64(val))
			if err != nil {
				return Location{}, err
			}

		case DW_OP_const4s:
			val, err := decode.U32()
			if err != nil {
				return Location{}, err
			}
			err = push(int64(int32(val)))
			if err != nil {
				return Location{}, err
			}

		case DW_OP_constu:
			val, err := decode.ULEB128(64)
			if err != nil {
				return Location{}, err
			}
			err = push(int64(val))
			if err != nil {
				return Location{}, err
			}

		case DW_OP_consts:
			val, err := decode.SLEB128(64)
			if err != nil {
				return Location{}, err
			}
			err = push(val)
			if err != nil {
				return Location{}, err
			}

		case DW_OP_plus_uconst:
			val, err := decode.ULEB128(64)
			if err != nil {
				return Location{}, err
			}
			stack[stk] += int64(val)

		case DW_OP_fbreg:
			if inRegister != NoRegister {
				glog.Warningf(
					"only supporting one register (%d -> frame)",
					inRegister)
			}
			inRegister = FrameRegister
			deref = true

			offset, err := decode.SLEB128(64)
			if err != nil {
				return Location{}, err
			}
			err = push(offset)
			if err != nil {
				return Location{}, err
			}

		case DW_OP_piece:
			size, err := decode.ULEB128(64)
			if err != nil {
				return Location{}, err
			}
			glog.Warningf("not handling DW_OP_piece directly (size=%d)", size)
			pieceFound = true

		default:
			// Return what was accumulated so far rather than dropping the
			// whole location.
			glog.Warningf("unhandled location op %s", op)
			return result(), nil
		}
	}

	return result(), nil
}
