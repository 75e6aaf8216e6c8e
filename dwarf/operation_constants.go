package dwarf

import (
	"fmt"
)

// See dwarf 2 section 7.7.1 for full list
type Operation uint64

const (
	DW_OP_addr        = Operation(0x03)
	DW_OP_deref       = Operation(0x06)
	DW_OP_const1u     = Operation(0x08)
	DW_OP_const1s     = Operation(0x09)
	DW_OP_const2u     = Operation(0x0a)
	DW_OP_const2s     = Operation(0x0b)
	DW_OP_const4u     = Operation(0x0c)
	DW_OP_const4s     = Operation(0x0d)
	DW_OP_const8u     = Operation(0x0e)
	DW_OP_const8s     = Operation(0x0f)
	DW_OP_constu      = Operation(0x10)
	DW_OP_consts      = Operation(0x11)
	DW_OP_dup         = Operation(0x12)
	DW_OP_drop        = Operation(0x13)
	DW_OP_over        = Operation(0x14)
	DW_OP_pick        = Operation(0x15)
	DW_OP_swap        = Operation(0x16)
	DW_OP_rot         = Operation(0x17)
	DW_OP_xderef      = Operation(0x18)
	DW_OP_abs         = Operation(0x19)
	DW_OP_and         = Operation(0x1a)
	DW_OP_div         = Operation(0x1b)
	DW_OP_minus       = Operation(0x1c)
	DW_OP_mod         = Operation(0x1d)
	DW_OP_mul         = Operation(0x1e)
	DW_OP_neg         = Operation(0x1f)
	DW_OP_not         = Operation(0x20)
	DW_OP_or          = Operation(0x21)
	DW_OP_plus        = Operation(0x22)
	DW_OP_plus_uconst = Operation(0x23)
	DW_OP_shl         = Operation(0x24)
	DW_OP_shr         = Operation(0x25)
	DW_OP_shra        = Operation(0x26)
	DW_OP_xor         = Operation(0x27)
	DW_OP_bra         = Operation(0x28)
	DW_OP_eq          = Operation(0x29)
	DW_OP_ge          = Operation(0x2a)
	DW_OP_gt          = Operation(0x2b)
	DW_OP_le          = Operation(0x2c)
	DW_OP_lt          = Operation(0x2d)
	DW_OP_ne          = Operation(0x2e)
	DW_OP_skip        = Operation(0x2f)
	DW_OP_lit0        = Operation(0x30)
	DW_OP_lit31       = Operation(0x4f)
	DW_OP_reg0        = Operation(0x50)
	DW_OP_reg31       = Operation(0x6f)
	DW_OP_breg0       = Operation(0x70)
	DW_OP_breg31      = Operation(0x8f)
	DW_OP_regx        = Operation(0x90)
	DW_OP_fbreg       = Operation(0x91)
	DW_OP_bregx       = Operation(0x92)
	DW_OP_piece       = Operation(0x93)
	DW_OP_deref_size  = Operation(0x94)
	DW_OP_xderef_size = Operation(0x95)
	DW_OP_nop         = Operation(0x96)
	DW_OP_lo_user     = Operation(0xe0)
	DW_OP_hi_user     = Operation(0xff)
)

func (op Operation) String() string {
	switch {
	case DW_OP_lit0 <= op && op <= DW_OP_lit31:
		return fmt.Sprintf("DW_OP_lit%d", op-DW_OP_lit0)
	case DW_OP_reg0 <= op && op <= DW_OP_reg31:
		return fmt.Sprintf("DW_OP_reg%d", op-DW_OP_reg0)
	case DW_OP_breg0 <= op && op <= DW_OP_breg31:
		return fmt.Sprintf("DW_OP_breg%d", op-DW_OP_breg0)
	}

	switch op {
	case DW_OP_addr:
		return "DW_OP_addr"
	case DW_OP_deref:
		return "DW_OP_deref"
	case DW_OP_const1u:
		return "DW_OP_const1u"
	case DW_OP_const1s:
		return "DW_OP_const1s"
	case DW_OP_const2u:
		return "DW_OP_const2u"
	case DW_OP_const2s:
		return "DW_OP_const2s"
	case DW_OP_const4u:
		return "DW_OP_const4u"
	case DW_OP_const4s:
		return "DW_OP_const4s"
	case DW_OP_const8u:
		return "DW_OP_const8u"
	case DW_OP_const8s:
		return "DW_OP_const8s"
	case DW_OP_constu:
		return "DW_OP_constu"
	case DW_OP_consts:
		return "DW_OP_consts"
	case DW_OP_dup:
		return "DW_OP_dup"
	case DW_OP_drop:
		return "DW_OP_drop"
	case DW_OP_over:
		return "DW_OP_over"
	case DW_OP_pick:
		return "DW_OP_pick"
	case DW_OP_swap:
		return "DW_OP_swap"
	case DW_OP_rot:
		return "DW_OP_rot"
	case DW_OP_xderef:
		return "DW_OP_xderef"
	case DW_OP_abs:
		return "DW_OP_abs"
	case DW_OP_and:
		return "DW_OP_and"
	case DW_OP_div:
		return "DW_OP_div"
	case DW_OP_minus:
		return "DW_OP_minus"
	case DW_OP_mod:
		return "DW_OP_mod"
	case DW_OP_mul:
		return "DW_OP_mul"
	case DW_OP_neg:
		return "DW_OP_neg"
	case DW_OP_not:
		return "DW_OP_not"
	case DW_OP_or:
		return "DW_OP_or"
	case DW_OP_plus:
		return "DW_OP_plus"
	case DW_OP_plus_uconst:
		return "DW_OP_plus_uconst"
	case DW_OP_shl:
		return "DW_OP_shl"
	case DW_OP_shr:
		return "DW_OP_shr"
	case DW_OP_shra:
		return "DW_OP_shra"
	case DW_OP_xor:
		return "DW_OP_xor"
	case DW_OP_bra:
		return "DW_OP_bra"
	case DW_OP_eq:
		return "DW_OP_eq"
	case DW_OP_ge:
		return "DW_OP_ge"
	case DW_OP_gt:
		return "DW_OP_gt"
	case DW_OP_le:
		return "DW_OP_le"
	case DW_OP_lt:
		return "DW_OP_lt"
	case DW_OP_ne:
		return "DW_OP_ne"
	case DW_OP_skip:
		return "DW_OP_skip"
	case DW_OP_regx:
		return "DW_OP_regx"
	case DW_OP_fbreg:
		return "DW_OP_fbreg"
	case DW_OP_bregx:
		return "DW_OP_bregx"
	case DW_OP_piece:
		return "DW_OP_piece"
	case DW_OP_deref_size:
		return "DW_OP_deref_size"
	case DW_OP_xderef_size:
		return "DW_OP_xderef_size"
	case DW_OP_nop:
		return "DW_OP_nop"
	}

	return fmt.Sprintf("DW_OP_?? (0x%x)", uint64(op))
}
