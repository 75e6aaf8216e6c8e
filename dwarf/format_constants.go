package dwarf

import (
	"fmt"
)

// See dwarf 2 section 7.5.4 for full list
type Format uint64

const (
	DW_FORM_addr      = Format(0x01)
	DW_FORM_block2    = Format(0x03)
	DW_FORM_block4    = Format(0x04)
	DW_FORM_data2     = Format(0x05)
	DW_FORM_data4     = Format(0x06)
	DW_FORM_data8     = Format(0x07)
	DW_FORM_string    = Format(0x08)
	DW_FORM_block     = Format(0x09)
	DW_FORM_block1    = Format(0x0a)
	DW_FORM_data1     = Format(0x0b)
	DW_FORM_flag      = Format(0x0c)
	DW_FORM_sdata     = Format(0x0d)
	DW_FORM_strp      = Format(0x0e)
	DW_FORM_udata     = Format(0x0f)
	DW_FORM_ref_addr  = Format(0x10)
	DW_FORM_ref1      = Format(0x11)
	DW_FORM_ref2      = Format(0x12)
	DW_FORM_ref4      = Format(0x13)
	DW_FORM_ref8      = Format(0x14)
	DW_FORM_ref_udata = Format(0x15)
	DW_FORM_indirect  = Format(0x16)
)

func (format Format) String() string {
	switch format {
	case DW_FORM_addr:
		return "DW_FORM_addr"
	case DW_FORM_block2:
		return "DW_FORM_block2"
	case DW_FORM_block4:
		return "DW_FORM_block4"
	case DW_FORM_data2:
		return "DW_FORM_data2"
	case DW_FORM_data4:
		return "DW_FORM_data4"
	case DW_FORM_data8:
		return "DW_FORM_data8"
	case DW_FORM_string:
		return "DW_FORM_string"
	case DW_FORM_block:
		return "DW_FORM_block"
	case DW_FORM_block1:
		return "DW_FORM_block1"
	case DW_FORM_data1:
		return "DW_FORM_data1"
	case DW_FORM_flag:
		return "DW_FORM_flag"
	case DW_FORM_sdata:
		return "DW_FORM_sdata"
	case DW_FORM_strp:
		return "DW_FORM_strp"
	case DW_FORM_udata:
		return "DW_FORM_udata"
	case DW_FORM_ref_addr:
		return "DW_FORM_ref_addr"
	case DW_FORM_ref1:
		return "DW_FORM_ref1"
	case DW_FORM_ref2:
		return "DW_FORM_ref2"
	case DW_FORM_ref4:
		return "DW_FORM_ref4"
	case DW_FORM_ref8:
		return "DW_FORM_ref8"
	case DW_FORM_ref_udata:
		return "DW_FORM_ref_udata"
	case DW_FORM_indirect:
		return "DW_FORM_indirect"
	}

	return fmt.Sprintf("DW_FORM_?? (0x%x)", uint64(format))
}

// See dwarf 2 section 7.8
type BaseTypeEncoding uint64

const (
	// 0x00 is not part of the standard encoding table, but gcc 2.x emitted
	// it for void and the original dbghelp loader understood it.
	DW_ATE_void          = BaseTypeEncoding(0x00)
	DW_ATE_address       = BaseTypeEncoding(0x01)
	DW_ATE_boolean       = BaseTypeEncoding(0x02)
	DW_ATE_complex_float = BaseTypeEncoding(0x03)
	DW_ATE_float         = BaseTypeEncoding(0x04)
	DW_ATE_signed        = BaseTypeEncoding(0x05)
	DW_ATE_signed_char   = BaseTypeEncoding(0x06)
	DW_ATE_unsigned      = BaseTypeEncoding(0x07)
	DW_ATE_unsigned_char = BaseTypeEncoding(0x08)
	DW_ATE_lo_user       = BaseTypeEncoding(0x80)
	DW_ATE_hi_user       = BaseTypeEncoding(0xff)
)

func (encoding BaseTypeEncoding) String() string {
	switch encoding {
	case DW_ATE_void:
		return "DW_ATE_void"
	case DW_ATE_address:
		return "DW_ATE_address"
	case DW_ATE_boolean:
		return "DW_ATE_boolean"
	case DW_ATE_complex_float:
		return "DW_ATE_complex_float"
	case DW_ATE_float:
		return "DW_ATE_float"
	case DW_ATE_signed:
		return "DW_ATE_signed"
	case DW_ATE_signed_char:
		return "DW_ATE_signed_char"
	case DW_ATE_unsigned:
		return "DW_ATE_unsigned"
	case DW_ATE_unsigned_char:
		return "DW_ATE_unsigned_char"
	}

	return fmt.Sprintf("DW_ATE_?? (0x%x)", uint64(encoding))
}
