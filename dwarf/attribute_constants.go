package dwarf

import (
	"fmt"
)

// See dwarf 2 section 7.5.4 for full list
type Attribute uint64

const (
	DW_AT_sibling              = Attribute(0x01)
	DW_AT_location             = Attribute(0x02)
	DW_AT_name                 = Attribute(0x03)
	DW_AT_ordering             = Attribute(0x09)
	DW_AT_byte_size            = Attribute(0x0b)
	DW_AT_bit_offset           = Attribute(0x0c)
	DW_AT_bit_size             = Attribute(0x0d)
	DW_AT_stmt_list            = Attribute(0x10)
	DW_AT_low_pc               = Attribute(0x11)
	DW_AT_high_pc              = Attribute(0x12)
	DW_AT_language             = Attribute(0x13)
	DW_AT_discr                = Attribute(0x15)
	DW_AT_discr_value          = Attribute(0x16)
	DW_AT_visibility           = Attribute(0x17)
	DW_AT_import               = Attribute(0x18)
	DW_AT_string_length        = Attribute(0x19)
	DW_AT_common_reference     = Attribute(0x1a)
	DW_AT_comp_dir             = Attribute(0x1b)
	DW_AT_const_value          = Attribute(0x1c)
	DW_AT_containing_type      = Attribute(0x1d)
	DW_AT_default_value        = Attribute(0x1e)
	DW_AT_inline               = Attribute(0x20)
	DW_AT_is_optional          = Attribute(0x21)
	DW_AT_lower_bound          = Attribute(0x22)
	DW_AT_producer             = Attribute(0x25)
	DW_AT_prototyped           = Attribute(0x27)
	DW_AT_return_addr          = Attribute(0x2a)
	DW_AT_start_scope          = Attribute(0x2c)
	DW_AT_stride_size          = Attribute(0x2e)
	DW_AT_upper_bound          = Attribute(0x2f)
	DW_AT_abstract_origin      = Attribute(0x31)
	DW_AT_accessibility        = Attribute(0x32)
	DW_AT_address_class        = Attribute(0x33)
	DW_AT_artificial           = Attribute(0x34)
	DW_AT_base_types           = Attribute(0x35)
	DW_AT_calling_convention   = Attribute(0x36)
	DW_AT_count                = Attribute(0x37)
	DW_AT_data_member_location = Attribute(0x38)
	DW_AT_decl_column          = Attribute(0x39)
	DW_AT_decl_file            = Attribute(0x3a)
	DW_AT_decl_line            = Attribute(0x3b)
	DW_AT_declaration          = Attribute(0x3c)
	DW_AT_discr_list           = Attribute(0x3d)
	DW_AT_encoding             = Attribute(0x3e)
	DW_AT_external             = Attribute(0x3f)
	DW_AT_frame_base           = Attribute(0x40)
	DW_AT_friend               = Attribute(0x41)
	DW_AT_identifier_case      = Attribute(0x42)
	DW_AT_macro_info           = Attribute(0x43)
	DW_AT_namelist_item        = Attribute(0x44)
	DW_AT_priority             = Attribute(0x45)
	DW_AT_segment              = Attribute(0x46)
	DW_AT_specification        = Attribute(0x47)
	DW_AT_static_link          = Attribute(0x48)
	DW_AT_type                 = Attribute(0x49)
	DW_AT_use_location         = Attribute(0x4a)
	DW_AT_variable_parameter   = Attribute(0x4b)
	DW_AT_virtuality           = Attribute(0x4c)
	DW_AT_vtable_elem_location = Attribute(0x4d)
	DW_AT_lo_user              = Attribute(0x2000)
	DW_AT_hi_user              = Attribute(0x3fff)
)

func (attr Attribute) String() string {
	switch attr {
	case DW_AT_sibling:
		return "DW_AT_sibling"
	case DW_AT_location:
		return "DW_AT_location"
	case DW_AT_name:
		return "DW_AT_name"
	case DW_AT_ordering:
		return "DW_AT_ordering"
	case DW_AT_byte_size:
		return "DW_AT_byte_size"
	case DW_AT_bit_offset:
		return "DW_AT_bit_offset"
	case DW_AT_bit_size:
		return "DW_AT_bit_size"
	case DW_AT_stmt_list:
		return "DW_AT_stmt_list"
	case DW_AT_low_pc:
		return "DW_AT_low_pc"
	case DW_AT_high_pc:
		return "DW_AT_high_pc"
	case DW_AT_language:
		return "DW_AT_language"
	case DW_AT_discr:
		return "DW_AT_discr"
	case DW_AT_discr_value:
		return "DW_AT_discr_value"
	case DW_AT_visibility:
		return "DW_AT_visibility"
	case DW_AT_import:
		return "DW_AT_import"
	case DW_AT_string_length:
		return "DW_AT_string_length"
	case DW_AT_common_reference:
		return "DW_AT_common_reference"
	case DW_AT_comp_dir:
		return "DW_AT_comp_dir"
	case DW_AT_const_value:
		return "DW_AT_const_value"
	case DW_AT_containing_type:
		return "DW_AT_containing_type"
	case DW_AT_default_value:
		return "DW_AT_default_value"
	case DW_AT_inline:
		return "DW_AT_inline"
	case DW_AT_is_optional:
		return "DW_AT_is_optional"
	case DW_AT_lower_bound:
		return "DW_AT_lower_bound"
	case DW_AT_producer:
		return "DW_AT_producer"
	case DW_AT_prototyped:
		return "DW_AT_prototyped"
	case DW_AT_return_addr:
		return "DW_AT_return_addr"
	case DW_AT_start_scope:
		return "DW_AT_start_scope"
	case DW_AT_stride_size:
		return "DW_AT_stride_size"
	case DW_AT_upper_bound:
		return "DW_AT_upper_bound"
	case DW_AT_abstract_origin:
		return "DW_AT_abstract_origin"
	case DW_AT_accessibility:
		return "DW_AT_accessibility"
	case DW_AT_address_class:
		return "DW_AT_address_class"
	case DW_AT_artificial:
		return "DW_AT_artificial"
	case DW_AT_base_types:
		return "DW_AT_base_types"
	case DW_AT_calling_convention:
		return "DW_AT_calling_convention"
	case DW_AT_count:
		return "DW_AT_count"
	case DW_AT_data_member_location:
		return "DW_AT_data_member_location"
	case DW_AT_decl_column:
		return "DW_AT_decl_column"
	case DW_AT_decl_file:
		return "DW_AT_decl_file"
	case DW_AT_decl_line:
		return "DW_AT_decl_line"
	case DW_AT_declaration:
		return "DW_AT_declaration"
	case DW_AT_discr_list:
		return "DW_AT_discr_list"
	case DW_AT_encoding:
		return "DW_AT_encoding"
	case DW_AT_external:
		return "DW_AT_external"
	case DW_AT_frame_base:
		return "DW_AT_frame_base"
	case DW_AT_friend:
		return "DW_AT_friend"
	case DW_AT_identifier_case:
		return "DW_AT_identifier_case"
	case DW_AT_macro_info:
		return "DW_AT_macro_info"
	case DW_AT_namelist_item:
		return "DW_AT_namelist_item"
	case DW_AT_priority:
		return "DW_AT_priority"
	case DW_AT_segment:
		return "DW_AT_segment"
	case DW_AT_specification:
		return "DW_AT_specification"
	case DW_AT_static_link:
		return "DW_AT_static_link"
	case DW_AT_type:
		return "DW_AT_type"
	case DW_AT_use_location:
		return "DW_AT_use_location"
	case DW_AT_variable_parameter:
		return "DW_AT_variable_parameter"
	case DW_AT_virtuality:
		return "DW_AT_virtuality"
	case DW_AT_vtable_elem_location:
		return "DW_AT_vtable_elem_location"
	}

	return fmt.Sprintf("DW_AT_?? (0x%x)", uint64(attr))
}
