package registers

import (
	"github.com/golang/glog"

	"golang.org/x/arch/x86/x86asm"
)

// Map translates an i386 dwarf register number into its machine register.
// Registers the disassembler vocabulary cannot express (eflags, the x87
// control words, mxcsr) map to zero, as do unknown numbers.
func Map(regno int) x86asm.Reg {
	switch {
	case regno == 0:
		return x86asm.EAX
	case regno == 1:
		return x86asm.ECX
	case regno == 2:
		return x86asm.EDX
	case regno == 3:
		return x86asm.EBX
	case regno == 4:
		return x86asm.ESP
	case regno == 5:
		return x86asm.EBP
	case regno == 6:
		return x86asm.ESI
	case regno == 7:
		return x86asm.EDI
	case regno == 8:
		return x86asm.EIP
	case regno == 10:
		return x86asm.CS
	case regno == 11:
		return x86asm.SS
	case regno == 12:
		return x86asm.DS
	case regno == 13:
		return x86asm.ES
	case regno == 14:
		return x86asm.FS
	case regno == 15:
		return x86asm.GS
	case 16 <= regno && regno <= 23:
		return x86asm.F0 + x86asm.Reg(regno-16)
	case 32 <= regno && regno <= 39:
		return x86asm.X0 + x86asm.Reg(regno-32)

	case regno == 9: // eflags
		fallthrough
	case 24 <= regno && regno <= 26: // x87 control/status/tag
		fallthrough
	case regno == 40: // mxcsr
		glog.Warningf("no machine register for dwarf register %d", regno)
		return 0
	}

	glog.Warningf("don't know how to map dwarf register %d", regno)
	return 0
}
