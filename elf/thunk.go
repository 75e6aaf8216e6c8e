package elf

import (
	"sort"
)

// ThunkArea is a synthetic code region [Start, End) inserted by the
// linker or loader.  Debug entries covering such regions describe stubs,
// not real functions, and are skipped during symbol materialization.
type ThunkArea struct {
	Start uint64
	End   uint64
}

// IsInThunkArea returns the index of the thunk area containing the
// address, or -1.  The areas must be sorted by start address.
func IsInThunkArea(address uint64, thunks []ThunkArea) int {
	idx := sort.Search(
		len(thunks),
		func(i int) bool {
			return thunks[i].Start > address
		})

	if idx == 0 {
		return -1
	}

	if address < thunks[idx-1].End {
		return idx - 1
	}

	return -1
}
