// loader.go - flat program loader.
//
// Grounded on original_source's WriteForced/WriteByteForced usage pattern
// for populating address space ahead of first Clock, bypassing whatever
// write filtering a device at that range would otherwise apply to an
// ordinary Write.

package littlevm

import "fmt"

// LoadFlat copies program into computer's address space starting at base,
// one byte at a time via WriteByteForced, so that no device's write
// filtering interferes with program loading. It does not validate that
// base..base+len(program) is backed by a mapping; bytes landing outside
// any registered region are silently dropped by WriteByteForced, same as
// every other bus write.
func LoadFlat(computer *Computer, base uint32, program []byte) error {
	if len(program) == 0 {
		return nil
	}
	if uint64(base)+uint64(len(program)) > 1<<32 {
		return fmt.Errorf("loadflat: program of %d bytes at base 0x%08X overflows the 32-bit address space", len(program), base)
	}
	for i, b := range program {
		computer.WriteByteForced(base+word(i), b)
	}
	return nil
}
