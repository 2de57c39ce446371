// cpu_branch.go - Branch class: B, BL, RET, RFE.
//
// Grounded on original_source/Little32/src/L32_L32Core.cpp's branch_bit
// arm. The offset and BL's link address are both computed relative to the
// branch instruction's OWN address (the pc argument), not the following
// instruction - see the note on Clock in cpu.go.

package littlevm

// execBranch handles B/BL/RET/RFE. pc is the address of the branch
// instruction itself, as fetched by Clock before PC advanced past it.
func (cpu *Little32Core) execBranch(d decoded, pc word) {
	offset := (d.raw & maskOffset) * 4 * word(d.inv)
	linkBack := d.raw&maskLink != 0

	if offset == 0 && d.negative {
		if linkBack {
			// RET: return to the caller saved in LR.
			cpu.registers.SetPC(cpu.registers.LR())
			return
		}
		// RFE: pop PC then the packed status, restoring NZCV.
		sp := cpu.registers.SP()
		newPC := cpu.pop(&sp)
		status := cpu.pop(&sp)
		cpu.registers.SetSP(sp)
		cpu.registers.SetPC(newPC)
		cpu.flags = unpackFlags(status)
		return
	}

	if linkBack {
		cpu.registers.SetLR(pc + 4) // BL: LR is the return address.
	}
	cpu.registers.SetPC(pc + offset)
}
