// registers.go - Little32 register file, status flags and condition codes.

package littlevm

// word is the VM's native 32-bit unit.
type word = uint32

// Register indices into the 16-word register file. R13/R14/R15 are aliased
// as SP/LR/PC by convention, not by a separate union (Go has no field-level
// union aliasing over an array); callers that want the alias use the
// Registers.SP()/LR()/PC() accessors below.
const (
	RegR0 = iota
	RegR1
	RegR2
	RegR3
	RegR4
	RegR5
	RegR6
	RegR7
	RegR8
	RegR9
	RegR10
	RegR11
	RegR12
	RegSP
	RegLR
	RegPC
)

// Registers is the 16-word general-purpose register file.
type Registers [16]word

func (r Registers) PC() word      { return r[RegPC] }
func (r *Registers) SetPC(v word) { r[RegPC] = v }
func (r Registers) SP() word      { return r[RegSP] }
func (r *Registers) SetSP(v word) { r[RegSP] = v }
func (r Registers) LR() word      { return r[RegLR] }
func (r *Registers) SetLR(v word) { r[RegLR] = v }

// Flags holds the four status bits. On the stack they are packed as a
// 4-bit NZCV field: N is bit 3, Z is bit 2, C is bit 1, V is bit 0.
type Flags struct {
	N, Z, C, V bool
}

const (
	flagN = 0b1000
	flagZ = 0b0100
	flagC = 0b0010
	flagV = 0b0001
)

// Pack encodes the flags into the low 4 bits of a status word, as pushed
// by Interrupt and expected by RFE.
func (f Flags) Pack() word {
	var s word
	if f.N {
		s |= flagN
	}
	if f.Z {
		s |= flagZ
	}
	if f.C {
		s |= flagC
	}
	if f.V {
		s |= flagV
	}
	return s
}

// unpackFlags restores flags from a packed status word's low 4 bits.
func unpackFlags(status word) Flags {
	return Flags{
		N: status&flagN != 0,
		Z: status&flagZ != 0,
		C: status&flagC != 0,
		V: status&flagV != 0,
	}
}

// Condition codes, tested against N,Z,C,V before an instruction executes.
const (
	condAL = 0x0 // Always
	condGT = 0x1
	condGE = 0x2
	condHI = 0x3
	condCS = 0x4 // a.k.a. HS
	condZS = 0x5 // a.k.a. EQ
	condNS = 0x6 // a.k.a. MI
	condVS = 0x7
	condVC = 0x8
	condNC = 0x9 // a.k.a. PL
	condZC = 0xA // a.k.a. NE
	condCC = 0xB // a.k.a. LO
	condLS = 0xC
	condLT = 0xD
	condLE = 0xE
	condNV = 0xF // Never
)

// evalCondition reports whether the given 4-bit condition passes against
// the current flags.
func evalCondition(cond byte, f Flags) bool {
	switch cond {
	case condAL:
		return true
	case condGT:
		return f.N == f.V && !f.Z
	case condGE:
		return f.N == f.V
	case condHI:
		return f.C && !f.Z
	case condCS:
		return f.C
	case condZS:
		return f.Z
	case condNS:
		return f.N
	case condVS:
		return f.V
	case condVC:
		return !f.V
	case condNC:
		return !f.N
	case condZC:
		return !f.Z
	case condCC:
		return !f.C
	case condLS:
		return !f.C || f.Z
	case condLT:
		return f.N != f.V
	case condLE:
		return f.N != f.V || f.Z
	default: // condNV and any other value
		return false
	}
}

// rotl rotates v left by shift bits, modulo 32. shift is expected to
// already be the decoded "shift*2" field (0..30); values outside 0..31
// are masked to the valid rotate amount.
func rotl(v word, shift word) word {
	shift &= 31
	if shift == 0 {
		return v
	}
	return (v << shift) | (v >> (32 - shift))
}
