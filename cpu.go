// cpu.go - Little32Core: fetch/decode/execute for the Little32 instruction
// set. Grounded on cpu_ie32.go for the CPU-struct-holds-a-bus shape, and on
// original_source/Little32/src/L32_L32Core.cpp for bit-exact instruction
// semantics (spec.md's prose summarizes this; the original is authoritative
// wherever the prose is ambiguous).

package littlevm

// Instruction field masks, matching original_source's
// L32_L32Core.h layout: [31:28] cond, [27] N, [26] arithmetic,
// [25] branch, [24] extended, [23] float.
const (
	maskCond      word = 0xF0000000
	maskNegative  word = 0x08000000
	maskImmediate word = 0x00100000
	maskReg1      word = 0x000F0000
	maskReg2      word = 0x0000F000
	maskReg3      word = 0x00000F00
	maskImm12     word = 0x0000FFF0
	maskImm8      word = 0x00000FF0
	maskShift     word = 0x0000000F

	maskFloat    word = 0x00800000
	maskFloatOp  word = 0x00700000
	maskArith    word = 0x04000000
	maskOpcode   word = 0x03C00000
	maskStatus   word = 0x00200000
	maskBranch   word = 0x02000000
	maskLink     word = 0x01000000
	maskOffset   word = 0x00FFFFFF
	maskExt      word = 0x01000000
	maskExtOp    word = 0x00F00000
	maskRegList  word = 0x0000FFFF
)

// Little32Core implements Core by decoding and executing the Little32
// instruction set against a Computer's bus.
type Little32Core struct {
	computer *Computer

	registers Registers
	flags     Flags
}

// NewLittle32Core returns a core wired to computer's bus. The caller
// attaches it to the computer with Computer.SetCore.
func NewLittle32Core(computer *Computer) *Little32Core {
	return &Little32Core{computer: computer}
}

func (cpu *Little32Core) Registers() Registers { return cpu.registers }
func (cpu *Little32Core) Flags() Flags         { return cpu.flags }

func (cpu *Little32Core) Reg(i int) word     { return cpu.registers[i] }
func (cpu *Little32Core) SetReg(i int, v word) { cpu.registers[i] = v }

func (cpu *Little32Core) SetPC(v word) { cpu.registers.SetPC(v) }
func (cpu *Little32Core) SetSP(v word) { cpu.registers.SetSP(v) }

// Reset clears every register and flag. It does not touch memory.
func (cpu *Little32Core) Reset() {
	cpu.registers = Registers{}
	cpu.flags = Flags{}
}

// decoded holds the fields common to every instruction class, extracted
// once per Clock so each class's executor works from plain values instead
// of re-masking the raw word.
type decoded struct {
	raw word

	negative  bool
	immediate bool
	setStatus bool
	shift     word // already *2, i.e. 0..30

	imm8  word // rotated
	imm12 word // rotated

	reg1, reg2, reg3 int // register indices

	inv int32 // +1 or -1
	neg word  // 0 or ^0
}

func decode(instr word) decoded {
	shift := (instr & maskShift) * 2
	negative := instr&maskNegative != 0

	d := decoded{
		raw:       instr,
		negative:  negative,
		immediate: instr&maskImmediate != 0,
		setStatus: instr&maskStatus != 0,
		shift:     shift,
		imm8:      rotl((instr&maskImm8)>>4, shift),
		imm12:     rotl((instr&maskImm12)>>4, shift),
		reg1:      int((instr & maskReg1) >> 16),
		reg2:      int((instr & maskReg2) >> 12),
		reg3:      int((instr & maskReg3) >> 8),
	}
	if negative {
		d.inv = -1
		d.neg = ^word(0)
	} else {
		d.inv = 1
		d.neg = 0
	}
	return d
}

// Clock fetches, decodes and executes exactly one instruction.
//
// PC bookkeeping follows the original exactly: a failed condition leaves PC
// advanced past the instruction. A passing condition decodes and executes
// against the instruction's OWN address (not PC+4) - this matters because
// branch offsets and BL's link address are both relative to the branch
// instruction itself, not the following one. Every class except branch
// re-advances PC by 4 once it's done; branch sets PC itself and must not be
// advanced again.
func (cpu *Little32Core) Clock() {
	bus := cpu.computer
	pc := cpu.registers.PC()
	instr := bus.Read(pc)

	cond := byte((instr & maskCond) >> 28)

	if !evalCondition(cond, cpu.flags) {
		cpu.registers.SetPC(pc + 4)
		return
	}

	d := decode(instr)

	switch {
	case instr&maskArith != 0:
		cpu.execArith(d)
		cpu.registers.SetPC(pc + 4)
	case instr&maskBranch != 0:
		cpu.execBranch(d, pc)
	case instr&maskExt != 0:
		cpu.execExtended(d)
		cpu.registers.SetPC(pc + 4)
	case instr&maskFloat != 0:
		cpu.execFloat(d)
		cpu.registers.SetPC(pc + 4)
	default:
		// Unknown/reserved encoding: NOP.
		cpu.registers.SetPC(pc + 4)
	}
}

// push writes val at *ptr-4 and updates *ptr, mirroring the original's
// Push(word& ptr, word val).
func (cpu *Little32Core) push(ptr *word, val word) {
	*ptr -= 4
	cpu.computer.Write(*ptr, val)
}

// pop reads the word at *ptr and advances *ptr by 4, mirroring the
// original's Pop(word& ptr).
func (cpu *Little32Core) pop(ptr *word) word {
	v := cpu.computer.Read(*ptr)
	*ptr += 4
	return v
}

// Interrupt pushes the saved PC and packed NZCV status, then jumps to
// vector with flags cleared. The matching RFE (see cpu_branch.go) reverses
// this.
func (cpu *Little32Core) Interrupt(vector word) {
	sp := cpu.registers.SP()
	status := cpu.flags.Pack()
	cpu.push(&sp, status)
	cpu.push(&sp, cpu.registers.PC())
	cpu.registers.SetSP(sp)
	cpu.registers.SetPC(vector)
	cpu.flags = Flags{}
}
