// debugcore.go - DebugCore: a fixture Core that writes a fixed gradient and
// banner pattern to memory every tick instead of decoding instructions.
// Used to exercise display devices and the bus without assembling a real
// program.
//
// Grounded on original_source/Little32/src/L32_DebugCore.cpp.

package littlevm

const debugBanner = "" +
	"...\xc9\xcd\xcd\xcd\xcd\xcd\xcd\xcd\xcd\xbb..." +
	"...\xba        \xba..." +
	"...\xba Hello, \xba..." +
	"...\xba World! \xba..." +
	"...\xba        \xba..." +
	"...\xc8\xcd\xcd\xcd\xcd\xcd\xcd\xcd\xcd\xbc..."

var debugGradient = []byte{' ', ' ', ' ', 0xb0, 0xb0, 0xb0, 0xb1, 0xb1, 0xb1, 0xb1, 0xb2, 0xb2, 0xb2, 0xdb, 0xdb, 0xdb}

// DebugCore implements Core without decoding any instruction stream: each
// Clock redraws a 16-row gradient and a "Hello, World!" banner at the
// address stored in the memory word at byte address 28 (word offset 7
// from address 0), which lets a
// display device's Render path be exercised independent of cpu.go.
type DebugCore struct {
	computer  *Computer
	registers Registers
	flags     Flags
}

// NewDebugCore returns a DebugCore wired to computer's bus.
func NewDebugCore(computer *Computer) *DebugCore {
	return &DebugCore{computer: computer}
}

func (cpu *DebugCore) Registers() Registers { return cpu.registers }
func (cpu *DebugCore) Reg(i int) word       { return cpu.registers[i] }
func (cpu *DebugCore) SetReg(i int, v word) { cpu.registers[i] = v }

func (cpu *DebugCore) Clock() {
	addr := cpu.computer.Read(7 * 4)

	for y := word(0); y < 16; y++ {
		w := word(debugGradient[y])
		w |= w << 8
		w |= w << 16
		cpu.computer.Write(addr+y*16, w)
		cpu.computer.Write(addr+y*16+4, w)
		cpu.computer.Write(addr+y*16+8, w)
		cpu.computer.Write(addr+y*16+12, w)
	}

	for i := 0; i < len(debugBanner); i++ {
		if debugBanner[i] != '.' {
			cpu.computer.WriteByte(addr+word(i)+16*4, debugBanner[i])
		}
	}
}

func (cpu *DebugCore) Reset() {
	cpu.registers = Registers{}
	cpu.flags = Flags{}
}

// Interrupt mirrors Little32Core.Interrupt: push status, push PC, clear
// flags, jump to vector.
func (cpu *DebugCore) Interrupt(vector word) {
	sp := cpu.registers.SP()
	status := cpu.flags.Pack()
	sp -= 4
	cpu.computer.Write(sp, status)
	sp -= 4
	cpu.computer.Write(sp, cpu.registers.PC())
	cpu.registers.SetSP(sp)
	cpu.registers.SetPC(vector)
	cpu.flags = Flags{}
}

func (cpu *DebugCore) SetPC(v word) { cpu.registers.SetPC(v) }
func (cpu *DebugCore) SetSP(v word) { cpu.registers.SetSP(v) }
