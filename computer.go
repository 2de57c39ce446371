// computer.go - Computer: owns the core, every device and mapping, and the
// interval scheduler; orchestrates Clock().
//
// Grounded on original_source/Little32/include/L32_Computer.h. Ownership is
// by index/slice rather than the original's raw device pointers, which
// sidesteps the cyclic-ownership problem spec.md §9 calls out: a device
// that needs to call back into the Computer (to raise an interrupt, say)
// holds a *Computer directly rather than a back-reference the Computer
// would also need to own.

package littlevm

// Core is the contract a CPU implementation satisfies to run inside a
// Computer. Little32Core and DebugCore both implement it.
type Core interface {
	Clock()
	Interrupt(vector word)
	Reset()
	SetPC(value word)
	SetSP(value word)
}

// Computer wires a Core to a memory bus (mappings + mapped devices) and a
// cycle scheduler, and drives all three forward in lockstep.
type Computer struct {
	Core Core

	mappings []Mapping
	devices  []MappedDevice

	sched *scheduler

	curCycle uint64

	startPC word
	startSP word
}

// NewComputer returns an empty, unclocked Computer. Core, mappings and
// devices are attached afterwards via SetCore/AddMapping/AddMappedDevice,
// since most of them need a *Computer to construct themselves against.
func NewComputer() *Computer {
	return &Computer{sched: newScheduler()}
}

// SetCore attaches the CPU core driven by Clock. startPC/startSP record
// the reset vector used by SoftReset.
func (c *Computer) SetCore(core Core, startPC, startSP word) {
	c.Core = core
	c.startPC = startPC
	c.startSP = startSP
}

// AddMapping registers a plain RAM region on the bus.
func (c *Computer) AddMapping(m Mapping) {
	c.mappings = append(c.mappings, m)
}

// AddMappedDevice registers a memory-mapped device on the bus.
func (c *Computer) AddMappedDevice(d MappedDevice) {
	c.devices = append(c.devices, d)
}

// CurCycle reports the number of ticks this Computer has executed.
func (c *Computer) CurCycle() uint64 { return c.curCycle }

// Clock advances the Computer one tick: intervals due this cycle fire,
// then the core executes one instruction, then curCycle advances. No
// instruction may block, and callbacks run to completion - this is a
// single-threaded, cooperative scheduling model with no preemption.
func (c *Computer) Clock() {
	c.CheckIntervals()
	if c.Core != nil {
		c.Core.Clock()
	}
	c.curCycle++
}

// ClockN runs Clock n times in sequence.
func (c *Computer) ClockN(n int) {
	for i := 0; i < n; i++ {
		c.Clock()
	}
}

// SoftReset puts the core back to where it started executing, without
// resetting memory, devices or the scheduler.
func (c *Computer) SoftReset() {
	if c.Core != nil {
		c.Core.Reset()
		c.Core.SetPC(c.startPC)
		c.Core.SetSP(c.startSP)
	}
}

// HardReset resets the computer as if it were power cycled: every
// mapping and device is reset, then the core is soft-reset.
func (c *Computer) HardReset() {
	for _, m := range c.mappings {
		m.Reset()
	}
	for _, d := range c.devices {
		d.Reset()
	}
	c.SoftReset()
}
