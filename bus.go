// bus.go - Memory bus: address-range dispatch across RAM mappings and
// memory-mapped devices.

package littlevm

import "encoding/binary"

// PassiveDevice is the minimal contract every device on a Computer
// satisfies: it can be put back to its power-on state.
type PassiveDevice interface {
	Reset()
}

// MappedDevice additionally occupies a contiguous byte range on the bus
// and serves word/byte reads and writes within it. Forced variants bypass
// any write filtering the device applies to ordinary writes (used by the
// program loader to program ROM-like regions).
type MappedDevice interface {
	PassiveDevice

	GetAddress() word
	GetRange() word // size in bytes

	ReadWord(addr word) word
	WriteWord(addr word, value word)
	ReadByte(addr word) byte
	WriteByte(addr word, value byte)

	WriteWordForced(addr word, value word)
	WriteByteForced(addr word, value byte)
}

// Mapping is a plain RAM region: the same contract as MappedDevice, minus
// any device identity. A RAMMapping below is the one concrete
// implementation the core ships.
type Mapping = MappedDevice

// RAMMapping is a contiguous, byte-addressable block of ordinary memory.
// Both ordinary and Forced writes behave identically here - RAM has no
// write protection to bypass - but the distinct methods are still
// implemented so RAMMapping satisfies Mapping.
type RAMMapping struct {
	base word
	data []byte
}

// NewRAMMapping allocates a RAM region of the given size, in bytes,
// starting at base.
func NewRAMMapping(base, size word) *RAMMapping {
	return &RAMMapping{base: base, data: make([]byte, size)}
}

func (m *RAMMapping) GetAddress() word { return m.base }
func (m *RAMMapping) GetRange() word   { return word(len(m.data)) }

func (m *RAMMapping) Reset() {
	for i := range m.data {
		m.data[i] = 0
	}
}

func (m *RAMMapping) ReadWord(addr word) word {
	off := addr - m.base
	if off+4 > word(len(m.data)) {
		return 0
	}
	return binary.LittleEndian.Uint32(m.data[off : off+4])
}

func (m *RAMMapping) WriteWord(addr word, value word) { m.WriteWordForced(addr, value) }

func (m *RAMMapping) WriteWordForced(addr word, value word) {
	off := addr - m.base
	if off+4 > word(len(m.data)) {
		return
	}
	binary.LittleEndian.PutUint32(m.data[off:off+4], value)
}

func (m *RAMMapping) ReadByte(addr word) byte {
	off := addr - m.base
	if off >= word(len(m.data)) {
		return 0
	}
	return m.data[off]
}

func (m *RAMMapping) WriteByte(addr word, value byte) { m.WriteByteForced(addr, value) }

func (m *RAMMapping) WriteByteForced(addr word, value byte) {
	off := addr - m.base
	if off >= word(len(m.data)) {
		return
	}
	m.data[off] = value
}

// contains reports whether addr falls within a region of the given range
// starting at base.
func contains(base, size, addr word) bool {
	return addr >= base && addr < base+size
}

// findRegion performs the linear scan spec.md requires: mappings first,
// then mapped devices, first match wins. Device address ranges are
// assumed not to overlap, so this never needs to disambiguate.
func (c *Computer) findRegion(addr word) MappedDevice {
	for _, m := range c.mappings {
		if contains(m.GetAddress(), m.GetRange(), addr) {
			return m
		}
	}
	for _, d := range c.devices {
		if contains(d.GetAddress(), d.GetRange(), addr) {
			return d
		}
	}
	return nil
}

// Read reads a 32-bit word. Addresses in no registered region read as 0.
func (c *Computer) Read(addr word) word {
	if r := c.findRegion(addr); r != nil {
		return r.ReadWord(addr)
	}
	return 0
}

// ReadByte reads a single byte. Addresses in no registered region read as 0.
func (c *Computer) ReadByte(addr word) byte {
	if r := c.findRegion(addr); r != nil {
		return r.ReadByte(addr)
	}
	return 0
}

// Write writes a 32-bit word. Addresses in no registered region are
// silently dropped.
func (c *Computer) Write(addr word, value word) {
	if r := c.findRegion(addr); r != nil {
		r.WriteWord(addr, value)
	}
}

// WriteByte writes a single byte. Addresses in no registered region are
// silently dropped.
func (c *Computer) WriteByte(addr word, value byte) {
	if r := c.findRegion(addr); r != nil {
		r.WriteByte(addr, value)
	}
}

// WriteForced writes a 32-bit word bypassing any device-side write
// filtering - used by the program loader to populate address space
// regardless of normal write rules.
func (c *Computer) WriteForced(addr word, value word) {
	if r := c.findRegion(addr); r != nil {
		r.WriteWordForced(addr, value)
	}
}

// WriteByteForced writes a single byte bypassing any device-side write
// filtering.
func (c *Computer) WriteByteForced(addr word, value byte) {
	if r := c.findRegion(addr); r != nil {
		r.WriteByteForced(addr, value)
	}
}
