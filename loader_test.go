package littlevm

import "testing"

func TestLoadFlatWritesProgramBytes(t *testing.T) {
	c := NewComputer()
	c.AddMapping(NewRAMMapping(0, 64))

	program := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	if err := LoadFlat(c, 0x10, program); err != nil {
		t.Fatalf("LoadFlat returned error: %v", err)
	}

	for i, b := range program {
		if got := c.ReadByte(word(0x10 + i)); got != b {
			t.Errorf("byte at 0x10+%d = %#x, want %#x", i, got, b)
		}
	}
}

func TestLoadFlatEmptyProgram(t *testing.T) {
	c := NewComputer()
	c.AddMapping(NewRAMMapping(0, 16))
	if err := LoadFlat(c, 0, nil); err != nil {
		t.Errorf("LoadFlat(nil) returned error: %v", err)
	}
}

func TestLoadFlatOverflowRejected(t *testing.T) {
	c := NewComputer()
	c.AddMapping(NewRAMMapping(0, 16))

	program := make([]byte, 8)
	err := LoadFlat(c, 0xFFFFFFFC, program)
	if err == nil {
		t.Fatal("expected an error for a program overflowing the 32-bit address space, got nil")
	}
}
