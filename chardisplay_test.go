package littlevm

import "testing"

type fakeBlitter struct {
	cells      []byte
	cols, rows int
	calls      int
}

func (b *fakeBlitter) Blit(cells []byte, cols, rows int) {
	b.cells = append([]byte(nil), cells...)
	b.cols, b.rows = cols, rows
	b.calls++
}

type fakeColourBlitter struct {
	cells, colours []byte
	cols, rows     int
	calls          int
}

func (b *fakeColourBlitter) BlitColour(cells, colours []byte, cols, rows int) {
	b.cells = append([]byte(nil), cells...)
	b.colours = append([]byte(nil), colours...)
	b.cols, b.rows = cols, rows
	b.calls++
}

func TestCharDisplayWordBoundary(t *testing.T) {
	d := NewCharDisplay(0x2000, 4, 2, nil) // 8 bytes of text + 1 interrupt word

	d.WriteWord(0x2000, 0x44434241) // "ABCD" little-endian
	if got := d.ReadWord(0x2000); got != 0x44434241 {
		t.Errorf("ReadWord(base) = %#x, want 0x44434241", got)
	}
	if got := d.ReadByte(0x2000); got != 'A' {
		t.Errorf("ReadByte(base) = %q, want 'A'", got)
	}

	// The interrupt register sits exactly at base+size.
	d.WriteWord(0x2008, 0xABCD)
	if got := d.ReadWord(0x2008); got != 0xABCD {
		t.Errorf("interrupt register readback = %#x, want 0xABCD", got)
	}

	// Out of range entirely: silent 0 / dropped write.
	if got := d.ReadWord(0x200C); got != 0 {
		t.Errorf("out-of-range ReadWord = %#x, want 0", got)
	}
	d.WriteByte(0x200C, 0xFF) // must not panic
}

func TestCharDisplayReset(t *testing.T) {
	d := NewCharDisplay(0, 2, 2, nil)
	d.WriteWord(0, 0x11111111)
	d.WriteWord(4, 0xAA)
	d.Reset()

	if got := d.ReadWord(0); got != 0 {
		t.Errorf("text memory after Reset = %#x, want 0", got)
	}
	if got := d.ReadWord(4); got != 0 {
		t.Errorf("interrupt register after Reset = %#x, want 0", got)
	}
}

func TestCharDisplayRenderBlitsAndInterrupts(t *testing.T) {
	c, core := newTestCore()
	d := NewCharDisplay(0x3000, 3, 1, nil)
	d.WriteByte(0x3000, 'X')
	d.WriteWord(0x3003, 0x40) // interrupt vector

	blitter := &fakeBlitter{}
	d.Render(c, blitter, true)

	if blitter.calls != 1 {
		t.Fatalf("Blit called %d times, want 1", blitter.calls)
	}
	if blitter.cols != 3 || blitter.rows != 1 {
		t.Errorf("Blit dims = (%d,%d), want (3,1)", blitter.cols, blitter.rows)
	}
	if blitter.cells[0] != 'X' {
		t.Errorf("blitted cells[0] = %q, want 'X'", blitter.cells[0])
	}
	if got := core.Registers().PC(); got != 0x40 {
		t.Errorf("PC after Render with nonzero interrupt vector = %#x, want 0x40", got)
	}
}

func TestCharDisplayRenderSkipsInterruptWhenRequested(t *testing.T) {
	c, core := newTestCore()
	core.SetPC(0x10)
	d := NewCharDisplay(0x3000, 3, 1, nil)
	d.WriteWord(0x3003, 0x40)

	d.Render(c, &fakeBlitter{}, false)

	if got := core.Registers().PC(); got != 0x10 {
		t.Errorf("PC changed despite doInterrupt=false: %#x", got)
	}
}

func TestColourCharDisplayRegionLayout(t *testing.T) {
	c, _ := newTestCore()
	d := NewColourCharDisplay(c, 0x5000, 3, 2, 0, nil) // pixelArea=6, colourPosition=8, interruptPosition=16

	d.WriteByte(0x5000, 'Z')
	if got := d.ReadByte(0x5000); got != 'Z' {
		t.Errorf("text byte readback = %q, want 'Z'", got)
	}

	// Colour plane starts at colourPosition (8), defaulted to 0x0F.
	if got := d.ReadByte(0x5008); got != 0x0F {
		t.Errorf("default colour byte = %#x, want 0x0F", got)
	}
	d.WriteByte(0x5008, 0x1C)
	if got := d.ReadByte(0x5008); got != 0x1C {
		t.Errorf("colour byte after write = %#x, want 0x1C", got)
	}

	// Interrupt word at interruptPosition (16).
	d.WriteWord(0x5010, 0x77)
	if got := d.ReadWord(0x5010); got != 0x77 {
		t.Errorf("interrupt word readback = %#x, want 0x77", got)
	}

	if got := d.GetRange(); got != 20 {
		t.Errorf("GetRange() = %d, want 20 (interruptPosition 16 + 4)", got)
	}
}

func TestColourCharDisplayMisalignedWordWriteDropped(t *testing.T) {
	c, _ := newTestCore()
	d := NewColourCharDisplay(c, 0, 4, 4, 0, nil) // pixelArea=16, colourPosition=16

	before := d.ReadByte(17)
	d.WriteWord(17, 0xFFFFFFFF) // misaligned relative to colourPosition
	if got := d.ReadByte(17); got != before {
		t.Errorf("misaligned colour-region word write was not silently dropped: before=%#x after=%#x", before, got)
	}
}

func TestColourCharDisplayRenderBlitsBothPlanes(t *testing.T) {
	c, _ := newTestCore()
	blitter := &fakeColourBlitter{}
	d := NewColourCharDisplay(c, 0x6000, 2, 1, 0, blitter) // pixelArea=2, colourPosition=alignUp4(2)=4
	d.WriteByte(0x6000, 'Q')
	d.WriteByte(0x6004, 0x1F) // first colour byte

	d.Render(blitter, false)
	if blitter.calls != 1 {
		t.Fatalf("BlitColour called %d times, want 1", blitter.calls)
	}
	if blitter.cols != 2 || blitter.rows != 1 {
		t.Errorf("BlitColour dims = (%d,%d), want (2,1)", blitter.cols, blitter.rows)
	}
	if blitter.cells[0] != 'Q' {
		t.Errorf("blitted text[0] = %q, want 'Q'", blitter.cells[0])
	}
	if blitter.colours[0] != 0x1F {
		t.Errorf("blitted colours[0] = %#x, want 0x1F", blitter.colours[0])
	}
}

func TestColourCharDisplayAutoRefreshInterval(t *testing.T) {
	c, _ := newTestCore()
	blitter := &fakeColourBlitter{}
	d := NewColourCharDisplay(c, 0x7000, 2, 2, 4, blitter)
	defer d.Close()

	c.ClockN(5) // interval keyed at curCycle+4; curCycle reaches 4 on the 5th Clock
	if blitter.calls != 1 {
		t.Fatalf("auto-refresh fired %d times over 5 cycles at length 4, want 1", blitter.calls)
	}
}

func TestGlyphCellSizePositive(t *testing.T) {
	w, h := glyphCellSize(displayFace)
	if w <= 0 || h <= 0 {
		t.Errorf("glyphCellSize = (%d,%d), want both positive", w, h)
	}
}
