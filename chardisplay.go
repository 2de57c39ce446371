// chardisplay.go - CharDisplay and ColourCharDisplay: text-framebuffer
// mapped devices that hand a completed frame to an injected Blitter rather
// than drawing pixels themselves.
//
// Grounded on original_source/Little32/src/L32_CharDisplay.cpp and
// L32_ColourCharDisplay.cpp for the byte/word boundary arithmetic, and on
// IntuitionEngine's video_terminal.go for the Go idiom of a text-mode
// display device (embedded glyph font, cols/rows framebuffer). Actual
// pixel output is an opaque collaborator per spec.md's Non-goals: each
// display measures its glyph cell via golang.org/x/image/font/basicfont when
// it is constructed, and Render hands the character/colour planes to a
// Blitter, which is the host's job to paint.
// WriteByte against the interrupt-vector slot is a straight masked store
// rather than the original's XOR-swap idiom - the two are equivalent for
// every input, the masked form just says what it does.

package littlevm

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// displayFace is the fixed bitmap font every display device measures
// glyph cells against.
var displayFace = basicfont.Face7x13

// glyphCellSize reports the pixel footprint of one character cell in
// face, derived from its metrics rather than a hardcoded constant.
func glyphCellSize(face font.Face) (w, h int) {
	m := face.Metrics()
	adv, _ := face.GlyphAdvance('M')
	return adv.Round(), (m.Ascent + m.Descent).Round()
}

// Blitter is the host-side collaborator a monochrome display hands its
// finished frame to. cells is row-major, len(cells) == cols*rows.
type Blitter interface {
	Blit(cells []byte, cols, rows int)
}

// ColourBlitter is Blitter's counterpart for a display with a parallel
// colour plane: colours[i] packs background in the high nibble and
// foreground in the low nibble, indexing a 16-entry palette.
type ColourBlitter interface {
	BlitColour(cells, colours []byte, cols, rows int)
}

// storeByteInWord replaces the byte at the given offset (0 is the
// most-significant byte, matching ReadByte's big-endian-style indexing)
// of a word, leaving the rest unchanged.
func storeByteInWord(w word, msbOffset word, value byte) word {
	shift := (4 - 1 - msbOffset) * 8
	mask := ^(word(0xFF) << shift)
	return (w & mask) | (word(value) << shift)
}

// loadByteFromWord is storeByteInWord's read-side counterpart.
func loadByteFromWord(w word, msbOffset word) byte {
	shift := (4 - 1 - msbOffset) * 8
	return byte(w >> shift)
}

// CharDisplay maps [base, base+W*H) as a monochrome text buffer plus one
// trailing word used as an interrupt vector register.
type CharDisplay struct {
	base       word
	cols, rows int

	memory        []byte
	defaultMemory []byte
	interruptAddr word

	cellW, cellH int
}

// NewCharDisplay returns a CharDisplay of cols*rows characters mapped at
// base. defaultMemory, if non-nil, is copied in on construction and on
// every Reset; its length must be cols*rows.
func NewCharDisplay(base word, cols, rows int, defaultMemory []byte) *CharDisplay {
	w, h := glyphCellSize(displayFace)
	d := &CharDisplay{
		base:          base,
		cols:          cols,
		rows:          rows,
		memory:        make([]byte, cols*rows),
		defaultMemory: defaultMemory,
		cellW:         w,
		cellH:         h,
	}
	if defaultMemory != nil {
		copy(d.memory, defaultMemory)
	}
	return d
}

func (d *CharDisplay) size() word { return word(len(d.memory)) }

func (d *CharDisplay) GetAddress() word { return d.base }
func (d *CharDisplay) GetRange() word   { return d.size() + 4 }

// CellSize reports the glyph cell footprint, in pixels, a Blitter should
// use to lay out this display's frame.
func (d *CharDisplay) CellSize() (w, h int) { return d.cellW, d.cellH }

func (d *CharDisplay) Reset() {
	if d.defaultMemory != nil {
		copy(d.memory, d.defaultMemory)
	} else {
		for i := range d.memory {
			d.memory[i] = 0
		}
	}
	d.interruptAddr = 0
}

func (d *CharDisplay) ReadWord(addr word) word {
	off := addr - d.base
	size := d.size()
	if off > size {
		return 0
	}
	if off == size {
		return d.interruptAddr
	}
	if off%4 == 0 && size-off >= 4 {
		return word(d.memory[off]) | word(d.memory[off+1])<<8 | word(d.memory[off+2])<<16 | word(d.memory[off+3])<<24
	}
	return word(d.memory[off])
}

func (d *CharDisplay) WriteWord(addr word, value word) {
	off := addr - d.base
	size := d.size()
	if off > size {
		return
	}
	if off == size {
		d.interruptAddr = value
		return
	}
	if off%4 == 0 && size-off >= 4 {
		d.memory[off] = byte(value)
		d.memory[off+1] = byte(value >> 8)
		d.memory[off+2] = byte(value >> 16)
		d.memory[off+3] = byte(value >> 24)
		return
	}
	d.memory[off] = byte(value)
}

func (d *CharDisplay) WriteWordForced(addr word, value word) { d.WriteWord(addr, value) }

func (d *CharDisplay) ReadByte(addr word) byte {
	off := addr - d.base
	size := d.size()
	if off >= size+4 {
		return 0
	}
	if off >= size {
		return loadByteFromWord(d.interruptAddr, off-size)
	}
	return d.memory[off]
}

func (d *CharDisplay) WriteByte(addr word, value byte) {
	off := addr - d.base
	size := d.size()
	if off >= size+4 {
		return
	}
	if off >= size {
		d.interruptAddr = storeByteInWord(d.interruptAddr, off-size, value)
		return
	}
	d.memory[off] = value
}

func (d *CharDisplay) WriteByteForced(addr word, value byte) { d.WriteByte(addr, value) }

// Render hands the current text buffer to blitter and, if the interrupt
// register is non-zero and doInterrupt is set, raises it on computer's
// core after the blit.
func (d *CharDisplay) Render(computer *Computer, blitter Blitter, doInterrupt bool) {
	if len(d.memory) == 0 {
		return
	}
	if blitter != nil {
		blitter.Blit(d.memory, d.cols, d.rows)
	}
	if d.interruptAddr != 0 && doInterrupt && computer.Core != nil {
		computer.Core.Interrupt(d.interruptAddr)
	}
}

// ColourCharDisplay maps three regions in sequence: text bytes, a parallel
// colour-byte buffer (high nibble background, low nibble foreground index
// into a 16-entry palette), and a trailing interrupt vector word.
type ColourCharDisplay struct {
	base       word
	cols, rows int

	pixelArea         word
	colourPosition    word
	interruptPosition word

	textMemory    []byte
	colourMemory  []byte
	defaultText   []byte
	defaultColour []byte
	interruptAddr word

	cellW, cellH int

	computer        *Computer
	refreshInterval *Interval
}

// alignUp4 rounds n up to the next multiple of 4, matching the original's
// "(4 - n%4) % 4" padding computation.
func alignUp4(n word) word {
	rem := n % 4
	if rem == 0 {
		return n
	}
	return n + (4 - rem)
}

// NewColourCharDisplay returns a ColourCharDisplay of cols*rows characters
// mapped at base, with colour_memory defaulted to 0x0F (white on black).
// If framerateLock is non-zero, it self-schedules a cycles-per-frame
// refresh on computer, blitting through blitter; pass framerateLock 0 to
// render only on demand via Render.
func NewColourCharDisplay(computer *Computer, base word, cols, rows int, framerateLock word, blitter ColourBlitter) *ColourCharDisplay {
	pixelArea := word(cols * rows)
	colourPos := alignUp4(pixelArea)
	w, h := glyphCellSize(displayFace)
	d := &ColourCharDisplay{
		base:              base,
		cols:              cols,
		rows:              rows,
		pixelArea:         pixelArea,
		colourPosition:    colourPos,
		interruptPosition: 2 * colourPos,
		textMemory:        make([]byte, pixelArea),
		colourMemory:      make([]byte, pixelArea),
		cellW:             w,
		cellH:             h,
		computer:          computer,
	}
	for i := range d.colourMemory {
		d.colourMemory[i] = 0x0F
	}

	if framerateLock != 0 {
		d.refreshInterval = computer.AddInterval(framerateLock, func(c *Computer) {
			d.Render(blitter, true)
		}, 0)
	}
	return d
}

// CellSize reports the glyph cell footprint, in pixels, a Blitter should
// use to lay out this display's frame.
func (d *ColourCharDisplay) CellSize() (w, h int) { return d.cellW, d.cellH }

// Close cancels the self-scheduled refresh interval, if any. Callers that
// construct a ColourCharDisplay with a non-zero framerateLock must call
// this when tearing the device down, mirroring the original's destructor.
func (d *ColourCharDisplay) Close() {
	if d.refreshInterval != nil {
		d.computer.RemoveInterval(d.refreshInterval)
		d.refreshInterval = nil
	}
}

func (d *ColourCharDisplay) GetAddress() word { return d.base }
func (d *ColourCharDisplay) GetRange() word   { return d.interruptPosition + 4 }

func (d *ColourCharDisplay) Reset() {
	if d.defaultText != nil {
		copy(d.textMemory, d.defaultText)
	} else {
		for i := range d.textMemory {
			d.textMemory[i] = 0
		}
	}
	if d.defaultColour != nil {
		copy(d.colourMemory, d.defaultColour)
	} else {
		for i := range d.colourMemory {
			d.colourMemory[i] = 0x0F
		}
	}
	d.interruptAddr = 0
}

func (d *ColourCharDisplay) ReadWord(addr word) word {
	off := addr - d.base
	if off > d.GetRange() {
		return 0
	}
	if off == d.interruptPosition {
		return d.interruptAddr
	}
	if off >= d.colourPosition {
		rel := off - d.colourPosition
		if rel%4 != 0 {
			return 0
		}
		return word(d.colourMemory[rel]) | word(d.colourMemory[rel+1])<<8 | word(d.colourMemory[rel+2])<<16 | word(d.colourMemory[rel+3])<<24
	}
	if off%4 != 0 {
		return 0
	}
	return word(d.textMemory[off]) | word(d.textMemory[off+1])<<8 | word(d.textMemory[off+2])<<16 | word(d.textMemory[off+3])<<24
}

func (d *ColourCharDisplay) WriteWord(addr word, value word) {
	off := addr - d.base
	if off >= d.GetRange() {
		return
	}
	if off == d.interruptPosition {
		d.interruptAddr = value
		return
	}
	if off >= d.colourPosition {
		rel := off - d.colourPosition
		if rel%4 != 0 {
			return
		}
		d.colourMemory[rel] = byte(value)
		d.colourMemory[rel+1] = byte(value >> 8)
		d.colourMemory[rel+2] = byte(value >> 16)
		d.colourMemory[rel+3] = byte(value >> 24)
		return
	}
	if off%4 != 0 {
		return
	}
	d.textMemory[off] = byte(value)
	d.textMemory[off+1] = byte(value >> 8)
	d.textMemory[off+2] = byte(value >> 16)
	d.textMemory[off+3] = byte(value >> 24)
}

func (d *ColourCharDisplay) WriteWordForced(addr word, value word) { d.WriteWord(addr, value) }

func (d *ColourCharDisplay) ReadByte(addr word) byte {
	off := addr - d.base
	if off >= d.GetRange() {
		return 0
	}
	if off >= d.interruptPosition {
		return loadByteFromWord(d.interruptAddr, off-d.interruptPosition)
	}
	if off >= d.colourPosition {
		rel := off - d.colourPosition
		if rel >= d.pixelArea {
			return 0
		}
		return d.colourMemory[rel]
	}
	if off >= d.pixelArea {
		return 0
	}
	return d.textMemory[off]
}

func (d *ColourCharDisplay) WriteByte(addr word, value byte) {
	off := addr - d.base
	if off >= d.GetRange() {
		return
	}
	if off >= d.interruptPosition {
		d.interruptAddr = storeByteInWord(d.interruptAddr, off-d.interruptPosition, value)
		return
	}
	if off >= d.colourPosition {
		rel := off - d.colourPosition
		if rel >= d.pixelArea {
			return
		}
		d.colourMemory[rel] = value
		return
	}
	if off >= d.pixelArea {
		return
	}
	d.textMemory[off] = value
}

func (d *ColourCharDisplay) WriteByteForced(addr word, value byte) { d.WriteByte(addr, value) }

// Render hands the current text and colour planes to blitter and, if the
// interrupt register is non-zero and doInterrupt is set, raises it on the
// computer's core after the blit.
func (d *ColourCharDisplay) Render(blitter ColourBlitter, doInterrupt bool) {
	if d.pixelArea == 0 {
		return
	}
	if blitter != nil {
		blitter.BlitColour(d.textMemory, d.colourMemory, d.cols, d.rows)
	}
	if d.interruptAddr != 0 && doInterrupt && d.computer.Core != nil {
		d.computer.Core.Interrupt(d.interruptAddr)
	}
}
