package littlevm

import (
	"math"
	"testing"
)

func floatBits(f float32) word { return math.Float32bits(f) }

func TestFPUAdd(t *testing.T) {
	_, core := newTestCore()
	core.SetReg(RegR2, floatBits(1.5))
	core.SetReg(RegR3, floatBits(2.25))

	d := decoded{raw: word(fpuADDF) << 20, reg1: RegR1, reg2: RegR2, reg3: RegR3, inv: 1}
	core.execFloat(d)

	got := math.Float32frombits(core.Reg(RegR1))
	if got != 3.75 {
		t.Errorf("ADDF 1.5+2.25 = %v, want 3.75", got)
	}
}

func TestFPUDivByInversion(t *testing.T) {
	_, core := newTestCore()
	core.SetReg(RegR2, floatBits(10))
	core.SetReg(RegR3, floatBits(4))

	d := decoded{raw: word(fpuDIVF) << 20, reg1: RegR1, reg2: RegR2, reg3: RegR3, inv: -1}
	core.execFloat(d)

	got := math.Float32frombits(core.Reg(RegR1))
	if got != -2.5 {
		t.Errorf("DIVF 10/4 negated = %v, want -2.5", got)
	}
}

// TestFPUFTOIStoresIntDirectly confirms FTOI writes the converted integer
// value into reg1 as a plain word, not as float32 bits of that integer.
func TestFPUFTOIStoresIntDirectly(t *testing.T) {
	_, core := newTestCore()
	core.SetReg(RegR2, floatBits(42.9))

	d := decoded{raw: word(fpuFTOI) << 20, reg1: RegR1, reg2: RegR2, inv: 1}
	core.execFloat(d)

	if got := core.Reg(RegR1); got != 42 {
		t.Errorf("FTOI(42.9) = %d, want 42 (truncated, stored as plain int)", int32(got))
	}
}

func TestFPUITOF(t *testing.T) {
	_, core := newTestCore()
	core.SetReg(RegR2, word(7))

	d := decoded{raw: word(fpuITOF) << 20, reg1: RegR1, reg2: RegR2, inv: 1}
	core.execFloat(d)

	got := math.Float32frombits(core.Reg(RegR1))
	if got != 7.0 {
		t.Errorf("ITOF(7) = %v, want 7.0", got)
	}
}

func TestFPUCMPF(t *testing.T) {
	_, core := newTestCore()
	core.SetReg(RegR1, floatBits(5))
	core.SetReg(RegR2, floatBits(5))

	d := decoded{raw: word(fpuCMPF) << 20, reg1: RegR1, reg2: RegR2, inv: 1}
	core.execFloat(d)

	if !core.Flags().Z {
		t.Errorf("CMPF(5,5): Z = false, want true")
	}
	if core.Flags().C {
		t.Errorf("CMPF never sets C: got true")
	}
}

func TestFPUCMPFILess(t *testing.T) {
	_, core := newTestCore()
	core.SetReg(RegR1, floatBits(1))
	core.SetReg(RegR2, word(5)) // plain int 5, not float bits

	d := decoded{raw: word(fpuCMPFI) << 20, reg1: RegR1, reg2: RegR2, inv: 1}
	core.execFloat(d)

	if !core.Flags().N {
		t.Errorf("CMPFI(1, 5): N = false, want true (1-5 < 0)")
	}
}
