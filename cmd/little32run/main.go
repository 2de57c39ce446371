// Command little32run loads a flat binary and clocks it headlessly for a
// fixed number of cycles.
//
// Grounded on the teacher's cmd/ie32to64 convention: a flag.FlagSet-driven
// single-purpose CLI with a custom Usage string.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/little32vm/little32"
)

func main() {
	ramSize := flag.Uint("ram", 1<<20, "RAM size in bytes")
	loadAddr := flag.Uint("base", 0, "address to load the program at")
	startPC := flag.Uint("pc", 0, "initial PC")
	startSP := flag.Uint("sp", 0, "initial SP")
	cycles := flag.Uint64("cycles", 1_000_000, "number of cycles to run")
	dump := flag.String("dump-regs", "", "if set, write final register state to this path")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: little32run [options] program.bin\n\nLoads a flat binary into RAM and runs it headlessly.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	computer := littlevm.NewComputer()
	ram := littlevm.NewRAMMapping(0, uint32(*ramSize))
	computer.AddMapping(ram)

	if err := littlevm.LoadFlat(computer, uint32(*loadAddr), program); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	core := littlevm.NewLittle32Core(computer)
	computer.SetCore(core, uint32(*startPC), uint32(*startSP))
	computer.SoftReset()

	computer.ClockN(int(*cycles))

	if *dump != "" {
		if err := dumpRegisters(*dump, core); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func dumpRegisters(path string, core *littlevm.Little32Core) error {
	regs := core.Registers()
	var out []byte
	for i, name := range []string{
		"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7",
		"R8", "R9", "R10", "R11", "R12", "SP", "LR", "PC",
	} {
		out = append(out, fmt.Sprintf("%-3s = 0x%08X\n", name, regs[i])...)
	}
	return os.WriteFile(path, out, 0644)
}
