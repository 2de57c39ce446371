// Command little32dbg is an interactive single-step debugger: it puts stdin
// into raw mode and maps single keystrokes onto stepping a Little32Core one
// instruction at a time, with register dumps and address breakpoints.
//
// Grounded on the teacher's terminal_host.go for the raw-mode stdin idiom
// (term.MakeRaw/term.Restore, byte-at-a-time reads translating CR/DEL), cut
// down from its non-blocking-read goroutine to a single blocking read loop -
// little32dbg has nothing else to service between keystrokes, so there is no
// second loop for a background reader to avoid starving.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/little32vm/little32"
)

var regNames = []string{
	"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7",
	"R8", "R9", "R10", "R11", "R12", "SP", "LR", "PC",
}

func main() {
	ramSize := flag.Uint("ram", 1<<20, "RAM size in bytes")
	loadAddr := flag.Uint("base", 0, "address to load the program at")
	startPC := flag.Uint("pc", 0, "initial PC")
	startSP := flag.Uint("sp", 0, "initial SP")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: little32dbg [options] program.bin\n\nSingle-steps a flat binary interactively.\n\nKeys: n=step  c=continue  b=breakpoint  r=registers  q=quit\n\nOptions:\n")
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
	computer.AddMapping(littlevm.NewRAMMapping(0, uint32(*ramSize)))

	if err := littlevm.LoadFlat(computer, uint32(*loadAddr), program); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	core := littlevm.NewLittle32Core(computer)
	computer.SetCore(core, uint32(*startPC), uint32(*startSP))
	computer.SoftReset()

	dbg := &session{computer: computer, core: core, breakpoints: map[uint32]bool{}}
	dbg.run()
}

type session struct {
	computer    *littlevm.Computer
	core        *littlevm.Little32Core
	breakpoints map[uint32]bool
}

func (s *session) run() {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Not an interactive terminal (piped input, CI); fall back to a
		// plain line-oriented prompt over bufio instead of raw keystrokes.
		s.runLineMode()
		return
	}
	defer term.Restore(fd, oldState)

	s.printStatus()
	buf := make([]byte, 1)
	for {
		fmt.Print("\r\n(n/c/b/r/q) > ")
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}
		if !s.dispatch(buf[0]) {
			return
		}
	}
}

// runLineMode is the non-tty fallback: one command per line, read with
// bufio.Scanner instead of raw single-byte reads.
func (s *session) runLineMode() {
	s.printStatus()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n(n/c/b <addr>/r/q) > ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == 'b' && len(line) > 1 {
			s.toggleBreakpointArg(line[1:])
			continue
		}
		if !s.dispatch(line[0]) {
			return
		}
	}
}

// dispatch runs one command byte. It returns false when the session should
// end.
func (s *session) dispatch(cmd byte) bool {
	switch cmd {
	case 'n':
		s.step()
		s.printStatus()
	case 'c':
		s.continueToBreakpoint()
		s.printStatus()
	case 'b':
		s.toggleBreakpoint(s.core.Registers().PC())
	case 'r':
		s.printStatus()
	case 'q':
		return false
	}
	return true
}

func (s *session) step() {
	s.computer.Clock()
}

func (s *session) continueToBreakpoint() {
	for i := 0; i < 10_000_000; i++ {
		s.computer.Clock()
		if s.breakpoints[s.core.Registers().PC()] {
			return
		}
	}
}

func (s *session) toggleBreakpoint(addr uint32) {
	if s.breakpoints[addr] {
		delete(s.breakpoints, addr)
		fmt.Printf("\r\nbreakpoint cleared at 0x%08X", addr)
		return
	}
	s.breakpoints[addr] = true
	fmt.Printf("\r\nbreakpoint set at 0x%08X", addr)
}

func (s *session) toggleBreakpointArg(arg string) {
	v, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		fmt.Printf("\nbad address %q\n", arg)
		return
	}
	s.toggleBreakpoint(uint32(v))
}

func (s *session) printStatus() {
	regs := s.core.Registers()
	fmt.Print("\r\n")
	for i, name := range regNames {
		fmt.Printf("%-3s=%08X ", name, regs[i])
		if i%4 == 3 {
			fmt.Print("\r\n")
		}
	}
}
