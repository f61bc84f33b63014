package emulator

import (
	"log"

	"github.com/ammaraskar/nand-2-fpga-tetris/asm"
	"github.com/ammaraskar/nand-2-fpga-tetris/cpu"
)

// Emulator state. CPU + RAM + the program listing it runs.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program listing.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(cpu.RAM_SIZE),
		Program: &asm.Program{},
	}

	return
}

// Reset loads the program into program memory and resets the CPU.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Load(emu.Program.Words())
	if err != nil {
		return
	}

	emu.Cpu.Reset()

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(int(emu.Cpu.Pc))
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Idle reports whether the instruction at ip starts the closing loop of a
// program, 'A := ip' followed by an unconditional jump that writes nothing.
func (emu *Emulator) Idle(ip uint16) bool {
	rom := emu.Cpu.Rom
	if int(ip)+1 >= len(rom) {
		return false
	}

	load, jump := rom[ip], rom[ip+1]
	if load != ip {
		return false
	}

	const dest = cpu.WORD_DEST_A | cpu.WORD_DEST_D | cpu.WORD_DEST_M
	const always = cpu.WORD_JUMP_LT | cpu.WORD_JUMP_EQ | cpu.WORD_JUMP_GT

	return jump&cpu.WORD_COMPUTE != 0 && jump&dest == 0 && jump&always == always
}

// Tick performs a single tick of the emulator. The program is done once
// the CPU runs past its last instruction or reaches its closing loop.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if int(emu.Cpu.Pc) >= len(emu.Cpu.Rom) {
		done = true
		return
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	if int(emu.Cpu.Pc) >= len(emu.Cpu.Rom) {
		done = true
		return
	}

	if emu.Idle(emu.Cpu.Pc) {
		if emu.Verbose {
			log.Printf("emulator: idle at %04x", emu.Cpu.Pc)
		}
		done = true
	}

	return
}

// Run ticks the emulator until the program is done or limit ticks have
// elapsed. A limit of zero or less runs without bound.
func (emu *Emulator) Run(limit int) (done bool, err error) {
	for n := 0; limit <= 0 || n < limit; n++ {
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	return
}
