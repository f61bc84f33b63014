package cpu

import (
	"errors"
	"fmt"
	"log"

	"github.com/ammaraskar/nand-2-fpga-tetris/alu"
	"github.com/ammaraskar/nand-2-fpga-tetris/asm"
)

// Memory sizes, in 16-bit words.
const (
	RAM_SIZE = 16 * 1024 // Data memory.
	ROM_SIZE = 32 * 1024 // Program memory, the reach of a 15-bit address.
)

// Instruction word fields.
const (
	WORD_COMPUTE = uint16(1 << 15)       // Compute instruction when set.
	WORD_MEMORY  = uint16(1 << 12)       // Y input is RAM[A].
	WORD_DEST_A  = uint16(0b100 << 3)    // Store into A.
	WORD_DEST_D  = uint16(0b010 << 3)    // Store into D.
	WORD_DEST_M  = uint16(0b001 << 3)    // Store into RAM[A].
	WORD_JUMP_LT = uint16(0b100)         // Jump on negative.
	WORD_JUMP_EQ = uint16(0b010)         // Jump on zero.
	WORD_JUMP_GT = uint16(0b001)         // Jump on positive.
	WORD_ADDRESS = uint16(0x7fff)        // Address instruction immediate.
	WORD_CONTROL = uint16(0b111111 << 6) // ALU control vector.
)

// Cpu is the simulation context of the processor and its memories.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	A  uint16 // Address register.
	D  uint16 // Data register.
	Pc uint16 // Program counter.

	Ram []uint16 // Data memory.
	Rom []uint16 // Program memory.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU with ramSize words of data memory.
func NewCpu(ramSize int) (cpu *Cpu) {
	cpu = &Cpu{
		Ram: make([]uint16, ramSize),
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return fmt.Sprintf("pc:%04X a:%04X d:%04X ticks:%d", cpu.Pc, cpu.A, cpu.D, cpu.Ticks)
}

// Load replaces the program memory.
func (cpu *Cpu) Load(words []uint16) (err error) {
	if len(words) > ROM_SIZE {
		err = ErrProgramSize
		return
	}

	cpu.Rom = append(cpu.Rom[:0], words...)

	return
}

// Reset clears the registers and the tick counter. RAM is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.A = 0
	cpu.D = 0
	cpu.Pc = 0
	cpu.Ticks = 0
}

// Peek reads a RAM word.
func (cpu *Cpu) Peek(addr uint16) (value uint16, err error) {
	if int(addr) >= len(cpu.Ram) {
		err = fmt.Errorf("%w: 0x%04x", ErrAddressRange, addr)
		return
	}

	value = cpu.Ram[addr]
	return
}

// Poke writes a RAM word.
func (cpu *Cpu) Poke(addr uint16, value uint16) (err error) {
	if int(addr) >= len(cpu.Ram) {
		err = fmt.Errorf("%w: 0x%04x", ErrAddressRange, addr)
		return
	}

	cpu.Ram[addr] = value
	return
}

// Fetch returns the instruction word at the program counter.
func (cpu *Cpu) Fetch() (word uint16, err error) {
	if int(cpu.Pc) >= len(cpu.Rom) {
		err = fmt.Errorf("%w: 0x%04x", ErrPcRange, cpu.Pc)
		return
	}

	word = cpu.Rom[cpu.Pc]
	return
}

// Tick fetches and executes a single instruction.
func (cpu *Cpu) Tick() (err error) {
	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(word)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Jump reports whether the jump field of a compute word is taken for an ALU
// status.
func Jump(word uint16, status alu.Status) bool {
	positive := !status.Negative && !status.Zero

	return (word&WORD_JUMP_LT != 0 && status.Negative) ||
		(word&WORD_JUMP_EQ != 0 && status.Zero) ||
		(word&WORD_JUMP_GT != 0 && positive)
}

// Execute runs an instruction word. On error the CPU state is unchanged.
func (cpu *Cpu) Execute(word uint16) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(word), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Pc, asm.Disassemble(word))
	}

	if word&WORD_COMPUTE == 0 {
		cpu.A = word & WORD_ADDRESS
		cpu.Pc++
		return
	}

	y := cpu.A
	if word&WORD_MEMORY != 0 {
		y, err = cpu.Peek(cpu.A)
		if err != nil {
			return
		}
	}

	ctl := alu.FromBits(uint8((word & WORD_CONTROL) >> 6))
	out, status := ctl.Compute(cpu.D, y)

	if word&WORD_DEST_M != 0 {
		err = cpu.Poke(cpu.A, out)
		if err != nil {
			return
		}
	}

	next := cpu.Pc + 1
	if Jump(word, status) {
		next = cpu.A
	}

	if word&WORD_DEST_A != 0 {
		cpu.A = out
	}
	if word&WORD_DEST_D != 0 {
		cpu.D = out
	}
	cpu.Pc = next

	if cpu.Verbose {
		log.Printf("cpu: %v out:%04X", cpu, out)
	}

	return
}
