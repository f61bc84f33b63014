package cpu

import (
	"errors"

	"github.com/ammaraskar/nand-2-fpga-tetris/asm"
	"github.com/ammaraskar/nand-2-fpga-tetris/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcRange      = errors.New(f("program counter outside of program"))
	ErrAddressRange = errors.New(f("memory address outside of RAM"))
	ErrProgramSize  = errors.New(f("program does not fit in program memory"))
)

// ErrOpcode is the instruction word that failed to execute.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x %v", uint16(eo), asm.Disassemble(uint16(eo)))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
