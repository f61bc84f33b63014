package asm

import (
	"io"
	"log"
)

// Assembler runs the assembly pipeline: parse, validate, then the three label
// resolution passes. A run either produces a complete program or stops at the
// first error.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.
}

// Parse reads the whole input and assembles it.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	source, err := io.ReadAll(input)
	if err != nil {
		return
	}

	return asm.Assemble(string(source))
}

// Assemble assembles source text.
func (asm *Assembler) Assemble(source string) (prog *Program, err error) {
	items, err := Parse(source)
	if err != nil {
		return
	}

	if asm.Verbose {
		for _, item := range items {
			log.Printf("%v: %v\n", item.LineNo, item.Node)
		}
	}

	err = Validate(items)
	if err != nil {
		return
	}

	symbols := Index(items)
	opcodes := Emit(items, symbols)

	if asm.Verbose {
		for _, op := range opcodes {
			if len(op.LinkLabel) != 0 {
				log.Printf("%v: placeholder for '%v' at %d", op.LineNo, op.LinkLabel, op.Ip)
			}
		}
	}

	prog = &Program{
		Opcodes: Link(opcodes, symbols),
		Symbols: symbols,
	}

	return
}

// Assemble assembles source text into its binary words.
func Assemble(source string) (bins []string, err error) {
	asm := &Assembler{}
	prog, err := asm.Assemble(source)
	if err != nil {
		return
	}

	return prog.Binary(), nil
}
