package asm

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"slices"
)

// Program is an assembled program.
type Program struct {
	Opcodes []Opcode
	Symbols Symbols
}

// Binary returns the program as 16-character strings of '0' and '1', one per
// instruction, in program order.
func (prog *Program) Binary() (bins []string) {
	for _, op := range prog.Opcodes {
		bins = append(bins, fmt.Sprintf("%016b", op.Word))
	}

	return
}

// Words returns the machine words of the program.
func (prog *Program) Words() (words []uint16) {
	for _, word := range prog.Codes() {
		words = append(words, word)
	}

	return
}

// Codes iterates over the instruction addresses and words of the program.
func (prog *Program) Codes() iter.Seq2[int, uint16] {
	return func(yield func(ip int, word uint16) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Ip, op.Word) {
				return
			}
		}
	}
}

// Debug returns the opcode at an instruction address, or nil.
func (prog *Program) Debug(ip int) *Opcode {
	n, ok := slices.BinarySearchFunc(prog.Opcodes, ip, func(op Opcode, ip int) int {
		return op.Ip - ip
	})
	if !ok {
		return nil
	}

	return &prog.Opcodes[n]
}

// Labels returns the label names declared at an instruction address.
func (prog *Program) Labels(ip int) (names []string) {
	for name, addr := range prog.Symbols {
		if addr == ip {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	return
}

// WriteHack writes the program in the .hack text format: one binary word per
// line.
func (prog *Program) WriteHack(w io.Writer) (err error) {
	out := bufio.NewWriter(w)
	for _, bin := range prog.Binary() {
		_, err = fmt.Fprintln(out, bin)
		if err != nil {
			return
		}
	}

	return out.Flush()
}

// WriteListing writes each word followed by its source text and the labels
// that point at it.
func (prog *Program) WriteListing(w io.Writer) (err error) {
	out := bufio.NewWriter(w)
	for _, op := range prog.Opcodes {
		var labels string
		for _, name := range prog.Labels(op.Ip) {
			labels += fmt.Sprintf(" (%v)", name)
		}
		_, err = fmt.Fprintf(out, "%016b  %-24s; %4d%v\n", op.Word, op.Text, op.Ip, labels)
		if err != nil {
			return
		}
	}

	return out.Flush()
}
