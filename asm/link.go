package asm

import (
	"log"
)

// Symbols maps label names to instruction addresses.
type Symbols map[string]int

// Opcode is one emitted machine word with its source location. An opcode
// with a LinkLabel is a placeholder awaiting Link.
type Opcode struct {
	LineNo    int    // 1-based source line.
	Ip        int    // Instruction address.
	Text      string // Canonical source text of the instruction.
	Word      uint16 // Encoded instruction.
	LinkLabel string // Unresolved label, or empty.
}

// Index is the first resolution pass: it records, for each label, the
// address of the next instruction. Label declarations take no slot.
func Index(items []Item) (symbols Symbols) {
	symbols = make(Symbols, 16)

	ip := 0
	for _, item := range items {
		if label, ok := item.Node.(*LabelDecl); ok {
			symbols[label.Name] = ip
			continue
		}
		ip++
	}

	return
}

// Emit is the second resolution pass. References to labels already
// declared at this point in the walk are encoded directly; later ones are
// emitted as placeholders.
func Emit(items []Item, symbols Symbols) (opcodes []Opcode) {
	known := make(map[string]bool, len(symbols))

	for _, item := range items {
		var op Opcode

		switch node := item.Node.(type) {
		case *LabelDecl:
			known[node.Name] = true
			continue
		case *AddressInstruction:
			switch {
			case len(node.Label) == 0:
				op.Word = EncodeAddress(uint16(node.Value))
			case known[node.Label]:
				op.Word = EncodeAddress(uint16(symbols[node.Label]))
			default:
				op.LinkLabel = node.Label
			}
		case *ComputeInstruction:
			op.Word = EncodeCompute(node)
		default:
			log.Panicf("asm: line %d: unexpected node %T", item.LineNo, item.Node)
		}

		op.LineNo = item.LineNo
		op.Ip = len(opcodes)
		op.Text = item.Node.String()
		opcodes = append(opcodes, op)
	}

	return
}

// Link is the final resolution pass: it patches every placeholder with the
// address of its label.
func Link(opcodes []Opcode, symbols Symbols) []Opcode {
	for n := range opcodes {
		op := &opcodes[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		ip, ok := symbols[op.LinkLabel]
		if !ok {
			log.Panicf("asm: unable to link label '%s' at line %d", op.LinkLabel, op.LineNo)
		}
		op.Word = EncodeAddress(uint16(ip))
		op.LinkLabel = ""
	}

	return opcodes
}
