package asm

import (
	"fmt"
	"log"

	"github.com/ammaraskar/nand-2-fpga-tetris/alu"
)

// Compute instruction layout: 111a cccc ccdd djjj.
const (
	COMPUTE_PREFIX = uint16(0b111 << 13)
	ADDRESS_MASK   = uint16(0x7fff)
	MEMORY_BIT     = 12 // Y input is RAM[A] rather than A.
	CONTROL_SHIFT  = 6
	DEST_SHIFT     = 3

	DEST_A = uint16(0b100)
	DEST_D = uint16(0b010)
	DEST_M = uint16(0b001)
)

var destBit = [...]uint16{REG_A: DEST_A, REG_D: DEST_D, REG_M: DEST_M}

// Operation is the abstract ALU operation of a compute instruction.
type Operation struct {
	alu.Control
	Memory bool // Y input is sourced from RAM[A].
}

// side is an ALU input. The data register always drives X; A or RAM[A]
// drives Y.
type side int

const (
	SIDE_X = side(0)
	SIDE_Y = side(1)
)

func sideOf(reg Register) side {
	if reg == REG_D {
		return SIDE_X
	}
	return SIDE_Y
}

func (s side) other() side {
	return 1 - s
}

// complement sets the complement switch of input s.
func complement(ctl alu.Control, s side) alu.Control {
	if s == SIDE_X {
		ctl.NegateX = true
	} else {
		ctl.NegateY = true
	}
	return ctl
}

// allOnes zeroes and then complements input s, turning it into -1.
func allOnes(ctl alu.Control, s side) alu.Control {
	if s == SIDE_X {
		ctl.ZeroX = true
	} else {
		ctl.ZeroY = true
	}
	return complement(ctl, s)
}

// Synthesize derives the ALU control vector of an expression. The physical
// ALU only offers AND and ADD over two conditioned inputs, so each catalog
// entry is built from two's-complement identities, with ~v = -v - 1.
func Synthesize(expr Expr) (op Operation) {
	var ctl alu.Control

	v := sideOf(expr.X)

	switch expr.Kind {
	case EXPR_CONST:
		switch expr.Const {
		case 0:
			// 0 + 0
			ctl = alu.Control{ZeroX: true, ZeroY: true, Add: true}
		case 1:
			// ~(-1 + -1)
			ctl = allOnes(allOnes(alu.Control{Add: true, NegateOut: true}, SIDE_X), SIDE_Y)
		case -1:
			// -1 + 0
			ctl = allOnes(alu.Control{ZeroY: true, Add: true}, SIDE_X)
		default:
			log.Panicf("asm: constant %d is not in the ALU catalog", expr.Const)
		}
	case EXPR_REGISTER:
		// v & -1
		ctl = allOnes(ctl, v.other())
	case EXPR_NOT:
		// ~(v & -1)
		ctl = allOnes(ctl, v.other())
		ctl.NegateOut = true
	case EXPR_NEGATE:
		// ~(v + -1) = ~(v - 1) = -v
		ctl = allOnes(ctl, v.other())
		ctl.Add = true
		ctl.NegateOut = true
	case EXPR_INCREMENT:
		// ~(~v + -1) = ~(-v - 2) = v + 1
		ctl = complement(allOnes(ctl, v.other()), v)
		ctl.Add = true
		ctl.NegateOut = true
	case EXPR_DECREMENT:
		// v + -1
		ctl = allOnes(ctl, v.other())
		ctl.Add = true
	case EXPR_BINARY:
		switch expr.Op {
		case OP_ADD:
			ctl.Add = true
		case OP_AND:
		case OP_OR:
			// ~(~x & ~y)
			ctl = complement(complement(ctl, SIDE_X), SIDE_Y)
			ctl.NegateOut = true
		case OP_SUB:
			// a - b = ~(~a + b); the minuend keeps its source position.
			ctl = complement(ctl, v)
			ctl.Add = true
			ctl.NegateOut = true
		default:
			log.Panicf("asm: operator %v is not in the ALU catalog", expr.Op)
		}
	default:
		log.Panicf("asm: expression kind %d is not in the ALU catalog", int(expr.Kind))
	}

	op.Control = ctl
	op.Memory = expr.Kind != EXPR_CONST && expr.X == REG_M
	if expr.Kind == EXPR_BINARY && expr.Y == REG_M {
		op.Memory = true
	}

	return
}

// Normalize puts the operands of a commutative binary expression in their
// input order: D on X, A or *A on Y. Subtraction keeps the source order.
func Normalize(expr Expr) Expr {
	if expr.Kind == EXPR_BINARY && expr.Op.Commutative() && sideOf(expr.X) == SIDE_Y {
		expr.X, expr.Y = expr.Y, expr.X
	}
	return expr
}

// EncodeAddress encodes 'A := value'.
func EncodeAddress(value uint16) uint16 {
	if value > IMMEDIATE_MAX {
		log.Panicf("asm: immediate %#x escaped validation", value)
	}
	return value
}

// EncodeCompute encodes a validated compute instruction.
func EncodeCompute(inst *ComputeInstruction) uint16 {
	op := Synthesize(Normalize(inst.Expr))

	word := COMPUTE_PREFIX
	if op.Memory {
		word |= 1 << MEMORY_BIT
	}
	word |= uint16(op.Bits()) << CONTROL_SHIFT
	for _, dest := range inst.Dest {
		word |= destBit[dest.Register] << DEST_SHIFT
	}
	word |= uint16(inst.Jump)

	return word
}

// catalog lists every ALU expression in canonical form.
var catalog = func() (exprs []Expr) {
	for _, value := range []int{0, 1, -1} {
		exprs = append(exprs, Expr{Kind: EXPR_CONST, Const: value})
	}
	for _, reg := range []Register{REG_D, REG_A, REG_M} {
		for _, kind := range []ExprKind{EXPR_REGISTER, EXPR_NOT, EXPR_NEGATE, EXPR_INCREMENT, EXPR_DECREMENT} {
			exprs = append(exprs, Expr{Kind: kind, X: reg})
		}
	}
	for _, reg := range []Register{REG_A, REG_M} {
		for _, op := range []Operator{OP_ADD, OP_AND, OP_OR, OP_SUB} {
			exprs = append(exprs, Expr{Kind: EXPR_BINARY, X: REG_D, Op: op, Y: reg})
		}
		exprs = append(exprs, Expr{Kind: EXPR_BINARY, X: reg, Op: OP_SUB, Y: REG_D})
	}
	return
}()

// decodeMap maps memory bit and control bits back to the catalog.
var decodeMap = func() map[uint8]Expr {
	table := make(map[uint8]Expr, len(catalog))
	for _, expr := range catalog {
		table[operationKey(Synthesize(expr))] = expr
	}
	return table
}()

func operationKey(op Operation) (key uint8) {
	key = op.Bits()
	if op.Memory {
		key |= 1 << 6
	}
	return
}

// Disassemble renders a machine word as canonical source text.
func Disassemble(word uint16) string {
	if word&^ADDRESS_MASK == 0 {
		return fmt.Sprintf("A := %d", word)
	}

	op := Operation{
		Control: alu.FromBits(uint8(word >> CONTROL_SHIFT)),
		Memory:  word&(1<<MEMORY_BIT) != 0,
	}

	var dest []Destination
	for _, reg := range []Register{REG_A, REG_D, REG_M} {
		if word&(destBit[reg]<<DEST_SHIFT) != 0 {
			dest = append(dest, Destination{Register: reg})
		}
	}

	jump := Jump(word & 0b111)

	expr, ok := decodeMap[operationKey(op)]
	if !ok {
		text := fmt.Sprintf("alu(%v)", op.Control)
		if op.Memory {
			text = fmt.Sprintf("alu(%v, *A)", op.Control)
		}
		return formatCompute(dest, text, jump)
	}

	return formatCompute(dest, expr.String(), jump)
}
