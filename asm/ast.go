package asm

import (
	"fmt"
	"strings"
)

// Register is a machine register as written in source.
type Register int

const (
	REG_A = Register(0) // A
	REG_D = Register(1) // D
	REG_M = Register(2) // *A, the memory cell addressed by A
)

var registerName = [...]string{"A", "D", "*A"}

func (reg Register) String() string {
	if reg < 0 || int(reg) >= len(registerName) {
		return fmt.Sprintf("Register(%d)", int(reg))
	}
	return registerName[reg]
}

// Operator is a binary ALU operator.
type Operator int

const (
	OP_ADD = Operator(0) // +
	OP_SUB = Operator(1) // -
	OP_AND = Operator(2) // &
	OP_OR  = Operator(3) // |
)

var operatorName = [...]string{"+", "-", "&", "|"}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorName) {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return operatorName[op]
}

// Commutative reports whether the operand order is irrelevant.
func (op Operator) Commutative() bool {
	return op != OP_SUB
}

// Jump is the jump condition of a compute instruction. The value is the 3-bit
// condition code: bit 2 jumps on negative, bit 1 on zero, bit 0 on positive.
type Jump int

const (
	JUMP_NONE = Jump(0)
	JUMP_GT   = Jump(1) // jgt
	JUMP_EQ   = Jump(2) // jeq
	JUMP_GE   = Jump(3) // jge
	JUMP_LT   = Jump(4) // jlt
	JUMP_NE   = Jump(5) // jne
	JUMP_LE   = Jump(6) // jle
	JUMP_MP   = Jump(7) // jmp
)

var jumpName = [...]string{"", "jgt", "jeq", "jge", "jlt", "jne", "jle", "jmp"}

var jumpMap = map[string]Jump{
	"jgt": JUMP_GT,
	"jeq": JUMP_EQ,
	"jge": JUMP_GE,
	"jlt": JUMP_LT,
	"jne": JUMP_NE,
	"jle": JUMP_LE,
	"jmp": JUMP_MP,
}

func (jump Jump) String() string {
	if jump < 0 || int(jump) >= len(jumpName) {
		return fmt.Sprintf("Jump(%d)", int(jump))
	}
	return jumpName[jump]
}

// ExprKind selects the shape of an ALU expression.
type ExprKind int

const (
	EXPR_CONST     = ExprKind(0) // 0, 1 or -1
	EXPR_REGISTER  = ExprKind(1) // X
	EXPR_NOT       = ExprKind(2) // !X
	EXPR_NEGATE    = ExprKind(3) // -X
	EXPR_INCREMENT = ExprKind(4) // X + 1
	EXPR_DECREMENT = ExprKind(5) // X - 1
	EXPR_BINARY    = ExprKind(6) // X op Y
)

// Expr is an ALU expression from the fixed catalog.
type Expr struct {
	Kind  ExprKind
	Const int      // EXPR_CONST: one of 0, 1, -1.
	X     Register // Left (or only) operand, as written.
	Op    Operator // EXPR_BINARY operator.
	Y     Register // EXPR_BINARY right operand, as written.
	Pos   Pos      // Span of the whole expression.
}

// String returns the expression in canonical source form.
func (expr Expr) String() string {
	switch expr.Kind {
	case EXPR_CONST:
		return fmt.Sprintf("%d", expr.Const)
	case EXPR_REGISTER:
		return expr.X.String()
	case EXPR_NOT:
		return "!" + expr.X.String()
	case EXPR_NEGATE:
		return "-" + expr.X.String()
	case EXPR_INCREMENT:
		return expr.X.String() + " + 1"
	case EXPR_DECREMENT:
		return expr.X.String() + " - 1"
	case EXPR_BINARY:
		return fmt.Sprintf("%v %v %v", expr.X, expr.Op, expr.Y)
	}
	return fmt.Sprintf("ExprKind(%d)", int(expr.Kind))
}

// Node is a parsed line: *LabelDecl, *AddressInstruction or
// *ComputeInstruction.
type Node interface {
	Position() Pos
	String() string
	node()
}

// LabelDecl declares Name as the address of the next instruction.
type LabelDecl struct {
	Name string
	Pos  Pos
}

// AddressInstruction loads A with a constant or with the address of a label.
type AddressInstruction struct {
	Value     int64  // Constant value, unused when Label is set.
	Label     string // Referenced label, or empty.
	Pos       Pos    // Whole instruction.
	TargetPos Pos    // The constant or @label operand.
}

// Destination is one register written by a compute instruction.
type Destination struct {
	Register Register
	Pos      Pos
}

// ComputeInstruction stores an ALU result and optionally jumps.
type ComputeInstruction struct {
	Dest []Destination
	Expr Expr
	Jump Jump
	Pos  Pos
}

func (label *LabelDecl) Position() Pos { return label.Pos }

func (label *LabelDecl) node() {}

func (label *LabelDecl) String() string { return label.Name + ":" }

func (inst *AddressInstruction) Position() Pos { return inst.Pos }

func (inst *AddressInstruction) node() {}

func (inst *ComputeInstruction) Position() Pos { return inst.Pos }

func (inst *ComputeInstruction) node() {}

func (inst *ComputeInstruction) String() string {
	return formatCompute(inst.Dest, inst.Expr.String(), inst.Jump)
}

func (inst *AddressInstruction) String() string {
	if len(inst.Label) != 0 {
		return "A := @" + inst.Label
	}
	return fmt.Sprintf("A := %d", inst.Value)
}

func formatCompute(dest []Destination, expr string, jump Jump) string {
	var sb strings.Builder
	for n, d := range dest {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.Register.String())
	}
	if len(dest) > 0 {
		sb.WriteString(" = ")
	}
	sb.WriteString(expr)
	if jump != JUMP_NONE {
		sb.WriteString("; ")
		sb.WriteString(jump.String())
	}
	return sb.String()
}

// Item is a parsed source line.
type Item struct {
	LineNo int    // 1-based source line.
	Line   string // Source text of the line.
	Node   Node
}

// Instructions filters out label declarations, leaving the items that occupy
// an instruction slot.
func Instructions(items []Item) (insts []Item) {
	for _, item := range items {
		if _, ok := item.Node.(*LabelDecl); ok {
			continue
		}
		insts = append(insts, item)
	}
	return
}
