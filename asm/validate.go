package asm

// IMMEDIATE_MAX is the largest value of the 15-bit immediate field. The
// field is unsigned: address constants must lie in [0, IMMEDIATE_MAX].
const IMMEDIATE_MAX = 0x7fff

// labelRef is a label use remembered until all declarations are known.
type labelRef struct {
	item Item
	inst *AddressInstruction
}

// Validate walks the parsed items once and returns the first violation as an
// *ErrValidation. Label references are checked after the walk, so forward
// references are legal.
func Validate(items []Item) (err error) {
	fail := func(item Item, pos Pos, cause error) error {
		return &ErrValidation{Pos: pos, Line: item.Line, Err: cause}
	}

	declared := make(map[string]int, 16)
	var refs []labelRef
	ip := 0

	for _, item := range items {
		switch node := item.Node.(type) {
		case *LabelDecl:
			if _, ok := declared[node.Name]; ok {
				return fail(item, node.Pos, ErrLabelDuplicate(node.Name))
			}
			declared[node.Name] = ip
			continue
		case *AddressInstruction:
			if len(node.Label) != 0 {
				refs = append(refs, labelRef{item: item, inst: node})
				break
			}
			if node.Value < 0 || node.Value > IMMEDIATE_MAX {
				text := item.Line[node.TargetPos.ColStart-1 : node.TargetPos.ColEnd-1]
				return fail(item, node.TargetPos, ErrImmediateRange(text))
			}
		case *ComputeInstruction:
			pos, cause := validateCompute(node)
			if cause != nil {
				return fail(item, pos, cause)
			}
		}
		ip++
	}

	for _, ref := range refs {
		ip, ok := declared[ref.inst.Label]
		if !ok {
			return fail(ref.item, ref.inst.TargetPos, ErrLabelUndefined(ref.inst.Label))
		}
		if ip > IMMEDIATE_MAX {
			return fail(ref.item, ref.inst.TargetPos, ErrLabelRange(ref.inst.Label))
		}
	}

	return
}

// validateCompute checks destination uniqueness and operand legality,
// returning the cause and the span it applies to.
func validateCompute(inst *ComputeInstruction) (pos Pos, err error) {
	var seen [3]bool
	for _, dest := range inst.Dest {
		if seen[dest.Register] {
			return dest.Pos, ErrDestinationDuplicate(dest.Register.String())
		}
		seen[dest.Register] = true
	}

	expr := inst.Expr
	pos = expr.Pos
	if expr.Kind != EXPR_BINARY {
		return
	}

	addressed := func(reg Register) bool {
		return reg == REG_A || reg == REG_M
	}

	switch {
	case addressed(expr.X) && addressed(expr.Y) && expr.X != expr.Y:
		err = ErrOperandConflict
	case expr.X == expr.Y:
		err = ErrOperandData
	}

	return
}
