package asm

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Parse parses assembly source text into a flat sequence of items, one per
// label declaration or instruction. Blank and comment-only lines produce no
// item. No semantic validation is done here.
func Parse(source string) (items []Item, err error) {
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}
	lines := strings.Split(source, "\n")
	lines = lines[:len(lines)-1]

	for n, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		lineno := n + 1

		var node Node
		node, err = parseLine(line, lineno)
		if err != nil {
			return
		}
		if node == nil {
			continue
		}

		items = append(items, Item{LineNo: lineno, Line: line, Node: node})
	}

	return
}

// lineParser holds the tokens of the line being parsed.
type lineParser struct {
	line   string
	tokens []token
}

func (p *lineParser) fail(pos Pos, err error) error {
	return &ErrParse{Pos: pos, Line: p.line, Err: err}
}

// span covers tokens[from:to].
func (p *lineParser) span(from, to int) Pos {
	return p.tokens[from].Pos.To(p.tokens[to-1].Pos)
}

// parseLine parses a single line. A nil node means the line is empty.
func parseLine(line string, lineno int) (node Node, err error) {
	tokens, err := lexLine(line, lineno)
	if err != nil || len(tokens) == 0 {
		return
	}

	p := &lineParser{line: line, tokens: tokens}

	switch {
	case len(tokens) >= 2 && tokens[0].Kind == TOKEN_IDENT && tokens[1].is(TOKEN_PUNCT, ":"):
		if len(tokens) > 2 {
			err = p.fail(p.span(2, len(tokens)), ErrExtraTokens)
			return
		}
		node = &LabelDecl{Name: tokens[0].Text, Pos: p.span(0, 2)}
	case len(tokens) >= 2 && tokens[0].is(TOKEN_IDENT, "A") && tokens[1].is(TOKEN_PUNCT, ":="):
		node, err = p.address()
	default:
		node, err = p.compute()
	}

	return
}

// parseNumber converts a decimal or 0x-prefixed hex literal. Literals too
// large for int64 saturate so the validator can report them as out of range.
func parseNumber(text string) (value int64, err error) {
	base := 10
	digits := text
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		base = 16
		digits = text[2:]
	}

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			value, err = math.MaxInt64, nil
			return
		}
		err = ErrNumberInvalid(text)
		return
	}

	value = int64(min(v, math.MaxInt64))
	return
}

// address parses 'A := <constant>', 'A := @label' and 'A := $(expr)'.
func (p *lineParser) address() (inst *AddressInstruction, err error) {
	tokens := p.tokens
	inst = &AddressInstruction{Pos: p.span(0, len(tokens))}

	if len(tokens) == 2 {
		err = p.fail(tokens[1].Pos, ErrValueMissing)
		return
	}

	used := 3
	target := tokens[2]

	switch {
	case target.Kind == TOKEN_NUMBER:
		inst.Value, err = parseNumber(target.Text)
		if err != nil {
			err = p.fail(target.Pos, err)
			return
		}
		inst.TargetPos = target.Pos
	case target.is(TOKEN_PUNCT, "-") && len(tokens) > 3 && tokens[3].Kind == TOKEN_NUMBER:
		// Negative literals parse; the range check rejects them.
		used = 4
		inst.Value, err = parseNumber(tokens[3].Text)
		if err != nil {
			err = p.fail(tokens[3].Pos, err)
			return
		}
		inst.Value = -inst.Value
		inst.TargetPos = p.span(2, 4)
	case target.is(TOKEN_PUNCT, "@"):
		if len(tokens) < 4 || tokens[3].Kind != TOKEN_IDENT {
			err = p.fail(target.Pos, ErrLabelSyntax)
			return
		}
		used = 4
		inst.Label = tokens[3].Text
		inst.TargetPos = p.span(2, 4)
	case target.Kind == TOKEN_EXPR:
		inst.Value, err = evaluate(target.Text)
		if err != nil {
			err = p.fail(target.Pos, err)
			return
		}
		inst.TargetPos = target.Pos
	default:
		err = p.fail(target.Pos, ErrValueMissing)
		return
	}

	if len(tokens) > used {
		err = p.fail(p.span(used, len(tokens)), ErrExtraTokens)
		return
	}

	return
}

// register parses a register operand starting at tokens[at], returning the
// number of tokens it used. Zero means there is no register there.
func (p *lineParser) register(at int) (reg Register, used int) {
	tokens := p.tokens
	if at >= len(tokens) {
		return
	}

	tok := tokens[at]
	switch {
	case tok.is(TOKEN_IDENT, "A"):
		return REG_A, 1
	case tok.is(TOKEN_IDENT, "D"):
		return REG_D, 1
	case tok.is(TOKEN_IDENT, "M"):
		return REG_M, 1
	case tok.is(TOKEN_PUNCT, "*") && at+1 < len(tokens) && tokens[at+1].is(TOKEN_IDENT, "A"):
		return REG_M, 2
	}

	return
}

// compute parses '[dest-list =] <alu-expr> [; jump]'.
func (p *lineParser) compute() (inst *ComputeInstruction, err error) {
	tokens := p.tokens
	inst = &ComputeInstruction{Pos: p.span(0, len(tokens))}

	start := 0
	for n, tok := range tokens {
		if !tok.is(TOKEN_PUNCT, "=") {
			continue
		}
		inst.Dest, err = p.destinations(n)
		if err != nil {
			return
		}
		start = n + 1
		break
	}

	end := len(tokens)
	for n := start; n < len(tokens); n++ {
		if !tokens[n].is(TOKEN_PUNCT, ";") {
			continue
		}
		inst.Jump, err = p.jump(n)
		if err != nil {
			return
		}
		end = n
		break
	}

	if start == end {
		at := tokens[min(start, len(tokens)-1)].Pos
		if start > 0 {
			at = tokens[start-1].Pos
		}
		err = p.fail(at, ErrExpressionMissing)
		return
	}

	inst.Expr, err = p.expr(start, end)
	return
}

// destinations parses the register list in tokens[:eq].
func (p *lineParser) destinations(eq int) (dest []Destination, err error) {
	tokens := p.tokens
	if eq == 0 {
		err = p.fail(tokens[0].Pos, ErrTargetMissing)
		return
	}

	n := 0
	for {
		reg, used := p.register(n)
		if used == 0 || n+used > eq {
			err = p.fail(tokens[n].Pos, ErrTargetInvalid)
			return
		}
		dest = append(dest, Destination{Register: reg, Pos: p.span(n, n+used)})
		n += used

		if n == eq {
			return
		}
		if !tokens[n].is(TOKEN_PUNCT, ",") || n+1 == eq {
			err = p.fail(tokens[n].Pos, ErrTargetInvalid)
			return
		}
		n++
	}
}

// jump parses the condition following the ';' at tokens[semi].
func (p *lineParser) jump(semi int) (jump Jump, err error) {
	tokens := p.tokens
	if semi+1 >= len(tokens) {
		err = p.fail(tokens[semi].Pos, ErrJumpInvalid)
		return
	}
	if semi+2 < len(tokens) {
		err = p.fail(p.span(semi+2, len(tokens)), ErrExtraTokens)
		return
	}

	tok := tokens[semi+1]
	jump, ok := jumpMap[strings.ToLower(tok.Text)]
	if tok.Kind != TOKEN_IDENT || !ok {
		err = p.fail(tok.Pos, ErrJumpInvalid)
		return
	}

	return
}

// expr parses the ALU expression in tokens[from:to].
func (p *lineParser) expr(from, to int) (expr Expr, err error) {
	tokens := p.tokens
	expr.Pos = p.span(from, to)
	count := to - from
	first := tokens[from]

	invalid := func() (Expr, error) {
		return expr, p.fail(expr.Pos, ErrExpressionInvalid)
	}

	isOne := func(tok token) bool {
		return tok.is(TOKEN_NUMBER, "1")
	}

	// Literal constants.
	switch {
	case count == 1 && first.is(TOKEN_NUMBER, "0"):
		expr.Kind, expr.Const = EXPR_CONST, 0
		return
	case count == 1 && isOne(first):
		expr.Kind, expr.Const = EXPR_CONST, 1
		return
	case count == 2 && first.is(TOKEN_PUNCT, "-") && isOne(tokens[from+1]):
		expr.Kind, expr.Const = EXPR_CONST, -1
		return
	}

	// Unary operators.
	if first.is(TOKEN_PUNCT, "!") || first.is(TOKEN_PUNCT, "-") {
		reg, used := p.register(from + 1)
		if used == 0 || from+1+used != to {
			return invalid()
		}
		expr.X = reg
		expr.Kind = EXPR_NOT
		if first.Text == "-" {
			expr.Kind = EXPR_NEGATE
		}
		return
	}

	reg, used := p.register(from)
	if used == 0 || from+used > to {
		return invalid()
	}
	expr.X = reg
	at := from + used
	if at == to {
		expr.Kind = EXPR_REGISTER
		return
	}

	var ok bool
	expr.Op, ok = map[string]Operator{"+": OP_ADD, "-": OP_SUB, "&": OP_AND, "|": OP_OR}[tokens[at].Text]
	if tokens[at].Kind != TOKEN_PUNCT || !ok || at+1 == to {
		return invalid()
	}
	at++

	if at+1 == to && isOne(tokens[at]) {
		switch expr.Op {
		case OP_ADD:
			expr.Kind = EXPR_INCREMENT
			return
		case OP_SUB:
			expr.Kind = EXPR_DECREMENT
			return
		}
		return invalid()
	}

	expr.Y, used = p.register(at)
	if used == 0 || at+used != to {
		return invalid()
	}
	expr.Kind = EXPR_BINARY

	return
}
