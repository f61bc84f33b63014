package asm

import (
	"errors"
	"strings"

	"github.com/ammaraskar/nand-2-fpga-tetris/translate"
)

var f = translate.From

var (
	// Parse errors
	ErrCharacterInvalid   = errors.New(f("invalid character"))
	ErrExpressionInvalid  = errors.New(f("invalid ALU expression"))
	ErrExpressionMissing  = errors.New(f("ALU expression missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrTargetMissing      = errors.New(f("assignment target missing"))
	ErrTargetInvalid      = errors.New(f("assignment target invalid"))
	ErrJumpInvalid        = errors.New(f("jump condition invalid"))
	ErrLabelSyntax        = errors.New(f("label syntax"))
	ErrValueMissing       = errors.New(f("value missing"))
	ErrExtraTokens        = errors.New(f("unexpected tokens at end of line"))
	ErrExpressionUnclosed = errors.New(f("$( without closing )"))

	// Validation errors
	ErrOperandConflict = errors.New(f("Can't use both A and *A in ALU operation"))
	ErrOperandData     = errors.New(f("ALU operation needs D and one of A or *A"))
)

// ErrNumberInvalid is a malformed numeric literal.
type ErrNumberInvalid string

func (err ErrNumberInvalid) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrEvaluation is a $(...) constant expression that did not evaluate to an
// integer.
type ErrEvaluation struct {
	Expr string
	Err  error
}

func (err *ErrEvaluation) Error() string {
	if err.Err == nil {
		return f("$(%v) is not an integer expression", err.Expr)
	}
	return f("$(%v) is not a valid expression: %v", err.Expr, err.Err)
}

func (err *ErrEvaluation) Unwrap() error {
	return err.Err
}

// ErrImmediateRange is a constant outside of the 15-bit immediate field.
type ErrImmediateRange string

func (err ErrImmediateRange) Error() string {
	return f("%v cannot fit in 15-bit immediate", string(err))
}

// ErrDestinationDuplicate names a register assigned twice by one instruction.
type ErrDestinationDuplicate string

func (err ErrDestinationDuplicate) Error() string {
	return f("Duplicate assignment target, %v already used", string(err))
}

// ErrLabelUndefined names a label that is referenced but never declared.
type ErrLabelUndefined string

func (err ErrLabelUndefined) Error() string {
	return f("Label %v used but never defined", string(err))
}

// ErrLabelDuplicate names a label declared more than once.
type ErrLabelDuplicate string

func (err ErrLabelDuplicate) Error() string {
	return f("Label %v already defined", string(err))
}

// ErrLabelRange names a label whose address does not fit an immediate.
type ErrLabelRange string

func (err ErrLabelRange) Error() string {
	return f("Label %v address cannot fit in 15-bit immediate", string(err))
}

// Pos is a source position: a 1-based line number and a 1-based column span.
// ColEnd is exclusive.
type Pos struct {
	LineNo   int
	ColStart int
	ColEnd   int
}

// To returns the span from the start of pos to the end of other.
func (pos Pos) To(other Pos) Pos {
	pos.ColEnd = other.ColEnd
	return pos
}

// Caret renders line with a caret marker under the columns of pos.
func Caret(line string, pos Pos) string {
	width := max(pos.ColEnd-pos.ColStart, 1)
	indent := max(pos.ColStart-1, 0)
	return line + "\n" + strings.Repeat(" ", indent) + strings.Repeat("^", width)
}

// ErrParse is malformed syntax at a source position.
type ErrParse struct {
	Pos
	Line string
	Err  error
}

func (err *ErrParse) Error() string {
	return f("%v at line %d col %d:%d", err.Err, err.LineNo, err.ColStart, err.ColEnd)
}

func (err *ErrParse) Unwrap() error {
	return err.Err
}

// ErrValidation is a well formed construct that the machine cannot execute.
type ErrValidation struct {
	Pos
	Line string
	Err  error
}

func (err *ErrValidation) Error() string {
	return f("%v at line %d col %d:%d", err.Err, err.LineNo, err.ColStart, err.ColEnd)
}

func (err *ErrValidation) Unwrap() error {
	return err.Err
}
