package asm

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func encodeLine(t *testing.T, source string) string {
	items, err := Parse(source)
	if err != nil {
		t.Fatalf("%v: %v", source, err)
	}
	if err = Validate(items); err != nil {
		t.Fatalf("%v: %v", source, err)
	}
	comp, ok := items[0].Node.(*ComputeInstruction)
	if !ok {
		t.Fatalf("%v: not a compute instruction", source)
	}
	return fmt.Sprintf("%016b", EncodeCompute(comp))
}

func TestEncodeCompute(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source string
		word   string
	}){
		{"D = A", "1110110000010000"},
		{"A = *A", "1111110000100000"},
		{"A = M", "1111110000100000"},
		{"D, *A = D", "1110001100011000"},
		{"D, *A, A = 0", "1110101010111000"},
		{"A = 1; jeq", "1110111111100010"},
		{"D = -1; jle", "1110111010010110"},
		{"A, *A = A+1; jge", "1110110111101011"},
		{"*A + 1; jlt", "1111110111000100"},
		{"D = D + 1; jne", "1110011111010101"},
		{"A = A - 1", "1110110010100000"},
		{"*A = *A - 1", "1111110010001000"},
		{"D = D - 1", "1110001110010000"},
		{"D = A - D", "1110000111010000"},
		{"*A = D", "1110001100001000"},
		{"D = D - *A", "1111010011010000"},
		{"D; jgt", "1110001100000001"},
		{"0; jmp", "1110101010000111"},
		{"D = !D", "1110001101010000"},
		{"D = !A", "1110110001010000"},
		{"D = -D", "1110001111010000"},
		{"D = -*A", "1111110011010000"},
		{"D = D + A", "1110000010010000"},
		{"D = D & *A", "1111000000010000"},
		{"D = D | A", "1110010101010000"},
		{"D = 0", "1110101010010000"},
		{"D; jmp", "1110001100000111"},
	}

	for _, entry := range table {
		assert.Equal(entry.word, encodeLine(t, entry.source), entry.source)
	}
}

func TestEncodeCommutative(t *testing.T) {
	assert := assert.New(t)

	for _, op := range []string{"+", "&", "|"} {
		for _, reg := range []string{"A", "*A"} {
			forward := encodeLine(t, fmt.Sprintf("D = D %v %v", op, reg))
			reverse := encodeLine(t, fmt.Sprintf("D = %v %v D", reg, op))
			assert.Equal(forward, reverse, "%v %v", op, reg)
		}
	}

	for _, reg := range []string{"A", "*A"} {
		forward := encodeLine(t, fmt.Sprintf("D = D - %v", reg))
		reverse := encodeLine(t, fmt.Sprintf("D = %v - D", reg))
		assert.NotEqual(forward, reverse, reg)
	}
}

func TestEncodeAddress(t *testing.T) {
	assert := assert.New(t)

	for n := range IMMEDIATE_MAX + 1 {
		word := EncodeAddress(uint16(n))
		assert.Equal(uint16(n), word)
		if n%4093 == 0 {
			assert.Equal("0"+fmt.Sprintf("%015b", n), fmt.Sprintf("%016b", word))
		}
	}

	assert.Panics(func() { EncodeAddress(IMMEDIATE_MAX + 1) })
}

func TestEncodeDestinations(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		dest string
		bits uint16
	}){
		{"", 0b000},
		{"A =", 0b100},
		{"D =", 0b010},
		{"*A =", 0b001},
		{"*A, D =", 0b011},
		{"A, *A =", 0b101},
		{"D, A =", 0b110},
		{"D, *A, A =", 0b111},
	}

	for _, entry := range table {
		items, err := Parse(entry.dest + " 0")
		assert.NoError(err, entry.dest)
		word := EncodeCompute(items[0].Node.(*ComputeInstruction))
		assert.Equal(entry.bits, (word>>DEST_SHIFT)&0b111, entry.dest)
	}
}

func TestEncodeJumps(t *testing.T) {
	assert := assert.New(t)

	for name, jump := range jumpMap {
		items, err := Parse("0; " + name)
		assert.NoError(err, name)
		word := EncodeCompute(items[0].Node.(*ComputeInstruction))
		assert.Equal(uint16(jump), word&0b111, name)
		assert.Equal(name, jump.String())
	}
}

// evalExpr gives the value the expression denotes, computed directly.
func evalExpr(expr Expr, a, d, m uint16) uint16 {
	value := func(reg Register) uint16 {
		return [...]uint16{REG_A: a, REG_D: d, REG_M: m}[reg]
	}

	x := value(expr.X)
	switch expr.Kind {
	case EXPR_CONST:
		return uint16(int16(expr.Const))
	case EXPR_REGISTER:
		return x
	case EXPR_NOT:
		return ^x
	case EXPR_NEGATE:
		return -x
	case EXPR_INCREMENT:
		return x + 1
	case EXPR_DECREMENT:
		return x - 1
	}

	y := value(expr.Y)
	switch expr.Op {
	case OP_ADD:
		return x + y
	case OP_SUB:
		return x - y
	case OP_AND:
		return x & y
	case OP_OR:
		return x | y
	}

	panic("unreachable")
}

func TestSynthesizeCatalog(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(28, len(catalog))
	assert.Equal(len(catalog), len(decodeMap))

	rng := rand.New(rand.NewSource(1))
	values := []uint16{0, 1, 0x7fff, 0x8000, 0xffff}
	for range 64 {
		values = append(values, uint16(rng.Uint32()))
	}

	for _, expr := range catalog {
		op := Synthesize(expr)
		for _, a := range values {
			for _, d := range values {
				m := a ^ 0x5a5a
				y := a
				if op.Memory {
					y = m
				}
				out, _ := op.Compute(d, y)
				if !assert.Equal(evalExpr(expr, a, d, m), out, "%v a=%#x d=%#x", expr, a, d) {
					return
				}
			}
		}
	}
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	for _, expr := range catalog {
		for _, dest := range [][]Destination{nil, {{Register: REG_D}}, {{Register: REG_A}, {Register: REG_M}}} {
			for jump := JUMP_NONE; jump <= JUMP_MP; jump++ {
				inst := &ComputeInstruction{Dest: dest, Expr: expr, Jump: jump}
				assert.Equal(inst.String(), Disassemble(EncodeCompute(inst)))
			}
		}
	}

	assert.Equal("A := 12345", Disassemble(12345))
	assert.Equal("D = alu(100000)", Disassemble(0b1110_100000_010_000))
	assert.Equal("alu(100000, *A); jmp", Disassemble(0b1111_100000_000_111))
}
