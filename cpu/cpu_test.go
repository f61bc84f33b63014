package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ammaraskar/nand-2-fpga-tetris/alu"
)

func TestCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(RAM_SIZE)

	assert.False(cpu.Verbose)
	assert.Equal(RAM_SIZE, len(cpu.Ram))
	assert.Equal(0, len(cpu.Rom))
	assert.Equal("pc:0000 a:0000 d:0000 ticks:0", cpu.String())
}

func TestBasicInstructions(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		word  uint16
		pc    uint16
		a     uint16
		d     uint16
		check func(cpu *Cpu)
	}){
		{"A := 12345", 0b0011000000111001, 1, 12345, 0, nil},
		{"D = A", 0b1110110000010000, 2, 12345, 12345, nil},
		{"A := 23456", 0b0101101110100000, 3, 23456, 12345, nil},
		{"D = A - D", 0b1110000111010000, 4, 23456, 11111, nil},
		{"A := 1000", 0b0000001111101000, 5, 1000, 11111, nil},
		{"*A = D", 0b1110001100001000, 6, 1000, 11111, func(cpu *Cpu) {
			assert.Equal(uint16(11111), cpu.Ram[1000])
		}},
	}

	cpu := NewCpu(RAM_SIZE)
	for _, entry := range table {
		err := cpu.Execute(entry.word)
		assert.NoError(err, entry.name)
		assert.Equal(entry.pc, cpu.Pc, entry.name)
		assert.Equal(entry.a, cpu.A, entry.name)
		assert.Equal(entry.d, cpu.D, entry.name)
		if entry.check != nil {
			entry.check(cpu)
		}
	}
}

func TestJump(t *testing.T) {
	assert := assert.New(t)

	negative := alu.Status{Negative: true}
	zero := alu.Status{Zero: true}
	positive := alu.Status{}

	table := [](struct {
		jump  uint16
		taken [3]bool // negative, zero, positive
	}){
		{0b000, [3]bool{false, false, false}},
		{0b001, [3]bool{false, false, true}},
		{0b010, [3]bool{false, true, false}},
		{0b011, [3]bool{false, true, true}},
		{0b100, [3]bool{true, false, false}},
		{0b101, [3]bool{true, false, true}},
		{0b110, [3]bool{true, true, false}},
		{0b111, [3]bool{true, true, true}},
	}

	for _, entry := range table {
		word := uint16(0b1110101010000000) | entry.jump
		assert.Equal(entry.taken[0], Jump(word, negative), "%03b", entry.jump)
		assert.Equal(entry.taken[1], Jump(word, zero), "%03b", entry.jump)
		assert.Equal(entry.taken[2], Jump(word, positive), "%03b", entry.jump)
	}
}

func TestJumpUsesPreviousA(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(16)
	cpu.A = 7
	cpu.Pc = 3

	// A = -1; jmp
	assert.NoError(cpu.Execute(0b1110111010100111))
	assert.Equal(uint16(7), cpu.Pc)
	assert.Equal(uint16(0xffff), cpu.A)

	// A, *A = 1 writes through the address held before the instruction.
	cpu.A = 5
	assert.NoError(cpu.Execute(0b1110111111101000))
	assert.Equal(uint16(1), cpu.Ram[5])
	assert.Equal(uint16(1), cpu.A)
}

func TestTick(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(16)
	cpu.Verbose = true

	// A := 3; D = A; A := 0; *A = D
	err := cpu.Load([]uint16{
		0b0000000000000011,
		0b1110110000010000,
		0b0000000000000000,
		0b1110001100001000,
	})
	assert.NoError(err)

	for range 4 {
		assert.NoError(cpu.Tick())
	}
	assert.Equal(4, cpu.Ticks)
	assert.Equal(uint16(3), cpu.Ram[0])

	err = cpu.Tick()
	assert.ErrorIs(err, ErrPcRange)
	assert.Equal(4, cpu.Ticks)

	cpu.Reset()
	assert.Equal(uint16(0), cpu.Pc)
	assert.Equal(uint16(0), cpu.A)
	assert.Equal(uint16(0), cpu.D)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(uint16(3), cpu.Ram[0])
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(16)
	assert.NoError(cpu.Load(make([]uint16, ROM_SIZE)))
	assert.ErrorIs(cpu.Load(make([]uint16, ROM_SIZE+1)), ErrProgramSize)
	assert.Equal(ROM_SIZE, len(cpu.Rom))
}

func TestAddressRange(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(16)
	cpu.A = 16
	cpu.D = 9

	// D = *A
	err := cpu.Execute(0b1111110000010000)
	assert.ErrorIs(err, ErrAddressRange)
	assert.ErrorIs(err, ErrOpcode(0))
	var eo ErrOpcode
	if assert.True(errors.As(err, &eo)) {
		assert.Equal(ErrOpcode(0b1111110000010000), eo)
	}
	assert.Equal(uint16(9), cpu.D)
	assert.Equal(uint16(0), cpu.Pc)

	// *A = D
	err = cpu.Execute(0b1110001100001000)
	assert.ErrorIs(err, ErrAddressRange)

	_, err = cpu.Peek(0xffff)
	assert.ErrorIs(err, ErrAddressRange)
	assert.NoError(cpu.Poke(15, 0xbeef))
	value, err := cpu.Peek(15)
	assert.NoError(err)
	assert.Equal(uint16(0xbeef), value)
}
