// Package alu models the arithmetic/logic unit of the 16-bit computer.
//
// The ALU has two 16-bit inputs, X and Y. Each input may be zeroed and then
// bitwise complemented. The conditioned inputs are combined by either a
// bitwise AND or a two's-complement ADD, and the result may be complemented
// again before it leaves the unit. Those six switches are the whole control
// vector; every operation the machine offers is a fixed setting of them.
package alu

import (
	"fmt"
)

// Bit positions of the control vector inside the 6-bit field, MSB first.
const (
	BIT_ZX = 5 // Zero the X input.
	BIT_NX = 4 // Complement the X input.
	BIT_ZY = 3 // Zero the Y input.
	BIT_NY = 2 // Complement the Y input.
	BIT_F  = 1 // ADD when set, AND when clear.
	BIT_NO = 0 // Complement the output.
)

// Control is the six bit control vector of the ALU.
type Control struct {
	ZeroX     bool
	NegateX   bool
	ZeroY     bool
	NegateY   bool
	Add       bool
	NegateOut bool
}

// Status flags reported alongside the ALU output.
type Status struct {
	Zero     bool // Output is zero.
	Negative bool // Output has its sign bit set.
}

func bit(set bool, pos uint) uint8 {
	if set {
		return 1 << pos
	}
	return 0
}

// Bits packs the control vector as zx nx zy ny f no, zx being bit 5.
func (ctl Control) Bits() uint8 {
	return bit(ctl.ZeroX, BIT_ZX) |
		bit(ctl.NegateX, BIT_NX) |
		bit(ctl.ZeroY, BIT_ZY) |
		bit(ctl.NegateY, BIT_NY) |
		bit(ctl.Add, BIT_F) |
		bit(ctl.NegateOut, BIT_NO)
}

// FromBits unpacks a 6-bit control field. Bits above bit 5 are ignored.
func FromBits(bits uint8) Control {
	return Control{
		ZeroX:     bits&(1<<BIT_ZX) != 0,
		NegateX:   bits&(1<<BIT_NX) != 0,
		ZeroY:     bits&(1<<BIT_ZY) != 0,
		NegateY:   bits&(1<<BIT_NY) != 0,
		Add:       bits&(1<<BIT_F) != 0,
		NegateOut: bits&(1<<BIT_NO) != 0,
	}
}

// String returns the control vector as six binary digits.
func (ctl Control) String() string {
	return fmt.Sprintf("%06b", ctl.Bits())
}

// Compute runs the ALU over x and y.
func (ctl Control) Compute(x, y uint16) (out uint16, status Status) {
	if ctl.ZeroX {
		x = 0
	}
	if ctl.NegateX {
		x = ^x
	}
	if ctl.ZeroY {
		y = 0
	}
	if ctl.NegateY {
		y = ^y
	}

	if ctl.Add {
		out = x + y
	} else {
		out = x & y
	}

	if ctl.NegateOut {
		out = ^out
	}

	status = Status{
		Zero:     out == 0,
		Negative: out&0x8000 != 0,
	}

	return
}
