// Package asm implements the assembler for the 16-bit toy computer.
//
// Each source line holds at most one of:
//
//	name:                       label declaration
//	A := 42                     address instruction, decimal or 0x hex
//	A := @name                  address of a label
//	A := $(16 * 1024)           constant expression, evaluated at parse time
//	[dest, ... =] expr [; jmp]  compute instruction
//
// Registers are A, D and *A (also written M), the memory cell addressed by A.
// The ALU expression is one of 0, 1, -1, X, !X, -X, X + 1, X - 1, or
// X op Y with op in + - & |, where a binary expression uses D and one of A
// or *A. Jump conditions are jgt, jeq, jge, jlt, jne, jle and jmp. Text after
// '//' is a comment.
//
// Address instructions assemble to a 0 bit followed by a 15-bit unsigned
// immediate. Compute instructions assemble to 111a cccc ccdd djjj, where a
// selects RAM[A] as the ALU's Y input, c is the ALU control vector, d the
// destinations A, D, M and j the jump condition.
package asm
