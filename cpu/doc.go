// Package cpu implements the processor and memory of the 16-bit computer.
//
// The CPU holds an address register A, a data register D and a program
// counter. Instructions are fetched from a read-only program memory; data
// lives in a separate RAM. Each tick executes one instruction word:
//
//   - an address instruction loads A with its 15-bit immediate;
//   - a compute instruction feeds D and either A or RAM[A] through the ALU,
//     stores the result into any of A, D and RAM[A], and jumps to A when the
//     jump condition matches the sign and zero flags of the result.
//
// RAM writes use the value of A from before the instruction, as do jumps.
package cpu
