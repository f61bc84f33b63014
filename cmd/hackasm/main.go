package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tebeka/atexit"

	"github.com/ammaraskar/nand-2-fpga-tetris/asm"
	"github.com/ammaraskar/nand-2-fpga-tetris/emulator"
	"github.com/ammaraskar/nand-2-fpga-tetris/translate"
)

// RAM_DUMP is the number of RAM words printed after a run.
const RAM_DUMP = 16

// fatalf logs and exits through atexit, so registered closers still run.
func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	atexit.Exit(1)
}

// describe formats an assembly error, with the offending line and a caret
// line under the failing span when the error has a position.
func describe(name string, err error) string {
	var pe *asm.ErrParse
	var ve *asm.ErrValidation

	switch {
	case errors.As(err, &pe):
		return fmt.Sprintf("%v: %v\n%v", name, err, asm.Caret(pe.Line, pe.Pos))
	case errors.As(err, &ve):
		return fmt.Sprintf("%v: %v\n%v", name, err, asm.Caret(ve.Line, ve.Pos))
	}

	return fmt.Sprintf("%v: %v", name, err)
}

func writeHack(prog *asm.Program, output string) error {
	var w io.Writer = os.Stdout
	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			return err
		}
		atexit.Register(func() { ouf.Close() })
		w = ouf
	}

	return prog.WriteHack(w)
}

// dump renders the machine state after a run.
func dump(emu *emulator.Emulator, done bool) string {
	state := "running"
	if done {
		state = "done"
	}

	regs := table.NewWriter()
	regs.SetTitle(fmt.Sprintf("%v ticks, %v", translate.Number(emu.Ticks()), state))
	regs.AppendHeader(table.Row{"PC", "A", "D", "Line"})
	regs.AppendRow(table.Row{
		fmt.Sprintf("%04X", emu.Cpu.Pc),
		fmt.Sprintf("%04X", emu.Cpu.A),
		fmt.Sprintf("%04X", emu.Cpu.D),
		emu.LineNo(),
	})

	ram := table.NewWriter()
	ram.SetTitle("RAM")
	ram.AppendHeader(table.Row{"Address", "Hex", "Signed"})
	for addr := range RAM_DUMP {
		value := emu.Cpu.Ram[addr]
		ram.AppendRow(table.Row{addr, fmt.Sprintf("%04X", value), int16(value)})
	}

	return regs.Render() + "\n" + ram.Render()
}

func main() {
	var output string
	var listing bool
	var verbose bool
	var run int

	flag.StringVar(&output, "o", "", ".hack file to write, '-' for stdout (default: source with .hack suffix)")
	flag.BoolVar(&listing, "l", false, "Print an annotated listing")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&run, "run", 0, "Run the program in the emulator for at most N ticks")

	flag.Parse()

	if flag.NArg() != 1 {
		fatalf("%v: expected one source file, got %v", os.Args[0], flag.Args())
	}

	source := flag.Arg(0)
	inf, err := os.Open(source)
	if err != nil {
		fatalf("%v: %v", source, err)
	}
	atexit.Register(func() { inf.Close() })

	asm := &asm.Assembler{Verbose: verbose}
	prog, err := asm.Parse(inf)
	if err != nil {
		fatalf("%v", describe(source, err))
	}

	if len(output) == 0 {
		output = strings.TrimSuffix(source, filepath.Ext(source)) + ".hack"
	}

	err = writeHack(prog, output)
	if err != nil {
		fatalf("%v: %v", output, err)
	}

	if listing {
		err = prog.WriteListing(os.Stdout)
		if err != nil {
			fatalf("%v", err)
		}
	}

	if run > 0 {
		emu := emulator.NewEmulator()
		emu.Program = prog
		emu.Verbose = verbose

		err = emu.Reset()
		if err != nil {
			fatalf("%v: %v", source, err)
		}

		done, err := emu.Run(run)
		if err != nil {
			fatalf("%v: %v", source, err)
		}

		fmt.Println(dump(emu, done))
	}

	atexit.Exit(0)
}
