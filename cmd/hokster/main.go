// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/ezrec/hokster/cpu"
	"github.com/ezrec/hokster/emulator"
	"github.com/ezrec/hokster/io"
	"github.com/ezrec/hokster/translate"
)

var f = translate.From

func main() {
	var cli struct {
		Run   runCmd   `cmd:"" help:"Run a program image."`
		Stats statsCmd `cmd:"" help:"Run a program image, and print instruction statistics."`
		Asm   asmCmd   `cmd:"" help:"Assemble a source file into program and data images."`
		Dis   disCmd   `cmd:"" help:"Disassemble a program image."`
	}

	ctx := kong.Parse(&cli,
		kong.Name("hokster"),
		kong.Description("HOKSTER 8-bit processor emulator."),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// machine flags shared by the run and stats commands.
type machine struct {
	Program     string        `arg:"" type:"existingfile" help:"Program image, one hex pair per line."`
	Data        string        `type:"existingfile" help:"Data image, one hex pair per line."`
	DataBase    string        `name:"data-base" default:"0" help:"Data memory address of the data image."`
	Break       []string      `help:"Stop before a cycle at the program counter (hex)."`
	Brkins      []string      `help:"Stop before recognizing an instruction, as MNEM[=COUNT]. A count of -1 never expires."`
	Intr        []string      `help:"Request interrupt vectors at a program counter, as PC=MASK (hex)."`
	Intrc       []string      `help:"Request interrupt vectors at a cycle, as CYCLE=MASK (decimal=hex)."`
	Timeout     time.Duration `default:"30s" env:"HOKSTER_TIMEOUT" help:"Run time before asking to continue. Zero uses the default."`
	ShadowPairs int           `name:"shadow-pairs" default:"2" env:"HOKSTER_SHADOW_PAIRS" help:"Register pairs saved on interrupt entry."`
	StrictStack bool          `name:"strict-stack" env:"HOKSTER_STRICT_STACK" help:"Reject stack overflow and underflow."`
	Output      string        `short:"o" default:"-" help:"System bus output file."`
	Csv         string        `help:"Write the instruction statistics to a CSV file."`
	Verbose     bool          `short:"v" help:"Verbose mode."`
}

// load creates an emulator loaded with the images and run controls.
func (m *machine) load() (emu *emulator.Emulator, err error) {
	config := cpu.DefaultConfig()
	config.ShadowPairs = m.ShadowPairs
	if m.StrictStack {
		config.StackPolicy = cpu.STACK_STRICT
	}

	emu, err = emulator.NewEmulator(config)
	if err != nil {
		return
	}
	emu.Verbose = m.Verbose

	program, err := readImage(m.Program)
	if err != nil {
		return
	}

	var data []uint8
	if len(m.Data) != 0 {
		data, err = readImage(m.Data)
		if err != nil {
			return
		}
	}

	base, err := parseNumber(m.DataBase, 0)
	if err != nil {
		return
	}

	emu.LoadImages(program, data, int(base))

	err = m.controls(emu)
	if err != nil {
		return
	}

	err = emu.Reset()
	return
}

// controls applies the breakpoint and interrupt request flags.
func (m *machine) controls(emu *emulator.Emulator) (err error) {
	for _, text := range m.Break {
		var pc uint16
		pc, err = parsePc(text)
		if err != nil {
			return
		}
		emu.Breakpoint[pc] = true
	}

	for _, text := range m.Brkins {
		var name string
		var count int
		name, count, err = parseBreakInstruction(text)
		if err != nil {
			return
		}
		err = emu.BreakOn(name, count)
		if err != nil {
			return
		}
	}

	for _, text := range m.Intr {
		var pc uint16
		var mask uint16
		pc, mask, err = parsePcRequest(text)
		if err != nil {
			return
		}
		emu.PcInterrupt[pc] |= mask
	}

	for _, text := range m.Intrc {
		var cycle int
		var mask uint16
		cycle, mask, err = parseCycleRequest(text)
		if err != nil {
			return
		}
		emu.CycleInterrupt[cycle] |= mask
	}

	return
}

// run until the program stops. On a timeout, an interactive user is
// asked whether to continue.
func (m *machine) run(emu *emulator.Emulator) (stop emulator.Stop, err error) {
	if m.Output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		var ouf *os.File
		ouf, err = os.Create(m.Output)
		if err != nil {
			return
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	if m.Timeout <= 0 {
		m.Timeout = emulator.DEFAULT_TIMEOUT
	}

	resume := emu.Run
	for {
		ctx, cancel := context.WithTimeout(context.Background(), m.Timeout)
		stop, err = resume(ctx)
		cancel()
		if err != nil || stop != emulator.STOP_TIMEOUT {
			return
		}
		if !askContinue(m.Timeout) {
			return
		}
		resume = emu.Continue
	}
}

// askContinue asks an interactive user whether to continue after a
// timeout. A non-interactive run never continues.
func askContinue(timeout time.Duration) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	fmt.Fprint(os.Stderr, f("Timeout of %v expired. Cont? [y]/n: ", timeout))
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}

	return parseYes(line)
}

func readImage(path string) (words []uint8, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	words, err = io.ReadImage(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}
	return
}

func report(emu *emulator.Emulator, stop emulator.Stop) {
	switch stop {
	case emulator.STOP_BREAKPOINT, emulator.STOP_BREAK_INSTRUCTION:
		translate.Fprintln(os.Stderr, "%v at pc 0x%03x", stop, emu.Pc.Value())
	default:
		fmt.Fprintln(os.Stderr, stop)
	}

	fmt.Fprintln(os.Stderr, emu.Report().Summary())
	if emu.Verbose {
		fmt.Fprint(os.Stderr, emu.Cpu.String())
	}
}

// writeCsv writes the run statistics, if requested.
func (m *machine) writeCsv(rep emulator.Report) (err error) {
	if len(m.Csv) == 0 {
		return
	}

	ouf, err := os.Create(m.Csv)
	if err != nil {
		return
	}

	err = rep.WriteCSV(ouf)
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	return
}

type runCmd machine

func (cmd *runCmd) Run() (err error) {
	m := (*machine)(cmd)

	emu, err := m.load()
	if err != nil {
		return
	}

	stop, err := m.run(emu)
	if err != nil {
		return
	}

	report(emu, stop)

	err = m.writeCsv(emu.Report())
	return
}

type statsCmd machine

func (cmd *statsCmd) Run() (err error) {
	m := (*machine)(cmd)

	emu, err := m.load()
	if err != nil {
		return
	}

	stop, err := m.run(emu)
	if err != nil {
		return
	}

	report(emu, stop)

	rep := emu.Report()
	fmt.Print(rep.String())

	err = m.writeCsv(rep)
	return
}

type asmCmd struct {
	Source  string   `arg:"" type:"existingfile" help:"Assembler source."`
	Output  string   `short:"o" help:"Output prefix, defaults to the source path without its extension."`
	Define  []string `short:"D" help:"Predefine a constant, as NAME=VALUE."`
	Verbose bool     `short:"v" help:"Verbose mode."`
}

func (cmd *asmCmd) Run() (err error) {
	inf, err := os.Open(cmd.Source)
	if err != nil {
		return
	}
	defer inf.Close()

	emu, err := emulator.NewEmulator(cpu.DefaultConfig())
	if err != nil {
		return
	}

	asm := &cpu.Assembler{Verbose: cmd.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}
	for _, text := range cmd.Define {
		name, value, ok := strings.Cut(text, "=")
		if !ok || len(name) == 0 {
			err = fmt.Errorf("%w: %v", cpu.ErrEquateSyntax, text)
			return
		}
		asm.Predefine(name, value)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", cmd.Source, err)
		return
	}

	prefix := cmd.Output
	if len(prefix) == 0 {
		prefix = strings.TrimSuffix(cmd.Source, filepath.Ext(cmd.Source))
	}

	err = writeRom(prefix+"_prog.hex", prog.Rom())
	if err != nil {
		return
	}

	data := prog.DataRom()
	if len(data.Data) != 0 {
		err = writeRom(prefix+"_data.hex", data)
		if err != nil {
			return
		}
	}

	if cmd.Verbose {
		log.Print(f("%v: %d program words, %d data words", cmd.Source, len(prog.Binary()), len(data.Data)))
	}

	return
}

func writeRom(path string, rom *io.Rom) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	_, err = rom.WriteTo(ouf)
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	return
}

type disCmd struct {
	Program string `arg:"" type:"existingfile" help:"Program image, one hex pair per line."`
}

func (cmd *disCmd) Run() (err error) {
	words, err := readImage(cmd.Program)
	if err != nil {
		return
	}

	for _, line := range disassemble(words) {
		fmt.Println(line)
	}

	return
}
