// Package debugger implements an interactive, line oriented debugger for the
// CHIP-8 interpreter.
package debugger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chip8/emulator"
	"github.com/tuboc/chip8/loader"
)

const (
	prompt            = "chip8> "
	defaultPeekLength = 0x10
	defaultListLength = 0x10
)

// ErrHalted is reported when the CPU hit an invariant violation. A halted CPU
// stays halted until a new program is loaded.
var ErrHalted = errors.New("cpu halted")

// REPL reads debugger commands from in and writes their output to out.
type REPL struct {
	in     io.Reader
	out    io.Writer
	logger *log.Logger
	loader *loader.Loader

	cpu         *emulator.Chip8
	halted      bool
	breakpoints map[uint16]struct{}
	trace       trace
}

// New returns a debugger with an empty CPU.
func New(in io.Reader, out io.Writer, logger *log.Logger) *REPL {
	return &REPL{
		in:          in,
		out:         out,
		logger:      logger,
		loader:      loader.New(logger),
		cpu:         emulator.New(),
		breakpoints: map[uint16]struct{}{},
	}
}

// CPU returns the CPU the debugger currently works on.
func (r *REPL) CPU() *emulator.Chip8 {
	return r.cpu
}

// Open loads the ROM at path, replacing the current CPU.
func (r *REPL) Open(path string) error {
	cpu, err := r.loader.LoadProgram(path)
	if err != nil {
		return err
	}
	r.cpu = cpu
	r.halted = false
	r.trace.reset()
	return nil
}

// Run processes commands until quit, end of input or cancellation of ctx.
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, rest, err := ParseCommand(line)
		if err != nil {
			fmt.Fprintf(r.out, "Could not parse command: %v\n", err)
			continue
		}
		if cmd == Quit {
			return nil
		}
		r.dispatch(ctx, cmd, rest)
	}
}

func (r *REPL) dispatch(ctx context.Context, cmd Command, rest string) {
	args := strings.Fields(rest)

	switch cmd {
	case Load:
		r.load(strings.TrimSpace(rest))
	case Run:
		r.run(ctx)
	case Step:
		r.step(ctx, args)
	case Debug:
		r.debug()
	case Execute:
		r.execute(args)
	case View:
		fmt.Fprint(r.out, r.cpu.View())
	case Breakpoint:
		r.breakpoint(args)
	case Peek:
		r.peek(args)
	case Unassemble:
		r.unassemble(args)
	case Help:
		r.help()
	}
}

func (r *REPL) load(path string) {
	if path == "" {
		fmt.Fprintln(r.out, "Usage: load <path>")
		return
	}
	if err := r.Open(path); err != nil {
		fmt.Fprintf(r.out, "Could not load program: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "Loaded %s\n", path)
}

// cycle runs one instruction. Invariant violations raised by the core are
// recovered and halt the CPU.
func (r *REPL) cycle() (err error) {
	if r.halted {
		return ErrHalted
	}

	defer func() {
		if p := recover(); p != nil {
			r.halted = true
			err = fmt.Errorf("%w: %v", ErrHalted, p)
			r.logger.Error("CPU halted", log.String("reason", fmt.Sprint(p)))
		}
	}()

	pc := r.cpu.ProgramCounter()
	op, err := r.cpu.Cycle(emulator.NoKeys)
	if err != nil {
		return err
	}
	r.trace.push(pc, op)
	r.logger.Debug("Executed", log.Hex("pc", pc), log.String("op", op.String()))
	return nil
}

func (r *REPL) run(ctx context.Context) {
	for first := true; ; first = false {
		if ctx.Err() != nil {
			fmt.Fprintln(r.out, "Interrupted")
			return
		}

		pc := r.cpu.ProgramCounter()
		if _, ok := r.breakpoints[pc]; ok && !first {
			fmt.Fprintf(r.out, "Breakpoint hit at 0x%03X\n", pc)
			return
		}
		if err := r.cycle(); err != nil {
			r.reportError(err)
			return
		}
	}
}

func (r *REPL) step(ctx context.Context, args []string) {
	steps := uint16(1)
	if len(args) > 0 {
		n, err := ParseHex(args[0])
		if err != nil {
			fmt.Fprintf(r.out, "Could not parse number of steps: %v\n", err)
			return
		}
		steps = n
	}

	for i := uint16(0); i < steps; i++ {
		if ctx.Err() != nil {
			fmt.Fprintln(r.out, "Interrupted")
			return
		}
		if err := r.cycle(); err != nil {
			r.reportError(err)
			return
		}
	}
	fmt.Fprintf(r.out, "PC: 0x%03X\n", r.cpu.ProgramCounter())
}

func (r *REPL) reportError(err error) {
	fmt.Fprintf(r.out, "Error: %v\n", err)
	if !errors.Is(err, ErrHalted) {
		fmt.Fprint(r.out, r.cpu.View())
	}
}

func (r *REPL) execute(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Usage: execute <hex word>")
		return
	}
	word, err := ParseHex(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Could not parse opcode: %v\n", err)
		return
	}

	op, err := r.cpu.TryDecode(uint8(word>>8), uint8(word))
	if err != nil {
		fmt.Fprintf(r.out, "Could not decode: %v\n", err)
		return
	}
	if r.halted {
		r.reportError(ErrHalted)
		return
	}

	fmt.Fprintf(r.out, "Executing: %s\n", op)
	defer func() {
		if p := recover(); p != nil {
			r.halted = true
			r.reportError(fmt.Errorf("%w: %v", ErrHalted, p))
		}
	}()
	r.cpu.Execute(op, emulator.NoKeys)
}

func (r *REPL) debug() {
	for i, v := range r.cpu.Registers() {
		fmt.Fprintf(r.out, "V%X: 0x%02X\n", i, v)
	}
	fmt.Fprintf(r.out, "I:  0x%03X\n", r.cpu.Index())
	fmt.Fprintf(r.out, "PC: 0x%03X\n", r.cpu.ProgramCounter())
	fmt.Fprintf(r.out, "DT: 0x%02X\n", r.cpu.DelayTimer())
	fmt.Fprintf(r.out, "ST: 0x%02X\n", r.cpu.SoundTimer())
	fmt.Fprintf(r.out, "SP: %d\n", r.cpu.StackDepth())
	if r.halted {
		fmt.Fprintln(r.out, "CPU is halted")
	}
	if r.trace.count > 0 {
		fmt.Fprintln(r.out, "Recent:")
		r.trace.write(r.out)
	}
}

func (r *REPL) breakpoint(args []string) {
	if len(args) == 0 {
		r.listBreakpoints()
		return
	}
	addr, err := ParseHex(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Could not parse breakpoint: %v\n", err)
		return
	}

	if _, ok := r.breakpoints[addr]; ok {
		delete(r.breakpoints, addr)
		fmt.Fprintf(r.out, "Removing breakpoint when the pc is 0x%03X\n", addr)
		return
	}
	r.breakpoints[addr] = struct{}{}
	fmt.Fprintf(r.out, "Adding breakpoint when the pc is 0x%03X\n", addr)
}

// Breakpoints returns the active breakpoints in ascending order.
func (r *REPL) Breakpoints() []uint16 {
	addrs := make([]uint16, 0, len(r.breakpoints))
	for addr := range r.breakpoints {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func (r *REPL) listBreakpoints() {
	addrs := r.Breakpoints()
	if len(addrs) == 0 {
		fmt.Fprintln(r.out, "No breakpoints")
		return
	}
	for _, addr := range addrs {
		fmt.Fprintf(r.out, "0x%03X\n", addr)
	}
}

// parseRange reads an optional start address and length.
func (r *REPL) parseRange(args []string, start, length uint16) (uint16, uint16, error) {
	if len(args) > 0 {
		v, err := ParseHex(args[0])
		if err != nil {
			return 0, 0, err
		}
		if !emulator.Address(v).Valid() {
			return 0, 0, &ParseError{Input: args[0], Reason: "address wider than 12 bits"}
		}
		start = v
	}
	if len(args) > 1 {
		v, err := ParseHex(args[1])
		if err != nil {
			return 0, 0, err
		}
		length = v
	}
	return start, length, nil
}

func (r *REPL) peek(args []string) {
	start, length, err := r.parseRange(args, r.cpu.Index(), defaultPeekLength)
	if err != nil {
		fmt.Fprintf(r.out, "Could not parse range: %v\n", err)
		return
	}

	addr := emulator.NewAddress(start)
	for i, b := range r.cpu.ReadMemoryRange(start, int(length)) {
		if i%16 == 0 {
			if i > 0 {
				fmt.Fprintln(r.out)
			}
			fmt.Fprintf(r.out, "%s:", addr.Add(uint16(i)))
		}
		fmt.Fprintf(r.out, " %02X", b)
	}
	if length > 0 {
		fmt.Fprintln(r.out)
	}
}

func (r *REPL) unassemble(args []string) {
	start, count, err := r.parseRange(args, r.cpu.ProgramCounter(), defaultListLength)
	if err != nil {
		fmt.Fprintf(r.out, "Could not parse range: %v\n", err)
		return
	}

	addr := emulator.NewAddress(start)
	for i := uint16(0); i < count; i++ {
		word := r.cpu.ReadWord(uint16(addr))
		marker := " "
		if _, ok := r.breakpoints[uint16(addr)]; ok {
			marker = "*"
		}

		text := "???"
		if op, err := emulator.DecodeWord(word); err == nil {
			text = op.String()
		}
		fmt.Fprintf(r.out, "%s%s  %04X  %s\n", marker, addr, word, text)
		addr = addr.Add(2)
	}
}

func (r *REPL) help() {
	fmt.Fprint(r.out, `Commands (any prefix works):
  load <path>          load a ROM into a fresh CPU
  run                  run until a breakpoint or an error
  step [n]             execute n instructions (hex, default 1)
  execute <word>       decode and execute a single instruction word
  debug                show registers and recent instructions
  view                 show the display
  breakpoint [addr]    toggle a breakpoint, or list them
  peek [addr] [len]    dump memory, starting at I by default
  unassemble [addr] [n] disassemble, starting at PC by default
  quit                 leave the debugger
`)
}
