// Package loader reads CHIP-8 ROM images from disk and hands them to the
// emulator core.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chip8/emulator"
)

// Loader reads ROM files and reports what it did through its logger.
type Loader struct {
	logger *log.Logger
}

// New returns a loader that logs to logger.
func New(logger *log.Logger) *Loader {
	return &Loader{logger: logger}
}

var std = New(errorLogger())

func errorLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ErrorLevel
	return log.NewWithConfig(cfg)
}

// ReadROM returns the raw bytes of the ROM at path. Images that do not fit
// into program memory are rejected before the core ever sees them.
func (l *Loader) ReadROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Kind: KindIO, Err: err}
	}
	if len(data) > emulator.MaxProgramSize {
		return nil, &Error{
			Path: path,
			Kind: KindTooLarge,
			Err:  fmt.Errorf("%d bytes, at most %d fit", len(data), emulator.MaxProgramSize),
		}
	}

	l.logger.Debug("Read ROM",
		log.String("path", path),
		log.Int("size", len(data)))
	return data, nil
}

// LoadProgram returns a fresh CPU with the ROM at path copied into program
// memory.
func (l *Loader) LoadProgram(path string) (*emulator.Chip8, error) {
	data, err := l.ReadROM(path)
	if err != nil {
		return nil, err
	}

	cpu := emulator.New()
	cpu.LoadProgram(data)
	l.logger.Info("Loaded program", log.String("path", path))
	return cpu, nil
}

// DecodeROM decodes every instruction word of the ROM at path in file order.
// The image must hold a whole number of words.
func (l *Loader) DecodeROM(path string) ([]emulator.Opcode, error) {
	data, err := l.ReadROM(path)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, &Error{Path: path, Kind: KindOddLength}
	}

	ops := make([]emulator.Opcode, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		op, err := emulator.TryDecode(data[i], data[i+1])
		if err != nil {
			return nil, fmt.Errorf("offset %04X: %w", i, err)
		}
		ops = append(ops, op)
	}

	l.logger.Debug("Decoded ROM",
		log.String("path", path),
		log.Int("instructions", len(ops)))
	return ops, nil
}

// Run executes every instruction of the ROM at path on cpu in file order,
// with no keys pressed. Control flow opcodes change the program counter but do
// not change which instruction runs next.
func (l *Loader) Run(path string, cpu *emulator.Chip8) error {
	ops, err := l.DecodeROM(path)
	if err != nil {
		return err
	}
	for _, op := range ops {
		cpu.Execute(op, emulator.NoKeys)
	}
	return nil
}

// ReadROM reads the ROM at path using the default loader.
func ReadROM(path string) ([]byte, error) {
	return std.ReadROM(path)
}

// LoadProgram loads the ROM at path into a fresh CPU using the default loader.
func LoadProgram(path string) (*emulator.Chip8, error) {
	return std.LoadProgram(path)
}

// DecodeROM decodes the ROM at path using the default loader.
func DecodeROM(path string) ([]emulator.Opcode, error) {
	return std.DecodeROM(path)
}

// Run executes the ROM at path on cpu using the default loader.
func Run(path string, cpu *emulator.Chip8) error {
	return std.Run(path, cpu)
}
