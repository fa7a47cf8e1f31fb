package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/tuboc/chip8/emulator"
	"github.com/tuboc/chip8/loader"
)

var verifyListing bool

var disasmCmd = &cobra.Command{
	Use:   "disasm <rom>",
	Short: "print the instructions of a ROM",
	Args:  cobra.ExactArgs(1),
	RunE:  disasmROM,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().BoolVar(&verifyListing, "verify", false,
		"cross-check every decoded word against the retrogolib CHIP-8 opcode tables")
}

func disasmROM(cmd *cobra.Command, args []string) error {
	_, logger, err := settings()
	if err != nil {
		return err
	}

	rom, err := loader.New(logger).ReadROM(args[0])
	if err != nil {
		return err
	}

	mismatches := disassemble(cmd.OutOrStdout(), rom, verifyListing, logger)
	if mismatches > 0 {
		return fmt.Errorf("%d instructions disagree with the reference tables", mismatches)
	}
	return nil
}

// disassemble writes a listing of rom as loaded at the program offset. Words
// that do not decode are listed as data. With verify set, every word is
// looked up in the retrogolib opcode tables and the number of disagreements is
// returned.
func disassemble(w io.Writer, rom []byte, verify bool, logger *log.Logger) int {
	mismatches := 0
	for i := 0; i < len(rom); i += 2 {
		addr := emulator.NewAddress(emulator.ProgramOffset).Add(uint16(i))
		if i+1 == len(rom) {
			fmt.Fprintf(w, "%s  %02X    DB   #%02X\n", addr, rom[i], rom[i])
			break
		}

		word := uint16(rom[i])<<8 | uint16(rom[i+1])
		op, err := emulator.DecodeWord(word)
		text := fmt.Sprintf("DW   #%04X", word)
		if err == nil {
			text = op.String()
		}
		fmt.Fprintf(w, "%s  %04X  %s\n", addr, word, text)

		if verify && !agrees(word, op) {
			mismatches++
			logger.Warn("Decoder disagrees with reference",
				log.Hex("address", uint16(addr)),
				log.Hex("word", word),
				log.String("decoded", mnemonic(op)),
				log.String("reference", referenceName(word)))
		}
	}
	return mismatches
}

// referenceName returns the retrogolib instruction name for word, or an
// empty string when the tables know no matching opcode.
func referenceName(word uint16) string {
	for _, op := range chip8.Opcodes[int(word>>12)] {
		if op.Instruction != nil && op.Info.Mask&word == op.Info.Value {
			return op.Instruction.Name
		}
	}
	return ""
}

func mnemonic(op emulator.Opcode) string {
	if op == nil {
		return ""
	}
	return strings.Fields(op.String())[0]
}

// agrees reports whether the decoder and the reference tables classify word
// the same way. Machine code calls are rejected by the decoder on purpose.
func agrees(word uint16, op emulator.Opcode) bool {
	ref := referenceName(word)
	if op == nil {
		return ref == "" || word>>12 == 0
	}
	return strings.EqualFold(mnemonic(op), ref)
}
