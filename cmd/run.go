package cmd

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sqweek/dialog"
	"github.com/tuboc/chip8/config"
	"github.com/tuboc/chip8/frontend"
	"github.com/tuboc/chip8/loader"
)

var pickROM bool

var runCmd = &cobra.Command{
	Use:   "run [rom]",
	Short: "load a ROM and run it in a window",
	Long: `Load a ROM and run it in a window.

Keypad: 1234 / QWER / ASDF / ZXCV
Space pauses, or steps one instruction while paused. Return resumes,
Backspace resets and Escape quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runROM,
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.BoolVarP(&pickROM, "pick", "p", false, "choose the ROM in a file dialog")
	flags.IntP(config.KeyClock, "c", config.DefaultClock, "instructions executed per second")
	flags.Int(config.KeyTimer, config.DefaultTimer, "timer decrements per second")
	flags.IntP(config.KeyScale, "s", config.DefaultScale, "window pixels per CHIP-8 pixel")
	flags.Bool(config.KeyStep, false, "start paused")
	for _, key := range []string{config.KeyClock, config.KeyTimer, config.KeyScale, config.KeyStep} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(key)))
	}
}

func runROM(cmd *cobra.Command, args []string) error {
	cfg, logger, err := settings()
	if err != nil {
		return err
	}

	path, err := romPath(args)
	if err != nil {
		return err
	}

	rom, err := loader.New(logger).ReadROM(path)
	if err != nil {
		return err
	}

	emu, err := frontend.New(rom, cfg, logger)
	if err != nil {
		return err
	}
	defer emu.Close()

	logger.Info("Running",
		log.String("rom", path),
		log.Int("clock", cfg.Clock),
		log.Int("timer", cfg.Timer))
	return emu.Run(cmd.Context())
}

// romPath returns the ROM given on the command line or asks for one.
func romPath(args []string) (string, error) {
	if len(args) == 1 && !pickROM {
		return args[0], nil
	}

	path, err := dialog.File().
		Title("Open CHIP-8 ROM").
		Filter("CHIP-8 ROM", "ch8", "c8").
		Filter("All files", "*").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", errors.New("no ROM selected")
	}
	if err != nil {
		return "", fmt.Errorf("picking ROM: %w", err)
	}
	return path, nil
}
