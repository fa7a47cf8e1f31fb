// Package frontend presents a running CHIP-8 program in an SDL window.
package frontend

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chip8/config"
	"github.com/tuboc/chip8/emulator"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	FrameRate   = 60
	WindowTitle = "CHIP-8"
)

// Emulator owns the CPU and the SDL window. All methods must be called from
// the main OS thread.
type Emulator struct {
	rom      []byte
	cpu      *emulator.Chip8
	window   *sdl.Window
	renderer *sdl.Renderer
	logger   *log.Logger

	running bool
	paused  bool
	focus   bool

	scale int32
	clock int
	timer int
}

// New opens the emulator window and loads rom into a fresh CPU.
func New(rom []byte, cfg config.Config, logger *log.Logger) (*Emulator, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	scale := int32(cfg.Scale)
	window, err := sdl.CreateWindow(WindowTitle, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		emulator.DisplayW*scale, emulator.DisplayH*scale, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		_ = window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	e := &Emulator{
		rom:      rom,
		window:   window,
		renderer: renderer,
		logger:   logger,
		running:  true,
		paused:   cfg.Step,
		focus:    true,
		scale:    scale,
		clock:    cfg.Clock,
		timer:    cfg.Timer,
	}
	e.reset()
	return e, nil
}

// Close releases the window and shuts SDL down.
func (e *Emulator) Close() {
	_ = e.renderer.Destroy()
	_ = e.window.Destroy()
	sdl.Quit()
}

func (e *Emulator) reset() {
	e.cpu = emulator.New()
	e.cpu.LoadProgram(e.rom)
	e.logger.Debug("CPU reset", log.Int("rom_size", len(e.rom)))
}

// Run executes instructions at the configured clock rate, ticks the timers at
// the timer rate and redraws at the frame rate until the window is closed or
// ctx is cancelled.
func (e *Emulator) Run(ctx context.Context) error {
	cpuTicker := time.NewTicker(interval(e.clock))
	defer cpuTicker.Stop()
	timerTicker := time.NewTicker(interval(e.timer))
	defer timerTicker.Stop()
	frameTicker := time.NewTicker(interval(FrameRate))
	defer frameTicker.Stop()

	e.updateTitle()
	for e.running {
		select {
		case <-ctx.Done():
			e.logger.Info("Emulation cancelled")
			return nil

		case <-cpuTicker.C:
			if e.active() {
				if err := e.cycle(); err != nil {
					return err
				}
			}

		case <-timerTicker.C:
			if e.active() {
				e.cpu.DecrementTimers()
			}

		case <-frameTicker.C:
			e.pollEvents()
			e.draw()
		}
	}
	return nil
}

func (e *Emulator) active() bool {
	return e.focus && !e.paused
}

// cycle executes one instruction. A word that does not decode pauses the
// emulator; an invariant violation inside the core ends the run.
func (e *Emulator) cycle() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("emulation halted at %03X: %v", e.cpu.ProgramCounter(), p)
		}
	}()

	if _, err := e.cpu.Cycle(keyboardState()); err != nil {
		e.logger.Error("Execution paused", log.Err(err))
		e.setPaused(true)
	}
	return nil
}

func (e *Emulator) setPaused(paused bool) {
	e.paused = paused
	e.updateTitle()
}

func (e *Emulator) updateTitle() {
	if e.paused {
		e.window.SetTitle(WindowTitle + " (paused)")
	} else {
		e.window.SetTitle(WindowTitle)
	}
}

func (e *Emulator) draw() {
	_ = e.renderer.SetDrawColor(0, 0, 0, 255)
	_ = e.renderer.Clear()

	_ = e.renderer.SetDrawColor(0, 255, 0, 255)
	frame := e.cpu.Frame()
	for x := 0; x < emulator.DisplayW; x++ {
		for y := 0; y < emulator.DisplayH; y++ {
			if frame[x][y] {
				rect := pixelRect(x, y, e.scale)
				_ = e.renderer.FillRect(&rect)
			}
		}
	}

	e.renderer.Present()
}

func (e *Emulator) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			e.running = false

		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Repeat == 0 {
				e.controlKey(ev.Keysym.Scancode)
			}

		case *sdl.WindowEvent:
			switch ev.Event {
			case sdl.WINDOWEVENT_FOCUS_LOST:
				e.focus = false
			case sdl.WINDOWEVENT_FOCUS_GAINED:
				e.focus = true
			}
		}
	}
}

// controlKey handles the keys outside the keypad block.
func (e *Emulator) controlKey(code sdl.Scancode) {
	switch code {
	case sdl.SCANCODE_SPACE:
		if !e.paused {
			e.setPaused(true)
			return
		}
		if err := e.cycle(); err != nil {
			e.logger.Error("Step failed", log.Err(err))
			e.running = false
			return
		}
		e.logger.Debug("Stepped", log.Hex("pc", e.cpu.ProgramCounter()))

	case sdl.SCANCODE_RETURN:
		e.setPaused(false)

	case sdl.SCANCODE_BACKSPACE:
		e.reset()

	case sdl.SCANCODE_ESCAPE:
		e.running = false
	}
}

func pixelRect(x, y int, scale int32) sdl.Rect {
	return sdl.Rect{X: int32(x) * scale, Y: int32(y) * scale, W: scale, H: scale}
}

func interval(hz int) time.Duration {
	return time.Second / time.Duration(hz)
}
