package main

import (
	"runtime"

	"github.com/tuboc/chip8/cmd"
)

func init() {
	// SDL must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	cmd.Execute()
}
