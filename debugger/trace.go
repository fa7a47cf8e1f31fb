package debugger

import (
	"fmt"
	"io"

	"github.com/tuboc/chip8/emulator"
)

const traceLength = 16

type traceEntry struct {
	pc uint16
	op emulator.Opcode
}

// trace keeps the most recently executed instructions.
type trace struct {
	entries [traceLength]traceEntry
	next    int
	count   int
}

func (t *trace) push(pc uint16, op emulator.Opcode) {
	t.entries[t.next] = traceEntry{pc: pc, op: op}
	t.next = (t.next + 1) % traceLength
	if t.count < traceLength {
		t.count++
	}
}

func (t *trace) reset() {
	*t = trace{}
}

// recent returns the entries oldest first.
func (t *trace) recent() []traceEntry {
	out := make([]traceEntry, 0, t.count)
	start := (t.next - t.count + traceLength) % traceLength
	for i := 0; i < t.count; i++ {
		out = append(out, t.entries[(start+i)%traceLength])
	}
	return out
}

func (t *trace) write(w io.Writer) {
	for _, e := range t.recent() {
		fmt.Fprintf(w, "  %03X  %s\n", e.pc, e.op)
	}
}
