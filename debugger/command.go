package debugger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Command is a debugger command.
type Command int

const (
	Load Command = iota
	Run
	Step
	Debug
	Quit
	Execute
	View
	Breakpoint
	Peek
	Unassemble
	Help
)

var commandNames = [...]string{
	Load:       "load",
	Run:        "run",
	Step:       "step",
	Debug:      "debug",
	Quit:       "quit",
	Execute:    "execute",
	View:       "view",
	Breakpoint: "breakpoint",
	Peek:       "peek",
	Unassemble: "unassemble",
	Help:       "help",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// ParseError is returned for input that names no command or holds no
// number.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %q: %s", e.Input, e.Reason)
}

var (
	commandPattern = regexp.MustCompile(`^\s*(\w+)(.*)$`)
	hexPattern     = regexp.MustCompile(`^(?:0[xX])?([0-9A-Fa-f]{1,4})$`)
)

// ParseCommand splits a line into its command and the remaining arguments.
// Any non-empty prefix of a command name selects it; "exit" is an alias for
// quit. The rest of the line is returned as typed, leading blanks included.
func ParseCommand(line string) (Command, string, error) {
	m := commandPattern.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return 0, "", &ParseError{Input: line, Reason: "no command given"}
	}

	word, rest := strings.ToLower(m[1]), m[2]
	if word == "exit" {
		return Quit, rest, nil
	}
	for i, name := range commandNames {
		if strings.HasPrefix(name, word) {
			return Command(i), rest, nil
		}
	}
	return 0, "", &ParseError{Input: m[1], Reason: "unknown command"}
}

// ParseHex parses a 1 to 4 digit hexadecimal number with an optional 0x
// prefix.
func ParseHex(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	m := hexPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Input: s, Reason: "not a hexadecimal number"}
	}

	v, err := strconv.ParseUint(m[1], 16, 16)
	if err != nil {
		return 0, &ParseError{Input: s, Reason: err.Error()}
	}
	return uint16(v), nil
}
