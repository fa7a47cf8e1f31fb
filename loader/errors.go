package loader

import "fmt"

// Kind classifies a ROM loading failure.
type Kind int

const (
	KindIO Kind = iota
	KindOddLength
	KindTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "i/o"
	case KindOddLength:
		return "odd length"
	case KindTooLarge:
		return "too large"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned when a ROM image cannot be read or has an invalid shape.
type Error struct {
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading ROM %q: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("loading ROM %q: %s", e.Path, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}
