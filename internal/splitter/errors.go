package splitter

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a marker rule violation.
type Kind int

const (
	MisplacedOpen Kind = iota + 1
	MisplacedClose
	UnterminatedBlock
)

func (k Kind) String() string {
	switch k {
	case MisplacedOpen:
		return "MisplacedOpen"
	case MisplacedClose:
		return "MisplacedClose"
	case UnterminatedBlock:
		return "UnterminatedBlock"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. A *SplitError matches the sentinel of its Kind.
var (
	ErrMisplacedOpen     = errors.New("open marker inside a block")
	ErrMisplacedClose    = errors.New("close marker outside a block")
	ErrUnterminatedBlock = errors.New("block not closed before end of input")
)

// SplitError reports the line that broke the marker rules.
type SplitError struct {
	Kind    Kind
	Variant Variant // set for MisplacedOpen and UnterminatedBlock
	LineNo  int     // 1-based; for UnterminatedBlock, the line that opened the block
	Line    string  // original line text, terminator included
	State   State   // machine state when the line was seen
}

func (e *SplitError) Error() string {
	text := strings.TrimRight(e.Line, "\r\n")
	switch e.Kind {
	case MisplacedOpen:
		return fmt.Sprintf("line %d: open marker for variant %s while in %s: %s", e.LineNo, e.Variant, e.State, text)
	case MisplacedClose:
		return fmt.Sprintf("line %d: close marker outside any block: %s", e.LineNo, text)
	case UnterminatedBlock:
		return fmt.Sprintf("line %d: block for variant %s is never closed: %s", e.LineNo, e.Variant, text)
	default:
		return fmt.Sprintf("line %d: %s: %s", e.LineNo, e.Kind, text)
	}
}

// Is maps the error onto its sentinel.
func (e *SplitError) Is(target error) bool {
	switch target {
	case ErrMisplacedOpen:
		return e.Kind == MisplacedOpen
	case ErrMisplacedClose:
		return e.Kind == MisplacedClose
	case ErrUnterminatedBlock:
		return e.Kind == UnterminatedBlock
	}
	return false
}
