// Package splitter implements the block-tagging state machine that splits an
// annotated source file into two platform variants.
//
// Lines outside any marker block are common and go to both outputs. Lines inside
// an open/close pair go to the variant named by the open marker only. Marker
// lines themselves are consumed. Content is never modified.
package splitter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// State is the position of the machine relative to marker blocks.
type State int

const (
	StateAll State = iota
	StateVariantA
	StateVariantB
)

func (s State) String() string {
	switch s {
	case StateAll:
		return "ALL"
	case StateVariantA:
		return "VARIANT_A"
	case StateVariantB:
		return "VARIANT_B"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats counts what a run did with its input.
type Stats struct {
	LinesRead   int `json:"lines_read"`
	CommonLines int `json:"common_lines"`
	VariantA    int `json:"variant_a"`
	VariantB    int `json:"variant_b"`
	Markers     int `json:"markers"`
	Blocks      int `json:"blocks"`
}

// Splitter routes lines according to a fixed set of markers.
// The zero value is not usable; construct with New.
type Splitter struct {
	markers Markers
}

// New returns a Splitter for the given markers.
func New(markers Markers) (*Splitter, error) {
	if err := markers.Validate(); err != nil {
		return nil, err
	}
	return &Splitter{markers: markers}, nil
}

// Default returns a Splitter using DefaultMarkers.
func Default() *Splitter {
	return &Splitter{markers: DefaultMarkers()}
}

// Markers returns the literals this splitter matches.
func (s *Splitter) Markers() Markers {
	return s.markers
}

// Run reads src line by line and writes each line to a, b, or both.
//
// Lines are written as soon as they are classified. On the first invalid marker
// transition Run stops reading and returns a *SplitError; nothing after the
// offending line reaches either writer. Reaching end of input inside a block is
// an UnterminatedBlock error.
func (s *Splitter) Run(src io.Reader, a, b io.Writer) (Stats, error) {
	var stats Stats
	state := StateAll
	openedAt := 0
	openedLine := ""

	r := bufio.NewReader(src)
	lineNo := 0
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return stats, fmt.Errorf("read line %d: %w", lineNo+1, readErr)
		}
		if line == "" {
			break
		}
		lineNo++
		stats.LinesRead++

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, s.markers.OpenA):
			if state != StateAll {
				return stats, &SplitError{Kind: MisplacedOpen, Variant: VariantA, LineNo: lineNo, Line: line, State: state}
			}
			state = StateVariantA
			openedAt, openedLine = lineNo, line
			stats.Markers++

		case strings.HasPrefix(trimmed, s.markers.OpenB):
			if state != StateAll {
				return stats, &SplitError{Kind: MisplacedOpen, Variant: VariantB, LineNo: lineNo, Line: line, State: state}
			}
			state = StateVariantB
			openedAt, openedLine = lineNo, line
			stats.Markers++

		case strings.HasPrefix(trimmed, s.markers.Close):
			if state == StateAll {
				return stats, &SplitError{Kind: MisplacedClose, LineNo: lineNo, Line: line, State: state}
			}
			state = StateAll
			stats.Markers++
			stats.Blocks++

		default:
			if err := emit(state, line, a, b, &stats); err != nil {
				return stats, fmt.Errorf("write line %d: %w", lineNo, err)
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	if state != StateAll {
		v := VariantA
		if state == StateVariantB {
			v = VariantB
		}
		return stats, &SplitError{Kind: UnterminatedBlock, Variant: v, LineNo: openedAt, Line: openedLine, State: state}
	}
	return stats, nil
}

// Check runs the machine over src without keeping any output.
func (s *Splitter) Check(src io.Reader) (Stats, error) {
	return s.Run(src, io.Discard, io.Discard)
}

func emit(state State, line string, a, b io.Writer, stats *Stats) error {
	switch state {
	case StateVariantA:
		stats.VariantA++
		return writeLine(a, line)
	case StateVariantB:
		stats.VariantB++
		return writeLine(b, line)
	default:
		stats.CommonLines++
		if err := writeLine(a, line); err != nil {
			return err
		}
		return writeLine(b, line)
	}
}

func writeLine(w io.Writer, line string) error {
	_, err := io.WriteString(w, line)
	return err
}

// IsSplitError reports whether err is, or wraps, a marker rule violation.
func IsSplitError(err error) bool {
	var se *SplitError
	return errors.As(err, &se)
}
