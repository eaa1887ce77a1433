package splitter

import (
	"errors"
	"fmt"
	"strings"
)

// Marker literals. Matching is a case-sensitive prefix test on the
// whitespace-trimmed line.
const (
	OpenALiteral = "#ifdef LINUX"
	OpenBLiteral = "#ifdef OSV"
	CloseLiteral = "#endif"
)

// Variant identifies one of the two outputs.
type Variant int

const (
	VariantA Variant = iota
	VariantB
)

func (v Variant) String() string {
	if v == VariantB {
		return "B"
	}
	return "A"
}

// Markers holds the three directive literals, checked in field order.
type Markers struct {
	OpenA string `yaml:"open_a"`
	OpenB string `yaml:"open_b"`
	Close string `yaml:"close"`
}

// DefaultMarkers returns the LINUX/OSV marker set.
func DefaultMarkers() Markers {
	return Markers{
		OpenA: OpenALiteral,
		OpenB: OpenBLiteral,
		Close: CloseLiteral,
	}
}

// Open returns the open literal for v.
func (m Markers) Open(v Variant) string {
	if v == VariantB {
		return m.OpenB
	}
	return m.OpenA
}

// Validate rejects marker sets the ordered prefix check cannot tell apart.
func (m Markers) Validate() error {
	lits := []struct {
		role, lit string
	}{
		{"open_a", m.OpenA},
		{"open_b", m.OpenB},
		{"close", m.Close},
	}
	var errs []error
	for _, l := range lits {
		if strings.TrimSpace(l.lit) == "" {
			errs = append(errs, fmt.Errorf("marker %s is empty", l.role))
			continue
		}
		if l.lit != strings.TrimSpace(l.lit) {
			errs = append(errs, fmt.Errorf("marker %s %q has surrounding whitespace", l.role, l.lit))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	// An earlier literal that prefixes a later one makes the later one unreachable.
	for i, x := range lits {
		for _, y := range lits[i+1:] {
			if strings.HasPrefix(y.lit, x.lit) {
				errs = append(errs, fmt.Errorf("marker %s %q shadows marker %s %q", x.role, x.lit, y.role, y.lit))
			}
		}
	}
	return errors.Join(errs...)
}
