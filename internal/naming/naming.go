// Package naming derives the two output paths for an input file.
package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultPattern yields cleaned_code_linux.cpp and cleaned_code_osv.cpp for a .cpp input.
const DefaultPattern = "cleaned_code_{variant}{ext}"

// ErrCollision is returned by Plan when two outputs, or an output and an input,
// resolve to the same file.
var ErrCollision = errors.New("output path collision")

// Scheme maps an input path and a variant name to an output path.
//
// Pattern placeholders:
//
//	{stem}    input file name without extension
//	{ext}     input extension including the dot
//	{variant} variant name
//	{dir}     directory of the input
//
// A relative result is placed in OutputDir, or next to the input when
// OutputDir is empty.
type Scheme struct {
	Pattern   string
	OutputDir string
	VariantA  string
	VariantB  string
}

// Default returns the linux/osv scheme writing next to the input.
func Default() Scheme {
	return Scheme{
		Pattern:  DefaultPattern,
		VariantA: "linux",
		VariantB: "osv",
	}
}

// Validate checks the scheme can produce two distinct names.
func (s Scheme) Validate() error {
	if strings.TrimSpace(s.Pattern) == "" {
		return errors.New("output pattern is empty")
	}
	if !strings.Contains(s.Pattern, "{variant}") {
		return fmt.Errorf("output pattern %q must contain {variant}", s.Pattern)
	}
	if s.VariantA == "" || s.VariantB == "" {
		return errors.New("variant names must not be empty")
	}
	if s.VariantA == s.VariantB {
		return fmt.Errorf("variant names must differ, both are %q", s.VariantA)
	}
	if strings.ContainsAny(s.VariantA+s.VariantB, `/\`) {
		return errors.New("variant names must not contain path separators")
	}
	return nil
}

// Outputs is the resolved pair of output paths for one input.
type Outputs struct {
	Input string
	A     string
	B     string
}

// Resolve returns the output paths for input.
func (s Scheme) Resolve(input string) Outputs {
	return Outputs{
		Input: input,
		A:     s.path(input, s.VariantA),
		B:     s.path(input, s.VariantB),
	}
}

func (s Scheme) path(input, variant string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := strings.NewReplacer(
		"{stem}", stem,
		"{ext}", ext,
		"{variant}", variant,
		"{dir}", dir,
	).Replace(s.Pattern)

	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	if strings.Contains(s.Pattern, "{dir}") {
		return filepath.Clean(name)
	}
	if s.OutputDir != "" {
		return filepath.Join(s.OutputDir, name)
	}
	return filepath.Join(dir, name)
}

// Plan resolves every input and rejects any path used twice.
func (s Scheme) Plan(inputs []string) ([]Outputs, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(inputs)*3)
	claim := func(path, owner string) error {
		key := canonical(path)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s is used by %s and %s", ErrCollision, path, prev, owner)
		}
		seen[key] = owner
		return nil
	}

	var errs []error
	for _, in := range inputs {
		if err := claim(in, "input "+in); err != nil {
			errs = append(errs, err)
		}
	}

	plan := make([]Outputs, 0, len(inputs))
	for _, in := range inputs {
		out := s.Resolve(in)
		if err := claim(out.A, fmt.Sprintf("%s output of %s", s.VariantA, in)); err != nil {
			errs = append(errs, err)
		}
		if err := claim(out.B, fmt.Sprintf("%s output of %s", s.VariantB, in)); err != nil {
			errs = append(errs, err)
		}
		plan = append(plan, out)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return plan, nil
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
