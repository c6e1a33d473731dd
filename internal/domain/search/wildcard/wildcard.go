// Package wildcard translates user-supplied "*" patterns into linear-time glob matchers.
//
// Only "*" is special: it matches any run of characters, including none.
// Every other character, glob metacharacters included, is matched literally.
// Patterns match the whole field value, case-insensitively.
package wildcard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// MaxStars bounds the number of "*" segments in a single pattern.
const MaxStars = 8

// ErrTooManyStars signals a pattern with more than MaxStars wildcards.
var ErrTooManyStars = errors.New("too many wildcards")

// Pattern is a compiled wildcard pattern.
type Pattern struct {
	raw string
	g   glob.Glob
}

// Compile validates and compiles a wildcard pattern.
func Compile(raw string) (Pattern, error) {
	if raw == "" {
		return Pattern{}, fmt.Errorf("wildcard pattern is empty")
	}
	lower := strings.ToLower(raw)
	for strings.Contains(lower, "**") {
		lower = strings.ReplaceAll(lower, "**", "*")
	}
	parts := strings.Split(lower, "*")
	if len(parts)-1 > MaxStars {
		return Pattern{}, fmt.Errorf("%w (max %d)", ErrTooManyStars, MaxStars)
	}
	for i, part := range parts {
		parts[i] = glob.QuoteMeta(part)
	}

	g, err := glob.Compile(strings.Join(parts, "*"))
	if err != nil {
		return Pattern{}, fmt.Errorf("compile wildcard %q: %w", raw, err)
	}
	return Pattern{raw: raw, g: g}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(raw string) Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether the whole of s matches the pattern (case-insensitive).
func (p Pattern) Match(s string) bool {
	if p.g == nil {
		return false
	}
	return p.g.Match(strings.ToLower(s))
}

// String returns the pattern as written by the user.
func (p Pattern) String() string { return p.raw }
