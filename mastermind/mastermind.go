// Package mastermind holds the value types of the game: symbols, codes,
// feedback, and the alphabet of colors a code is drawn from. Everything
// here is pure; solver state lives in the solver package.
package mastermind

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// CodeLen is the number of pegs in a code.
const CodeLen = 4

// MaxSymbols bounds the alphabet size so feedback scoring can use
// fixed-size counters.
const MaxSymbols = 16

// Symbol is an index into an Alphabet.
type Symbol uint8

// Code is an ordered sequence of symbols. Position matters, repeats are
// allowed. Codes are values: comparable, hashable, never mutated.
type Code [CodeLen]Symbol

// Feedback is the response to a guess: Exact counts pegs matching in
// both symbol and position, Color counts symbols present but misplaced.
type Feedback struct {
	Exact int
	Color int
}

// ErrInvalidFeedback reports feedback that violates the game invariant
// (each component in [0,CodeLen], sum at most CodeLen).
var ErrInvalidFeedback = errors.New("invalid feedback")

// ErrInvalidCode reports code text that does not parse into exactly
// CodeLen known symbols.
var ErrInvalidCode = errors.New("invalid code")

// Validate checks the feedback invariant. Feedback produced by Score
// always passes; feedback read from an external source must be checked
// before use.
func (f Feedback) Validate() error {
	if f.Exact < 0 || f.Exact > CodeLen || f.Color < 0 || f.Color > CodeLen {
		return fmt.Errorf("%w: components must be in [0,%d], got (%d,%d)", ErrInvalidFeedback, CodeLen, f.Exact, f.Color)
	}
	if f.Exact+f.Color > CodeLen {
		return fmt.Errorf("%w: exact+color must not exceed %d, got %d+%d", ErrInvalidFeedback, CodeLen, f.Exact, f.Color)
	}
	return nil
}

// Win reports whether the feedback means the guess was the secret.
func (f Feedback) Win() bool {
	return f.Exact == CodeLen
}

func (f Feedback) String() string {
	return fmt.Sprintf("%d exact, %d color", f.Exact, f.Color)
}

// Score compares a guess against a target. Positions that match exactly
// are counted once and excluded from the color tally; the color tally is
// the multiset intersection of the leftover symbols, so a symbol
// occurring more often in one code than the other is never over-counted.
func Score(guess, target Code) Feedback {
	var guessLeft, targetLeft [MaxSymbols]uint8
	exact := 0
	for i := 0; i < CodeLen; i++ {
		if guess[i] == target[i] {
			exact++
		} else {
			guessLeft[guess[i]]++
			targetLeft[target[i]]++
		}
	}
	color := 0
	for s := 0; s < MaxSymbols; s++ {
		color += int(min(guessLeft[s], targetLeft[s]))
	}
	return Feedback{Exact: exact, Color: color}
}

// Alphabet is the ordered list of symbol names codes are drawn from.
type Alphabet []string

// Colors is the reference configuration: six colors, universe size 1296.
var Colors = Alphabet{"blue", "red", "white", "black", "green", "purple"}

// K returns the number of symbols in the alphabet.
func (a Alphabet) K() int {
	return len(a)
}

// Validate checks that the alphabet is usable: at least two distinct
// lowercase names, no more than MaxSymbols.
func (a Alphabet) Validate() error {
	if len(a) < 2 {
		return fmt.Errorf("alphabet needs at least 2 symbols, got %d", len(a))
	}
	if len(a) > MaxSymbols {
		return fmt.Errorf("alphabet supports at most %d symbols, got %d", MaxSymbols, len(a))
	}
	seen := make(map[string]bool, len(a))
	for _, name := range a {
		if name == "" {
			return errors.New("alphabet symbol names must be non-empty")
		}
		if name != strings.ToLower(name) {
			return fmt.Errorf("alphabet symbol names must be lowercase: %q", name)
		}
		if seen[name] {
			return fmt.Errorf("alphabet symbol names must be distinct: %q", name)
		}
		seen[name] = true
	}
	return nil
}

// UniverseSize returns K^CodeLen, the number of distinct codes.
func (a Alphabet) UniverseSize() int {
	size := 1
	for i := 0; i < CodeLen; i++ {
		size *= len(a)
	}
	return size
}

// CodeAt returns the i-th code in lexicographic order over the alphabet.
// It is the inverse of Index.
func (a Alphabet) CodeAt(i int) Code {
	var code Code
	k := len(a)
	for pos := CodeLen - 1; pos >= 0; pos-- {
		code[pos] = Symbol(i % k)
		i /= k
	}
	return code
}

// Index returns the lexicographic rank of a code, usable as a bit
// position in a set over the universe.
func (a Alphabet) Index(code Code) int {
	i := 0
	for pos := 0; pos < CodeLen; pos++ {
		i = i*len(a) + int(code[pos])
	}
	return i
}

// Universe enumerates every code over the alphabet in lexicographic
// order: element i is CodeAt(i).
func (a Alphabet) Universe() []Code {
	codes := make([]Code, a.UniverseSize())
	for i := range codes {
		codes[i] = a.CodeAt(i)
	}
	return codes
}

// Random draws a code uniformly: each peg independent and uniform over
// the alphabet.
func (a Alphabet) Random(rng *rand.Rand) Code {
	var code Code
	for i := range code {
		code[i] = Symbol(rng.Intn(len(a)))
	}
	return code
}

// Parse converts user-supplied text into a code. Symbols are separated
// by commas if any are present, otherwise by whitespace, and matched
// case-insensitively. Malformed input is rejected with ErrInvalidCode.
func (a Alphabet) Parse(text string) (Code, error) {
	var tokens []string
	if strings.Contains(text, ",") {
		tokens = strings.Split(text, ",")
	} else {
		tokens = strings.Fields(text)
	}
	names := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			names = append(names, strings.ToLower(tok))
		}
	}
	var code Code
	if len(names) != CodeLen {
		return code, fmt.Errorf("%w: expected exactly %d symbols, got %d", ErrInvalidCode, CodeLen, len(names))
	}
	for i, name := range names {
		sym, ok := a.symbol(name)
		if !ok {
			return Code{}, fmt.Errorf("%w: unknown symbol %q, valid symbols are %s", ErrInvalidCode, name, strings.Join(a, ", "))
		}
		code[i] = sym
	}
	return code, nil
}

func (a Alphabet) symbol(name string) (Symbol, bool) {
	for i, candidate := range a {
		if candidate == name {
			return Symbol(i), true
		}
	}
	return 0, false
}

// Format renders a code as a comma-separated list of symbol names.
func (a Alphabet) Format(code Code) string {
	names := make([]string, CodeLen)
	for i, sym := range code {
		names[i] = a[sym]
	}
	return strings.Join(names, ", ")
}
