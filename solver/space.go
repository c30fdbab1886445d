// Package solver narrows the set of codes consistent with accumulated
// feedback and chooses probes that shrink it quickly.
package solver

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/Rodlemus03/mastermind/mastermind"
)

// ErrNoConsistentCandidates reports feedback that no remaining candidate
// agrees with. The candidate set is left unchanged so the caller can
// retry with corrected feedback.
var ErrNoConsistentCandidates = errors.New("no candidates consistent with feedback")

// Space is the candidate space for one session: the fixed universe of
// codes over an alphabet, and the subset still consistent with every
// (guess, feedback) pair applied so far. The subset only ever shrinks.
type Space struct {
	alphabet mastermind.Alphabet
	universe []mastermind.Code
	possible *bitset.BitSet
}

// NewSpace builds a space with every code still possible.
func NewSpace(alphabet mastermind.Alphabet) *Space {
	s := &Space{
		alphabet: alphabet,
		universe: alphabet.Universe(),
	}
	s.Reset()
	return s
}

// Reset restores the full universe as the candidate set.
func (s *Space) Reset() {
	s.possible = bitset.New(uint(len(s.universe))).Complement()
}

// Alphabet returns the alphabet the space is built over.
func (s *Space) Alphabet() mastermind.Alphabet {
	return s.alphabet
}

// Size returns the current candidate count.
func (s *Space) Size() int {
	return int(s.possible.Count())
}

// UniverseSize returns the fixed size of the full universe.
func (s *Space) UniverseSize() int {
	return len(s.universe)
}

// Universe returns the full enumeration of codes. Callers must not
// modify the returned slice.
func (s *Space) Universe() []mastermind.Code {
	return s.universe
}

// Codes returns a snapshot of the current candidates in lexicographic
// order.
func (s *Space) Codes() []mastermind.Code {
	codes := make([]mastermind.Code, 0, s.possible.Count())
	for i, ok := s.possible.NextSet(0); ok; i, ok = s.possible.NextSet(i + 1) {
		codes = append(codes, s.universe[i])
	}
	return codes
}

// Contains reports whether a code is still a candidate.
func (s *Space) Contains(code mastermind.Code) bool {
	return s.possible.Test(uint(s.alphabet.Index(code)))
}

// Filter replaces the candidate set with the subset that would have
// produced the given feedback for the guess, and returns the new size.
//
// Invalid feedback and feedback inconsistent with the history are
// rejected before any mutation: on error the candidate set is exactly
// what it was.
func (s *Space) Filter(guess mastermind.Code, fb mastermind.Feedback) (int, error) {
	if err := fb.Validate(); err != nil {
		return s.Size(), err
	}
	next := bitset.New(uint(len(s.universe)))
	for i, ok := s.possible.NextSet(0); ok; i, ok = s.possible.NextSet(i + 1) {
		if mastermind.Score(guess, s.universe[i]) == fb {
			next.Set(i)
		}
	}
	if next.None() && s.possible.Any() {
		return s.Size(), fmt.Errorf("%w: guess %s scored %s", ErrNoConsistentCandidates, s.alphabet.Format(guess), fb)
	}
	s.possible = next
	return s.Size(), nil
}
