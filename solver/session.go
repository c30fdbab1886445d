package solver

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Rodlemus03/mastermind/mastermind"
)

// State is the session lifecycle: NotStarted -> InProgress -> Solved.
// Inconsistent feedback is an error, not a transition; the session stays
// InProgress so the caller can retry with corrected feedback.
type State int

const (
	NotStarted State = iota
	InProgress
	Solved
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Solved:
		return "solved"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrNotInProgress reports a guess or feedback call on a session that is
// not running.
var ErrNotInProgress = errors.New("session not in progress")

// ErrNoOutstandingGuess reports feedback applied before any guess was
// issued.
var ErrNoOutstandingGuess = errors.New("no outstanding guess to apply feedback to")

// Session drives one solve: it owns a candidate space and a selector,
// counts attempts, and records the space size after every filter. Use
// RunToSolution when the secret is known, or IssueGuess/ApplyFeedback
// when feedback comes from outside.
type Session struct {
	id       string
	space    *Space
	selector *Selector
	logger   *slog.Logger

	state     State
	attempts  int
	history   []int
	lastGuess mastermind.Code
	hasGuess  bool
	recovered bool
}

// Option configures a session.
type Option func(*Session)

// WithRand injects the random source, pinning selector behavior for a
// given seed. Each session should get its own source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.selector.rng = rng }
}

// WithParams overrides the selector tuning.
func WithParams(p Params) Option {
	return func(s *Session) { s.selector.params = p }
}

// WithLogger attaches a structured logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger.With("session", s.id) }
}

// NewSession builds a session over an alphabet. The session starts in
// NotStarted; call Start or RunToSolution.
func NewSession(alphabet mastermind.Alphabet, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		space:    NewSpace(alphabet),
		selector: NewSelector(rand.New(rand.NewSource(time.Now().UnixNano())), DefaultParams()),
		logger:   slog.New(slog.DiscardHandler),
		state:    NotStarted,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier carried in log output.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Attempts returns how many guesses have been issued.
func (s *Session) Attempts() int { return s.attempts }

// History returns the candidate-space sizes recorded so far, starting
// with the universe size before any guess.
func (s *Session) History() []int {
	out := make([]int, len(s.history))
	copy(out, s.history)
	return out
}

// SpaceSize returns the current candidate count.
func (s *Session) SpaceSize() int { return s.space.Size() }

// Recovered reports whether the selector ever had to synthesize a probe
// from an exhausted space; if so the session's answers are best-effort.
func (s *Session) Recovered() bool { return s.recovered }

// Start resets the session: full universe, zero attempts, history seeded
// with the universe size.
func (s *Session) Start() {
	s.space.Reset()
	s.attempts = 0
	s.history = []int{s.space.Size()}
	s.hasGuess = false
	s.recovered = false
	s.state = InProgress
	s.logger.Debug("session started", "universe", s.space.UniverseSize())
}

// IssueGuess asks the selector for the next probe, records it as the
// outstanding guess, and increments the attempt counter.
func (s *Session) IssueGuess() (mastermind.Code, error) {
	if s.state != InProgress {
		return mastermind.Code{}, fmt.Errorf("%w: state is %s", ErrNotInProgress, s.state)
	}
	guess, exhausted := s.selector.Next(s.space)
	if exhausted {
		s.recovered = true
		s.logger.Warn("candidate space exhausted, probing at random",
			"guess", s.space.Alphabet().Format(guess))
	}
	s.attempts++
	s.lastGuess = guess
	s.hasGuess = true
	s.logger.Info("guess issued",
		"attempt", s.attempts,
		"guess", s.space.Alphabet().Format(guess),
		"space", s.space.Size())
	return guess, nil
}

// ApplyFeedback applies externally supplied feedback to the outstanding
// guess. It returns true when the feedback means the guess was the
// secret. On error nothing changes: not the candidate set, not the
// attempt counter, and the guess stays outstanding.
func (s *Session) ApplyFeedback(exact, color int) (bool, error) {
	if s.state != InProgress {
		return false, fmt.Errorf("%w: state is %s", ErrNotInProgress, s.state)
	}
	if !s.hasGuess {
		return false, ErrNoOutstandingGuess
	}
	fb := mastermind.Feedback{Exact: exact, Color: color}
	if err := fb.Validate(); err != nil {
		return false, err
	}
	if fb.Win() {
		s.state = Solved
		s.hasGuess = false
		s.logger.Info("solved", "attempts", s.attempts)
		return true, nil
	}
	size, err := s.space.Filter(s.lastGuess, fb)
	if err != nil {
		return false, err
	}
	s.history = append(s.history, size)
	s.hasGuess = false
	s.logger.Info("space filtered", "feedback", fb.String(), "space", size)
	return false, nil
}

// RunToSolution solves for a known secret: it restarts the session and
// loops guess, score, filter until the scorer reports a win. It returns
// the attempt count and the size history.
//
// Against a real secret the filtered set always retains the secret, so
// the loop needs no iteration cap; ErrNoConsistentCandidates here means
// a scorer or filter defect and aborts the run.
func (s *Session) RunToSolution(secret mastermind.Code) (int, []int, error) {
	s.Start()
	for {
		guess, err := s.IssueGuess()
		if err != nil {
			return s.attempts, s.History(), err
		}
		fb := mastermind.Score(guess, secret)
		solved, err := s.ApplyFeedback(fb.Exact, fb.Color)
		if err != nil {
			return s.attempts, s.History(), fmt.Errorf("attempt %d: %w", s.attempts, err)
		}
		if solved {
			return s.attempts, s.History(), nil
		}
	}
}
