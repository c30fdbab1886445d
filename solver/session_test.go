package solver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rodlemus03/mastermind/mastermind"
)

func newTestSession(seed int64) *Session {
	return NewSession(mastermind.Colors, WithRand(rand.New(rand.NewSource(seed))))
}

func TestSessionLifecycle(t *testing.T) {
	session := newTestSession(1)
	assert.Equal(t, NotStarted, session.State())

	_, err := session.IssueGuess()
	assert.ErrorIs(t, err, ErrNotInProgress)
	_, err = session.ApplyFeedback(1, 1)
	assert.ErrorIs(t, err, ErrNotInProgress)

	session.Start()
	assert.Equal(t, InProgress, session.State())
	assert.Equal(t, 0, session.Attempts())
	assert.Equal(t, []int{1296}, session.History())
}

func TestRunToSolutionFindsSecret(t *testing.T) {
	secret := cc(t, "blue,blue,red,white")
	session := newTestSession(11)
	attempts, history, err := session.RunToSolution(secret)
	require.NoError(t, err)

	assert.Equal(t, Solved, session.State())
	assert.Positive(t, attempts)
	assert.LessOrEqual(t, attempts, 1296, "trivial upper bound")
	assert.Less(t, attempts, 12, "sampled minimax should converge quickly")
	require.NotEmpty(t, history)
	assert.Equal(t, 1296, history[0])
	for i := 1; i < len(history); i++ {
		assert.LessOrEqual(t, history[i], history[i-1], "history must never grow")
	}
	if len(history) > 1 {
		assert.Less(t, history[1], 1296, "first probe must cut the space")
	}
	assert.False(t, session.Recovered())
}

func TestRunToSolutionManySecrets(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for i := 0; i < 20; i++ {
		secret := mastermind.Colors.Random(rng)
		session := NewSession(mastermind.Colors,
			WithRand(rand.New(rand.NewSource(int64(100 + i)))))
		attempts, _, err := session.RunToSolution(secret)
		require.NoError(t, err, "secret %s", mastermind.Colors.Format(secret))
		assert.LessOrEqual(t, attempts, 15, "secret %s", mastermind.Colors.Format(secret))
	}
}

func TestRunToSolutionKeepsSecretPossible(t *testing.T) {
	// replicate the automated loop step-wise so the space can be
	// inspected between filters
	secret := cc(t, "purple,white,white,black")
	session := newTestSession(13)
	session.Start()
	for attempt := 0; attempt < 1296; attempt++ {
		guess, err := session.IssueGuess()
		require.NoError(t, err)
		fb := mastermind.Score(guess, secret)
		solved, err := session.ApplyFeedback(fb.Exact, fb.Color)
		require.NoError(t, err)
		if solved {
			return
		}
		assert.True(t, session.space.Contains(secret),
			"secret filtered out at attempt %d", attempt+1)
	}
	t.Fatal("never solved")
}

func TestApplyFeedbackRequiresOutstandingGuess(t *testing.T) {
	session := newTestSession(2)
	session.Start()
	_, err := session.ApplyFeedback(1, 0)
	assert.ErrorIs(t, err, ErrNoOutstandingGuess)
}

func TestApplyFeedbackRejectsInvalidWithoutMutation(t *testing.T) {
	session := newTestSession(3)
	session.Start()
	_, err := session.IssueGuess()
	require.NoError(t, err)
	attempts := session.Attempts()
	size := session.SpaceSize()

	_, err = session.ApplyFeedback(3, 2)
	assert.ErrorIs(t, err, mastermind.ErrInvalidFeedback)
	assert.Equal(t, attempts, session.Attempts())
	assert.Equal(t, size, session.SpaceSize())
	assert.Equal(t, InProgress, session.State())

	// corrected feedback still applies to the same outstanding guess
	_, err = session.ApplyFeedback(1, 1)
	assert.NoError(t, err)
}

func TestApplyFeedbackInconsistentKeepsSession(t *testing.T) {
	session := newTestSession(4)
	session.Start()
	guess, err := session.IssueGuess()
	require.NoError(t, err)
	fb := mastermind.Score(guess, guess) // pretend the guess was right...
	require.True(t, fb.Win())

	// ...but report something impossible instead: first claim a miss
	// everywhere, then claim near-perfection; the two cannot coexist
	_, err = session.ApplyFeedback(0, 0)
	require.NoError(t, err)
	sizeAfterFirst := session.SpaceSize()

	_, err = session.IssueGuess()
	require.NoError(t, err)
	session.lastGuess = guess // force re-probing the excluded code
	_, err = session.ApplyFeedback(3, 1)
	assert.ErrorIs(t, err, ErrNoConsistentCandidates)
	assert.Equal(t, sizeAfterFirst, session.SpaceSize())
	assert.Equal(t, InProgress, session.State())
}

func TestApplyFeedbackWinSkipsFilter(t *testing.T) {
	session := newTestSession(5)
	session.Start()
	_, err := session.IssueGuess()
	require.NoError(t, err)
	solved, err := session.ApplyFeedback(4, 0)
	require.NoError(t, err)
	assert.True(t, solved)
	assert.Equal(t, Solved, session.State())
	assert.Equal(t, []int{1296}, session.History(), "win records no filter step")
}

func TestStartResetsAfterSolve(t *testing.T) {
	session := newTestSession(6)
	_, _, err := session.RunToSolution(cc(t, "red,red,green,green"))
	require.NoError(t, err)
	require.Equal(t, Solved, session.State())

	session.Start()
	assert.Equal(t, InProgress, session.State())
	assert.Equal(t, 0, session.Attempts())
	assert.Equal(t, []int{1296}, session.History())
	assert.Equal(t, 1296, session.SpaceSize())
}
