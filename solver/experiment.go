package solver

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	"golang.org/x/sync/errgroup"

	"github.com/Rodlemus03/mastermind/mastermind"
)

// ExperimentResult aggregates a batch of independent automated solves.
type ExperimentResult struct {
	// Games is the number of sessions run.
	Games int
	// MeanAttempts is the average attempt count across sessions.
	MeanAttempts float64
	// Attempts holds the raw per-session attempt counts, in session
	// order.
	Attempts []int
	// AttemptCounts maps an attempt count to how many sessions
	// finished with it.
	AttemptCounts map[int]int
	// MeanSpaceByAttempt holds, per attempt index, the mean candidate
	// space size across sessions. Sessions that converged earlier
	// contribute their final size for the remaining indices, so late
	// entries reflect already-converged sessions rather than missing
	// data.
	MeanSpaceByAttempt []float64
	// MaxAttempts is the longest session's history length.
	MaxAttempts int
	// DistinctSecrets counts how many different secrets the random
	// draws produced.
	DistinctSecrets int
	// Elapsed is the wall-clock duration of the whole batch.
	Elapsed time.Duration
}

// ExperimentOptions tune a batch run. The zero value is usable.
type ExperimentOptions struct {
	// Workers bounds how many sessions run concurrently; 0 or 1 means
	// sequential. Sessions share no state, so result aggregation is
	// identical regardless of scheduling.
	Workers int
	// Seed makes the batch reproducible: session i derives its random
	// source from Seed+i. Zero picks a fresh seed.
	Seed int64
	// Params overrides the selector tuning; zero value means defaults.
	Params *Params
	// Logger receives per-session structured logs; nil discards.
	Logger *slog.Logger
	// OnProgress, if set, is called after each session completes with
	// the number done and the total. Observation only; it must not
	// influence the run.
	OnProgress func(done, total int)
	// OnLog, if set, receives occasional human-readable progress
	// lines. Observation only.
	OnLog func(msg string)
}

// RunExperiment runs n independent automated solves against uniformly
// random secrets and aggregates attempt counts and space-size
// trajectories.
func RunExperiment(alphabet mastermind.Alphabet, n int, opts ExperimentOptions) (*ExperimentResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("experiment needs at least 1 game, got %d", n)
	}
	if err := alphabet.Validate(); err != nil {
		return nil, err
	}
	params := DefaultParams()
	if opts.Params != nil {
		params = *opts.Params
	}
	if err := params.Validate(alphabet); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	if opts.OnLog != nil {
		opts.OnLog(fmt.Sprintf("running %d automated games...", n))
	}

	start := time.Now()
	secrets := mapset.NewSet()
	attempts := make([]int, n)
	histories := make([][]int, n)

	var mu sync.Mutex
	done := 0
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		if opts.OnProgress != nil {
			opts.OnProgress(done, n)
		}
		if opts.OnLog != nil && done%20 == 0 {
			opts.OnLog(fmt.Sprintf("game %d/%d", done, n))
		}
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(i)))
			secret := alphabet.Random(rng)
			secrets.Add(secret)
			session := NewSession(alphabet, WithRand(rng), WithParams(params), WithLogger(logger))
			count, history, err := session.RunToSolution(secret)
			if err != nil {
				return fmt.Errorf("game %d (secret %s): %w", i, alphabet.Format(secret), err)
			}
			attempts[i] = count
			histories[i] = history
			report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	result := &ExperimentResult{
		Games:           n,
		Attempts:        attempts,
		AttemptCounts:   make(map[int]int, 8),
		DistinctSecrets: secrets.Cardinality(),
		Elapsed:         elapsed,
	}
	total := 0
	for _, count := range attempts {
		total += count
		result.AttemptCounts[count]++
	}
	result.MeanAttempts = float64(total) / float64(n)

	for _, history := range histories {
		if len(history) > result.MaxAttempts {
			result.MaxAttempts = len(history)
		}
	}
	result.MeanSpaceByAttempt = make([]float64, result.MaxAttempts)
	for idx := range result.MeanSpaceByAttempt {
		sum := 0
		for _, history := range histories {
			if idx < len(history) {
				sum += history[idx]
			} else {
				// converged earlier: repeat the final size
				sum += history[len(history)-1]
			}
		}
		result.MeanSpaceByAttempt[idx] = float64(sum) / float64(n)
	}

	if opts.OnLog != nil {
		opts.OnLog(fmt.Sprintf("experiment finished in %.2f seconds", elapsed.Seconds()))
	}
	return result, nil
}
