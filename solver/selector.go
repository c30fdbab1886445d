package solver

import (
	"fmt"
	"math/rand"

	"github.com/Rodlemus03/mastermind/mastermind"
)

// Params are the thresholds and sample sizes of the guess selection
// policy. The defaults reproduce the reference configuration.
type Params struct {
	// Opening is the fixed first probe, used while no feedback has
	// been applied.
	Opening mastermind.Code
	// ConfirmLimit: at or below this many candidates, any one of them
	// is a good enough guess.
	ConfirmLimit int
	// RandomLimit: at or below this many candidates, a uniformly
	// random candidate is chosen instead of scoring probes.
	RandomLimit int
	// DiversifyLimit: above this many candidates, probes are sampled
	// from the full universe rather than the candidate set.
	DiversifyLimit int
	// ProbeSamples caps how many candidate probes are scored.
	ProbeSamples int
	// SecretSamples caps how many candidates stand in for the secret
	// when scoring a probe.
	SecretSamples int
}

// DefaultParams returns the reference tuning: opening blue,blue,red,green
// over the Colors alphabet, confirm at 2, random pick at 10, diversify
// past 50, 20 probes scored against 50 sampled secrets.
func DefaultParams() Params {
	return Params{
		Opening:        mastermind.Code{0, 0, 1, 4},
		ConfirmLimit:   2,
		RandomLimit:    10,
		DiversifyLimit: 50,
		ProbeSamples:   20,
		SecretSamples:  50,
	}
}

// Validate checks the parameters against an alphabet.
func (p Params) Validate(alphabet mastermind.Alphabet) error {
	for _, sym := range p.Opening {
		if int(sym) >= alphabet.K() {
			return fmt.Errorf("opening symbol index %d out of range for a %d-symbol alphabet", sym, alphabet.K())
		}
	}
	if p.ConfirmLimit < 1 || p.RandomLimit < p.ConfirmLimit || p.DiversifyLimit < p.RandomLimit {
		return fmt.Errorf("limits must be ordered 1 <= confirm (%d) <= random (%d) <= diversify (%d)",
			p.ConfirmLimit, p.RandomLimit, p.DiversifyLimit)
	}
	if p.ProbeSamples < 1 || p.SecretSamples < 1 {
		return fmt.Errorf("sample sizes must be positive, got probes=%d secrets=%d", p.ProbeSamples, p.SecretSamples)
	}
	return nil
}

// Selector chooses the next probe for a candidate space. The random
// source is injected so tests can pin exact choices with a fixed seed.
type Selector struct {
	rng    *rand.Rand
	params Params
}

// NewSelector builds a selector around a random source.
func NewSelector(rng *rand.Rand, params Params) *Selector {
	return &Selector{rng: rng, params: params}
}

// Next picks the next probe. The second result is a warning flag: true
// means the candidate space was unexpectedly empty and the probe was
// synthesized at random, so the session's correctness is no longer
// guaranteed.
//
// The policy is a tier ladder, not one algorithm: a fixed opening while
// nothing is known, direct or random picks while the space is tiny, and
// sampled minimax otherwise. Exhaustive minimax over 1296 codes per
// guess is too slow for interactive use; sampling both the probes and
// the proxy secrets keeps per-guess cost roughly constant.
func (sel *Selector) Next(space *Space) (mastermind.Code, bool) {
	possible := space.Codes()
	switch {
	case len(possible) == 0:
		return space.Alphabet().Random(sel.rng), true
	case len(possible) == space.UniverseSize():
		return sel.params.Opening, false
	case len(possible) <= sel.params.ConfirmLimit:
		return possible[0], false
	case len(possible) <= sel.params.RandomLimit:
		return possible[sel.rng.Intn(len(possible))], false
	}

	pool := possible
	if len(possible) > sel.params.DiversifyLimit {
		pool = space.Universe()
	}
	probes := sel.sample(pool, min(sel.params.ProbeSamples, len(possible)))

	var best mastermind.Code
	bestWorst := -1
	for _, probe := range probes {
		worst := sel.worstPartition(probe, possible)
		// ties keep the first minimal probe encountered
		if bestWorst < 0 || worst < bestWorst {
			bestWorst = worst
			best = probe
		}
	}
	if bestWorst < 0 {
		return possible[sel.rng.Intn(len(possible))], false
	}
	return best, false
}

// worstPartition scores a probe by partitioning sampled candidate
// secrets by the feedback they would give, and returning the largest
// partition: the worst case for how much of the space the probe fails
// to rule out.
func (sel *Selector) worstPartition(probe mastermind.Code, possible []mastermind.Code) int {
	secrets := sel.sample(possible, min(sel.params.SecretSamples, len(possible)))
	partitions := make(map[mastermind.Feedback]int, len(secrets))
	worst := 0
	for _, secret := range secrets {
		fb := mastermind.Score(probe, secret)
		partitions[fb]++
		if partitions[fb] > worst {
			worst = partitions[fb]
		}
	}
	return worst
}

// sample draws n codes from the pool uniformly without replacement.
func (sel *Selector) sample(pool []mastermind.Code, n int) []mastermind.Code {
	if n >= len(pool) {
		out := make([]mastermind.Code, len(pool))
		copy(out, pool)
		return out
	}
	out := make([]mastermind.Code, n)
	for i, j := range sel.rng.Perm(len(pool))[:n] {
		out[i] = pool[j]
	}
	return out
}
