package mastermind

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cc parses a code over the reference alphabet or fails the test.
func cc(t *testing.T, text string) Code {
	t.Helper()
	code, err := Colors.Parse(text)
	require.NoError(t, err)
	return code
}

func TestScoreAllColorsMisplaced(t *testing.T) {
	guess := cc(t, "blue,red,white,black")
	target := cc(t, "black,white,red,blue")
	assert.Equal(t, Feedback{Exact: 0, Color: 4}, Score(guess, target))
}

func TestScoreRepeatedSymbolsNotOvercounted(t *testing.T) {
	guess := cc(t, "blue,blue,red,red")
	target := cc(t, "blue,red,blue,blue")
	assert.Equal(t, Feedback{Exact: 1, Color: 2}, Score(guess, target))
}

func TestScoreTable(t *testing.T) {
	tests := []struct {
		guess  string
		target string
		want   Feedback
	}{
		{"blue,blue,blue,blue", "blue,blue,blue,blue", Feedback{4, 0}},
		{"blue,blue,blue,blue", "red,red,red,red", Feedback{0, 0}},
		{"blue,red,green,black", "blue,red,green,purple", Feedback{3, 0}},
		{"blue,red,green,black", "red,blue,green,black", Feedback{2, 2}},
		{"blue,blue,red,green", "green,red,blue,blue", Feedback{0, 4}},
		{"blue,blue,blue,red", "red,blue,blue,blue", Feedback{2, 2}},
	}
	for _, tt := range tests {
		got := Score(cc(t, tt.guess), cc(t, tt.target))
		assert.Equal(t, tt.want, got, "score(%s, %s)", tt.guess, tt.target)
	}
}

func TestScoreSelfIsWin(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		code := Colors.Random(rng)
		fb := Score(code, code)
		assert.Equal(t, Feedback{Exact: CodeLen, Color: 0}, fb)
		assert.True(t, fb.Win())
	}
}

func TestScoreSymmetricAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		a := Colors.Random(rng)
		b := Colors.Random(rng)
		ab := Score(a, b)
		ba := Score(b, a)
		assert.Equal(t, ab, ba, "score(%v,%v) not symmetric", a, b)
		assert.LessOrEqual(t, ab.Exact+ab.Color, CodeLen)
		assert.NoError(t, ab.Validate())
	}
}

func TestFeedbackValidate(t *testing.T) {
	assert.NoError(t, Feedback{Exact: 4, Color: 0}.Validate())
	assert.NoError(t, Feedback{Exact: 0, Color: 0}.Validate())
	assert.NoError(t, Feedback{Exact: 2, Color: 2}.Validate())
	assert.ErrorIs(t, Feedback{Exact: 3, Color: 2}.Validate(), ErrInvalidFeedback)
	assert.ErrorIs(t, Feedback{Exact: -1, Color: 0}.Validate(), ErrInvalidFeedback)
	assert.ErrorIs(t, Feedback{Exact: 0, Color: 5}.Validate(), ErrInvalidFeedback)
}

func TestUniverse(t *testing.T) {
	universe := Colors.Universe()
	require.Len(t, universe, 1296)
	assert.Equal(t, 1296, Colors.UniverseSize())

	seen := make(map[Code]bool, len(universe))
	for i, code := range universe {
		assert.Equal(t, i, Colors.Index(code))
		assert.Equal(t, code, Colors.CodeAt(i))
		seen[code] = true
	}
	assert.Len(t, seen, 1296)
}

func TestParse(t *testing.T) {
	want := Code{0, 1, 4, 3}
	for _, text := range []string{
		"blue,red,green,black",
		"blue, red, green, black",
		"blue red green black",
		"BLUE, Red, GREEN, black",
		" blue , red , green , black ",
	} {
		code, err := Colors.Parse(text)
		assert.NoError(t, err, "parse %q", text)
		assert.Equal(t, want, code, "parse %q", text)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []string{
		"",
		"blue,red,green",
		"blue,red,green,black,white",
		"blue,red,green,orange",
		"blue,,red,green",
	}
	for _, text := range tests {
		_, err := Colors.Parse(text)
		assert.ErrorIs(t, err, ErrInvalidCode, "parse %q", text)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		code := Colors.Random(rng)
		parsed, err := Colors.Parse(Colors.Format(code))
		require.NoError(t, err)
		assert.Equal(t, code, parsed)
	}
}

func TestAlphabetValidate(t *testing.T) {
	assert.NoError(t, Colors.Validate())
	assert.Error(t, Alphabet{"blue"}.Validate())
	assert.Error(t, Alphabet{"blue", "blue"}.Validate())
	assert.Error(t, Alphabet{"blue", "Red"}.Validate())
	assert.Error(t, Alphabet{"blue", ""}.Validate())

	big := make(Alphabet, MaxSymbols+1)
	for i := range big {
		big[i] = string(rune('a' + i))
	}
	assert.Error(t, big.Validate())
}

func TestRandomStaysInAlphabet(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		code := Colors.Random(rng)
		for _, sym := range code {
			assert.Less(t, int(sym), Colors.K())
		}
	}
}
