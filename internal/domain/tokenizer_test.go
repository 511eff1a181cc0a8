package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain words",
			text: "maximize total profit",
			want: []string{"maximize", "total", "profit"},
		},
		{
			name: "punctuation becomes its own token",
			text: "Each chair needs 2 hours, each table 3.",
			want: []string{"Each", "chair", "needs", "2", "hours", ",", "each", "table", "3", "."},
		},
		{
			name: "hyphen and apostrophe stay inside words",
			text: "the company's long-term plan-",
			want: []string{"the", "company's", "long-term", "plan-"},
		},
		{
			name: "runs of whitespace produce nothing",
			text: "  a \t\n  b  ",
			want: []string{"a", "b"},
		},
		{
			name: "non ascii symbols are dropped",
			text: "cost €5 × 3\x07",
			want: []string{"cost", "5", "3"},
		},
		{
			name: "unicode letters are word characters",
			text: "café déjà-vu",
			want: []string{"café", "déjà-vu"},
		},
		{
			name: "currency and percent",
			text: "$100 (20%)",
			want: []string{"$", "100", "(", "20", "%", ")"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.text))
		})
	}
}

func TestTokenize_JoinsWithNewlines(t *testing.T) {
	assert.Equal(t, "x\n+\ny\n<\n=", Tokenize("x+y<="))
	assert.Empty(t, Tokenize(" \t "))
}

func TestTokenize_RoundTripOnSpaceSeparatedWords(t *testing.T) {
	inputs := []string{
		"maximize profit subject to labor",
		"x1 x2 x3",
		"single",
	}

	for _, input := range inputs {
		assert.Equal(t, strings.Join(strings.Fields(input), "\n"), Tokenize(input))
	}
}

func TestTokens_PreserveCharacterOrder(t *testing.T) {
	inputs := []string{
		"A factory makes 3 products: A, B and C.",
		"minimize cost(x) = 4x + 2y; s.t. x >= 0",
		"it's a well-known trick!!",
		"tabs\tand\nnewlines",
	}

	for _, input := range inputs {
		joined := strings.Join(Tokens(input), "")
		assert.True(t, isSubsequence(joined, input), "tokens of %q are not a subsequence", input)
	}
}

func isSubsequence(sub, s string) bool {
	rs := []rune(s)
	i := 0

	for _, r := range sub {
		for i < len(rs) && rs[i] != r {
			i++
		}

		if i == len(rs) {
			return false
		}

		i++
	}

	return true
}
