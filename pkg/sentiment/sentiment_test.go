package sentiment

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingScorer struct{}

func (failingScorer) Polarity(string) (float64, error) { return 0.9, errors.New("model unavailable") }

type panickingScorer struct{}

func (panickingScorer) Polarity(string) (float64, error) { panic("boom") }

type constScorer float64

func (c constScorer) Polarity(string) (float64, error) { return float64(c), nil }

func TestScore_Defaults(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 0.0, Score(lex, ""))
	assert.Equal(t, 0.0, Score(lex, "   \n"))
	assert.Equal(t, 0.0, Score(nil, "good news"))
	assert.Equal(t, 0.0, Score(failingScorer{}, "good news"))
	assert.Equal(t, 0.0, Score(panickingScorer{}, "good news"))
	assert.Equal(t, 0.0, Score(constScorer(math.NaN()), "good news"))
	assert.Equal(t, 1.0, Score(constScorer(3), "x"))
	assert.Equal(t, -1.0, Score(constScorer(-3), "x"))
}

func TestLexicon_Polarity(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		sign int
	}{
		{name: "positive", text: "Vaccination was successful and the situation is stable.", sign: 1},
		{name: "negative", text: "A deadly outbreak caused serious losses.", sign: -1},
		{name: "negated positive", text: "The response was not effective.", sign: -1},
		{name: "contraction", text: "Farmers don't feel safe.", sign: -1},
		{name: "french", text: "Une épidémie grave et inquiétante, avec de nombreux décès.", sign: -1},
		{name: "arabic", text: "تفشي وباء خطير", sign: -1},
		{name: "no known words", text: "Cows grazed in the field.", sign: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(lex, tt.text)
			assert.GreaterOrEqual(t, got, -1.0)
			assert.LessOrEqual(t, got, 1.0)
			switch tt.sign {
			case 1:
				assert.Greater(t, got, 0.0)
			case -1:
				assert.Less(t, got, 0.0)
			default:
				assert.Equal(t, 0.0, got)
			}
		})
	}
}

func TestLexicon_Intensifier(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	plain := Score(lex, "a good result")
	strong := Score(lex, "a very good result")
	assert.Greater(t, strong, plain)
	assert.LessOrEqual(t, Score(lex, "extremely excellent"), 1.0)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("polarity: {}"))
	assert.Error(t, err)

	_, err = Parse([]byte("polarity: [oops"))
	assert.Error(t, err)

	_, err = Load("/nonexistent/lexicon.yaml")
	assert.Error(t, err)
}
