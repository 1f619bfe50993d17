package enrich

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/detector"
	"github.com/dtnitsch/news-enricher/pkg/entities"
	"github.com/dtnitsch/news-enricher/pkg/nlp"
	"github.com/dtnitsch/news-enricher/pkg/sentiment"
	"github.com/dtnitsch/news-enricher/pkg/terms"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeEntities struct {
	panicOn string
}

func (f fakeEntities) maybePanic(step string) {
	if f.panicOn == step {
		panic(step + " exploded")
	}
}

func (f fakeEntities) DetectDiseases(string) []string {
	f.maybePanic("diseases")
	return []string{"flu"}
}

func (f fakeEntities) DetectAnimals(string) []string {
	f.maybePanic("animals")
	return []string{"cow"}
}

func (f fakeEntities) DetectLocations(string) []string {
	f.maybePanic("locations")
	return []string{"Tunis"}
}

func (f fakeEntities) DetectOrganisations(string) []string {
	f.maybePanic("organisations")
	return nil
}

func (f fakeEntities) DetectDates(string) []string {
	f.maybePanic("dates")
	return []string{"01-02-2024"}
}

type fakeLanguage struct{ panics bool }

func (f fakeLanguage) Detect(string) string {
	if f.panics {
		panic("no language")
	}
	return "en"
}

type fakeScorer struct{ err error }

func (f fakeScorer) Polarity(string) (float64, error) { return -0.25, f.err }

func TestBuildRecord_Fields(t *testing.T) {
	b := NewBuilder(fakeEntities{}, fakeLanguage{}, fakeScorer{}, discardLogger)

	words := make([]string, 160)
	for i := range words {
		words[i] = "word"
	}
	text := "  " + strings.Join(words, " \n ") + "  "
	published := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)

	r := b.BuildRecord("https://example.com/a", "Title", text, &published)

	assert.Equal(t, models.StatusOK, r.Status)
	require.NotNil(t, r.Text)
	assert.Equal(t, strings.Join(words, " "), *r.Text)
	assert.Equal(t, 160, *r.WordCount)
	assert.Equal(t, len(*r.Text), *r.CharCount)
	assert.Equal(t, "en", *r.Language)
	assert.Equal(t, "12-03-2024", *r.PublicationDate)
	assert.Equal(t, []string{"flu"}, r.Diseases)
	assert.Equal(t, []string{}, r.Organisations, "nil lists become empty")
	assert.Equal(t, -0.25, *r.Sentiment)
	assert.Equal(t, detector.SourceUnknown, *r.SourceNLP)

	assert.Equal(t, 50, len(strings.Fields(*r.Summary50)))
	assert.Equal(t, 100, len(strings.Fields(*r.Summary100)))
	assert.Equal(t, 150, len(strings.Fields(*r.Summary150)))
	assert.True(t, strings.HasPrefix(*r.Text, *r.Summary150))
}

func TestBuildRecord_NoPublicationDate(t *testing.T) {
	b := NewBuilder(fakeEntities{}, fakeLanguage{}, fakeScorer{}, discardLogger)
	r := b.BuildRecord("u", "", "short text", nil)

	assert.Nil(t, r.PublicationDate)
	assert.Nil(t, r.Title)
	assert.Equal(t, "short text", *r.Summary50, "summary of a short text is the text")
}

func TestBuildRecord_StepIsolation(t *testing.T) {
	for _, step := range []string{"diseases", "animals", "locations", "organisations", "dates"} {
		t.Run(step, func(t *testing.T) {
			b := NewBuilder(fakeEntities{panicOn: step}, fakeLanguage{}, fakeScorer{}, discardLogger)

			var r models.Record
			require.NotPanics(t, func() {
				r = b.BuildRecord("u", "t", "some text here", nil)
			})
			assert.Equal(t, models.StatusOK, r.Status)
			assert.Equal(t, "en", *r.Language)
			assert.NotNil(t, r.Diseases)
			assert.NotNil(t, r.Animals)
		})
	}

	t.Run("language", func(t *testing.T) {
		b := NewBuilder(fakeEntities{}, fakeLanguage{panics: true}, fakeScorer{}, discardLogger)
		r := b.BuildRecord("u", "t", "some text here", nil)
		assert.Equal(t, detector.Unknown, *r.Language)
		assert.Equal(t, []string{"flu"}, r.Diseases)
	})

	t.Run("sentiment error", func(t *testing.T) {
		b := NewBuilder(fakeEntities{}, fakeLanguage{}, fakeScorer{err: assert.AnError}, discardLogger)
		r := b.BuildRecord("u", "t", "some text here", nil)
		assert.Equal(t, 0.0, *r.Sentiment)
	})
}

func TestBuildRecord_HeadlineExample(t *testing.T) {
	model, err := nlp.Default()
	require.NoError(t, err)
	dicts, err := terms.Default()
	require.NoError(t, err)
	ents, err := entities.New(model, dicts)
	require.NoError(t, err)
	lang, err := detector.NewLanguageDetector([]string{"en", "fr", "ar"})
	require.NoError(t, err)
	lex, err := sentiment.Default()
	require.NoError(t, err)

	b := NewBuilder(ents, lang, lex, discardLogger)
	r := b.BuildRecord("https://example.com/n", "Outbreak",
		"Avian flu outbreak reported in chickens and cows near Cairo, Egypt, ministry confirms.", nil)

	assert.Subset(t, r.Diseases, []string{"avian flu"})
	assert.Subset(t, r.Animals, []string{"chicken", "cow"})
	assert.Subset(t, r.Locations, []string{"Egypt", "Cairo"})
	assert.Equal(t, detector.SourceOfficial, *r.SourceNLP)
	assert.Equal(t, "en", *r.Language)
	assert.GreaterOrEqual(t, *r.Sentiment, -1.0)
	assert.LessOrEqual(t, *r.Sentiment, 1.0)
}
