package extractor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/news-enricher/models"
	"github.com/dtnitsch/news-enricher/pkg/fetcher"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeStrategy struct {
	name   string
	result models.ExtractionResult
	err    error
	calls  int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Extract(context.Context, string) (models.ExtractionResult, error) {
	f.calls++
	return f.result, f.err
}

func TestExtract_Order(t *testing.T) {
	tests := []struct {
		name      string
		primary   *fakeStrategy
		fallback  *fakeStrategy
		wantBody  string
		wantTitle string
		wantCalls int // fallback calls
	}{
		{
			name:      "primary succeeds",
			primary:   &fakeStrategy{name: "a", result: models.ExtractionResult{Title: "T", Body: "primary body"}},
			fallback:  &fakeStrategy{name: "b", result: models.ExtractionResult{Body: "fallback"}},
			wantBody:  "primary body",
			wantTitle: "T",
			wantCalls: 0,
		},
		{
			name:      "fallback after primary error",
			primary:   &fakeStrategy{name: "a", err: errors.New("timeout")},
			fallback:  &fakeStrategy{name: "b", result: models.ExtractionResult{Title: "F", Body: "fallback body"}},
			wantBody:  "fallback body",
			wantTitle: "F",
			wantCalls: 1,
		},
		{
			name:      "too short fallback keeps title",
			primary:   &fakeStrategy{name: "a", result: models.ExtractionResult{Title: "P"}, err: ErrTooFewWords},
			fallback:  &fakeStrategy{name: "b", result: models.ExtractionResult{Title: "Short page"}, err: ErrTooFewWords},
			wantBody:  "",
			wantTitle: "Short page",
			wantCalls: 1,
		},
		{
			name:      "network failure drops title",
			primary:   &fakeStrategy{name: "a", result: models.ExtractionResult{Title: "P"}, err: ErrTooFewWords},
			fallback:  &fakeStrategy{name: "b", err: errors.New("connection refused")},
			wantBody:  "",
			wantTitle: "",
			wantCalls: 1,
		},
		{
			name:      "empty body without error falls through",
			primary:   &fakeStrategy{name: "a", result: models.ExtractionResult{Title: "P"}},
			fallback:  &fakeStrategy{name: "b", result: models.ExtractionResult{Body: "ok"}},
			wantBody:  "ok",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(discardLogger, tt.primary, tt.fallback)
			got := e.Extract(context.Background(), "https://example.com")

			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if tt.fallback.calls != tt.wantCalls {
				t.Errorf("fallback calls = %d, want %d", tt.fallback.calls, tt.wantCalls)
			}
		})
	}
}

func TestExtract_NotFoundOnBothStrategies(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := models.DefaultConfig().Fetch
	e, err := FromConfig(cfg, discardLogger)
	if err != nil {
		t.Fatal(err)
	}

	got := e.Extract(context.Background(), srv.URL+"/gone")
	if got.HasBody() {
		t.Errorf("expected no body, got %q", got.Body)
	}
	if got.Title != "" {
		t.Errorf("expected no title, got %q", got.Title)
	}
}

func TestParagraphStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/short":
			io.WriteString(w, `<html><head><title>Brief</title></head><body><p>Too short.</p></body></html>`)
		default:
			io.WriteString(w, `<html><head><title> Outbreak </title></head><body>
				<p>Avian flu outbreak reported in chickens and cows near Cairo.</p>
				<p>The ministry confirmed   the cases on Tuesday.</p></body></html>`)
		}
	}))
	defer srv.Close()

	s := &ParagraphStrategy{Fetcher: fetcher.NewFetcher(), Timeout: time.Second, MinWords: 10}

	got, err := s.Extract(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Outbreak" {
		t.Errorf("Title = %q", got.Title)
	}
	want := "Avian flu outbreak reported in chickens and cows near Cairo. The ministry confirmed the cases on Tuesday."
	if got.Body != want {
		t.Errorf("Body = %q, want %q", got.Body, want)
	}

	got, err = s.Extract(context.Background(), srv.URL+"/short")
	if !errors.Is(err, ErrTooFewWords) {
		t.Fatalf("expected ErrTooFewWords, got %v", err)
	}
	if got.Title != "Brief" || got.HasBody() {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestReadabilityStrategy_NormalizesBody(t *testing.T) {
	paragraph := `<p>Veterinary services confirmed an outbreak of avian flu&nbsp;&nbsp;&nbsp;in poultry farms
		near Cairo,    with further    cases under investigation among backyard chickens and dairy cows.</p>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><head><title>Outbreak near Cairo</title></head><body><article>`+
			strings.Repeat(paragraph, 6)+`</article></body></html>`)
	}))
	defer srv.Close()

	s := &ReadabilityStrategy{Fetcher: fetcher.NewFetcher(), Timeout: 5 * time.Second, MinWords: 10}
	got, err := s.Extract(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.HasBody() {
		t.Fatal("expected a body")
	}
	if strings.Contains(got.Body, "  ") || strings.ContainsAny(got.Body, "\n\t\u00a0") {
		t.Errorf("body is not whitespace normalised: %q", got.Body)
	}
	if !strings.Contains(got.Body, "avian flu in poultry farms near Cairo, with further cases") {
		t.Errorf("Body = %q", got.Body)
	}
}

func TestParseStrategies(t *testing.T) {
	cfg := models.DefaultConfig().Fetch
	f := fetcher.NewFetcher()

	got, err := ParseStrategies([]string{"readability", " Paragraphs "}, f, cfg)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.Name()
	}
	if strings.Join(names, ",") != "readability,paragraphs" {
		t.Errorf("strategies = %v", names)
	}

	if _, err := ParseStrategies([]string{"newspaper"}, f, cfg); err == nil {
		t.Error("expected error for unknown strategy")
	}
	if _, err := ParseStrategies(nil, f, cfg); err == nil {
		t.Error("expected error for no strategies")
	}
}
