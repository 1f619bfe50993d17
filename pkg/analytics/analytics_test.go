package analytics

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: " \n\t  ", want: ""},
		{name: "collapses runs", in: "  Avian \n\n flu\toutbreak  ", want: "Avian flu outbreak"},
		{name: "arabic untouched", in: "ماعز   في  تونس", want: "ماعز في تونس"},
		{name: "non-breaking spaces", in: "avian\u00a0\u00a0 flu", want: "avian flu"},
		{name: "decomposed accent composed", in: "fie\u0300vre", want: "fi\u00e8vre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	words := make([]string, 120)
	for i := range words {
		words[i] = "w"
	}
	text := strings.Join(words, " ")

	got := Summarize(text, 50)
	if n := WordCount(got); n != 50 {
		t.Errorf("Summarize(120 words, 50) has %d words, want 50", n)
	}
	if !strings.HasPrefix(text, got) {
		t.Error("summary is not a prefix of the text")
	}

	if got := Summarize(text, 150); got != text {
		t.Error("Summarize with limit above word count should return the text unchanged")
	}

	short := "only three words"
	if got := Summarize(short, 50); got != short {
		t.Errorf("Summarize(%q, 50) = %q", short, got)
	}
}

func TestCounts(t *testing.T) {
	text := "مصر Egypt é"
	if got := WordCount(text); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
	if got := CharCount(text); got != 11 {
		t.Errorf("CharCount = %d, want 11", got)
	}
}

func TestHasArabic(t *testing.T) {
	if !HasArabic("outbreak in مصر") {
		t.Error("expected arabic script to be detected")
	}
	if HasArabic("outbreak in Égypte") {
		t.Error("latin text reported as arabic")
	}
}

func TestWordFrequency(t *testing.T) {
	freq := WordFrequency("The outbreak, the OUTBREAK! and cows; la grippe et les vaches")
	if freq["outbreak"] != 2 {
		t.Errorf("outbreak count = %d, want 2", freq["outbreak"])
	}
	for _, stop := range []string{"the", "and", "la", "et", "les"} {
		if _, ok := freq[stop]; ok {
			t.Errorf("stopword %q counted", stop)
		}
	}
	if freq["grippe"] != 1 || freq["vaches"] != 1 {
		t.Errorf("unexpected frequencies: %v", freq)
	}
}
