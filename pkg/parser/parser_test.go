package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Avian flu outbreak near Cairo</title>
  <meta property="article:published_time" content="2024-03-12T08:30:00Z">
</head>
<body>
  <nav><a href="/">Home</a> <a href="/news">News</a></nav>
  <article>
    <h1>Avian flu outbreak near Cairo</h1>
    <p>Avian flu outbreak reported in chickens and cows near Cairo, Egypt, ministry confirms.
    Veterinary teams were deployed to the affected farms on Tuesday morning.</p>
    <p>Officials said the situation was under control and that vaccination of poultry
    would continue across the governorate during the coming weeks.</p>
    <p>Farmers were asked to report any unusual mortality among their birds and livestock
    to the local veterinary office without delay.</p>
    <p>The ministry added that movement of live animals between markets in the region
    would be restricted until further notice, and that inspections of slaughterhouses
    and poultry markets would be stepped up in the capital and surrounding areas.</p>
  </article>
  <footer>Copyright</footer>
</body>
</html>`

func TestParseArticle(t *testing.T) {
	article, err := ParseArticle("https://example.com/news/1", []byte(articleHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(article.Title, "Avian flu outbreak") {
		t.Errorf("title = %q", article.Title)
	}
	if !strings.Contains(article.Text, "ministry confirms") {
		t.Errorf("text missing article body: %q", article.Text)
	}
	if strings.Contains(article.Text, "\n") {
		t.Error("text should be whitespace-normalised")
	}
	if article.Published == nil {
		t.Fatal("expected a publication time")
	}
	if got := article.Published.Format("2006-01-02"); got != "2024-03-12" {
		t.Errorf("published = %s, want 2024-03-12", got)
	}
}

func TestParseArticle_BadURL(t *testing.T) {
	if _, err := ParseArticle("://bad", []byte(articleHTML)); err == nil {
		t.Error("expected error for an unparseable url")
	}
}

func TestParseParagraphs(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		t.Fatal(err)
	}

	title, text := ParseParagraphs(doc)
	if title != "Avian flu outbreak near Cairo" {
		t.Errorf("title = %q", title)
	}
	if !strings.HasPrefix(text, "Avian flu outbreak reported in chickens") {
		t.Errorf("text = %q", text)
	}
	if strings.Contains(text, "Copyright") || strings.Contains(text, "Home") {
		t.Error("non-paragraph text leaked into the body")
	}
}

func TestPublishedTime(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "time element", html: `<html><body><time datetime="2023-11-05">5 Nov</time></body></html>`, want: "2023-11-05"},
		{name: "itemprop", html: `<html><head><meta itemprop="datePublished" content="2022-01-31"></head></html>`, want: "2022-01-31"},
		{name: "none", html: `<html><body><p>x</p></body></html>`, want: ""},
		{name: "unparseable", html: `<html><head><meta name="date" content="someday"></head></html>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatal(err)
			}
			got := PublishedTime(doc)
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got == nil || got.Format("2006-01-02") != tt.want {
				t.Errorf("PublishedTime = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	in := "  first line  \n\n\t second   line \n"
	if got := normalizeText(in); got != "first line second   line" {
		t.Errorf("normalizeText = %q", got)
	}
}
