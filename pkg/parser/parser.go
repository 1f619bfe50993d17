// Package parser turns fetched HTML into article text. ParseArticle runs the
// readability boilerplate remover; ParseParagraphs is the plain <p> scrape
// used as a fallback.
package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"
)

// Article is the main content of a page.
type Article struct {
	Title     string
	Text      string
	Published *time.Time
}

// publishedSelectors are checked in order for a publication timestamp.
var publishedSelectors = []struct {
	selector string
	attr     string
}{
	{"meta[property='article:published_time']", "content"},
	{"meta[name='article:published_time']", "content"},
	{"meta[itemprop='datePublished']", "content"},
	{"meta[name='pubdate']", "content"},
	{"meta[name='publishdate']", "content"},
	{"meta[name='date']", "content"},
	{"meta[property='og:published_time']", "content"},
	{"time[datetime]", "datetime"},
}

// ParseArticle uses go-readability to extract the main article content,
// then flattens the cleaned HTML into text.
func ParseArticle(rawURL string, html []byte) (*Article, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(bytes.NewReader(html), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}

	content, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse article content: %w", err)
	}

	published := article.PublishedTime
	if published == nil {
		if page, err := goquery.NewDocumentFromReader(bytes.NewReader(html)); err == nil {
			published = PublishedTime(page)
		}
	}

	return &Article{
		Title:     normalizeText(article.Title),
		Text:      blockText(content),
		Published: published,
	}, nil
}

// ParseParagraphs joins the text of every <p> element and reads the
// document <title>.
func ParseParagraphs(doc *goquery.Document) (title, text string) {
	title = normalizeText(doc.Find("title").First().Text())

	var paragraphs []string
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		if t := normalizeText(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	return title, strings.Join(paragraphs, " ")
}

// PublishedTime reads the first parseable publication timestamp from the
// page metadata, or nil.
func PublishedTime(doc *goquery.Document) *time.Time {
	for _, ps := range publishedSelectors {
		value, ok := doc.Find(ps.selector).First().Attr(ps.attr)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		t, err := dateparse.ParseAny(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

// blockText joins the leaf text blocks of a readability fragment. Blocks
// nested inside another block are read once through their parent.
func blockText(doc *goquery.Document) string {
	var blocks []string
	doc.Find("h1,h2,h3,h4,h5,h6,p,li,pre,blockquote,td").Each(func(i int, s *goquery.Selection) {
		if s.Find("h1,h2,h3,h4,h5,h6,p,li,pre,blockquote,td").Length() > 0 {
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return normalizeText(doc.Text())
	}
	return strings.Join(blocks, " ")
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(nil, len(input)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			// Write the line and a single space for separation
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	// Return the result, trimming the final space
	return strings.TrimSpace(b.String())
}
