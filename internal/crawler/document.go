package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"sjsage522/clienreader/logger"
)

// Document is a parsed page together with the origin its relative links resolve against
type Document struct {
	*goquery.Document
	BaseURL string
}

// Parse parses raw HTML. Malformed markup is recovered by the HTML5 parser;
// a reader failure yields an empty document rather than an error.
func Parse(rawHTML, baseURL string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		logger.ForCrawler("parser").Warn().Err(err).Msg("HTML 파싱 오류, 빈 문서로 대체")
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{Document: doc, BaseURL: strings.TrimRight(baseURL, "/")}
}
