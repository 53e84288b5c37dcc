package crawler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/clienreader/helpers"
	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/services/metrics"
)

// noticeRows is the number of pinned rows at the top of a board's first page
const noticeRows = 2

// ListSelectors holds the selectors used on board listing pages
type ListSelectors struct {
	// Rows is a union: every match of every pattern is a row candidate
	Rows          string
	TitleHandlers []ElementHandler
	Link          string
	Author        string
	Date          string
	Views         string
}

// DefaultListSelectors returns the selectors for the mobile board listing
func DefaultListSelectors() ListSelectors {
	return ListSelectors{
		Rows: ".list_item, .post-list li, article, .board-list li",
		TitleHandlers: []ElementHandler{
			attrHandler("span[data-role='list-title-text']", "title"),
			textHandler("span[data-role='list-title-text']"),
			textHandler("a, .list_title, .title, h3"),
		},
		Link:   "a",
		Author: ".author, .nickname, .writer",
		Date:   ".date, .time, .timestamp",
		Views:  ".hit, .view, .count",
	}
}

var likeCountRegex = regexp.MustCompile(`^(\d+)\s+(.+)`)

// ListExtractor turns a board listing page into post summaries
type ListExtractor struct {
	Selectors   ListSelectors
	SkipNotices bool
}

// NewListExtractor creates a list extractor with the default selectors
func NewListExtractor(skipNotices bool) *ListExtractor {
	return &ListExtractor{
		Selectors:   DefaultListSelectors(),
		SkipNotices: skipNotices,
	}
}

// Extract returns the rows of doc in document order. page is the zero-based page index.
// Panics from the selector engine degrade to an empty result.
func (e *ListExtractor) Extract(doc *Document, page int) (posts []PostSummary) {
	log := logger.ForCrawler("list")
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("목록 파싱 실패")
			posts = []PostSummary{}
		}
	}()

	posts = []PostSummary{}
	doc.Find(e.Selectors.Rows).Each(func(_ int, row *goquery.Selection) {
		if post := e.processRow(row, doc.BaseURL); post != nil {
			posts = append(posts, *post)
		}
	})

	if e.SkipNotices && page == 0 && len(posts) > noticeRows {
		posts = posts[noticeRows:]
	}

	log.Debug().Int("page", page).Int("count", len(posts)).Msg("목록 추출 완료")
	metrics.ObserveExtracted("post_summary", len(posts))
	return posts
}

// processRow extracts a single row. Returns nil when title or link is missing.
func (e *ListExtractor) processRow(row *goquery.Selection, baseURL string) *PostSummary {
	title := applyHandlers(row, e.Selectors.TitleHandlers)
	likeCount, title := splitLikeCount(title)
	if title == "" {
		return nil
	}

	href, _ := selectFirst(row, e.Selectors.Link).Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return nil
	}

	return &PostSummary{
		Title:     title,
		URL:       helpers.ResolveURL(baseURL, href),
		Author:    textHandler(e.Selectors.Author)(row),
		Date:      textHandler(e.Selectors.Date)(row),
		Views:     textHandler(e.Selectors.Views)(row),
		LikeCount: likeCount,
	}
}

// splitLikeCount separates a leading "12 " like count from a row title
func splitLikeCount(rawTitle string) (int, string) {
	title := strings.TrimSpace(rawTitle)
	match := likeCountRegex.FindStringSubmatch(title)
	if match == nil {
		return 0, title
	}

	count, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, title
	}
	return count, strings.TrimSpace(match[2])
}
