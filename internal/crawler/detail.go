package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/clienreader/helpers"
	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/services/metrics"
)

// DetailSelectors holds the selectors used on a post page.
// Every list is tried in order and the first non-empty match wins.
type DetailSelectors struct {
	TitleHandlers  []ElementHandler
	Content        []string
	AuthorHandlers []ElementHandler
	DateHandlers   []ElementHandler
	ViewsHandlers  []ElementHandler
	Source         string
	NextPage       string
}

// DefaultDetailSelectors returns the selectors for the mobile post page
func DefaultDetailSelectors() DetailSelectors {
	return DetailSelectors{
		TitleHandlers: append(
			[]ElementHandler{textHandler(".post_subject > span")},
			textHandlers(".post_title", ".post-title", ".title", "h1.title", "h2.title", ".view_title", ".subject", ".post_subject")...,
		),
		Content: []string{
			".post_content", ".post-content", ".content", ".post_article",
			".post_view", ".view_content", "article .content", ".memo_content",
		},
		AuthorHandlers: textHandlers(".post_author", ".post_info .nickname", ".author", ".writer", ".user_info .nickname", ".nickname"),
		DateHandlers:   textHandlers(".post_date", ".post_time", ".date", ".time"),
		ViewsHandlers:  textHandlers(".view_count", ".post_hit", ".hit", ".view"),
		Source:         ".post_source .attached_text",
		NextPage:       "a.btn_next",
	}
}

// DetailExtractor turns a post page into a PostDetail
type DetailExtractor struct {
	Selectors DetailSelectors
	Comments  *CommentExtractor
}

// NewDetailExtractor creates a detail extractor with the default selectors
func NewDetailExtractor(comments *CommentExtractor) *DetailExtractor {
	return &DetailExtractor{
		Selectors: DefaultDetailSelectors(),
		Comments:  comments,
	}
}

// Extract reads every field independently; a missing field is left empty
func (e *DetailExtractor) Extract(doc *Document) (detail *PostDetail) {
	log := logger.ForCrawler("detail")

	detail = &PostDetail{
		ImageURLs:       []string{},
		YouTubeVideoIDs: []string{},
		Comments:        []Comment{},
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("게시글 파싱 실패")
		}
	}()

	root := doc.Selection
	detail.Title = applyHandlers(root, e.Selectors.TitleHandlers)

	if content := firstMatch(root, e.Selectors.Content); content != nil {
		detail.ContentText = strings.TrimSpace(content.Text())
		detail.ContentHTML, _ = content.Html()
		detail.ImageURLs = extractImages(content, doc.BaseURL)
		detail.YouTubeVideoIDs = extractYouTubeIDs(content, detail.ContentHTML)
	} else {
		log.Debug().Msg("본문 영역을 찾지 못함")
	}

	detail.Author = applyHandlers(root, e.Selectors.AuthorHandlers)
	detail.Date = applyHandlers(root, e.Selectors.DateHandlers)
	detail.Views = applyHandlers(root, e.Selectors.ViewsHandlers)
	detail.SourceURL = textHandler(e.Selectors.Source)(root)
	detail.NextPageURL = e.nextPage(root, doc.BaseURL)

	if e.Comments != nil {
		detail.Comments = e.Comments.Extract(doc)
	}

	log.Debug().
		Str("title", detail.Title).
		Int("content_length", len(detail.ContentText)).
		Int("images", len(detail.ImageURLs)).
		Int("videos", len(detail.YouTubeVideoIDs)).
		Int("comments", len(detail.Comments)).
		Msg("게시글 추출 완료")
	metrics.ObserveExtracted("post_detail", 1)
	metrics.ObserveExtracted("image", len(detail.ImageURLs))
	return detail
}

func (e *DetailExtractor) nextPage(root *goquery.Selection, baseURL string) *string {
	href := attrHandler(e.Selectors.NextPage, "href")(root)
	if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") || href == "#" {
		return nil
	}
	next := helpers.ResolveURL(baseURL, href)
	return &next
}
