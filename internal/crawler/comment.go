package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/services/metrics"
)

// CommentSelectors holds the selectors used on the comment area of a post page
type CommentSelectors struct {
	// Containers are tried in order; the first match is the comment area
	Containers []string
	// Candidates is a union of comment row patterns
	Candidates string
	Author     string
	View       string
	Content    string
	Date       string
	// ReplyClasses mark a row as a reply
	ReplyClasses []string
	// ReplyParentClass marks every child row of a reply group
	ReplyParentClass string
}

// DefaultCommentSelectors returns the selectors for the mobile post page
func DefaultCommentSelectors() CommentSelectors {
	return CommentSelectors{
		Containers:       []string{".post_comment", ".comment_area", "#div_comment", ".comment_list", ".comment"},
		Candidates:       ".comment_row, li:has(span.nickname), div:has(span.nickname), tr:has(span.nickname)",
		Author:           "span.nickname",
		View:             ".comment_view",
		Content:          ".comment_content",
		Date:             ".timestamp, .time, .date",
		ReplyClasses:     []string{"re_comment", "re", "reply"},
		ReplyParentClass: "comment_re",
	}
}

// CommentExtractor turns the comment area of a post page into comments
type CommentExtractor struct {
	Selectors CommentSelectors
	// LegacyContent reads content from a hidden input value first and falls back to
	// the comment content block when the comment view is missing
	LegacyContent bool
}

// NewCommentExtractor creates a comment extractor with the default selectors
func NewCommentExtractor(legacyContent bool) *CommentExtractor {
	return &CommentExtractor{
		Selectors:     DefaultCommentSelectors(),
		LegacyContent: legacyContent,
	}
}

// Extract returns the comments of doc in document order, de-duplicated by author and content
func (e *CommentExtractor) Extract(doc *Document) (comments []Comment) {
	log := logger.ForCrawler("comment")
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("댓글 파싱 실패")
			comments = []Comment{}
		}
	}()

	comments = []Comment{}

	container := firstMatch(doc.Selection, e.Selectors.Containers)
	if container == nil {
		return comments
	}

	seen := make(map[string]bool)
	container.Find(e.Selectors.Candidates).Each(func(_ int, row *goquery.Selection) {
		// 자기 작성자와 본문이 없는 요소(다른 댓글 행을 감싼 요소)는 건너뜀
		if e.own(row, e.Selectors.Author).Length() == 0 || e.own(row, e.bodySelector()).Length() == 0 {
			return
		}

		comment := e.processRow(row, container, doc.BaseURL)
		if comment == nil {
			return
		}

		key := comment.Author + "|" + comment.Content
		if seen[key] {
			log.Debug().Str("author", comment.Author).Msg("중복 댓글 제외")
			return
		}
		seen[key] = true
		comments = append(comments, *comment)
	})

	metrics.ObserveExtracted("comment", len(comments))
	return comments
}

// processRow extracts one candidate. Returns nil when the author or content is unusable.
func (e *CommentExtractor) processRow(row, container *goquery.Selection, baseURL string) *Comment {
	author := strings.TrimSpace(e.own(row, e.Selectors.Author).First().Text())
	if author == "" {
		return nil
	}

	var content string
	var body *goquery.Selection
	if e.LegacyContent {
		content, body = e.legacyContent(row)
	} else {
		body = e.own(row, e.Selectors.View).First()
		if body.Length() == 0 {
			return nil
		}
		content = visibleText(body)
	}

	content = Clean(content)
	if !IsValid(content) {
		return nil
	}

	return &Comment{
		Author:  author,
		Content: content,
		Date:    strings.TrimSpace(e.own(row, e.Selectors.Date).First().Text()),
		IsReply: e.isReply(row, container),
		Images:  extractImages(body, baseURL),
	}
}

// legacyContent tries a hidden input value, then the comment view, then the content block
func (e *CommentExtractor) legacyContent(row *goquery.Selection) (string, *goquery.Selection) {
	view := e.own(row, e.Selectors.View).First()
	block := e.own(row, e.Selectors.Content).First()

	body := view
	if body.Length() == 0 {
		body = block
	}

	var content string
	e.own(row, "input[type='hidden']").EachWithBreak(func(_ int, input *goquery.Selection) bool {
		content = strings.TrimSpace(input.AttrOr("value", ""))
		return content == ""
	})
	if content != "" {
		return content, body
	}

	if view.Length() > 0 {
		if content = visibleText(view); content != "" {
			return content, body
		}
	}
	if block.Length() > 0 {
		content = visibleText(block)
	}
	return content, body
}

// bodySelector matches the elements a comment row reads its content from
func (e *CommentExtractor) bodySelector() string {
	if e.LegacyContent {
		return e.Selectors.View + ", " + e.Selectors.Content
	}
	return e.Selectors.View
}

// own returns the matches of selector under row that do not belong to a nested comment row
func (e *CommentExtractor) own(row *goquery.Selection, selector string) *goquery.Selection {
	return row.Find(selector).FilterFunction(func(_ int, el *goquery.Selection) bool {
		nested := false
		el.ParentsUntilSelection(row).EachWithBreak(func(_ int, p *goquery.Selection) bool {
			nested = e.isCommentRow(p)
			return !nested
		})
		return !nested
	})
}

// isCommentRow reports whether s is a candidate holding both an author and a body
func (e *CommentExtractor) isCommentRow(s *goquery.Selection) bool {
	return s.Is(e.Selectors.Candidates) &&
		s.Find(e.Selectors.Author).Length() > 0 &&
		s.Find(e.bodySelector()).Length() > 0
}

// isReply checks the row and its ancestors inside the comment area for reply markers
func (e *CommentExtractor) isReply(row, container *goquery.Selection) bool {
	if e.own(row, ".re_comment").Length() > 0 {
		return true
	}

	reply := false
	row.AddSelection(row.ParentsUntilSelection(container)).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, class := range e.Selectors.ReplyClasses {
			if s.HasClass(class) {
				reply = true
			}
		}
		if e.Selectors.ReplyParentClass != "" && s.HasClass(e.Selectors.ReplyParentClass) {
			reply = true
		}
		return !reply
	})
	return reply
}

// visibleText returns the trimmed text of sel without form inputs
func visibleText(sel *goquery.Selection) string {
	clone := sel.Clone()
	clone.Find("input, script, style").Remove()
	return strings.TrimSpace(clone.Text())
}
