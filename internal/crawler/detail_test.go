package crawler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetailExtractor(legacy bool) *DetailExtractor {
	return NewDetailExtractor(NewCommentExtractor(legacy))
}

func TestDetailExtractor_AllFields(t *testing.T) {
	detail := newTestDetailExtractor(false).Extract(Parse(detailPage, testBaseURL))

	assert.Equal(t, "아이폰 신제품 후기", detail.Title)
	assert.Contains(t, detail.ContentText, "첫 문단입니다.")
	assert.Contains(t, detail.ContentHTML, `<div class="post_article">`)
	assert.Equal(t, "글쓴이", detail.Author)
	assert.Equal(t, "2025-03-01 10:00:00", detail.Date)
	assert.Equal(t, "321", detail.Views)
	assert.Equal(t, "https://example.com/news/1", detail.SourceURL)

	require.NotNil(t, detail.NextPageURL)
	assert.Equal(t, "https://m.clien.net/service/board/park/100?page=2", *detail.NextPageURL)

	assert.Len(t, detail.Comments, 2)
}

func TestDetailExtractor_Images(t *testing.T) {
	detail := newTestDetailExtractor(false).Extract(Parse(detailPage, testBaseURL))

	assert.Equal(t, []string{
		"https://m.clien.net/data/file/b.png",
		"https://edgio.clien.net/F01/a.jpg",
	}, detail.ImageURLs)
}

func TestDetailExtractor_YouTubeIDs(t *testing.T) {
	detail := newTestDetailExtractor(false).Extract(Parse(detailPage, testBaseURL))

	// iframe first, then the scan of the markup; the iframe ID is not repeated
	assert.Equal(t, []string{"abc123XYZ_-", "def456"}, detail.YouTubeVideoIDs)
}

func TestDetailExtractor_IndependentFields(t *testing.T) {
	html := `<html><body>
<h2 class="title">작성자 없는 글</h2>
<div class="view_content">본문만 있습니다 <img src="https://cdn.example.com/x.jpg"></div>
</body></html>`

	detail := newTestDetailExtractor(false).Extract(Parse(html, testBaseURL))

	assert.Equal(t, "", detail.Author)
	assert.Equal(t, "", detail.Date)
	assert.Equal(t, "", detail.Views)
	assert.Equal(t, "", detail.SourceURL)
	assert.Nil(t, detail.NextPageURL)
	assert.Equal(t, "작성자 없는 글", detail.Title)
	assert.Equal(t, "본문만 있습니다", detail.ContentText)
	assert.Equal(t, []string{"https://cdn.example.com/x.jpg"}, detail.ImageURLs)
	assert.Empty(t, detail.Comments)
	assert.NotNil(t, detail.Comments)
}

func TestDetailExtractor_ContentSelectorOrder(t *testing.T) {
	html := `<html><body>
<div class="memo_content">메모 본문</div>
<div class="post_view">뷰 본문</div>
</body></html>`

	detail := newTestDetailExtractor(false).Extract(Parse(html, testBaseURL))
	assert.Equal(t, "뷰 본문", detail.ContentText)
}

func TestDetailExtractor_EmptyDocument(t *testing.T) {
	detail := newTestDetailExtractor(false).Extract(Parse("", testBaseURL))

	require.NotNil(t, detail)
	assert.Equal(t, "", detail.Title)
	assert.Equal(t, "", detail.ContentText)
	assert.Empty(t, detail.ImageURLs)
	assert.Empty(t, detail.YouTubeVideoIDs)
	assert.Nil(t, detail.NextPageURL)
}

func TestDetailExtractor_IgnoresScriptNextLink(t *testing.T) {
	html := `<div class="post_content">본문</div><a class="btn_next" href="javascript:void(0)">다음</a>`
	detail := newTestDetailExtractor(false).Extract(Parse(html, testBaseURL))
	assert.Nil(t, detail.NextPageURL)
}

func TestDetailExtractor_Deterministic(t *testing.T) {
	e := newTestDetailExtractor(false)

	first, err := json.Marshal(e.Extract(Parse(detailPage, testBaseURL)))
	require.NoError(t, err)
	second, err := json.Marshal(e.Extract(Parse(detailPage, testBaseURL)))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))

	list := NewListExtractor(true)
	firstList, _ := json.Marshal(list.Extract(Parse(listPage(6), testBaseURL), 0))
	secondList, _ := json.Marshal(list.Extract(Parse(listPage(6), testBaseURL), 0))
	assert.Equal(t, string(firstList), string(secondList))
}
