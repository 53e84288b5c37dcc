package crawler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListExtractor_DocumentOrderAndAbsoluteURLs(t *testing.T) {
	doc := Parse(listPage(5), testBaseURL)
	posts := NewListExtractor(false).Extract(doc, 1)

	require.Len(t, posts, 5)
	for i, post := range posts {
		assert.Equal(t, fmt.Sprintf("게시글 %d", i+1), post.Title)
		assert.Equal(t, fmt.Sprintf("https://m.clien.net/service/board/park/%d?od=T31&po=0", i+1), post.URL)
		assert.True(t, strings.HasPrefix(post.URL, "https://"))
		assert.NotEmpty(t, post.Title)
	}

	assert.Equal(t, "작성자1", posts[0].Author)
	assert.Equal(t, "2025-03-01 09:01:00", posts[0].Date)
	assert.Equal(t, "10", posts[0].Views)
	assert.Equal(t, 0, posts[0].LikeCount)
}

func TestListExtractor_LikeCount(t *testing.T) {
	html := `<html><body>` + listRow(7, 12, "Hello world") + listRow(8, 0, "Hello world") + `</body></html>`
	posts := NewListExtractor(false).Extract(Parse(html, testBaseURL), 1)

	require.Len(t, posts, 2)
	assert.Equal(t, 12, posts[0].LikeCount)
	assert.Equal(t, "Hello world", posts[0].Title)
	assert.Equal(t, 0, posts[1].LikeCount)
	assert.Equal(t, "Hello world", posts[1].Title)
}

func TestSplitLikeCount(t *testing.T) {
	testCases := []struct {
		raw   string
		count int
		title string
	}{
		{"12 Hello world", 12, "Hello world"},
		{"Hello world", 0, "Hello world"},
		{"  3   공감 많은 글 ", 3, "공감 많은 글"},
		{"2024년 결산", 0, "2024년 결산"},
		{"42", 0, "42"},
		{"", 0, ""},
	}

	for _, tc := range testCases {
		count, title := splitLikeCount(tc.raw)
		assert.Equal(t, tc.count, count, tc.raw)
		assert.Equal(t, tc.title, title, tc.raw)
	}
}

func TestListExtractor_NoticeSkipping(t *testing.T) {
	e := NewListExtractor(true)

	// first page with 5 rows: the 2 pinned rows are dropped
	posts := e.Extract(Parse(listPage(5), testBaseURL), 0)
	require.Len(t, posts, 3)
	assert.Equal(t, "게시글 3", posts[0].Title)

	// first page with exactly 2 rows: nothing is dropped
	posts = e.Extract(Parse(listPage(2), testBaseURL), 0)
	assert.Len(t, posts, 2)

	// later pages are never trimmed
	posts = e.Extract(Parse(listPage(5), testBaseURL), 1)
	assert.Len(t, posts, 5)
}

func TestListExtractor_NoticeSkippingDisabled(t *testing.T) {
	posts := NewListExtractor(false).Extract(Parse(listPage(5), testBaseURL), 0)
	require.Len(t, posts, 5)
	assert.Equal(t, "게시글 1", posts[0].Title)
}

func TestListExtractor_SkipsRowsWithoutTitleOrLink(t *testing.T) {
	html := `<html><body>
<div class="list_item"><a href="/service/board/park/1"><span data-role="list-title-text" title="  "></span></a></div>
<div class="list_item"><span class="list_title">링크 없는 글</span></div>
<div class="list_item"><a href="  ">빈 링크</a></div>
<div class="list_item"><a href="https://www.clien.net/service/board/park/9">외부 주소 글</a></div>
</body></html>`

	posts := NewListExtractor(false).Extract(Parse(html, testBaseURL), 0)
	require.Len(t, posts, 1)
	assert.Equal(t, "외부 주소 글", posts[0].Title)
	assert.Equal(t, "https://www.clien.net/service/board/park/9", posts[0].URL)
}

func TestListExtractor_TitleFallbacks(t *testing.T) {
	html := `<html><body>
<ul class="post-list">
  <li><a href="/service/board/kin/1"><span data-role="list-title-text">텍스트 제목</span></a></li>
  <li><a href="/service/board/kin/2">링크 제목</a></li>
</ul>
<div class="board-list"><ul><li><h3>헤딩 제목</h3><a href="/service/board/kin/3"></a></li></ul></div>
</body></html>`

	posts := NewListExtractor(false).Extract(Parse(html, testBaseURL), 0)
	require.Len(t, posts, 3)
	assert.Equal(t, "텍스트 제목", posts[0].Title)
	assert.Equal(t, "링크 제목", posts[1].Title)
	assert.Equal(t, "헤딩 제목", posts[2].Title)
	assert.Equal(t, "https://m.clien.net/service/board/kin/3", posts[2].URL)
}

func TestListExtractor_RowIsAnchor(t *testing.T) {
	html := `<html><body>
<a class="list_item" href="/service/board/park/1"><span data-role="list-title-text">제목</span></a>
<a class="list_item" href="/service/board/park/2">3 앵커 제목</a>
</body></html>`

	posts := NewListExtractor(false).Extract(Parse(html, testBaseURL), 1)
	require.Len(t, posts, 2)
	assert.Equal(t, "제목", posts[0].Title)
	assert.Equal(t, "https://m.clien.net/service/board/park/1", posts[0].URL)
	assert.Equal(t, "앵커 제목", posts[1].Title)
	assert.Equal(t, 3, posts[1].LikeCount)
	assert.Equal(t, "https://m.clien.net/service/board/park/2", posts[1].URL)
}

func TestListExtractor_EmptyAndMalformed(t *testing.T) {
	e := NewListExtractor(true)

	assert.Empty(t, e.Extract(Parse("", testBaseURL), 0))
	assert.NotNil(t, e.Extract(Parse("", testBaseURL), 0))

	posts := e.Extract(Parse(`<div class="list_item"><a href="/a/b/c/1">깨진 <b>마크업`, testBaseURL), 1)
	require.Len(t, posts, 1)
	assert.Equal(t, "깨진 마크업", posts[0].Title)
}
