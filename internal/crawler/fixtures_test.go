package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"sjsage522/clienreader/pkg/errors"
)

const testBaseURL = "https://m.clien.net"

// listRow renders one board listing row. likes > 0 prefixes the title with a like count.
func listRow(id, likes int, title string) string {
	text := title
	if likes > 0 {
		text = fmt.Sprintf("%d %s", likes, title)
	}
	return fmt.Sprintf(`
<div class="list_item symph_row">
  <div class="list_title">
    <a class="list_subject" href="/service/board/park/%d?od=T31&amp;po=0">
      <span data-role="list-title-text" title="%s">%s</span>
    </a>
  </div>
  <div class="list_author"><span class="nickname">작성자%d</span></div>
  <div class="list_time"><span class="timestamp">2025-03-01 09:%02d:00</span></div>
  <div class="list_hit"><span class="hit">%d</span></div>
</div>`, id, text, text, id, id%60, id*10)
}

// listPage renders a listing page with n rows numbered from 1
func listPage(n int) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="list_content">`)
	for i := 1; i <= n; i++ {
		b.WriteString(listRow(i, 0, fmt.Sprintf("게시글 %d", i)))
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

const detailPage = `<html><head><title>클리앙</title></head><body>
<div class="post_title"><h3 class="post_subject"><span>아이폰 신제품 후기</span></h3></div>
<div class="post_info">
  <span class="post_author"><span class="nickname">글쓴이</span></span>
  <span class="post_date">2025-03-01 10:00:00</span>
  <span class="view_count">321</span>
</div>
<div class="post_content">
  <article><div class="post_article">
    <p>첫 문단입니다.</p>
    <img src="/img/transparent.gif" data-src="/data/file/b.png">
    <img src="//edgio.clien.net/F01/a.jpg">
    <iframe src="https://www.youtube.com/embed/abc123XYZ_-?rel=0"></iframe>
    <p>https://www.youtube.com/embed/def456 참고</p>
  </div></article>
</div>
<div class="post_source"><span class="attached_text"> https://example.com/news/1 </span></div>
<a class="btn_next" href="/service/board/park/100?page=2">다음</a>
<div class="post_comment">
  <div class="comment">
    <div class="comment_row">
      <div class="comment_info"><span class="nickname">댓글러1</span><span class="timestamp">2025-03-01 11:00:00</span></div>
      <div class="comment_content"><div class="comment_view">좋은 정보 감사합니다 <img src="//edgio.clien.net/c.jpg"></div></div>
    </div>
    <div class="comment_row re">
      <div class="comment_info"><span class="nickname">댓글러2</span></div>
      <div class="comment_content"><div class="comment_view">동의합니다 2025-03-01</div></div>
    </div>
    <div class="comment_row">
      <div class="comment_info"><span class="nickname">댓글러1</span></div>
      <div class="comment_content"><div class="comment_view">좋은 정보 감사합니다</div></div>
    </div>
    <div class="comment_row">
      <div class="comment_info"><span class="nickname">댓글러3</span></div>
      <div class="comment_content"><div class="comment_view">1</div></div>
    </div>
    <div class="comment_row">
      <div class="comment_info"><span class="nickname">댓글러4</span></div>
      <div class="comment_content"><input type="hidden" value="숨김 내용"></div>
    </div>
  </div>
</div>
</body></html>`

// fakeFetcher serves canned pages and counts requests
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]string),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[url]++
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	page, ok := f.pages[url]
	if !ok {
		return "", errors.NewTransport("fake", "no such page "+url, nil)
	}
	return page, nil
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}
