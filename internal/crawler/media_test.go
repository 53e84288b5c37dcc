package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageSource(t *testing.T) {
	html := `<div>
<img id="plain" src="/a.jpg" data-src="/ignored.jpg">
<img id="transparent" src="/img/transparent.gif" data-src="/real.jpg">
<img id="blank" src="https://m.clien.net/img/BLANK.png" data-src="//cdn.clien.net/real2.jpg">
<img id="empty" src=" " data-src="/lazy.jpg">
<img id="none" src="/img/transparent.gif">
<img id="inline" src="data:image/gif;base64,R0lGODlhAQABAAAAACw=" data-src="/inline-lazy.jpg">
</div>`
	doc := Parse(html, testBaseURL)

	assert.Equal(t, "/a.jpg", imageSource(doc.Find("#plain")))
	assert.Equal(t, "/real.jpg", imageSource(doc.Find("#transparent")))
	assert.Equal(t, "//cdn.clien.net/real2.jpg", imageSource(doc.Find("#blank")))
	assert.Equal(t, "/lazy.jpg", imageSource(doc.Find("#empty")))
	assert.Equal(t, "", imageSource(doc.Find("#none")))
	assert.Equal(t, "/inline-lazy.jpg", imageSource(doc.Find("#inline")))

	assert.Equal(t, []string{
		"https://m.clien.net/a.jpg",
		"https://m.clien.net/real.jpg",
		"https://cdn.clien.net/real2.jpg",
		"https://m.clien.net/lazy.jpg",
		"https://m.clien.net/inline-lazy.jpg",
	}, extractImages(doc.Selection, testBaseURL))
}

func TestExtractYouTubeIDs(t *testing.T) {
	html := `<div class="post_content">
<iframe src="https://www.youtube.com/embed/AAA111?start=10"></iframe>
<iframe src="https://player.vimeo.com/video/1"></iframe>
<iframe src="//www.youtube.com/embed/BBB222"></iframe>
<p>http://youtube.com/embed/CCC333 and https://www.youtube.com/embed/AAA111 again</p>
</div>`
	doc := Parse(html, testBaseURL)
	root := doc.Find(".post_content")
	contentHTML, _ := root.Html()

	assert.Equal(t, []string{"AAA111", "BBB222", "CCC333"}, extractYouTubeIDs(root, contentHTML))
	assert.Empty(t, extractYouTubeIDs(nil, ""))
}

func TestYouTubeIDFromURL(t *testing.T) {
	testCases := []struct {
		url      string
		expected string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/channel/UC123", ""},
		{"https://example.com/watch?v=dQw4w9WgXcQ", ""},
		{"not a url", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, YouTubeIDFromURL(tc.url), tc.url)
	}
}
