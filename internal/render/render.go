// Package render writes extracted records as plain text or Markdown.
package render

import (
	"fmt"
	"io"
	"strings"

	"sjsage522/clienreader/internal/crawler"
)

// Boards writes the board catalog, one board per line.
func Boards(w io.Writer, boards []crawler.BoardRef) {
	for _, b := range boards {
		marker := ""
		if b.Custom {
			marker = " *"
		}
		fmt.Fprintf(w, "%s%s\t%s\n", b.Title, marker, b.URL)
	}
}

// Posts writes a board page. visited may be nil.
func Posts(w io.Writer, posts []crawler.PostSummary, visited func(string) bool) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "게시글이 없습니다.")
		return
	}

	for _, p := range posts {
		mark := " "
		if visited != nil && visited(p.URL) {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %s", mark, p.Title)
		if p.LikeCount > 0 {
			fmt.Fprintf(w, " [%d]", p.LikeCount)
		}
		fmt.Fprintln(w)

		meta := joinNonEmpty(" | ", p.Author, p.Date, viewsLabel(p.Views))
		if meta != "" {
			fmt.Fprintf(w, "  %s\n", meta)
		}
		fmt.Fprintf(w, "  %s\n", p.URL)
	}
}

// Post writes a post with its media and comments. With a converter the body is
// rendered as Markdown from ContentHTML, otherwise ContentText is used.
func Post(w io.Writer, d *crawler.PostDetail, conv *Converter) error {
	if d == nil {
		return nil
	}

	body := d.ContentText
	if conv != nil {
		md, err := conv.Convert(d.ContentHTML)
		if err != nil {
			return err
		}
		if md != "" {
			body = md
		}
	}

	if conv != nil {
		fmt.Fprintf(w, "# %s\n\n", d.Title)
	} else {
		fmt.Fprintf(w, "%s\n%s\n", d.Title, strings.Repeat("=", 40))
	}

	if meta := joinNonEmpty(" | ", d.Author, d.Date, viewsLabel(d.Views)); meta != "" {
		fmt.Fprintf(w, "%s\n\n", meta)
	}

	if body != "" {
		fmt.Fprintf(w, "%s\n\n", body)
	}

	if d.SourceURL != "" {
		fmt.Fprintf(w, "출처: %s\n", d.SourceURL)
	}
	for _, img := range d.ImageURLs {
		fmt.Fprintf(w, "이미지: %s\n", img)
	}
	for _, id := range d.YouTubeVideoIDs {
		fmt.Fprintf(w, "YouTube: https://www.youtube.com/watch?v=%s\n", id)
	}
	if d.NextPageURL != nil {
		fmt.Fprintf(w, "다음 페이지: %s\n", *d.NextPageURL)
	}

	Comments(w, d.Comments)
	return nil
}

// Comments writes the comment thread; replies are indented.
func Comments(w io.Writer, comments []crawler.Comment) {
	if len(comments) == 0 {
		return
	}

	fmt.Fprintf(w, "\n댓글 %d개\n", len(comments))
	for _, c := range comments {
		indent := ""
		if c.IsReply {
			indent = "  ↳ "
		}
		fmt.Fprintf(w, "%s%s", indent, c.Author)
		if c.Date != "" {
			fmt.Fprintf(w, " (%s)", c.Date)
		}
		fmt.Fprintf(w, ": %s\n", c.Content)
		for _, img := range c.Images {
			fmt.Fprintf(w, "%s  이미지: %s\n", indent, img)
		}
	}
}

// Preview writes link preview metadata.
func Preview(w io.Writer, p *crawler.LinkPreview) {
	if p == nil {
		return
	}

	fmt.Fprintln(w, p.URL)
	for _, line := range [][2]string{
		{"사이트", p.SiteName},
		{"제목", p.Title},
		{"설명", p.Description},
		{"이미지", p.ImageURL},
		{"YouTube", p.YouTubeVideoID},
	} {
		if line[1] != "" {
			fmt.Fprintf(w, "%s: %s\n", line[0], line[1])
		}
	}
}

func viewsLabel(views string) string {
	if views == "" {
		return ""
	}
	return "조회 " + views
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
