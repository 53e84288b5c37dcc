package crawler

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// BoardRef is a board catalog entry
type BoardRef struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Custom      bool   `json:"custom,omitempty"`
}

// PostSummary is one row of a board listing page
type PostSummary struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Author    string `json:"author,omitempty"`
	Date      string `json:"date,omitempty"`
	Views     string `json:"views,omitempty"`
	LikeCount int    `json:"like_count"`
}

// PostDetail is a single post page with its comments
type PostDetail struct {
	Title           string    `json:"title"`
	ContentText     string    `json:"content_text"`
	ContentHTML     string    `json:"content_html"`
	ImageURLs       []string  `json:"image_urls"`
	YouTubeVideoIDs []string  `json:"youtube_video_ids"`
	Author          string    `json:"author,omitempty"`
	Date            string    `json:"date,omitempty"`
	Views           string    `json:"views,omitempty"`
	Comments        []Comment `json:"comments"`
	SourceURL       string    `json:"source_url,omitempty"`
	NextPageURL     *string   `json:"next_page_url,omitempty"`
}

// Comment is a single comment under a post
type Comment struct {
	Author  string   `json:"author"`
	Content string   `json:"content"`
	Date    string   `json:"date,omitempty"`
	IsReply bool     `json:"is_reply"`
	Images  []string `json:"images"`
}

// LinkPreview is the metadata of an external page linked from a post
type LinkPreview struct {
	URL            string `json:"url"`
	Title          string `json:"title,omitempty"`
	Description    string `json:"description,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	SiteName       string `json:"site_name,omitempty"`
	YouTubeVideoID string `json:"youtube_video_id,omitempty"`
}

// ElementHandler extracts a string from a selection. An empty result means "no match".
type ElementHandler func(*goquery.Selection) string

// Fetcher retrieves the UTF-8 text of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// VisitedTracker records which posts have been opened
type VisitedTracker interface {
	MarkVisited(postURL, title string) error
	IsVisited(postURL string) (bool, error)
}

// BoardStore persists user-added boards
type BoardStore interface {
	CustomBoards() ([]BoardRef, error)
	AddCustomBoard(board BoardRef) error
	RemoveCustomBoard(url string) error
}
