package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/clienreader/helpers"
)

const youtubeEmbedMarker = "youtube.com/embed/"

// placeholderMarkers identify lazy-load stand-ins in img src
var placeholderMarkers = []string{"transparent", "blank"}

var (
	youtubeEmbedRegex = regexp.MustCompile(`https?://(?:www\.)?youtube\.com/embed/([a-zA-Z0-9_-]+)`)
	youtubeIDRegex    = regexp.MustCompile(`^[a-zA-Z0-9_-]{6,}$`)
)

// imageSource picks the usable address of an img element: src unless it is empty
// or a placeholder, else data-src. Returns "" when neither is usable.
func imageSource(img *goquery.Selection) string {
	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src != "" && !isPlaceholder(src) {
		return src
	}
	return strings.TrimSpace(img.AttrOr("data-src", ""))
}

func isPlaceholder(src string) bool {
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "data:") {
		return true
	}
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractImages returns absolute image URLs under root in document order
func extractImages(root *goquery.Selection, baseURL string) []string {
	images := []string{}
	if root == nil {
		return images
	}
	root.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src := imageSource(img); src != "" {
			images = append(images, helpers.ResolveURL(baseURL, src))
		}
	})
	return images
}

// extractYouTubeIDs collects embed IDs from iframes under root, then from a scan of
// contentHTML. First-seen order, no duplicates.
func extractYouTubeIDs(root *goquery.Selection, contentHTML string) []string {
	ids := []string{}
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if root != nil {
		root.Find("iframe").Each(func(_ int, iframe *goquery.Selection) {
			src := iframe.AttrOr("src", "")
			if idx := strings.Index(src, youtubeEmbedMarker); idx >= 0 {
				id := src[idx+len(youtubeEmbedMarker):]
				if q := strings.IndexAny(id, "?#"); q >= 0 {
					id = id[:q]
				}
				add(strings.Trim(id, "/"))
			}
		})
	}

	for _, match := range youtubeEmbedRegex.FindAllStringSubmatch(contentHTML, -1) {
		add(match[1])
	}
	return ids
}

// YouTubeIDFromURL extracts the video ID from watch, short-link, embed and shorts URLs.
// Returns "" for anything else.
func YouTubeIDFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	}

	id = strings.Trim(id, "/")
	if !youtubeIDRegex.MatchString(id) {
		return ""
	}
	return id
}
