package helpers

import (
	"net/url"
	"strconv"
	"strings"
)

// ResolveURL turns an href found on a forum page into an absolute address.
// Absolute http(s) addresses pass through, protocol-relative ones get "https:",
// and everything else is joined onto base.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return strings.TrimRight(base, "/") + href
	case hasScheme(href):
		return href
	default:
		return strings.TrimRight(base, "/") + "/" + href
	}
}

// PageURL returns the listing address for a zero-based page of a board.
// Page 0 is the bare board URL; later pages carry the ordering, category and offset parameters.
func PageURL(boardURL string, page int) string {
	if page <= 0 {
		return boardURL
	}

	sep := "?"
	if strings.Contains(boardURL, "?") {
		sep = "&"
	}
	return boardURL + sep + "od=T31&category=0&po=" + strconv.Itoa(page)
}

// PostID returns the numeric post identifier from a post URL such as
// https://m.clien.net/service/board/park/18012345?type=recent.
func PostID(postURL string) (string, error) {
	u, err := url.Parse(postURL)
	if err != nil {
		return "", err
	}
	// "/service/board/park/18012345" -> ["", "service", "board", "park", "18012345"]
	return GetSplitPart(strings.TrimRight(u.Path, "/"), "/", 4)
}

// BoardPath returns the board path ("/service/board/park") of a board or post URL.
func BoardPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 {
		return ""
	}
	return "/" + strings.Join(parts[:3], "/")
}

// hasScheme reports whether href carries its own scheme (data:, mailto:, ...)
func hasScheme(href string) bool {
	u, err := url.Parse(href)
	return err == nil && u.Scheme != ""
}
