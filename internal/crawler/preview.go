package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/clienreader/helpers"
)

// metaHandler reads the content of a <meta> tag by property or name
func metaHandler(key string) ElementHandler {
	return func(s *goquery.Selection) string {
		for _, attr := range []string{"property", "name"} {
			if v := attrHandler("meta["+attr+"='"+key+"']", "content")(s); v != "" {
				return v
			}
		}
		return ""
	}
}

var (
	previewTitleHandlers = []ElementHandler{
		metaHandler("og:title"),
		metaHandler("twitter:title"),
		textHandler("head title"),
	}
	previewDescriptionHandlers = []ElementHandler{
		metaHandler("og:description"),
		metaHandler("twitter:description"),
		metaHandler("description"),
	}
	previewImageHandlers = []ElementHandler{
		metaHandler("og:image"),
		metaHandler("twitter:image"),
		metaHandler("twitter:image:src"),
	}
	previewSiteHandlers = []ElementHandler{
		metaHandler("og:site_name"),
	}
)

// ExtractPreview reads Open Graph and Twitter card metadata from an external page
func ExtractPreview(doc *Document, pageURL string) *LinkPreview {
	root := doc.Selection
	preview := &LinkPreview{
		URL:            pageURL,
		Title:          applyHandlers(root, previewTitleHandlers),
		Description:    applyHandlers(root, previewDescriptionHandlers),
		SiteName:       applyHandlers(root, previewSiteHandlers),
		YouTubeVideoID: YouTubeIDFromURL(pageURL),
	}

	if image := applyHandlers(root, previewImageHandlers); image != "" {
		preview.ImageURL = helpers.ResolveURL(doc.BaseURL, image)
	}
	if preview.SiteName == "" {
		preview.SiteName = hostOf(pageURL)
	}
	return preview
}

func hostOf(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimPrefix(rest, "www.")
}
