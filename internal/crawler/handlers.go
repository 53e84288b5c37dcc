package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// applyHandlers applies a series of handlers to a selection.
// The first non-empty result wins.
func applyHandlers(s *goquery.Selection, handlers []ElementHandler) string {
	if len(handlers) == 0 {
		return ""
	}

	result := ""
	for _, handler := range handlers {
		if handler != nil {
			result = handler(s)
			if result != "" {
				break
			}
		}
	}
	return result
}

// textHandler returns the trimmed text of the first element matching selector
func textHandler(selector string) ElementHandler {
	return func(s *goquery.Selection) string {
		sel := selectFirst(s, selector)
		if sel.Length() == 0 {
			return ""
		}
		return strings.TrimSpace(sel.Text())
	}
}

// attrHandler returns the trimmed attribute of the first element matching selector
func attrHandler(selector, attr string) ElementHandler {
	return func(s *goquery.Selection) string {
		value, _ := selectFirst(s, selector).Attr(attr)
		return strings.TrimSpace(value)
	}
}

// selectFirst returns s itself when it matches selector, else its first matching descendant
func selectFirst(s *goquery.Selection, selector string) *goquery.Selection {
	if s.Is(selector) {
		return s.First()
	}
	return s.Find(selector).First()
}

// textHandlers builds one textHandler per selector, in order
func textHandlers(selectors ...string) []ElementHandler {
	handlers := make([]ElementHandler, 0, len(selectors))
	for _, selector := range selectors {
		handlers = append(handlers, textHandler(selector))
	}
	return handlers
}

// firstMatch returns the first element of the first selector that matches anything
func firstMatch(s *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if sel := s.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}
