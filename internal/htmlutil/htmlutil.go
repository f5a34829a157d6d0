package htmlutil

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FormAction finds the first form holding an input named `field` and returns
// its action resolved against base. ok is false when no such form has an
// action.
func FormAction(base *url.URL, document string, field string) (action string, ok bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", false
	}

	form := doc.Find("form").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("input[name='"+field+"']").Length() > 0
	}).First()
	raw, exists := form.Attr("action")
	if !exists || strings.TrimSpace(raw) == "" {
		return "", false
	}

	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if base == nil {
		return ref.String(), ref.IsAbs()
	}
	return base.ResolveReference(ref).String(), true
}
