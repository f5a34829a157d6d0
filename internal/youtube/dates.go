package youtube

import (
	"strings"
	"time"
	"ytcomments/internal/chrono"

	"github.com/markusmobius/go-dateparser"
)

// DateParser turns the human readable publish time youtube shows ("3 days
// ago", "vor 2 Wochen") into an absolute time. language is the locale the
// page was requested in, it may be empty.
type DateParser func(text, language string) (time.Time, bool)

// NaturalDateParser parses relative and absolute dates in any language
// go-dateparser knows, relative dates are resolved against clock. The
// language of the text is detected from the text itself.
func NaturalDateParser(clock chrono.TimeAPI) DateParser {
	return func(text, _ string) (time.Time, bool) {
		text = strings.TrimSpace(text)
		if text == "" {
			return time.Time{}, false
		}
		cfg := &dateparser.Configuration{
			CurrentTime: clock.Now(),
		}
		dt, err := dateparser.Parse(cfg, text)
		if err != nil || dt.Time.IsZero() {
			return time.Time{}, false
		}
		return dt.Time, true
	}
}

// publishedText drops the trailing annotation youtube appends to edited
// comments, "2 days ago (edited)" becomes "2 days ago".
func publishedText(published string) string {
	before, _, _ := strings.Cut(published, "(")
	return strings.TrimSpace(before)
}

func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}
