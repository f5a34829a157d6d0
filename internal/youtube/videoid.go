package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	videoUrlFormat     = "https://www.youtube.com/watch?v=%s"
	communityUrlFormat = "https://www.youtube.com/@%s/community"
)

var videoIdRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var videoPathPrefixes = []string{"/shorts/", "/embed/", "/live/", "/v/"}

// ParseVideoID returns the video id of a raw id or of any of the usual
// youtube video urls (watch, youtu.be, shorts, embed, live).
func ParseVideoID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if videoIdRegex.MatchString(input) {
		return input, true
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var candidate string
	switch {
	case host == "youtu.be":
		candidate = strings.Trim(u.Path, "/")
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if u.Path == "/watch" {
			candidate = u.Query().Get("v")
			break
		}
		for _, prefix := range videoPathPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				candidate, _, _ = strings.Cut(u.Path[len(prefix):], "/")
				break
			}
		}
	}

	if !videoIdRegex.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}

// VideoURL is the page comments are downloaded from. Urls with a scheme are
// used as is, ids and scheme-less video urls become a watch url.
func VideoURL(idOrUrl string) string {
	idOrUrl = strings.TrimSpace(idOrUrl)
	if strings.Contains(idOrUrl, "://") {
		return idOrUrl
	}
	if id, ok := ParseVideoID(idOrUrl); ok {
		return fmt.Sprintf(videoUrlFormat, id)
	}
	return fmt.Sprintf(videoUrlFormat, url.QueryEscape(idOrUrl))
}

// CommunityURL is the community tab of a channel handle, with or without
// the leading @.
func CommunityURL(handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	return fmt.Sprintf(communityUrlFormat, url.PathEscape(handle))
}
