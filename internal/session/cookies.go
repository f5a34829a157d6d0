package session

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	cookiemonster "github.com/MercuryEngineering/CookieMonster"
)

const httpOnlyPrefix = "#HttpOnly_"

// LoadCookies reads a Netscape cookies.txt export (the format browser
// extensions and curl write) into jar.
func LoadCookies(jar http.CookieJar, path string) error {
	_, err := os.Stat(path)
	if err != nil {
		return err
	}
	cookies, err := cookiemonster.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, c := range cookies {
		origin, cookie := jarCookie(c)
		jar.SetCookies(origin, []*http.Cookie{cookie})
	}
	return nil
}

// jarCookie turns a parsed cookies.txt entry into the cookie a jar keeps
// and the origin it is set from. An expiry of 0 marks a session cookie.
func jarCookie(c *http.Cookie) (*url.URL, *http.Cookie) {
	if strings.HasPrefix(c.Domain, httpOnlyPrefix) {
		c.Domain = strings.TrimPrefix(c.Domain, httpOnlyPrefix)
		c.HttpOnly = true
	}
	if !c.Expires.IsZero() && c.Expires.Unix() <= 0 {
		c.Expires = time.Time{}
	}
	if c.Path == "" {
		c.Path = "/"
	}

	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	origin := &url.URL{
		Scheme: scheme,
		Host:   strings.TrimPrefix(c.Domain, "."),
		Path:   "/",
	}
	return origin, c
}
