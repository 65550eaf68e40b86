// Package wiki describes the wiki being played on and normalizes the
// different ways an article can be referenced into one canonical key.
//
// An article reference may be a bare title ("Ferrari"), a root-relative path
// ("/wiki/Ferrari"), a page-relative REST link ("./Ferrari") or a full
// address ("https://en.wikipedia.org/wiki/Ferrari"). All four resolve to the
// same Key.
package wiki

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default site values for the English Wikipedia.
const (
	DefaultHost        = "https://en.wikipedia.org"
	DefaultArticlePath = "/wiki/"
	DefaultAPIPath     = "/w/rest.php/v1/page/%s/html"
)

// relativePrefix is how the REST API HTML writes intra-wiki hrefs.
const relativePrefix = "./"

var (
	// ErrEmptyRef is returned when a reference has no title.
	ErrEmptyRef = errors.New("empty article reference")
	// ErrForeignURL is returned for absolute URLs outside the site's article space.
	ErrForeignURL = errors.New("url is not an article on this wiki")
)

// Key is the canonical, fully-qualified address of an article. Two
// references denote the same article exactly when their keys are equal.
type Key string

// String returns the address.
func (k Key) String() string {
	return string(k)
}

// Site holds the addressing rules of one wiki.
type Site struct {
	// Host is the scheme and authority, e.g. https://en.wikipedia.org.
	Host string
	// ArticlePath prefixes every human-readable article address.
	ArticlePath string
	// APIPath is a format string with one %s for the escaped title.
	APIPath string
}

// NewSite returns a site with defaults applied for empty fields.
func NewSite(host, articlePath, apiPath string) Site {
	s := Site{Host: host, ArticlePath: articlePath, APIPath: apiPath}
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.ArticlePath == "" {
		s.ArticlePath = DefaultArticlePath
	}
	if s.APIPath == "" {
		s.APIPath = DefaultAPIPath
	}
	s.Host = strings.TrimRight(s.Host, "/")
	return s
}

// English returns the English Wikipedia.
func English() Site {
	return NewSite("", "", "")
}

// Resolve normalizes ref into a Key. It never touches the network.
func (s Site) Resolve(ref string) (Key, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyRef
	}

	switch {
	case strings.Contains(ref, "://"):
		return s.resolveAbsolute(ref)
	case strings.HasPrefix(ref, s.ArticlePath):
		return s.keyFor(stripQuery(strings.TrimPrefix(ref, s.ArticlePath)))
	case strings.HasPrefix(ref, relativePrefix):
		return s.keyFor(stripQuery(strings.TrimPrefix(ref, relativePrefix)))
	default:
		// A bare title may legitimately contain '?'.
		return s.keyFor(ref)
	}
}

// APIURL returns the REST endpoint serving the article's HTML.
func (s Site) APIURL(key Key) string {
	return s.Host + fmt.Sprintf(s.APIPath, url.PathEscape(s.Title(key)))
}

// Title returns the decoded title of key, with underscores.
func (s Site) Title(key Key) string {
	return strings.TrimPrefix(string(key), s.Host+s.ArticlePath)
}

func (s Site) resolveAbsolute(ref string) (Key, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", ref, err)
	}

	site, err := url.Parse(s.Host)
	if err != nil {
		return "", fmt.Errorf("resolve %q: site host: %w", ref, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("resolve %q: %w", ref, ErrForeignURL)
	}
	if !strings.EqualFold(u.Host, site.Host) {
		return "", fmt.Errorf("resolve %q: %w", ref, ErrForeignURL)
	}
	if !strings.HasPrefix(u.EscapedPath(), s.ArticlePath) {
		return "", fmt.Errorf("resolve %q: %w", ref, ErrForeignURL)
	}

	return s.keyFor(strings.TrimPrefix(u.EscapedPath(), s.ArticlePath))
}

// keyFor builds the key for a raw, possibly escaped title.
func (s Site) keyFor(raw string) (Key, error) {
	title := canonicalTitle(raw)
	if title == "" {
		return "", ErrEmptyRef
	}
	return Key(s.Host + s.ArticlePath + title), nil
}

// stripQuery drops a query string from a path-form reference.
func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// canonicalTitle mirrors MediaWiki title normalization: no fragment,
// percent-decoded, underscores for spaces and an upper-case first letter.
func canonicalTitle(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}

	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}

	title := strings.Trim(strings.ReplaceAll(raw, " ", "_"), "_")
	if title == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(first)) + title[size:]
}
