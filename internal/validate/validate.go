package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/tubegrab/internal/domain"
)

// Client-side fast path only; the download service performs the authoritative check.
var videoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`),
	regexp.MustCompile(`^(https?://)?(www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`^(https?://)?youtu\.be/[\w-]+`),
}

var playlistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(https?://)?(www\.)?youtube\.com/playlist\?list=[\w-]+`),
	regexp.MustCompile(`^(https?://)?(www\.)?youtube\.com/watch\?v=[\w-]+&list=[\w-]+`),
}

// trackingParams are query parameters removed by SanitizeURL
var trackingParams = []string{"si", "feature", "t", "ab_channel"}

// IsSupportedURL reports whether s looks like a supported video URL
func IsSupportedURL(s string) bool {
	return matchAny(videoPatterns, s)
}

// IsPlaylistURL reports whether s looks like a playlist URL
func IsPlaylistURL(s string) bool {
	return matchAny(playlistPatterns, strings.TrimSpace(s))
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// CheckURL is the precondition shared by metadata fetch and download start
func CheckURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.ErrEmptyURL
	}
	if !IsSupportedURL(s) {
		return domain.ErrInvalidURL
	}
	return nil
}

// ExtractVideoID returns the video id embedded in s, or "" if none is found
func ExtractVideoID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch {
	case host == "youtu.be":
		return strings.Trim(u.Path, "/")
	case strings.HasSuffix(host, "youtube.com"):
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		for _, prefix := range []string{"/embed/", "/v/"} {
			if idx := strings.Index(u.Path, prefix); idx >= 0 {
				return strings.Trim(u.Path[idx+len(prefix):], "/")
			}
		}
	}
	return ""
}

// NormalizeURL rewrites s to the canonical watch URL, or returns "" if no id is found
func NormalizeURL(s string) string {
	id := ExtractVideoID(s)
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + id
}

// SanitizeURL removes tracking parameters from s. Unparseable input is returned unchanged.
func SanitizeURL(s string) string {
	if s == "" {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	q := u.Query()
	for _, p := range trackingParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String()
}

// Clean trims s and strips tracking parameters from a supported URL.
// Anything else comes back trimmed so validation reports it as typed.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if !IsSupportedURL(s) {
		return s
	}
	if clean := SanitizeURL(s); IsSupportedURL(clean) {
		return clean
	}
	return s
}
