package domain

import (
	"time"
)

// MediaFormat selects what the remote service produces
type MediaFormat string

const (
	FormatVideo MediaFormat = "video"
	FormatAudio MediaFormat = "audio"
)

// String returns the wire value
func (f MediaFormat) String() string {
	return string(f)
}

// Toggle returns the other format
func (f MediaFormat) Toggle() MediaFormat {
	if f == FormatAudio {
		return FormatVideo
	}
	return FormatAudio
}

// ParseMediaFormat maps a string to a MediaFormat, defaulting to video
func ParseMediaFormat(s string) MediaFormat {
	if MediaFormat(s) == FormatAudio {
		return FormatAudio
	}
	return FormatVideo
}

// VideoQualities lists the quality selectors the service understands, best first
var VideoQualities = []string{"best", "2160p", "1440p", "1080p", "720p", "480p", "360p"}

// AudioFormats lists the audio codecs the service can extract to
var AudioFormats = []string{"mp3", "m4a", "opus", "flac", "wav"}

// QualityOption is a video quality advertised by the metadata endpoint
type QualityOption struct {
	Quality string // e.g. "1080p"
	Height  int
	Ext     string
}

// VideoInfo is the metadata preview for a URL
type VideoInfo struct {
	URL         string
	Title       string
	Uploader    string
	Duration    int // seconds
	Thumbnail   string
	Description string
	FileSize    int64 // approximate, 0 if unknown
	ViewCount   int64
	UploadDate  string // YYYYMMDD as reported
	Formats     []QualityOption
}

// UploadedAt parses UploadDate, returning zero time if absent or malformed
func (v VideoInfo) UploadedAt() time.Time {
	t, err := time.Parse("20060102", v.UploadDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DownloadRequest is the body of a start-download request
type DownloadRequest struct {
	URL         string
	Format      MediaFormat
	Quality     string
	AudioFormat string
}

// SelectedQuality returns the value recorded in history for this request:
// the video quality for video, the audio codec for audio.
func (r DownloadRequest) SelectedQuality() string {
	if r.Format == FormatAudio {
		return r.AudioFormat
	}
	return r.Quality
}

// HistoryEntry is a persisted record of a completed download
type HistoryEntry struct {
	ID        int64       `json:"id"` // creation timestamp in milliseconds
	URL       string      `json:"url"`
	Title     string      `json:"title"`
	Format    MediaFormat `json:"format"`
	Quality   string      `json:"quality"`
	Timestamp time.Time   `json:"timestamp"`
	Thumbnail string      `json:"thumbnail"`
}

// MaxHistoryEntries bounds the persisted history list
const MaxHistoryEntries = 50

// Theme is the UI color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps a string to a Theme, defaulting to light
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// TermsAcceptance records the one-time terms of service acknowledgment
type TermsAcceptance struct {
	Accepted   bool      `json:"accepted"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// Stats summarizes the remote service's download counters
type Stats struct {
	TotalDownloads      int64
	SuccessfulDownloads int64
	FailedDownloads     int64
	TotalBytes          int64
}

// Health is the remote service's liveness report
type Health struct {
	Status          string
	Timestamp       string
	ActiveDownloads int
}
