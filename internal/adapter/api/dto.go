package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexString accepts a JSON string, number or null. The service reports
// percent as "45.2%", but numbers are tolerated.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexInt accepts an integer, a float (truncated), a numeric string or null
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*n = flexInt(int64(f))
	return nil
}

// infoRequest is the body of POST /api/info
type infoRequest struct {
	URL string `json:"url"`
}

// InfoResponse is the body of a successful POST /api/info
type InfoResponse struct {
	Title          string          `json:"title"`
	Uploader       string          `json:"uploader"`
	Duration       flexInt         `json:"duration"`
	Thumbnail      string          `json:"thumbnail"`
	Description    string          `json:"description"`
	FileSizeApprox flexInt         `json:"filesize_approx"`
	ViewCount      flexInt         `json:"view_count"`
	UploadDate     string          `json:"upload_date"`
	Formats        []FormatPayload `json:"formats"`
}

// FormatPayload is one advertised video quality
type FormatPayload struct {
	Quality string  `json:"quality"`
	Height  flexInt `json:"height"`
	Ext     string  `json:"ext"`
}

// downloadRequest is the body of POST /api/download
type downloadRequest struct {
	URL         string `json:"url"`
	Format      string `json:"format"`
	Quality     string `json:"quality"`
	AudioFormat string `json:"audioFormat"`
}

// downloadResponse is the body of a successful POST /api/download
type downloadResponse struct {
	DownloadID string `json:"download_id"`
	Message    string `json:"message"`
}

// ProgressResponse is the body of GET /api/progress/{id}
type ProgressResponse struct {
	Status   string     `json:"status"`
	Percent  flexString `json:"percent"`
	Speed    flexString `json:"speed"`
	ETA      flexString `json:"eta"`
	Message  string     `json:"message"`
	Error    string     `json:"error"`
	Title    string     `json:"title"`
	FileSize flexInt    `json:"filesize"`
}

// StatsResponse is the body of GET /api/stats
type StatsResponse struct {
	TotalDownloads      flexInt `json:"total_downloads"`
	SuccessfulDownloads flexInt `json:"successful_downloads"`
	FailedDownloads     flexInt `json:"failed_downloads"`
	TotalBytes          flexInt `json:"total_bytes_downloaded"`
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status          string  `json:"status"`
	Timestamp       string  `json:"timestamp"`
	ActiveDownloads flexInt `json:"active_downloads"`
}

// errorResponse is the body of any failed request
type errorResponse struct {
	Error      string     `json:"error"`
	RetryAfter flexString `json:"retry_after"`
}
