package api

import (
	"github.com/mmcdole/tubegrab/internal/domain"
)

// MapVideoInfo converts an info payload to a domain VideoInfo
func MapVideoInfo(url string, r *InfoResponse) *domain.VideoInfo {
	info := &domain.VideoInfo{
		URL:         url,
		Title:       r.Title,
		Uploader:    r.Uploader,
		Duration:    int(r.Duration),
		Thumbnail:   r.Thumbnail,
		Description: r.Description,
		FileSize:    int64(r.FileSizeApprox),
		ViewCount:   int64(r.ViewCount),
		UploadDate:  r.UploadDate,
	}
	for _, f := range r.Formats {
		info.Formats = append(info.Formats, domain.QualityOption{
			Quality: f.Quality,
			Height:  int(f.Height),
			Ext:     f.Ext,
		})
	}
	return info
}

// MapProgress converts a progress payload to a domain Progress
func MapProgress(r *ProgressResponse) *domain.Progress {
	return &domain.Progress{
		Status:  domain.ProgressStatus(r.Status),
		Percent: string(r.Percent),
		Speed:   string(r.Speed),
		ETA:     string(r.ETA),
		Message: r.Message,
		Error:   r.Error,
		Title:   r.Title,
	}
}

// MapStats converts a stats payload to domain Stats
func MapStats(r *StatsResponse) *domain.Stats {
	return &domain.Stats{
		TotalDownloads:      int64(r.TotalDownloads),
		SuccessfulDownloads: int64(r.SuccessfulDownloads),
		FailedDownloads:     int64(r.FailedDownloads),
		TotalBytes:          int64(r.TotalBytes),
	}
}

// MapHealth converts a health payload to domain Health
func MapHealth(r *HealthResponse) *domain.Health {
	return &domain.Health{
		Status:          r.Status,
		Timestamp:       r.Timestamp,
		ActiveDownloads: int(r.ActiveDownloads),
	}
}
