package domain

import "context"

// DownloadAPI is the remote download service
type DownloadAPI interface {
	// GetInfo fetches metadata for a URL
	GetInfo(ctx context.Context, url string) (*VideoInfo, error)

	// StartDownload asks the service to start a download and returns its id
	StartDownload(ctx context.Context, req DownloadRequest) (string, error)

	// GetProgress returns the current status of a download
	GetProgress(ctx context.Context, downloadID string) (*Progress, error)
}

// ServiceStatusAPI exposes the service's operational endpoints
type ServiceStatusAPI interface {
	GetStats(ctx context.Context) (*Stats, error)
	GetHealth(ctx context.Context) (*Health, error)
}
