package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/tubegrab/internal/validate"
)

// opener abstracts launching a browser (consumer-defined interface)
type opener interface {
	Open(url string) error
}

// LinkService opens the service's legal pages and video pages in a browser
type LinkService struct {
	opener  opener
	baseURL string
	logger  *slog.Logger
}

// NewLinkService creates a new link service for the service rooted at baseURL
func NewLinkService(opener opener, baseURL string, logger *slog.Logger) *LinkService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkService{
		opener:  opener,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// TermsURL is the terms of service page
func (s *LinkService) TermsURL() string {
	return s.baseURL + "/terms"
}

// PrivacyURL is the privacy policy page
func (s *LinkService) PrivacyURL() string {
	return s.baseURL + "/privacy"
}

// OpenTerms opens the terms of service page
func (s *LinkService) OpenTerms() error {
	return s.open(s.TermsURL())
}

// OpenPrivacy opens the privacy policy page
func (s *LinkService) OpenPrivacy() error {
	return s.open(s.PrivacyURL())
}

// OpenVideo opens the canonical watch page for a video URL
func (s *LinkService) OpenVideo(rawURL string) error {
	target := validate.NormalizeURL(rawURL)
	if target == "" {
		return fmt.Errorf("no video id in %q", rawURL)
	}
	return s.open(target)
}

func (s *LinkService) open(url string) error {
	s.logger.Info("opening link", "url", url)
	if err := s.opener.Open(url); err != nil {
		s.logger.Error("failed to open link", "url", url, "error", err)
		return err
	}
	return nil
}
