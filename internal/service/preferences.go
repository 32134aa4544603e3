package service

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mmcdole/tubegrab/internal/domain"
)

// preferenceStore is the persistence the preferences service needs (consumer-defined interface)
type preferenceStore interface {
	GetTerms() (domain.TermsAcceptance, bool)
	SaveTerms(terms domain.TermsAcceptance) error
	GetTheme() (domain.Theme, bool)
	SaveTheme(theme domain.Theme) error
	GetClientID() (string, bool)
	SaveClientID(id string) error
	ClearAll() error
}

// PreferencesService owns the theme, the terms acknowledgment and the install id
type PreferencesService struct {
	store        preferenceStore
	clock        clockwork.Clock
	defaultTheme domain.Theme
	logger       *slog.Logger

	// onClientID is told the replacement id after ClearAll
	onClientID func(id string)
}

// NewPreferencesService creates a new preferences service. defaultTheme
// applies until a theme has been saved.
func NewPreferencesService(store preferenceStore, clock clockwork.Clock, defaultTheme domain.Theme, logger *slog.Logger) *PreferencesService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PreferencesService{
		store:        store,
		clock:        clock,
		defaultTheme: domain.ParseTheme(string(defaultTheme)),
		logger:       logger,
	}
}

// TermsAccepted reports whether the terms of service were acknowledged
func (s *PreferencesService) TermsAccepted() bool {
	terms, ok := s.store.GetTerms()
	return ok && terms.Accepted
}

// AcceptTerms persists the acknowledgment with the current time
func (s *PreferencesService) AcceptTerms() error {
	terms := domain.TermsAcceptance{Accepted: true, AcceptedAt: s.clock.Now()}
	if err := s.store.SaveTerms(terms); err != nil {
		return fmt.Errorf("save terms acceptance: %w", err)
	}
	s.logger.Info("terms accepted")
	return nil
}

// Theme returns the saved theme, or the default
func (s *PreferencesService) Theme() domain.Theme {
	if theme, ok := s.store.GetTheme(); ok {
		return theme
	}
	return s.defaultTheme
}

// SetTheme persists theme
func (s *PreferencesService) SetTheme(theme domain.Theme) error {
	if err := s.store.SaveTheme(theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
// The new theme is returned even if it could not be saved.
func (s *PreferencesService) ToggleTheme() (domain.Theme, error) {
	next := s.Theme().Toggle()
	return next, s.SetTheme(next)
}

// ClientID returns the install id, creating one on first use. A save
// failure is logged and the id is still returned for this run.
func (s *PreferencesService) ClientID() string {
	if id, ok := s.store.GetClientID(); ok {
		return id
	}
	id := uuid.NewString()
	if err := s.store.SaveClientID(id); err != nil {
		s.logger.Warn("failed to save client id", "error", err)
	}
	return id
}

// OnClientIDChange registers fn to receive the new install id once
// ClearAll has discarded the old one.
func (s *PreferencesService) OnClientIDChange(fn func(id string)) {
	s.onClientID = fn
}

// ClearAll removes history, theme, terms acceptance and the client id.
// A fresh id is issued right away to any OnClientIDChange listener.
func (s *PreferencesService) ClearAll() error {
	if err := s.store.ClearAll(); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	s.logger.Info("all local data cleared")
	if s.onClientID != nil {
		s.onClientID(s.ClientID())
	}
	return nil
}
