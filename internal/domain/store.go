package domain

// Store persists client-side state (BoltDB + memory).
// Values are opaque serialized records; there is no cross-process
// coordination, the last write wins.
type Store interface {
	// === History ===
	GetHistory() ([]HistoryEntry, bool)
	SaveHistory(entries []HistoryEntry) error

	// === Preferences ===
	GetTerms() (TermsAcceptance, bool)
	SaveTerms(terms TermsAcceptance) error

	GetTheme() (Theme, bool)
	SaveTheme(theme Theme) error

	GetClientID() (string, bool)
	SaveClientID(id string) error

	// ClearAll wipes every persisted value
	ClearAll() error

	Close() error
}
