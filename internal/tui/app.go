package tui

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/service"
	"github.com/mmcdole/tubegrab/internal/tui/components"
	"github.com/mmcdole/tubegrab/internal/tui/styles"
	"github.com/mmcdole/tubegrab/internal/validate"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateTerms ApplicationState = iota
	StateDeclined
	StateMain
	StateHelp
	StateConfirmReset
)

const (
	spinnerInterval = 100 * time.Millisecond
	welcomeDelay    = time.Second
)

var errClipboardUnavailable = errors.New("clipboard unavailable")

const playlistWarning = "Playlist link detected. Only single videos are downloaded."

// ClipboardReader reads text from the system clipboard
type ClipboardReader interface {
	Read() (string, error)
}

// Services bundles what the model talks to
type Services struct {
	Metadata    *service.MetadataService
	Downloads   *service.DownloadService
	History     *service.HistoryService
	Preferences *service.PreferencesService
	Links       *service.LinkService
	Clipboard   ClipboardReader
}

// Options are the startup settings for the model
type Options struct {
	Format            domain.MediaFormat
	Quality           string
	AudioFormat       string
	HideProgressAfter time.Duration
	ShowWelcome       bool
	Clock             clockwork.Clock
	Logger            *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	svc    Services
	clock  clockwork.Clock
	logger *slog.Logger
	events *ChannelObserver

	// UI Components
	URLInput components.URLInput
	Preview  components.Preview
	Progress components.ProgressPanel
	History  components.HistoryModal
	Terms    components.TermsModal
	Toasts   components.Toasts

	// Download form
	Format     domain.MediaFormat
	qualityIdx int
	audioIdx   int

	// Data
	Session      domain.Session
	HistoryCount int
	Theme        domain.Theme

	// fetchSeq drops metadata results for a URL the user has moved on from
	fetchSeq int

	hideProgressAfter time.Duration
	showWelcome       bool

	// Dimensions
	Width  int
	Height int

	SpinnerFrame int
}

// NewModel creates a new application model and subscribes it to download
// session events.
func NewModel(svc Services, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	events := NewChannelObserver()
	svc.Downloads.SetObserver(events)

	m := Model{
		State:             StateTerms,
		svc:               svc,
		clock:             opts.Clock,
		logger:            opts.Logger,
		events:            events,
		URLInput:          components.NewURLInput(),
		Preview:           components.NewPreview(),
		Progress:          components.NewProgressPanel(),
		History:           components.NewHistoryModal(),
		Terms:             components.NewTermsModal(svc.Links.TermsURL(), svc.Links.PrivacyURL()),
		Toasts:            components.NewToasts(),
		Format:            opts.Format,
		qualityIdx:        max(slices.Index(domain.VideoQualities, opts.Quality), 0),
		audioIdx:          max(slices.Index(domain.AudioFormats, opts.AudioFormat), 0),
		Session:           svc.Downloads.Snapshot(),
		HistoryCount:      svc.History.Count(),
		hideProgressAfter: opts.HideProgressAfter,
		showWelcome:       opts.ShowWelcome,
	}
	if m.Format == "" {
		m.Format = domain.FormatVideo
	}
	if svc.Preferences.TermsAccepted() {
		m.State = StateMain
	}
	m.applyTheme(svc.Preferences.Theme())

	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		WaitForSessionEventCmd(m.events),
		TickCmd(spinnerInterval),
		textinput.Blink,
	}
	// Welcome back only when the gate is not in the way
	if m.State == StateMain && m.showWelcome {
		cmds = append(cmds, WelcomeCmd(welcomeDelay))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.History.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(spinnerInterval)

	case WelcomeMsg:
		if m.State != StateMain {
			return m, nil
		}
		cmd := m.notify(components.ToastInfo, "Welcome to tubegrab!")
		return m, cmd

	case ToastExpiredMsg:
		m.Toasts.Dismiss(msg.ID)
		return m, nil

	case InfoFetchedMsg:
		return m.handleInfoFetched(msg)

	case DownloadStartedMsg:
		// API failures arrive as EventFailed; only validation is reported here
		if errors.Is(msg.Err, domain.ErrEmptyURL) || errors.Is(msg.Err, domain.ErrInvalidURL) {
			cmd := m.notify(components.ToastError, domain.UserMessage(msg.Err, ""))
			return m, cmd
		}
		return m, nil

	case SessionEventMsg:
		return m.handleSessionEvent(msg.Event)

	case HideProgressMsg:
		// A newer download owns the panel now
		if msg.Generation == m.Session.Generation && !m.Session.Busy() {
			m.Progress.Hide()
		}
		return m, nil

	case ClipboardMsg:
		return m.handleClipboard(msg)

	case LinkOpenedMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to open link", "error", msg.Err)
			cmd := m.notify(components.ToastError, "Could not open a browser")
			return m, cmd
		}
		return m, nil
	}

	// Anything else (cursor blink) goes to whichever input has focus
	var cmd tea.Cmd
	if m.History.IsVisible() {
		m.History, cmd, _ = m.History.Update(msg)
	} else if m.State == StateMain {
		m.URLInput, cmd = m.URLInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleInfoFetched(msg InfoFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.fetchSeq {
		return m, nil
	}
	if msg.Err != nil {
		m.Preview.Clear()
		cmd := m.notify(components.ToastError, domain.UserMessage(msg.Err, "Failed to fetch video info"))
		return m, cmd
	}
	m.Preview.SetInfo(msg.Info)
	cmd := m.notify(components.ToastSuccess, "Video information loaded")
	return m, cmd
}

func (m Model) handleSessionEvent(ev domain.SessionEvent) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{WaitForSessionEventCmd(m.events)}

	m.Session = ev.Session
	m.Progress.SetSession(ev.Session)

	switch ev.Kind {
	case domain.EventStarted:
		cmds = append(cmds, m.notify(components.ToastSuccess, "Download started successfully"))

	case domain.EventCompleted:
		if ev.Committed != nil {
			m.Progress.SetTitle(ev.Committed.Title)
		}
		if ev.HistoryErr != nil {
			m.logger.Error("failed to save history", "error", ev.HistoryErr)
			cmds = append(cmds, m.notify(components.ToastWarning, "Download completed, but history could not be saved"))
		} else {
			m.refreshHistory()
		}
		cmds = append(cmds, m.notify(components.ToastSuccess, "Download completed successfully!"))
		if m.hideProgressAfter > 0 {
			cmds = append(cmds, HideProgressCmd(ev.Session.Generation, m.hideProgressAfter))
		}

	case domain.EventFailed:
		text := ev.Session.Error
		if text == "" {
			text = "Download failed"
		}
		cmds = append(cmds, m.notify(components.ToastError, text))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleClipboard(msg ClipboardMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil || msg.Text == "" {
		if msg.Err != nil {
			m.logger.Debug("clipboard read failed", "error", msg.Err)
		}
		cmd := m.notify(components.ToastError, "Failed to read clipboard. Please paste manually.")
		return m, cmd
	}

	m.URLInput.SetValue(msg.Text)
	cmds := []tea.Cmd{m.notify(components.ToastSuccess, "URL pasted from clipboard")}
	if warn := m.tidyURL(); warn != nil {
		cmds = append(cmds, warn)
	}

	// Auto-fetch when the pasted text is a video link
	if validate.IsSupportedURL(m.URLInput.Value()) {
		cmds = append(cmds, m.startFetch())
	}
	return m, tea.Batch(cmds...)
}

// notify shows a toast and schedules its removal
func (m *Model) notify(kind components.ToastKind, message string) tea.Cmd {
	id := m.Toasts.Push(kind, message, m.clock.Now())
	return ExpireToastCmd(id, components.ToastLifetime)
}

// tidyURL strips tracking parameters from the URL field and warns when it
// points at a playlist. It returns the warning toast, if any.
func (m *Model) tidyURL() tea.Cmd {
	raw := m.URLInput.Value()
	if clean := validate.Clean(raw); clean != raw {
		m.URLInput.SetValue(clean)
	}
	if validate.IsPlaylistURL(raw) {
		return m.notify(components.ToastWarning, playlistWarning)
	}
	return nil
}

// startFetch begins a metadata fetch for the current URL. The caller has
// already validated it.
func (m *Model) startFetch() tea.Cmd {
	m.fetchSeq++
	m.Preview.SetLoading(true)
	return FetchInfoCmd(m.svc.Metadata, m.fetchSeq, m.URLInput.Value())
}

// refreshHistory reloads the count and, if open, the modal list
func (m *Model) refreshHistory() {
	m.HistoryCount = m.svc.History.Count()
	if m.History.IsVisible() {
		m.History.SetEntries(m.svc.History.List())
	}
}

func (m *Model) applyTheme(theme domain.Theme) {
	m.Theme = theme
	styles.Apply(theme)
	m.URLInput.RefreshStyles()
}

// qualityOptions returns the choices for the selected format and the index in use
func (m Model) qualityOptions() ([]string, int) {
	if m.Format == domain.FormatAudio {
		return domain.AudioFormats, m.audioIdx
	}
	return domain.VideoQualities, m.qualityIdx
}

// SelectedQuality returns the quality or audio format currently selected
func (m Model) SelectedQuality() string {
	opts, idx := m.qualityOptions()
	return opts[idx]
}

func (m *Model) cycleQuality(delta int) {
	opts, idx := m.qualityOptions()
	idx = (idx + delta + len(opts)) % len(opts)
	if m.Format == domain.FormatAudio {
		m.audioIdx = idx
	} else {
		m.qualityIdx = idx
	}
}

// downloadRequest builds the request for the current form
func (m Model) downloadRequest() domain.DownloadRequest {
	return domain.DownloadRequest{
		URL:         m.URLInput.Value(),
		Format:      m.Format,
		Quality:     domain.VideoQualities[m.qualityIdx],
		AudioFormat: domain.AudioFormats[m.audioIdx],
	}
}

// previewFor returns the displayed metadata if it belongs to url
func (m Model) previewFor(url string) *domain.VideoInfo {
	info := m.Preview.Info()
	if info == nil || info.URL != url {
		return nil
	}
	return info
}
