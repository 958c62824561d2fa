// Package tui provides a Bubble Tea terminal user interface for bandcamp-contacts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/bandcamp-contacts/internal/batch"
	"github.com/handiism/bandcamp-contacts/internal/config"
	"github.com/handiism/bandcamp-contacts/internal/model"
	"github.com/handiism/bandcamp-contacts/internal/output"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	emailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const (
	maxLogs     = 10
	maxPreview  = 5
	eventBuffer = 256
)

var errCanceled = errors.New("cancelled by user")

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDiscovering
	StateScraping
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   batch.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Run state
	manager  *batch.Manager
	events   chan batch.ProgressEvent
	albums   int
	result   *model.BatchResult
	savedTo  string
	saveErr  error
	tag      string
	counts   struct{ completed, total, found int32 }

	// Options
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model starting from settings.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "ambient (or an album/artist URL, empty for all)"
	ti.SetValue(settings.Tag)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event from the running batch.
	ProgressMsg struct {
		Event  batch.ProgressEvent
		source chan batch.ProgressEvent
	}

	// InitDoneMsg is sent when album URLs have been collected.
	InitDoneMsg struct {
		Albums  int
		Manager *batch.Manager
		Err     error
	}

	// ScrapeDoneMsg is sent when every album has been processed.
	ScrapeDoneMsg struct {
		Result  model.BatchResult
		SavedTo string
		SaveErr error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateScraping || m.state == StateDiscovering {
				m.cancel()
				m.state = StateError
				m.err = errCanceled
			}

		case "enter":
			if m.state == StateInput {
				return m.start()
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.settings.Headless = !m.settings.Headless
				return m, nil
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "ctrl+o":
			if m.state == StateInput {
				if m.settings.Output == string(output.FormatCSV) {
					m.settings.Output = string(output.FormatJSON)
				} else {
					m.settings.Output = string(output.FormatCSV)
				}
				return m, nil
			}

		case "up":
			if m.state == StateInput {
				m.settings.Workers = min(m.settings.Workers+1, config.MaxWorkers)
				return m, nil
			}

		case "down":
			if m.state == StateInput {
				m.settings.Workers = max(m.settings.Workers-1, config.MinWorkers)
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		// Events from a previous run are dropped.
		if msg.source != m.events {
			return m, nil
		}
		cmds = append(cmds, waitForEvent(m.events))
		if msg.Event.Level == batch.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case InitDoneMsg:
		if m.state != StateDiscovering {
			return m, nil
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.albums = msg.Albums
			m.manager = msg.Manager
			m.state = StateScraping
			cmds = append(cmds, m.scrape(), m.tickProgress())
		}

	case ScrapeDoneMsg:
		if m.state != StateScraping {
			return m, nil
		}
		m.result = &msg.Result
		m.savedTo = msg.SavedTo
		m.saveErr = msg.SaveErr
		m.state = StateComplete

	case TickMsg:
		if m.manager != nil && m.state == StateScraping {
			completed, total, found := m.manager.GetProgress()
			m.counts.completed, m.counts.total, m.counts.found = completed, total, found

			var percent float64
			if total > 0 {
				percent = float64(completed) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start leaves the input screen and begins discovery or URL expansion.
// Input that looks like a URL is scraped directly; anything else is a tag.
func (m Model) start() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.textInput.Value())

	settings := *m.settings
	var inputs []string
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		inputs = []string{value}
		settings.Tag = ""
	} else {
		settings.Tag = value
	}
	m.tag = settings.Tag

	m.events = make(chan batch.ProgressEvent, eventBuffer)
	m.state = StateDiscovering
	m.textInput.Blur()

	return m, tea.Batch(m.initialize(&settings, inputs), waitForEvent(m.events), m.spinner.Tick)
}

func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.manager = nil
	m.events = nil
	m.albums = 0
	m.result = nil
	m.savedTo = ""
	m.saveErr = nil
	m.counts.completed, m.counts.total, m.counts.found = 0, 0, 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.Focus()
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next event from ch as a ProgressMsg. It
// returns nil once ch is closed, ending the listen loop.
func waitForEvent(ch chan batch.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event, source: ch}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 Bandcamp Contacts"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Find artist contact emails on Bandcamp"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDiscovering:
		b.WriteString(m.viewDiscovering())
	case StateScraping:
		b.WriteString(m.viewScraping())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func check(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a genre tag:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Headless browser (ctrl+t)\n", check(m.settings.Headless)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+l)\n", check(m.verbose)))
	b.WriteString(fmt.Sprintf("  Workers: %d (↑/↓)\n", m.settings.Workers))
	b.WriteString(fmt.Sprintf("  Output: %s (ctrl+o)\n", m.settings.Output))
	b.WriteString("\n")

	format, err := output.ParseFormat(m.settings.Output)
	if err == nil {
		name := output.FileName(strings.TrimSpace(m.textInput.Value()), format)
		b.WriteString(dimStyle.Render(fmt.Sprintf("Results are saved to: %s", name)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDiscovering() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Collecting album URLs..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewScraping() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Scraping %d album(s) with %d worker(s)", m.albums, m.settings.Workers)))
	b.WriteString("\n\n")

	var percent float64
	if m.counts.total > 0 {
		percent = float64(m.counts.completed) / float64(m.counts.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Albums: %d/%d | Emails found: %d",
		m.counts.completed,
		m.counts.total,
		m.counts.found,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	var result model.BatchResult
	if m.result != nil {
		result = *m.result
	}

	var summary strings.Builder
	summary.WriteString(fmt.Sprintf(
		"✨ Scraping Complete!\n\n"+
			"Albums: %d\n"+
			"Unique emails: %d\n"+
			"Rate limited: %d\n"+
			"Errors: %d",
		result.Albums,
		len(result.Contacts),
		result.RateLimited,
		len(result.Errors),
	))

	if len(result.Contacts) > 0 {
		summary.WriteString("\n")
		for i, c := range result.Contacts {
			if i == maxPreview {
				summary.WriteString(dimStyle.Render(fmt.Sprintf("\n  … and %d more", len(result.Contacts)-maxPreview)))
				break
			}
			summary.WriteString("\n")
			summary.WriteString(emailStyle.Render(fmt.Sprintf("  ✉ %s", c.Email)))
			if c.Name != "" {
				summary.WriteString(dimStyle.Render(" (" + c.Name + ")"))
			}
		}
	}

	b.WriteString(boxStyle.Render(summary.String()))
	b.WriteString("\n")

	switch {
	case m.saveErr != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Could not save results: %v", m.saveErr)))
	case m.savedTo != "":
		b.WriteString(successStyle.Render(fmt.Sprintf("Saved to %s", m.savedTo)))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case batch.LevelError:
			style = errorStyle
			prefix = "✗"
		case batch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case batch.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case batch.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+t: headless • ctrl+l: verbose • ↑/↓: workers • ctrl+o: output • esc: quit"
	case StateDiscovering, StateScraping:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new search • q: quit"
	}
	return ""
}

// initialize collects album URLs in the background.
func (m Model) initialize(settings *config.Settings, inputs []string) tea.Cmd {
	ctx, events := m.ctx, m.events
	return func() tea.Msg {
		manager := batch.NewManager(settings, func(event batch.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		})

		err := manager.Initialize(ctx, inputs)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			close(events)
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{
			Albums:  len(manager.AlbumURLs()),
			Manager: manager,
		}
	}
}

// scrape runs the batch in the background and saves the report.
func (m Model) scrape() tea.Cmd {
	ctx, manager, events, tag := m.ctx, m.manager, m.events, m.tag
	outputName := m.settings.Output
	return func() tea.Msg {
		result := manager.Run(ctx)
		close(events)

		done := ScrapeDoneMsg{Result: result}
		format, err := output.ParseFormat(outputName)
		if err != nil {
			done.SaveErr = err
			return done
		}
		path := output.FileName(tag, format)
		if err := output.WriteFile(path, model.NewReport(tag, result), format); err != nil {
			done.SaveErr = err
			return done
		}
		done.SavedTo = path
		return done
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
