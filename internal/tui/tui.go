// Package tui provides a Bubble Tea terminal user interface for stemfetch.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/EricDisero/stemfetch/internal/audio"
	"github.com/EricDisero/stemfetch/internal/config"
	"github.com/EricDisero/stemfetch/internal/download"
	shttp "github.com/EricDisero/stemfetch/internal/http"
	ioutils "github.com/EricDisero/stemfetch/internal/io"
	"github.com/EricDisero/stemfetch/internal/model"
	"github.com/EricDisero/stemfetch/internal/save"
	"github.com/EricDisero/stemfetch/internal/splitter"
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

	stemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRetrieving
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	stems     []string
	err       error

	// Batch context
	ctx    context.Context
	cancel context.CancelFunc

	// Batch results flow in through this channel and are re-emitted as
	// Bubble Tea messages.
	events chan tea.Msg

	outcome  model.Outcome
	terminal model.TerminalState

	// Options
	playlist bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "Song name"
	ti.Focus()
	ti.CharLimit = 200
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
		events:    make(chan tea.Msg, 256),
		playlist:  settings.CreatePlaylist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// EventMsg carries a human-readable progress message.
	EventMsg struct {
		Event download.ProgressEvent
	}

	// ProgressMsg carries the cumulative outcome after a scheduling pass.
	ProgressMsg struct {
		Outcome model.Outcome
	}

	// BatchDoneMsg is sent when the batch reaches a terminal state and
	// all transfers have drained.
	BatchDoneMsg struct {
		Terminal model.TerminalState
		Outcome  model.Outcome
		Err      error
	}
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
			if m.state == StateRetrieving {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateRetrieving
				m.stems = standardStemLabels()
				return m, tea.Batch(m.startBatch(), m.waitEvent(), m.spinner.Tick)
			}

		case "p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new batch
				m.state = StateInput
				m.logs = nil
				m.stems = nil
				m.err = nil
				m.outcome = model.Outcome{}
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.events = make(chan tea.Msg, 256)
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.waitEvent())

	case ProgressMsg:
		m.outcome = msg.Outcome
		if m.outcome.Total > 0 {
			percent := float64(len(m.outcome.Succeeded)) / float64(m.outcome.Total)
			cmds = append(cmds, m.progress.SetPercent(percent))
		}
		cmds = append(cmds, m.waitEvent())

	case BatchDoneMsg:
		m.outcome = msg.Outcome
		m.terminal = msg.Terminal
		switch {
		case msg.Err != nil && m.ctx.Err() == nil:
			m.state = StateError
			m.err = msg.Err
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		default:
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// waitEvent returns a command that delivers the next batch message.
func (m Model) waitEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Stemfetch"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Retrieve separated stems from the splitter"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRetrieving:
		b.WriteString(m.viewRetrieving())
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

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter song name:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	playlistCheck := "[ ]"
	if m.playlist {
		playlistCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create playlist (p)\n", playlistCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Save path: %s", m.settings.DownloadsPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRetrieving() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Retrieving stems..."))
	b.WriteString("\n\n")

	if len(m.stems) > 0 {
		for _, stem := range m.stems {
			b.WriteString(stemStyle.Render(fmt.Sprintf("  ♪ %s", stem)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Progress bar
	var percent float64
	if m.outcome.Total > 0 {
		percent = float64(len(m.outcome.Succeeded)) / float64(m.outcome.Total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Stems: %d/%d",
		len(m.outcome.Succeeded),
		m.outcome.Total,
	)))
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	header := "Retrieval Complete!"
	if m.terminal == model.TerminalExhausted {
		header = "Finished with failures"
	}

	body := fmt.Sprintf(
		"%s\n\nStems: %d/%d",
		header,
		len(m.outcome.Succeeded),
		m.outcome.Total,
	)
	if len(m.outcome.Failed) > 0 {
		body += fmt.Sprintf("\nFailed: %s", strings.Join(m.outcome.Failed, ", "))
	}

	b.WriteString(boxStyle.Render(body))

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
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
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
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
		return "enter: start • p: playlist • v: verbose • esc: quit"
	case StateRetrieving:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new batch • q: quit"
	}
	return ""
}

// startBatch runs the full batch retrieval in the background, feeding
// progress into the events channel.
func (m *Model) startBatch() tea.Cmd {
	song := m.textInput.Value()
	settings := m.settings
	createPlaylist := m.playlist
	events := m.events
	ctx := m.ctx

	return func() tea.Msg {
		manifest := model.NewManifest(song, nil, settings.ToPathConfig())

		httpClient := shttp.NewClient(settings.NetworkTimeout())
		service := splitter.NewClient(httpClient, settings.ResolveURL, settings.CleanupURL)

		saver := save.NewFileSaver(httpClient, settings.MaxConcurrentTransfers)
		saver.OnResult = func(stem *model.Stem, err error) {
			if err != nil {
				events <- EventMsg{Event: download.ProgressEvent{
					Message: fmt.Sprintf("Transfer failed for %s: %v", stem.Name, err),
					Level:   download.LevelWarning,
				}}
				return
			}
			events <- EventMsg{Event: download.ProgressEvent{
				Message: fmt.Sprintf("Saved %s", filepath.Base(stem.Path)),
				Level:   download.LevelSuccess,
			}}
		}

		scheduler := download.NewScheduler(saver, settings.Stagger())
		scheduler.OnEvent = func(event download.ProgressEvent) {
			events <- EventMsg{Event: event}
		}

		// The TUI owns the terminal; operational logs are discarded.
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		controller := download.NewController(service, service, scheduler,
			settings.MaxAttempts, settings.RetryDelay(), logger)
		controller.OnEvent = scheduler.OnEvent
		controller.OnProgress = func(outcome model.Outcome) {
			events <- ProgressMsg{Outcome: outcome}
		}

		terminal, outcome, err := controller.Start(ctx, manifest)
		if err != nil {
			return BatchDoneMsg{Err: err}
		}

		// Let in-flight transfers drain before declaring the batch done.
		saver.Wait()

		if settings.ModifyTags {
			tagger := audio.NewTagger(audio.DefaultTagConfig())
			for _, name := range outcome.Succeeded {
				if stem := manifest.Stem(name); stem != nil && audio.Taggable(stem) {
					tagger.TagStem(stem)
				}
			}
		}

		if createPlaylist && len(outcome.Succeeded) > 0 {
			creator := audio.NewPlaylistCreator(settings.M3UExtended)
			content := creator.CreatePlaylist(manifest)
			ioutils.WriteFile(ctx, creator.PlaylistPath(manifest), []byte(content))
		}

		return BatchDoneMsg{Terminal: terminal, Outcome: outcome}
	}
}

func standardStemLabels() []string {
	specs := model.StandardStems()
	labels := make([]string, len(specs))
	for i, spec := range specs {
		labels[i] = spec.Label
	}
	return labels
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
