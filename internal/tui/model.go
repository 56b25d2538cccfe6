package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/genricoloni/musicbridge/internal/surface"
	"go.uber.org/zap"
)

const (
	commandTimeout = 10 * time.Second
	noticeTTL      = 4 * time.Second
)

// Invoker runs a command against the player
type Invoker interface {
	Invoke(ctx context.Context, name domain.CommandName) error
}

// Refresher re-reads the player for every registered surface
type Refresher interface {
	RefreshAll(ctx context.Context)
}

// Messages delivered to the model
type (
	snapshotMsg  domain.PlayerSnapshot
	noticeMsg    string
	clearMsg     struct{ seq int }
	refreshedMsg struct{}
	resultMsg    struct {
		command domain.CommandName
		err     error
	}
)

// keyMap binds keys to player commands
type keyMap struct {
	PlayPause  key.Binding
	Next       key.Binding
	Previous   key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Mute       key.Binding
	Info       key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns the key bindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Previous, k.VolumeUp, k.VolumeDown, k.Mute, k.Info, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns the key bindings to be shown in the full help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Next, k.Previous},
		{k.VolumeUp, k.VolumeDown, k.Mute},
		{k.Info, k.Refresh, k.Help, k.Quit},
	}
}

// commands pairs every command binding with the command it invokes
func (k keyMap) commands() []commandBinding {
	return []commandBinding{
		{k.PlayPause, domain.CommandTogglePlayPause},
		{k.Next, domain.CommandNextTrack},
		{k.Previous, domain.CommandPreviousTrack},
		{k.VolumeUp, domain.CommandVolumeUp},
		{k.VolumeDown, domain.CommandVolumeDown},
		{k.Mute, domain.CommandToggleMute},
		{k.Info, domain.CommandShowNowPlaying},
	}
}

// forCommand returns the help key of the binding invoking name
func (k keyMap) forCommand(name domain.CommandName) (string, bool) {
	for _, cb := range k.commands() {
		if cb.command == name {
			return cb.binding.Help().Key, true
		}
	}
	return "", false
}

type commandBinding struct {
	binding key.Binding
	command domain.CommandName
}

var keys = keyMap{
	PlayPause:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
	Next:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
	Previous:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
	VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
	VolumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
	Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	Info:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	keyStyle    = lipgloss.NewStyle().Faint(true)
	helpStyle   = lipgloss.NewStyle().MarginTop(1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f0ad4e")).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d9534f")).MarginTop(1)
)

// Model is the bubbletea model of the terminal surface
type Model struct {
	logger    *zap.Logger
	invoker   Invoker
	refresher Refresher
	strip     *surface.StatusStrip
	keys      keyMap
	help      help.Model

	snapshot domain.PlayerSnapshot
	rendered bool
	notice   string
	isError  bool
	seq      int
	width    int
}

// NewModel creates the terminal model
func NewModel(logger *zap.Logger, invoker Invoker, refresher Refresher, cfg domain.Config) Model {
	return Model{
		logger:    logger,
		invoker:   invoker,
		refresher: refresher,
		strip:     surface.NewStatusStrip(logger, cfg),
		keys:      keys,
		help:      help.New(),
		snapshot:  domain.EmptySnapshot(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh()
		}
		for _, cb := range m.keys.commands() {
			if key.Matches(msg, cb.binding) {
				return m, m.invoke(cb.command)
			}
		}

	case snapshotMsg:
		m.snapshot = domain.PlayerSnapshot(msg)
		m.rendered = true
		m.strip.Render(m.snapshot)

	case resultMsg:
		if msg.err != nil {
			m.logger.Warn("Command failed", zap.String("command", string(msg.command)), zap.Error(msg.err))
			return m.setNotice(fmt.Sprintf("%s failed: %v", msg.command, msg.err), true)
		}

	case noticeMsg:
		return m.setNotice(string(msg), false)

	case clearMsg:
		if msg.seq == m.seq {
			m.notice = ""
		}
	}
	return m, nil
}

func (m Model) invoke(name domain.CommandName) tea.Cmd {
	invoker := m.invoker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return resultMsg{command: name, err: invoker.Invoke(ctx, name)}
	}
}

// refresh runs a synchronous pass; the new snapshot arrives through Render
func (m Model) refresh() tea.Cmd {
	refresher := m.refresher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		refresher.RefreshAll(ctx)
		return refreshedMsg{}
	}
}

func (m Model) setNotice(text string, isError bool) (tea.Model, tea.Cmd) {
	m.seq++
	m.notice = text
	m.isError = isError
	seq := m.seq
	return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearMsg{seq: seq} })
}

// View implements tea.Model
func (m Model) View() string {
	if !m.rendered {
		return "Connecting to player...\n"
	}

	view, _ := m.strip.Latest()
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(view.Accent.Color))

	var b strings.Builder
	b.WriteString(titleStyle.Render(view.Text))
	b.WriteString("\n\n")

	for _, row := range surface.Rows(m.snapshot) {
		switch {
		case row.Header:
			b.WriteString(headerStyle.Render(row.Label))
		case row.Command != "":
			b.WriteString("  " + row.Label)
			if k, ok := m.keys.forCommand(row.Command); ok {
				b.WriteString(" " + keyStyle.Render("["+k+"]"))
			}
		default:
			b.WriteString("  " + row.Label)
		}
		b.WriteString("\n")
	}

	if m.snapshot.Track != nil {
		b.WriteString(fmt.Sprintf("\n  Volume %d%%\n", m.snapshot.Volume))
	}

	if m.notice != "" {
		style := noticeStyle
		if m.isError {
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

// documentText flattens an HTML document into "Title: a · b · c"
func documentText(title, html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return title
	}

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		s.Find("strong").Remove()
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return title
	}
	return title + ": " + strings.Join(parts, " · ")
}
