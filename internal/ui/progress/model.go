// Package progress renders live download progress in the terminal.
package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/download"
	"github.com/voidmm/voidmm/internal/keys"
	"github.com/voidmm/voidmm/internal/log"
	"github.com/voidmm/voidmm/internal/pubsub"
	"github.com/voidmm/voidmm/internal/ui/styles"
)

const (
	defaultBarWidth = 40
	minBarWidth     = 10
	maxBarWidth     = 80

	defaultNameWidth = 60
)

// StatusMsg carries the latest status of one download.
type StatusMsg struct {
	ID     string
	Result mods.Result
	// Closed is set when the status stream ended or its context expired.
	Closed bool
}

type row struct {
	handle   *download.Handle
	rcv      *pubsub.Receiver[mods.Result]
	filename string
	result   mods.Result
	watching bool
}

// Model is the Bubble Tea model for a batch of downloads.
type Model struct {
	ctx       context.Context
	rows      []*row
	byID      map[string]*row
	events    *pubsub.ContinuousListener[any]
	logs      *log.LogListener
	notice    string // latest WARN or ERROR log entry
	noticeErr bool
	bar       bar.Model
	help      help.Model
	selected  int
	nameWidth int
	quitting  bool
}

// Option configures a Model.
type Option func(*Model)

// WithEvents supplies download lifecycle events. Started events carry the
// resolved file names. Subscribe before queueing so no event is missed.
func WithEvents(l *pubsub.ContinuousListener[any]) Option {
	return func(m *Model) { m.events = l }
}

// WithLogs shows the latest warning or error log entry below the rows.
// A nil listener is ignored.
func WithLogs(l *log.LogListener) Option {
	return func(m *Model) { m.logs = l }
}

// New creates a model over handles.
func New(ctx context.Context, handles []*download.Handle, opts ...Option) Model {
	b := bar.New(bar.WithDefaultGradient())
	b.Width = defaultBarWidth

	m := Model{
		ctx:       ctx,
		byID:      make(map[string]*row, len(handles)),
		bar:       b,
		help:      help.New(),
		nameWidth: defaultNameWidth,
	}
	for _, h := range handles {
		r := &row{handle: h, rcv: h.Subscribe(), result: h.Status(), watching: true}
		m.rows = append(m.rows, r)
		m.byID[h.ID()] = r
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.rows)+2)
	for _, r := range m.rows {
		cmds = append(cmds, m.watch(r))
	}
	if m.events != nil {
		cmds = append(cmds, m.events.Listen())
	}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

func (m Model) watch(r *row) tea.Cmd {
	ctx, h, rcv := m.ctx, r.handle, r.rcv
	return func() tea.Msg {
		err := rcv.Changed(ctx)
		return StatusMsg{ID: h.ID(), Result: rcv.Value(), Closed: err != nil}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-40, minBarWidth), maxBarWidth)
		m.nameWidth = max(msg.Width-4, minBarWidth)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Downloads.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, keys.Downloads.Down):
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
		case key.Matches(msg, keys.Downloads.Cancel):
			if m.selected < len(m.rows) {
				if r := m.rows[m.selected]; !r.result.IsTerminal() {
					r.handle.Cancel()
				}
			}
		case key.Matches(msg, keys.Downloads.CancelAll):
			for _, r := range m.rows {
				if !r.result.IsTerminal() {
					r.handle.Cancel()
				}
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Downloads.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case StatusMsg:
		r, ok := m.byID[msg.ID]
		if !ok {
			return m, nil
		}
		r.result = msg.Result
		if msg.Closed || msg.Result.IsTerminal() {
			r.watching = false
		}
		if m.Done() {
			return m, tea.Quit
		}
		if r.watching {
			return m, m.watch(r)
		}
		return m, nil

	case pubsub.Event[any]:
		if p, ok := msg.Payload.(download.StartedPayload); ok {
			if r, ok := m.byID[p.ID]; ok {
				r.filename = p.Filename
			}
		}
		if m.events == nil {
			return m, nil
		}
		return m, m.events.Listen()

	case log.LogEvent:
		// Drop the timestamp; the level and category follow it.
		entry := strings.TrimSpace(msg.Payload)
		if _, rest, ok := strings.Cut(entry, " "); ok {
			entry = rest
		}
		switch {
		case strings.Contains(entry, "["+log.LevelError.String()+"]"):
			m.notice, m.noticeErr = entry, true
		case strings.Contains(entry, "["+log.LevelWarn.String()+"]"):
			m.notice, m.noticeErr = entry, false
		}
		if m.logs == nil {
			return m, nil
		}
		return m, m.logs.Listen()
	}
	return m, nil
}

// Done reports whether no download is still being watched.
func (m Model) Done() bool {
	for _, r := range m.rows {
		if r.watching {
			return false
		}
	}
	return true
}

// Results returns the latest result per download in queue order.
func (m Model) Results() []mods.Result {
	out := make([]mods.Result, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.result
	}
	return out
}

func (m Model) View() string {
	var b strings.Builder

	done := 0
	for _, r := range m.rows {
		if r.result.IsTerminal() {
			done++
		}
	}
	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("Downloads %d/%d", done, len(m.rows))))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		b.WriteString(m.viewRow(r, i == m.selected))
		b.WriteString("\n")
	}

	if m.notice != "" {
		style := styles.WarningStyle
		if m.noticeErr {
			style = styles.ErrorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(styles.TruncateString(m.notice, m.nameWidth)))
		b.WriteString("\n")
	}

	if !m.quitting && !m.Done() {
		b.WriteString("\n")
		b.WriteString(m.help.View(keys.Downloads))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewRow(r *row, selected bool) string {
	name := r.filename
	if name == "" {
		name = r.handle.URL()
	}
	label := styles.NameStyle.Render(styles.TruncateString(name, m.nameWidth))

	indicator := " "
	if selected && len(m.rows) > 1 {
		indicator = styles.SelectionIndicatorStyle.Render(">")
	}

	switch r.result.Kind {
	case mods.KindCompleted:
		return fmt.Sprintf("%s%s %s %s", indicator, styles.SuccessStyle.Render("✓"), label, styles.MutedStyle.Render(r.result.Path))
	case mods.KindFailed:
		return fmt.Sprintf("%s%s %s %s", indicator, styles.ErrorStyle.Render("✗"), label, styles.ErrorStyle.Render(r.result.Reason))
	case mods.KindCancelled:
		return fmt.Sprintf("%s%s %s %s", indicator, styles.WarningStyle.Render("-"), label, styles.WarningStyle.Render("cancelled"))
	default:
		return fmt.Sprintf("%s %s\n  %s", indicator, label, m.bar.ViewAs(float64(r.result.Percent)/100))
	}
}

// PlainLine formats a result for non-interactive output.
func PlainLine(url string, r mods.Result) string {
	switch r.Kind {
	case mods.KindCompleted:
		return fmt.Sprintf("completed %s -> %s", url, r.Path)
	case mods.KindFailed:
		return fmt.Sprintf("failed    %s: %s", url, r.Reason)
	case mods.KindCancelled:
		return fmt.Sprintf("cancelled %s", url)
	default:
		return fmt.Sprintf("%3d%%      %s", r.Percent, url)
	}
}
