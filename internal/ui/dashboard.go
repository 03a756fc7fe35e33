// Package ui renders revlint watch's live dashboard: a spinner until the
// first pass's result arrives, then a per-document status table and a
// diagnostic summary, refreshed each time internal/watch delivers a new
// result.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"revlint/internal/diag"
	"revlint/internal/watch"
)

type docStatus struct {
	name     string
	problems int
	worst    diag.Severity
	hasWorst bool
	errored  bool
}

type dashboardModel struct {
	title   string
	events  <-chan watch.Result
	spinner spinner.Model
	docs    []docStatus
	total   int
	pass    int
	width   int
	waiting bool
	done    bool
	lastErr error
}

type resultMsg watch.Result
type closedMsg struct{}

// NewDashboard returns a Bubble Tea program model that renders successive
// watch.Results as they arrive on events.
func NewDashboard(title string, events <-chan watch.Result) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &dashboardModel{
		title:   title,
		events:  events,
		spinner: sp,
		width:   80,
		waiting: true,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.applyResult(watch.Result(msg))
		m.waiting = false
		return m, m.listen()
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *dashboardModel) applyResult(res watch.Result) {
	m.pass++
	m.lastErr = res.Err
	if res.Err != nil {
		return
	}
	m.docs = m.docs[:0]
	m.total = 0
	for _, r := range res.Results {
		st := docStatus{name: r.Name, errored: r.Err != nil}
		m.docs = append(m.docs, st)
	}
	if res.Bag != nil {
		byDoc := make(map[string]*docStatus, len(m.docs))
		for i := range m.docs {
			byDoc[m.docs[i].name] = &m.docs[i]
		}
		for _, p := range res.Bag.Items() {
			st, ok := byDoc[p.SourceName]
			if !ok {
				continue
			}
			st.problems++
			if !st.hasWorst || p.Severity > st.worst {
				st.worst = p.Severity
				st.hasWorst = true
			}
		}
		m.total = len(res.Bag.Items())
	}
}

func (m *dashboardModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	var b strings.Builder

	header := m.title
	switch {
	case m.lastErr != nil:
		header = fmt.Sprintf("%s (pass %d failed: %v)", header, m.pass, m.lastErr)
	case m.waiting:
		header = fmt.Sprintf("%s %s (linting...)", m.spinner.View(), header)
	default:
		header = fmt.Sprintf("%s pass %d: %d problem(s)", header, m.pass, m.total)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := m.width - 16
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, d := range m.docs {
		status := "ok"
		if d.errored {
			status = "aborted"
		} else if d.problems > 0 {
			status = fmt.Sprintf("%d %s", d.problems, severityWord(d.worst))
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", styleStatus(d, status).Render(fmt.Sprintf("%10s", status)), truncate(d.name, nameWidth)))
	}
	b.WriteString("\n(q to quit)\n")
	return b.String()
}

func (m *dashboardModel) listen() tea.Cmd {
	return func() tea.Msg {
		res, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return resultMsg(res)
	}
}

func severityWord(s diag.Severity) string {
	switch s {
	case diag.Error:
		return "error(s)"
	case diag.Warning:
		return "warn(s)"
	default:
		return "note(s)"
	}
}

func styleStatus(d docStatus, status string) lipgloss.Style {
	switch {
	case d.errored:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case status == "ok":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case d.hasWorst && d.worst >= diag.Error:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
