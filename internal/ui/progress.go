package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"rblint/internal/linter"
)

// maxRows caps the file list; finished files scroll off first.
const maxRows = 12

type progressModel struct {
	title    string
	events   <-chan linter.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []fileItem
	index    map[string]int
	finished int
	offenses int
	width    int
	done     bool
}

type fileItem struct {
	path     string
	status   string
	stage    linter.Stage
	offenses int
	final    bool
}

type eventMsg linter.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders lint progress
// from the engine's event channel. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan linter.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: "queued"})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

// Completed reports whether model saw the end of its event stream, as
// opposed to being quit by the user.
func Completed(model tea.Model) bool {
	m, ok := model.(*progressModel)
	return ok && m.done
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(linter.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
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
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d files, %d offenses)", m.title, m.finished, len(m.items), m.offenses)
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-12-4-8, 20)
	for _, item := range m.visible() {
		status := styleStatus(item.status).Render(fmt.Sprintf("%10s", item.status))
		count := ""
		if item.final && item.offenses > 0 {
			count = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(fmt.Sprintf(" [%d]", item.offenses))
		}
		fmt.Fprintf(&b, "  %s %s%s\n", status, truncate(item.path, nameWidth), count)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visible picks the rows to draw: files in progress first, then the most
// recently finished, then the queue.
func (m *progressModel) visible() []fileItem {
	if len(m.items) <= maxRows {
		return m.items
	}
	var working, finished, queued []fileItem
	for _, item := range m.items {
		switch {
		case item.final:
			finished = append(finished, item)
		case item.status == "queued":
			queued = append(queued, item)
		default:
			working = append(working, item)
		}
	}
	out := working
	if room := maxRows - len(out); room > 0 && len(finished) > 0 {
		out = append(out, finished[max(len(finished)-room, 0):]...)
	}
	if room := maxRows - len(out); room > 0 {
		out = append(out, queued[:min(room, len(queued))]...)
	}
	if len(out) > maxRows {
		out = out[:maxRows]
	}
	return out
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev linter.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if item.final {
		return nil
	}
	if label := statusLabel(ev.Stage, ev.Status); label != "" {
		item.status = label
		item.stage = ev.Stage
	}
	switch ev.Status {
	case linter.StatusDone, linter.StatusCached, linter.StatusError:
		item.final = true
		item.offenses = ev.Offenses
		m.finished++
		m.offenses += ev.Offenses
	}

	total := 0.0
	for _, it := range m.items {
		if it.final {
			total += 1.0
		} else {
			total += progressFromStage(it.stage)
		}
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStage(stage linter.Stage) float64 {
	switch stage {
	case linter.StageRead:
		return 0.1
	case linter.StageParse:
		return 0.2
	case linter.StageCheck:
		return 0.5
	case linter.StageCorrect:
		return 0.9
	default:
		return 0.0
	}
}

func statusLabel(stage linter.Stage, status linter.Status) string {
	switch status {
	case linter.StatusQueued:
		return "queued"
	case linter.StatusDone:
		return "done"
	case linter.StatusCached:
		return "cached"
	case linter.StatusError:
		return "error"
	case linter.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage linter.Stage) string {
	switch stage {
	case linter.StageRead:
		return "reading"
	case linter.StageParse:
		return "parsing"
	case linter.StageCheck:
		return "checking"
	case linter.StageCorrect:
		return "correcting"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done", "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "reading", "parsing", "checking", "correcting":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
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
	return runewidth.Truncate(value, width, "...")
}
