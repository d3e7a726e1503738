package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"agenda/internal/config"
	"agenda/internal/task"
	"agenda/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// formState drives the add and edit prompts: one text input cycling
// through a fixed set of fields, enter to advance, last enter commits.
type formState struct {
	taskID string // empty while adding
	labels []string
	values []string
	index  int
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	todayStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	upcomingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	overdueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	undatedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

type Model struct {
	repo       *task.Repository
	cfg        config.Config
	sections   []view.Section
	flat       []task.Task
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	filter     string
	confirmDel bool
	pendingDel *task.Task
	marked     map[string]struct{}
	form       *formState
}

func Run(repo *task.Repository, cfg config.Config) error {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		repo:   repo,
		cfg:    cfg,
		input:  ti,
		mode:   modeList,
		filter: strings.ToLower(cfg.DefaultSection),
		marked: map[string]struct{}{},
		status: fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Delete),
	}
	m.refresh()

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh recomputes the displayed sections from the repository and
// flattens them into cursor order.
func (m *Model) refresh() {
	tasks := m.repo.Tasks()
	buckets := view.Categorize(tasks, time.Now())

	var secs []view.Section
	for _, s := range buckets.Sections() {
		if m.filter != "all" && strings.ToLower(s.Title) != m.filter {
			continue
		}
		secs = append(secs, s)
	}
	if m.filter == "all" {
		if undated := view.Undated(tasks); len(undated) > 0 {
			secs = append(secs, view.Section{Title: "Undated", Tasks: undated})
		}
	}

	m.sections = secs
	m.flat = m.flat[:0]
	for _, s := range secs {
		m.flat = append(m.flat, s.Tasks...)
	}
	m.cursor = clampCursor(m.cursor, len(m.flat))

	// Drop marks on tasks that left the view.
	visible := make(map[string]struct{}, len(m.flat))
	for _, t := range m.flat {
		visible[t.ID] = struct{}{}
	}
	for id := range m.marked {
		if _, ok := visible[id]; !ok {
			delete(m.marked, id)
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.flat) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.flat))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.flat))
		}
	case "tab":
		m.filter = nextFilter(m.filter)
		m.cursor = 0
		m.refresh()
		m.status = "Showing: " + m.filter
	case m.cfg.Keys.Add:
		m.form = &formState{
			labels: []string{"title", "due (YYYY-MM-DD HH:MM, optional)", "group (optional)"},
			values: []string{"", "", ""},
		}
		m.mode = modeAdd
		m.startFormField()
		m.status = "Add task: enter to advance, esc to cancel"
	case m.cfg.Keys.Edit:
		if len(m.flat) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t := m.flat[m.cursor]
		m.form = &formState{
			taskID: t.ID,
			labels: []string{"title", "due (YYYY-MM-DD HH:MM, optional)"},
			values: []string{t.Title, formatDue(t.DueDate)},
		}
		m.mode = modeEdit
		m.startFormField()
		m.status = "Edit task: enter to advance, esc to cancel"
	case m.cfg.Keys.Toggle:
		if len(m.flat) == 0 {
			return m, nil
		}
		if m.repo.ToggleCompletion(m.flat[m.cursor].ID) {
			m.status = "Toggled task"
		}
		m.refresh()
	case m.cfg.Keys.Select:
		if len(m.flat) == 0 {
			return m, nil
		}
		id := m.flat[m.cursor].ID
		if _, ok := m.marked[id]; ok {
			delete(m.marked, id)
		} else {
			m.marked[id] = struct{}{}
		}
		m.cursor = clampCursor(m.cursor+1, len(m.flat))
		m.status = fmt.Sprintf("%d selected", len(m.marked))
	case m.cfg.Keys.Cancel, "esc":
		if len(m.marked) > 0 {
			m.marked = map[string]struct{}{}
			m.status = "Selection cleared"
		}
	case m.cfg.Keys.Delete:
		if len(m.marked) > 0 {
			m.confirmDel = true
			m.pendingDel = nil
			m.status = fmt.Sprintf("Delete %d selected tasks? y/n", len(m.marked))
			return m, nil
		}
		if len(m.flat) == 0 {
			return m, nil
		}
		t := m.flat[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		m.confirmDel = false
		if m.pendingDel != nil {
			if m.repo.Delete(m.pendingDel.ID) {
				m.status = "Deleted task"
			} else {
				m.status = "Task already gone"
			}
			m.pendingDel = nil
			m.refresh()
			return m, nil
		}
		// Bulk delete: translate the marked rows of the current view
		// into identities, then remove by identity set.
		ids := m.markedIDs()
		removed := m.repo.DeleteMany(ids)
		m.marked = map[string]struct{}{}
		m.status = fmt.Sprintf("Deleted %d tasks", removed)
		m.refresh()
		return m, nil
	default:
		return m, nil
	}
}

// markedIDs returns the marked task ids in current display order.
func (m Model) markedIDs() []string {
	var ids []string
	for _, t := range m.flat {
		if _, ok := m.marked[t.ID]; ok {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (m *Model) startFormField() {
	m.input.SetValue(m.form.values[m.form.index])
	m.input.Placeholder = m.form.labels[m.form.index]
	m.input.Focus()
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.form.values[m.form.index] = m.input.Value()
		m.form.index = wrapIndex(m.form.index+1, len(m.form.labels))
		m.startFormField()
		return m, nil
	case "shift+tab", "up":
		m.form.values[m.form.index] = m.input.Value()
		m.form.index = wrapIndex(m.form.index-1, len(m.form.labels))
		m.startFormField()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.values[m.form.index] = m.input.Value()
		if m.form.index < len(m.form.labels)-1 {
			m.form.index++
			m.startFormField()
			return m, nil
		}
		return m.commitForm()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) commitForm() (tea.Model, tea.Cmd) {
	title := m.form.values[0]
	due, err := parseDue(m.form.values[1])
	if err != nil {
		m.status = fmt.Sprintf("due date invalid: %v", err)
		m.form.index = 1
		m.startFormField()
		return m, nil
	}

	if m.mode == modeAdd {
		group := parseGroup(m.form.values[2])
		t := m.repo.Add(title, due, group)
		if t == nil {
			m.status = "Title cannot be empty"
			m.form.index = 0
			m.startFormField()
			return m, nil
		}
		m.status = "Added task"
		m.closeForm()
		m.refresh()
		m.moveCursorTo(t.ID)
		return m, nil
	}

	taskID := m.form.taskID
	if m.repo.Update(taskID, title, due) {
		m.status = "Saved task"
	} else {
		m.status = "Task no longer exists"
	}
	m.closeForm()
	m.refresh()
	m.moveCursorTo(taskID)
	return m, nil
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) moveCursorTo(id string) {
	for i, t := range m.flat {
		if t.ID == id {
			m.cursor = clampCursor(i, len(m.flat))
			return
		}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Agenda"))
	if m.filter != "all" {
		b.WriteString(dimStyle.Render(" · " + m.filter))
	}
	b.WriteString("\n\n")

	if len(m.flat) == 0 {
		b.WriteString(fmt.Sprintf("No tasks here. Press '%s' to add one.", m.cfg.Keys.Add))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderSections())
	}

	if m.form != nil {
		b.WriteString("\n---\n")
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderSections() string {
	var b strings.Builder
	idx := 0
	for si, s := range m.sections {
		if si > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headerStyle(s.Title).Render(s.Title))
		b.WriteString("\n")
		for _, t := range s.Tasks {
			b.WriteString(m.renderRow(t, idx))
			b.WriteString("\n")
			idx++
		}
	}
	return b.String()
}

func (m Model) renderRow(t task.Task, idx int) string {
	cursor := " "
	if m.cursor == idx && m.mode == modeList {
		cursor = ">"
	}

	mark := " "
	if _, ok := m.marked[t.ID]; ok {
		mark = "*"
	}

	checkbox := "[ ]"
	if t.IsCompleted {
		checkbox = "[x]"
	}

	line := t.Title
	if t.DueDate != nil {
		line += dimStyle.Render(" · " + formatDue(t.DueDate))
	}
	if t.GroupID != nil {
		line += dimStyle.Render(" #" + *t.GroupID)
	}
	if t.IsCompleted {
		line = doneStyle.Render(line)
	}

	return fmt.Sprintf("%s%s %s %s", cursor, mark, checkbox, line)
}

func (m Model) renderForm() string {
	var b strings.Builder
	label := "Add task"
	if m.mode == modeEdit {
		label = "Edit task"
	}
	b.WriteString(titleStyle.Render(label))
	b.WriteString("\n")
	for i, name := range m.form.labels {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := m.form.values[i]
		if i == m.form.index {
			val = m.input.Value()
		}
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-34s : %s\n", prefix, name, val))
	}
	return b.String()
}

func headerStyle(title string) lipgloss.Style {
	switch title {
	case "Today":
		return todayStyle
	case "Upcoming":
		return upcomingStyle
	case "Overdue":
		return overdueStyle
	default:
		return undatedStyle
	}
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move · %s add · %s edit · %s toggle · %s select · %s delete · tab filter · %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Select, k.Delete, k.Quit)
}

func nextFilter(cur string) string {
	order := []string{"all", "today", "upcoming", "overdue"}
	for i, f := range order {
		if f == cur {
			return order[(i+1)%len(order)]
		}
	}
	return "all"
}

const (
	dueLayout     = "2006-01-02 15:04"
	dueDateLayout = "2006-01-02"
)

// parseDue accepts an empty string (no due date), a date, or a date
// with a minute-precision time, interpreted in the local zone.
func parseDue(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dueLayout, v, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dueDateLayout, v, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseGroup(v string) *string {
	v = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "#"))
	if v == "" {
		return nil
	}
	return &v
}

func formatDue(t *time.Time) string {
	if t == nil {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format(dueDateLayout)
	}
	return t.Format(dueLayout)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
