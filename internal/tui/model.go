// Package tui is the terminal frontend: the same session-backed table as
// the web page, drawn with bubbletea and lipgloss.
//
// Keys: tab moves focus between the search box and the table. With the
// search box focused, typing searches (applied once typing pauses, enter
// applies at once). With the table focused, 1-4 toggle the sort of a column
// (alt+1-4 adds it to the sort) and +/- change the page size. In both,
// ←/→ move to the previous/next page, home/end to the first/last page and
// esc quits.
package tui

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/datetable/internal/core"
	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/locale"
	"github.com/JonMunkholm/datetable/internal/table"
)

// updateMsg carries a session state change into the program.
type updateMsg core.Update

// closedMsg reports that the session went away.
type closedMsg struct{}

// Model is the bubbletea model of the terminal table.
type Model struct {
	session *core.Session
	table   *table.Table[dataset.Record]
	labels  *locale.Labels
	styles  Styles

	updates     <-chan core.Update
	unsubscribe func()

	search  textinput.Model
	current core.Update
	status  string
	width   int
}

// New builds a model over a session of svc.
func New(svc *core.Service, sess *core.Session) *Model {
	labels := svc.Labels()

	search := textinput.New()
	search.Placeholder = labels.SearchPlaceholder
	search.Prompt = "> "
	search.CharLimit = 256
	search.SetValue(sess.SearchValue())
	search.Focus()

	updates, unsubscribe := sess.Subscribe()
	return &Model{
		session:     sess,
		table:       svc.Table(),
		labels:      labels,
		styles:      DefaultStyles(),
		updates:     updates,
		unsubscribe: unsubscribe,
		search:      search,
		current:     sess.Snapshot(),
	}
}

// Init starts listening for session updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForUpdate(m.updates))
}

// waitForUpdate blocks on the subscription until the next state change.
func waitForUpdate(ch <-chan core.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return updateMsg(u)
	}
}

// Update handles keys and session updates.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		if msg.Seq >= m.current.Seq {
			m.current = core.Update(msg)
		}
		return m, waitForUpdate(m.updates)

	case closedMsg:
		m.unsubscribe()
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.unsubscribe()
		return m, tea.Quit
	case tea.KeyLeft:
		m.dispatch(table.Action{Type: table.ActionPreviousPage})
		return m, nil
	case tea.KeyRight:
		m.dispatch(table.Action{Type: table.ActionNextPage})
		return m, nil
	case tea.KeyHome:
		m.dispatch(table.Action{Type: table.ActionFirstPage})
		return m, nil
	case tea.KeyEnd:
		m.dispatch(table.Action{Type: table.ActionLastPage})
		return m, nil
	case tea.KeyEnter:
		m.session.CommitSearch()
		return m, nil
	case tea.KeyTab:
		if m.search.Focused() {
			m.search.Blur()
			return m, nil
		}
		return m, m.search.Focus()
	case tea.KeyRunes:
		if !m.search.Focused() {
			m.handleCommand(msg)
			return m, nil
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.session.Search(v)
	}
	return m, cmd
}

// handleCommand runs a table command key and reports whether the key was one.
func (m *Model) handleCommand(msg tea.KeyMsg) bool {
	if len(msg.Runes) != 1 {
		return false
	}
	r := msg.Runes[0]
	switch {
	case r >= '1' && r <= '9':
		cols := m.table.Columns()
		i := int(r - '1')
		if i >= len(cols) {
			return false
		}
		m.dispatch(table.Action{Type: table.ActionToggleSorting, Column: cols[i].ID, Multi: msg.Alt})
		return true
	case r == '+' || r == '-':
		m.stepPageSize(r == '+')
		return true
	}
	return false
}

// stepPageSize moves to the next larger or smaller offered page size.
func (m *Model) stepPageSize(up bool) {
	sizes := m.table.PageSizeOptions()
	i := slices.Index(sizes, m.current.State.Pagination.PageSize)
	if up {
		i++
	} else {
		i--
	}
	if i < 0 || i >= len(sizes) {
		return
	}
	m.dispatch(table.Action{Type: table.ActionSetPageSize, Size: sizes[i]})
}

// dispatch applies an action. The new state arrives as an updateMsg; the
// snapshot is also taken here so the next key sees it.
func (m *Model) dispatch(a table.Action) {
	if _, err := m.session.Dispatch(a); err != nil {
		m.status = core.FormatUserError(err)
		return
	}
	m.status = ""
	if u := m.session.Snapshot(); u.Seq >= m.current.Seq {
		m.current = u
	}
}

// View draws the screen.
func (m *Model) View() string {
	model := m.table.Model(m.current.State)

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.labels.Title))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	if m.session.SearchPending() {
		b.WriteString(m.styles.Pending.Render(" …"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderTable(model))
	b.WriteString("\n")
	b.WriteString(m.renderPager(model))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.styles.Error.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(m.labels.Help))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderTable(model *table.Model[dataset.Record]) string {
	var headers []table.Header
	for _, g := range model.HeaderGroups() {
		headers = append(headers, g.Headers...)
	}

	titles := make([]string, len(headers))
	widths := make([]int, len(headers))
	for i, h := range headers {
		titles[i] = h.Label
		if ind := m.labels.SortIndicator(string(h.SortDirection)); ind != "" {
			titles[i] += " " + ind
		}
		widths[i] = lipgloss.Width(titles[i])
	}
	rows := model.Rows()
	for _, row := range rows {
		for i, c := range row.Cells {
			widths[i] = max(widths[i], lipgloss.Width(c.Text))
		}
	}

	var lines []string
	cells := make([]string, len(headers))
	for i, t := range titles {
		cells[i] = m.styles.Header.Width(widths[i] + 2).Render(t)
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	for _, row := range rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			style := m.styles.Plain
			if c.Style == table.StyleBold {
				style = m.styles.Cell
			}
			cells[i] = style.Width(widths[i] + 2).Render(c.Text)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	if len(rows) == 0 {
		lines = append(lines, m.styles.Summary.Render(m.labels.Empty))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPager(model *table.Model[dataset.Record]) string {
	nav := func(label string, enabled bool) string {
		if enabled {
			return m.styles.Page.Render(label)
		}
		return m.styles.Disabled.Render(label)
	}

	parts := []string{
		nav(m.labels.First, model.CanPreviousPage()),
		nav(m.labels.Previous, model.CanPreviousPage()),
	}
	for _, i := range model.PageOptions() {
		label := strconv.Itoa(i + 1)
		if i == model.PageIndex() {
			parts = append(parts, m.styles.Current.Render(label))
		} else {
			parts = append(parts, m.styles.Page.Render(label))
		}
	}
	parts = append(parts,
		nav(m.labels.Next, model.CanNextPage()),
		nav(m.labels.Last, model.CanNextPage()),
		m.styles.Page.Render("["+m.labels.PageSizeLabel(model.PageSize())+"]"),
	)

	sum := model.Summary()
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "  " +
		m.styles.Summary.Render(m.labels.SummaryText(sum.First, sum.Last, sum.Total))
}
