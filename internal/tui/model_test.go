package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datetable/internal/core"
	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/locale"
	"github.com/JonMunkholm/datetable/internal/table"
)

var records = []dataset.Record{
	{Name: "Tanner", LastName: "Linsley", Age: 33, Status: "Activo"},
	{Name: "Kevin", LastName: "Vandy", Age: 27, Status: "Inactivo"},
	{Name: "Ana", LastName: "Martínez", Age: 41, Status: "Activo"},
	{Name: "José", LastName: "Ríos", Age: 19, Status: "Inactivo"},
	{Name: "Lucía", LastName: "Gómez", Age: 52, Status: "Activo"},
	{Name: "Marco", LastName: "Tanaka", Age: 36, Status: "Activo"},
	{Name: "Sofía", LastName: "Peña", Age: 24, Status: "Inactivo"},
}

func newModel(t *testing.T) (*Model, *core.Session) {
	t.Helper()
	labels, err := locale.Builtin("es")
	require.NoError(t, err)

	svc, err := core.NewService(records, labels, core.Options{SearchDebounce: time.Hour})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	sess, err := svc.NewSession(context.Background())
	require.NoError(t, err)
	return New(svc, sess), sess
}

func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_PageNavigation(t *testing.T) {
	m, sess := newModel(t)

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, sess.State().Pagination.PageIndex)

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, sess.State().Pagination.PageIndex, "next on the last page stays put")

	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, sess.State().Pagination.PageIndex)

	press(m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 1, sess.State().Pagination.PageIndex)

	press(m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, sess.State().Pagination.PageIndex)
}

var tab = tea.KeyMsg{Type: tea.KeyTab}

func TestModel_DigitKeysSort(t *testing.T) {
	m, sess := newModel(t)

	press(m, tab)
	require.False(t, m.search.Focused())

	press(m, runes("3"))
	assert.Equal(t, []table.ColumnSort{{ID: "age"}}, sess.State().Sorting)

	press(m, runes("3"))
	assert.Equal(t, []table.ColumnSort{{ID: "age", Desc: true}}, sess.State().Sorting)

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true})
	assert.Equal(t, []table.ColumnSort{{ID: "age", Desc: true}, {ID: "name"}}, sess.State().Sorting)

	assert.Empty(t, m.search.Value(), "sort keys are not typed into the search box")
	assert.Contains(t, m.View(), "edad ⬇")
}

func TestModel_SearchTakesDigits(t *testing.T) {
	m, sess := newModel(t)

	press(m, runes("3"), runes("3"), runes("+"))
	assert.Equal(t, "33+", m.search.Value())
	assert.Empty(t, sess.State().Sorting)
	assert.Equal(t, 6, sess.State().Pagination.PageSize)

	press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "33", sess.State().GlobalFilter)
	assert.Equal(t, 1, sess.Model().FilteredRowCount(), "age 33 matches Tanner")
}

func TestModel_TabTogglesFocus(t *testing.T) {
	m, sess := newModel(t)
	require.True(t, m.search.Focused())

	press(m, tab, runes("7"), runes("x"))
	assert.Empty(t, m.search.Value(), "table focus does not type")
	assert.Empty(t, sess.State().Sorting, "no seventh column")

	press(m, tab, runes("x"))
	assert.True(t, m.search.Focused())
	assert.Equal(t, "x", m.search.Value())
}

func TestModel_PageSizeKeys(t *testing.T) {
	m, sess := newModel(t)
	press(m, tab)

	press(m, runes("+"))
	assert.Equal(t, 10, sess.State().Pagination.PageSize)

	press(m, runes("-"))
	assert.Equal(t, 6, sess.State().Pagination.PageSize)

	press(m, runes("-"))
	assert.Equal(t, 6, sess.State().Pagination.PageSize, "no size below the smallest")

	press(m, runes("+"), runes("+"), runes("+"), runes("+"), runes("+"))
	assert.Equal(t, 50, sess.State().Pagination.PageSize)
}

func TestModel_SearchIsDebounced(t *testing.T) {
	m, sess := newModel(t)

	press(m, runes("a"), runes("n"))
	assert.Equal(t, "an", sess.SearchValue())
	assert.Empty(t, sess.State().GlobalFilter, "filter waits for the pause")
	assert.Contains(t, m.View(), "…")

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "an", sess.State().GlobalFilter)
	assert.False(t, sess.SearchPending())
}

func TestModel_UpdatesFollowSeq(t *testing.T) {
	m, sess := newModel(t)

	_, err := sess.Dispatch(table.Action{Type: table.ActionNextPage})
	require.NoError(t, err)
	newer := sess.Snapshot()

	_, cmd := m.Update(updateMsg(newer))
	require.NotNil(t, cmd, "keeps waiting for updates")
	assert.Equal(t, newer.Seq, m.current.Seq)

	_, _ = m.Update(updateMsg(core.Update{Seq: 0, State: sess.Model().State()}))
	assert.Equal(t, newer.Seq, m.current.Seq, "stale update ignored")
}

func TestModel_View(t *testing.T) {
	m, _ := newModel(t)

	view := m.View()
	for _, want := range []string{
		"Datetable",
		"Nombre", "Apellido", "edad", "Estado",
		"Tanner", "Marco",
		"6 pag",
		"Mostrando de 1 a 6 del total de 7",
		"tab: buscar/tabla",
	} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "Sofía", "second page row")

	press(m, runes("z"), runes("z"), runes("z"), tea.KeyMsg{Type: tea.KeyEnter})
	view = m.View()
	assert.Contains(t, view, "Sin resultados")
	assert.Contains(t, view, "Mostrando de 0 a 0 del total de 0")
}

func TestModel_ClosedSession(t *testing.T) {
	m, sess := newModel(t)
	sess.Close()

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), "SES001")

	_, cmd := m.Update(closedMsg{})
	assert.True(t, isQuit(cmd))
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t)
	assert.True(t, isQuit(press(m, tea.KeyMsg{Type: tea.KeyEsc})))

	m, _ = newModel(t)
	assert.True(t, isQuit(press(m, tea.KeyMsg{Type: tea.KeyCtrlC})))
}

func TestWaitForUpdate(t *testing.T) {
	ch := make(chan core.Update, 1)
	ch <- core.Update{Seq: 4}
	assert.Equal(t, updateMsg(core.Update{Seq: 4}), waitForUpdate(ch)())

	close(ch)
	assert.Equal(t, closedMsg{}, waitForUpdate(ch)())
}
