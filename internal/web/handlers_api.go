package web

import (
	"net/http"

	"github.com/JonMunkholm/datetable/internal/core"
	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/rank"
	"github.com/JonMunkholm/datetable/internal/table"
)

// TableResponse is the JSON view of one table model.
type TableResponse struct {
	Seq        uint64             `json:"seq,omitempty"`
	State      table.State        `json:"state"`
	Headers    []table.Header     `json:"headers"`
	Rows       []RowResponse      `json:"rows"`
	PageCount  int                `json:"pageCount"`
	PageSizes  []int              `json:"pageSizes"`
	Summary    table.Summary      `json:"summary"`
	Navigation NavigationResponse `json:"navigation"`
}

// RowResponse is one row of the current page.
type RowResponse struct {
	Index  int            `json:"index"`
	Record dataset.Record `json:"record"`
	Cells  []table.Cell   `json:"cells"`

	// Rank is the best fuzzy rank among the row's cells while a search is
	// active.
	Rank rank.Rank `json:"rank,omitempty"`
}

// NavigationResponse says which pager buttons are enabled.
type NavigationResponse struct {
	CanPrevious bool `json:"canPrevious"`
	CanNext     bool `json:"canNext"`
}

func newTableResponse(seq uint64, m *table.Model[dataset.Record]) TableResponse {
	resp := TableResponse{
		Seq:       seq,
		State:     m.State(),
		PageCount: m.PageCount(),
		PageSizes: m.PageSizeOptions(),
		Summary:   m.Summary(),
		Navigation: NavigationResponse{
			CanPrevious: m.CanPreviousPage(),
			CanNext:     m.CanNextPage(),
		},
		Rows: []RowResponse{},
	}
	for _, g := range m.HeaderGroups() {
		resp.Headers = append(resp.Headers, g.Headers...)
	}
	for _, row := range m.Rows() {
		rr := RowResponse{Index: row.Index, Record: row.Original, Cells: row.Cells}
		if rk, ok := core.RankRow(row); ok {
			rr.Rank = rk.Rank
		}
		resp.Rows = append(resp.Rows, rr)
	}
	return resp
}

// handleTableJSON returns the session's current model as JSON.
func (s *Server) handleTableJSON(w http.ResponseWriter, r *http.Request) {
	sess, err := requestSession(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	u := sess.Snapshot()
	writeJSON(w, r, newTableResponse(u.Seq, s.service.Table().Model(u.State)))
}

// handleRows answers a stateless query: q, sort, dir, page (1-based) and
// size. Nothing is stored.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	st, err := parseQueryState(r.URL.Query(), s.cfg.Table.MaxMultiSort)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	m, err := s.service.Query(st)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, newTableResponse(0, m))
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status          string         `json:"status"`
	Rows            int            `json:"rows"`
	Sessions        int            `json:"sessions"`
	Exports         int            `json:"activeExports"`
	ExportsByFormat map[string]int `json:"activeExportsByFormat"`
	ExportsWaiting  int            `json:"waitingExports"`
}

// handleHealth reports liveness and a few gauges.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, HealthResponse{
		Status:          "ok",
		Rows:            s.service.Table().RowCount(),
		Sessions:        s.service.SessionCount(),
		Exports:         s.service.Exports().ActiveCount(),
		ExportsByFormat: s.service.Exports().ActiveByFormat(),
		ExportsWaiting:  s.service.Exports().Waiting(),
	})
}
