package web

// handlers_common.go holds the request parsing and rendering helpers shared
// by the handlers.

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datetable/internal/core"
	"github.com/JonMunkholm/datetable/internal/table"
	"github.com/JonMunkholm/datetable/internal/web/templates"
)

// maxSearchLength bounds the search text accepted from a client.
const maxSearchLength = 256

// parseIntParam parses an optional integer parameter. A missing value
// yields defaultVal; a malformed or negative one is an ErrInvalidParameter.
func parseIntParam(values url.Values, name string, defaultVal int) (int, error) {
	val := strings.TrimSpace(values.Get(name))
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: %s=%q", core.ErrInvalidParameter, name, val)
	}
	return i, nil
}

// parseAction reads a reducer action from a posted form:
// type, column, value, index, size and multi.
func parseAction(form url.Values) (table.Action, error) {
	a := table.Action{
		Type:   table.ActionType(form.Get("type")),
		Column: form.Get("column"),
		Value:  form.Get("value"),
	}
	if len(a.Value) > maxSearchLength {
		return a, fmt.Errorf("%w: value longer than %d bytes", core.ErrInvalidParameter, maxSearchLength)
	}
	var err error
	if a.Index, err = parseIntParam(form, "index", 0); err != nil {
		return a, err
	}
	if a.Size, err = parseIntParam(form, "size", 0); err != nil {
		return a, err
	}
	if m := form.Get("multi"); m != "" {
		if a.Multi, err = strconv.ParseBool(m); err != nil {
			return a, fmt.Errorf("%w: multi=%q", core.ErrInvalidParameter, m)
		}
	}
	return a, nil
}

// parseSorts parses comma-separated sort columns and directions, e.g.
// sort=age,name&dir=desc,asc. A missing direction means asc. At most
// maxSorts columns are kept.
func parseSorts(values url.Values, maxSorts int) ([]table.ColumnSort, error) {
	sortStr := values.Get("sort")
	if sortStr == "" {
		return nil, nil
	}

	cols := strings.Split(sortStr, ",")
	dirs := strings.Split(values.Get("dir"), ",")

	var sorts []table.ColumnSort
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		desc := false
		if i < len(dirs) {
			switch d := strings.TrimSpace(dirs[i]); d {
			case "", string(table.SortAsc):
			case string(table.SortDesc):
				desc = true
			default:
				return nil, fmt.Errorf("%w: dir=%q", core.ErrInvalidParameter, d)
			}
		}
		sorts = append(sorts, table.ColumnSort{ID: col, Desc: desc})
		if len(sorts) >= maxSorts {
			break
		}
	}
	return sorts, nil
}

// parseQueryState builds a table state from the stateless API parameters
// q, sort, dir, page (1-based) and size.
func parseQueryState(values url.Values, maxSorts int) (table.State, error) {
	var st table.State

	st.GlobalFilter = values.Get("q")
	if len(st.GlobalFilter) > maxSearchLength {
		return st, fmt.Errorf("%w: q longer than %d bytes", core.ErrInvalidParameter, maxSearchLength)
	}

	sorts, err := parseSorts(values, maxSorts)
	if err != nil {
		return st, err
	}
	st.Sorting = sorts

	page, err := parseIntParam(values, "page", 1)
	if err != nil {
		return st, err
	}
	if page < 1 {
		return st, fmt.Errorf("%w: page must be at least 1", core.ErrInvalidParameter)
	}
	st.Pagination.PageIndex = page - 1

	if st.Pagination.PageSize, err = parseIntParam(values, "size", 0); err != nil {
		return st, err
	}
	return st, nil
}

// render writes an HTML component. Render errors after the first byte
// cannot change the status, so they are only logged.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// tableView builds the fragment view for a session snapshot.
func (s *Server) tableView(u core.Update) templates.TableView {
	m := s.service.Table().Model(u.State)
	return templates.NewTableView(m, s.service.Labels(), u.Seq)
}
