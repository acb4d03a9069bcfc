package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/datetable/internal/core"
	"github.com/JonMunkholm/datetable/internal/logging"
	"github.com/JonMunkholm/datetable/internal/table"
	"github.com/JonMunkholm/datetable/internal/web/templates"
)

// handleIndex renders the full page for the session's current state.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := requestSession(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	tv := s.tableView(sess.Snapshot())
	render(w, r, templates.Page(templates.NewPageView(tv, s.service.Labels(), sess.SearchValue())))
}

// handleTable renders just the table fragment.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	sess, err := requestSession(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	render(w, r, templates.DataTable(s.tableView(sess.Snapshot())))
}

// handleAction applies one reducer action posted by a header, pager or
// page-size control. The page script gets the new fragment back; a plain
// form post is redirected to the page.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, err := requestSession(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if err := r.ParseForm(); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidParameter, err), http.StatusBadRequest)
		return
	}

	action, err := parseAction(r.PostForm)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if action.Type == table.ActionSetGlobalFilter {
		// Through the search box, so a pending keystroke cannot
		// overwrite this filter later.
		sess.Search(action.Value)
		sess.CommitSearch()
	} else if _, err := sess.Dispatch(action); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	s.respondUpdated(w, r, sess)
}

// handleSearch records a keystroke in the search box. The filter is applied
// once typing pauses and pushed over the event stream; commit=1 (the form
// being submitted) applies it at once. Keystrokes older than one already
// received, by their kseq stamp, are ignored.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, err := requestSession(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if err := r.ParseForm(); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidParameter, err), http.StatusBadRequest)
		return
	}

	q := r.PostForm.Get("q")
	if len(q) > maxSearchLength {
		respondError(w, r, fmt.Errorf("%w: q longer than %d bytes", core.ErrInvalidParameter, maxSearchLength), http.StatusBadRequest)
		return
	}

	// kseq orders keystrokes that the browser sends concurrently.
	kseq, err := parseIntParam(r.PostForm, "kseq", 0)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sess.SearchAt(q, uint64(kseq))
	if r.PostForm.Get("commit") != "1" {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	sess.CommitSearch()
	logging.FromContext(r.Context()).Debug("search committed", "query", q)
	s.respondUpdated(w, r, sess)
}

func (s *Server) respondUpdated(w http.ResponseWriter, r *http.Request, sess *core.Session) {
	if isFetch(r) {
		render(w, r, templates.DataTable(s.tableView(sess.Snapshot())))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
