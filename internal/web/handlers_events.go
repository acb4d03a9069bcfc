package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/datetable/internal/logging"
	"github.com/JonMunkholm/datetable/internal/web/templates"
)

// handleEvents streams the session's table as Server-Sent Events. Every
// state change, including a debounced search being applied, is sent as a
// "table" event whose data is the rendered fragment. The event id is the
// state sequence number, so a reconnecting client that sends Last-Event-ID
// is not sent a frame it already has.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := requestSession(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	var lastSeq uint64
	hasLast := false
	if v := r.Header.Get("Last-Event-ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			lastSeq, hasLast = n, true
		}
	}

	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logging.FromContext(r.Context()).Error("event stream not supported", "error", err)
		return
	}

	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	heartbeat := time.NewTicker(s.cfg.Server.EventHeartbeat)
	defer heartbeat.Stop()

	logger := logging.WithFields(r.Context(), "stream", "table_events")
	var buf bytes.Buffer

	for {
		select {
		case u, ok := <-updates:
			if !ok {
				// Session expired or server shutting down.
				fmt.Fprint(w, "event: close\ndata: {}\n\n")
				_ = rc.Flush()
				return
			}
			if hasLast && u.Seq <= lastSeq {
				continue
			}

			buf.Reset()
			if err := templates.DataTable(s.tableView(u)).Render(r.Context(), &buf); err != nil {
				logger.Error("render table event", "error", err)
				return
			}
			if err := writeEvent(w, "table", strconv.FormatUint(u.Seq, 10), buf.String()); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}

// writeEvent writes one SSE frame. Multi-line data is split into one
// data: line per line, as the protocol requires.
func writeEvent(w io.Writer, event, id, data string) error {
	var b strings.Builder
	if id != "" {
		b.WriteString("id: " + id + "\n")
	}
	b.WriteString("event: " + event + "\n")
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
