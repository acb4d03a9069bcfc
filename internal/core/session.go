package core

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/debounce"
	"github.com/JonMunkholm/datetable/internal/table"
)

// ErrSessionClosed is returned when dispatching to a session that has expired.
var ErrSessionClosed = errors.New("session closed")

// Update is sent to subscribers after every state change.
type Update struct {
	Seq   uint64
	State table.State
}

// Session is one browser's table: its state, its debounced search box and
// the listeners that want to hear about changes. All methods are safe for
// concurrent use.
type Session struct {
	id     string
	table  *table.Table[dataset.Record]
	search *debounce.Debouncer[string]
	logger *slog.Logger

	mu        sync.Mutex
	state     table.State
	seq       uint64
	searchSeq uint64
	lastSeen  time.Time
	listeners []chan Update
	closed    bool

	now func() time.Time
}

func newSession(id string, tbl *table.Table[dataset.Record], delay time.Duration, now func() time.Time, logger *slog.Logger) *Session {
	sess := &Session{
		id:       id,
		table:    tbl,
		logger:   logger,
		state:    tbl.InitialState(),
		lastSeen: now(),
		now:      now,
	}
	sess.search = debounce.New(delay, sess.commitSearch)
	return sess
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// State returns a copy of the current state.
func (s *Session) State() table.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the current state and its sequence number together.
func (s *Session) Snapshot() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Update{Seq: s.seq, State: s.state}
}

// Model computes the table view for the current state.
func (s *Session) Model() *table.Model[dataset.Record] {
	return s.table.Model(s.State())
}

// Dispatch applies an action and notifies subscribers if the state changed.
func (s *Session) Dispatch(a table.Action) (table.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state, fmt.Errorf("%w: %s", ErrSessionClosed, s.id)
	}
	s.lastSeen = s.now()

	next, err := s.table.Reduce(s.state, a)
	if err != nil {
		return s.state, fmt.Errorf("dispatch %s: %w", a.Type, err)
	}
	if reflect.DeepEqual(next, s.state) {
		return s.state, nil
	}

	s.state = next
	s.seq++
	s.notifyLocked()

	s.logger.Debug("table state changed",
		"action", a.Type,
		"seq", s.seq,
		"filter", next.GlobalFilter,
		"page_index", next.Pagination.PageIndex,
		"page_size", next.Pagination.PageSize,
	)
	return next, nil
}

// Search records a keystroke. The filter is applied once typing pauses.
func (s *Session) Search(q string) {
	s.SearchAt(q, 0)
}

// SearchAt records a keystroke stamped with a client-side sequence number.
// Keystrokes can arrive out of order, so one whose stamp is not newer than
// the last accepted stamp is dropped and SearchAt reports false. A zero
// stamp is always accepted.
func (s *Session) SearchAt(q string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = s.now()
	if seq != 0 {
		if seq <= s.searchSeq {
			s.logger.Debug("stale keystroke dropped", "query", q, "kseq", seq, "last_kseq", s.searchSeq)
			return false
		}
		s.searchSeq = seq
	}
	// Set under s.mu so the stamp check and the value change are one step.
	// The debouncer never calls back while holding its own lock.
	s.search.Set(q)
	return true
}

// CommitSearch applies a pending search immediately. It reports whether
// there was one.
func (s *Session) CommitSearch() bool {
	return s.search.Flush()
}

// SearchValue returns the text typed so far, applied or not.
func (s *Session) SearchValue() string {
	if s.search.Pending() {
		return s.search.Value()
	}
	return s.State().GlobalFilter
}

// SearchPending reports whether typed text is waiting to be applied.
func (s *Session) SearchPending() bool {
	return s.search.Pending()
}

func (s *Session) commitSearch(q string) {
	if _, err := s.Dispatch(table.Action{Type: table.ActionSetGlobalFilter, Value: q}); err != nil {
		s.logger.Debug("search commit dropped", "error", err)
	}
}

// Subscribe returns a channel receiving every later Update, starting with
// the current one, and a function that unsubscribes. A slow reader only
// misses intermediate updates: the newest one always replaces an unread one.
func (s *Session) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.listeners = append(s.listeners, ch)
	ch <- Update{Seq: s.seq, State: s.state}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { s.unsubscribe(ch) })
	}
}

func (s *Session) unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.listeners {
		if l == ch {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			close(ch)
			break
		}
	}
	s.lastSeen = s.now()
}

// notifyLocked must be called with s.mu held.
func (s *Session) notifyLocked() {
	u := Update{Seq: s.seq, State: s.state}
	for _, ch := range s.listeners {
		select {
		case ch <- u:
		default:
			// Replace the unread update with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}

// idleSince reports when the session was last used. A session with open
// subscribers is in use now.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listeners) > 0 {
		return s.now()
	}
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// Close cancels any pending search and closes every subscriber channel.
// It is idempotent.
func (s *Session) Close() {
	// Stop first: a search commit in flight needs s.mu to finish.
	s.search.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.listeners {
		close(ch)
	}
	s.listeners = nil
}
