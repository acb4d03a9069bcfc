package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/locale"
	"github.com/JonMunkholm/datetable/internal/logging"
	"github.com/JonMunkholm/datetable/internal/rank"
	"github.com/JonMunkholm/datetable/internal/table"
)

// Service errors.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrTooManySessions  = errors.New("too many sessions")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Options configures a Service. Zero values fall back to the table defaults.
type Options struct {
	PageSize       int
	PageSizes      []int
	MaxMultiSort   int
	SearchDebounce time.Duration
	SessionTTL     time.Duration
	MaxSessions    int
	MaxExports     int
	ExportWait     time.Duration

	// KeepDiacritics makes the search accent-sensitive.
	KeepDiacritics bool
}

// Service owns the loaded dataset, the people table built over it and the
// live sessions.
type Service struct {
	table   *table.Table[dataset.Record]
	labels  *locale.Labels
	opts    Options
	exports *ExportLimiter

	mu       sync.RWMutex
	sessions map[string]*Session

	now func() time.Time
}

// NewService builds the people table over records.
func NewService(records []dataset.Record, labels *locale.Labels, opts Options) (*Service, error) {
	if labels == nil {
		var err error
		if labels, err = locale.Builtin(locale.DefaultLocale); err != nil {
			return nil, err
		}
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}

	var rankOpts []rank.Option
	if opts.KeepDiacritics {
		rankOpts = append(rankOpts, rank.KeepDiacritics())
	}

	tbl, err := table.New(PeopleColumns(labels), records, table.Options{
		GlobalFilterFn:      FuzzyFilter(rankOpts...),
		PageSizeOptions:     opts.PageSizes,
		InitialPageSize:     opts.PageSize,
		MaxMultiSortColumns: opts.MaxMultiSort,
	})
	if err != nil {
		return nil, fmt.Errorf("build people table: %w", err)
	}

	return &Service{
		table:    tbl,
		labels:   labels,
		opts:     opts,
		exports:  NewExportLimiter(opts.MaxExports, opts.ExportWait),
		sessions: make(map[string]*Session),
		now:      time.Now,
	}, nil
}

// Table returns the people table.
func (s *Service) Table() *table.Table[dataset.Record] { return s.table }

// Labels returns the active label table.
func (s *Service) Labels() *locale.Labels { return s.labels }

// Exports returns the limiter guarding export generation.
func (s *Service) Exports() *ExportLimiter { return s.exports }

// NewSession opens a session with the initial table state.
func (s *Service) NewSession(ctx context.Context) (*Session, error) {
	id := uuid.New().String()
	logger := logging.FromContext(ctx).With("session_id", id)

	s.mu.Lock()
	if s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: limit %d reached", ErrTooManySessions, s.opts.MaxSessions)
	}
	sess := newSession(id, s.table, s.opts.SearchDebounce, s.now, logger)
	s.sessions[id] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	logger.Info("session created",
		"ip", GetIPAddressFromContext(ctx),
		"user_agent", GetUserAgentFromContext(ctx),
		"sessions", count,
	)
	return sess, nil
}

// Session returns a live session and marks it used.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.touch()
	return sess, nil
}

// SessionOrNew returns the session for id, or opens a new one when id is
// empty or unknown. created reports which happened.
func (s *Service) SessionOrNew(ctx context.Context, id string) (sess *Session, created bool, err error) {
	if id != "" {
		if sess, err = s.Session(id); err == nil {
			return sess, false, nil
		}
	}
	sess, err = s.NewSession(ctx)
	return sess, err == nil, err
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ExpireIdle closes sessions unused for longer than the session TTL and
// returns how many were closed.
func (s *Service) ExpireIdle() int {
	cutoff := s.now().Add(-s.opts.SessionTTL)

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
		sess.logger.Debug("session expired")
	}
	return len(expired)
}

// Close closes every session.
func (s *Service) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
	slog.Info("sessions closed", "count", len(sessions))
}

// Query computes a model for a caller-supplied state, as used by the
// stateless JSON API. The state must only name known columns and an offered
// page size.
func (s *Service) Query(st table.State) (*table.Model[dataset.Record], error) {
	if st.Pagination.PageSize == 0 {
		st.Pagination.PageSize = s.table.InitialState().Pagination.PageSize
	}
	if err := s.table.Validate(st); err != nil {
		return nil, err
	}
	return s.table.Model(st), nil
}

// RankRow returns the best ranking among a row's filter metadata, for
// highlighting why it matched.
func RankRow(row table.Row[dataset.Record]) (rank.Ranking, bool) {
	var best rank.Ranking
	found := false
	for _, meta := range row.FilterMeta {
		r, ok := meta.(rank.Ranking)
		if !ok || !r.Passed {
			continue
		}
		if !found || r.Rank > best.Rank {
			best, found = r, true
		}
	}
	return best, found
}
