package core

// export_limiter.go caps concurrent export generation.
//
// Rendering a PDF of the full filtered table is the most expensive request
// the server handles. Each export takes a slot for its format; when every
// slot is busy the request waits up to maxWait and then fails with
// ErrTooManyExports. Waits are logged with the format so a saturated
// limiter shows up in the logs before clients see EXP001.
//
// WaitForDrain lets graceful shutdown finish the exports already running.

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/JonMunkholm/datetable/internal/logging"
)

// ErrTooManyExports is returned when all export slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyExports = errors.New("too many concurrent exports, please try again later")

// Export limiter defaults, used for non-positive Options values.
const (
	DefaultMaxConcurrentExports = 4
	DefaultExportWait           = 5 * time.Second
)

// ExportLimiter bounds how many exports are generated at once.
type ExportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu      sync.Mutex
	active  map[string]int // running exports by format
	waiting int
}

// NewExportLimiter allows at most maxConcurrent exports at a time. A request
// that cannot get a slot within maxWait fails with ErrTooManyExports.
func NewExportLimiter(maxConcurrent int, maxWait time.Duration) *ExportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentExports
	}
	if maxWait <= 0 {
		maxWait = DefaultExportWait
	}
	return &ExportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		active:  make(map[string]int),
	}
}

// Acquire takes a slot for one export in format, waiting for one to free
// up if needed. The returned release func frees the slot; calling it more
// than once is harmless.
func (l *ExportLimiter) Acquire(ctx context.Context, format string) (release func(), err error) {
	select {
	case l.slots <- struct{}{}:
	default:
		if err := l.wait(ctx, format); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	l.active[format]++
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			if l.active[format]--; l.active[format] <= 0 {
				delete(l.active, format)
			}
			l.mu.Unlock()
			<-l.slots
		})
	}, nil
}

// wait blocks for a slot once all of them are busy.
func (l *ExportLimiter) wait(ctx context.Context, format string) error {
	logger := logging.FromContext(ctx)

	l.mu.Lock()
	l.waiting++
	running := l.activeLocked()
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.waiting--
		l.mu.Unlock()
	}()

	logger.Info("export waiting for a slot",
		"format", format,
		"running", running,
		"max_wait", l.maxWait.String(),
	)

	start := time.Now()
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		logger.Debug("export slot acquired", "format", format, "waited_ms", time.Since(start).Milliseconds())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		logger.Warn("export rejected, no slot freed",
			"format", format,
			"waited_ms", time.Since(start).Milliseconds(),
		)
		return ErrTooManyExports
	}
}

func (l *ExportLimiter) activeLocked() int {
	n := 0
	for _, c := range l.active {
		n += c
	}
	return n
}

// ActiveCount returns the number of running exports.
func (l *ExportLimiter) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeLocked()
}

// ActiveByFormat returns the running exports per format.
func (l *ExportLimiter) ActiveByFormat() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.active)
}

// Waiting returns the number of exports queued for a slot.
func (l *ExportLimiter) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waiting
}

// Available returns the number of free slots.
func (l *ExportLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until all running exports complete or ctx is cancelled.
func (l *ExportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
