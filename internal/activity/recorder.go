// Package activity turns store snapshots into change events.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/evanschultz/projboard/internal/app"
	"github.com/evanschultz/projboard/internal/domain"
)

// Ledger persists and reads change events.
type Ledger interface {
	Append(ctx context.Context, event domain.ChangeEvent) (domain.ChangeEvent, error)
	List(ctx context.Context, limit int) ([]domain.ChangeEvent, error)
	ListProject(ctx context.Context, projectID string, limit int) ([]domain.ChangeEvent, error)
}

// Observable is the subset of the store the recorder subscribes to.
type Observable interface {
	AddListener(fn app.Listener) func()
	Projects() []domain.Project
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the event timestamp source.
func WithClock(clock app.Clock) Option {
	return func(r *Recorder) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLogger attaches a logger for append failures.
func WithLogger(logger app.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Recorder diffs consecutive snapshots and appends one event per change.
type Recorder struct {
	ledger Ledger
	clock  app.Clock
	logger app.Logger

	mu   sync.Mutex
	prev map[string]domain.Status
}

// NewRecorder constructs a recorder over ledger.
func NewRecorder(ledger Ledger, opts ...Option) *Recorder {
	r := &Recorder{
		ledger: ledger,
		clock:  time.Now,
		logger: app.NopLogger{},
		prev:   map[string]domain.Status{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Attach seeds the baseline from store and subscribes to later snapshots.
func (r *Recorder) Attach(store Observable) func() {
	r.mu.Lock()
	for _, project := range store.Projects() {
		r.prev[project.ID] = project.Status
	}
	r.mu.Unlock()
	return store.AddListener(r.Observe)
}

// Observe records created and moved projects relative to the previous snapshot.
func (r *Recorder) Observe(projects []domain.Project) {
	r.mu.Lock()
	events := make([]domain.ChangeEvent, 0, 1)
	next := make(map[string]domain.Status, len(projects))
	now := r.clock().UTC()
	for _, project := range projects {
		next[project.ID] = project.Status
		before, seen := r.prev[project.ID]
		switch {
		case !seen:
			events = append(events, domain.ChangeEvent{
				ProjectID:  project.ID,
				Operation:  domain.ChangeOperationCreate,
				Title:      project.Title,
				ToStatus:   project.Status,
				OccurredAt: now,
			})
		case before != project.Status:
			events = append(events, domain.ChangeEvent{
				ProjectID:  project.ID,
				Operation:  domain.ChangeOperationMove,
				Title:      project.Title,
				FromStatus: before,
				ToStatus:   project.Status,
				OccurredAt: now,
			})
		}
	}
	r.prev = next
	r.mu.Unlock()

	for _, event := range events {
		if _, err := r.ledger.Append(context.Background(), event); err != nil {
			r.logger.Warn("record activity failed", "project_id", event.ProjectID, "operation", event.Operation, "err", err)
		}
	}
}

// Recent returns the newest events first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	return r.ledger.List(ctx, limit)
}

// ProjectHistory returns the newest events for one project first.
func (r *Recorder) ProjectHistory(ctx context.Context, projectID string, limit int) ([]domain.ChangeEvent, error) {
	return r.ledger.ListProject(ctx, projectID, limit)
}
