package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/evanschultz/projboard/internal/domain"
	"github.com/google/uuid"
)

// IDGenerator returns unique identifiers for new projects.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Listener receives a snapshot of every project after each mutation.
type Listener func([]domain.Project)

// MoveResult reports what a move did.
type MoveResult int

// Move outcomes.
const (
	MoveApplied MoveResult = iota
	MoveUnchanged
	MoveNotFound
)

// String returns a short label for the move result.
func (r MoveResult) String() string {
	switch r {
	case MoveApplied:
		return "applied"
	case MoveUnchanged:
		return "unchanged"
	case MoveNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("move_result(%d)", int(r))
	}
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the project id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.idGen = gen
		}
	}
}

// WithClock overrides the store clock.
func WithClock(clock Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger attaches a logger to the store.
func WithLogger(logger Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// listenerEntry pairs a listener with its registration handle.
type listenerEntry struct {
	id int
	fn Listener
}

// Store owns the ordered project list and fans snapshots out to listeners.
// Mutations are expected from one logical thread of control at a time;
// listeners must not mutate the store while they are being notified.
type Store struct {
	mu          sync.Mutex
	projects    []domain.Project
	listeners   []listenerEntry
	nextID      int
	dispatching bool

	idGen  IDGenerator
	clock  Clock
	logger Logger
}

// NewStore constructs an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		idGen:  uuid.NewString,
		clock:  time.Now,
		logger: NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Add appends a new active project and notifies listeners.
func (s *Store) Add(title, description string, people int) (domain.Project, error) {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return domain.Project{}, ErrReentrantMutation
	}
	project, err := domain.NewProject(domain.ProjectInput{
		ID:          s.idGen(),
		Title:       title,
		Description: description,
		People:      people,
	}, s.clock())
	if err != nil {
		s.mu.Unlock()
		return domain.Project{}, err
	}
	if s.indexOfLocked(project.ID) >= 0 {
		s.mu.Unlock()
		return domain.Project{}, fmt.Errorf("%w: %s", ErrDuplicateID, project.ID)
	}
	s.projects = append(s.projects, project)
	s.logger.Debug("project added", "project_id", project.ID, "title", project.Title)
	s.notifyLocked()
	return project, nil
}

// Move changes the status of one project. Unknown ids are a no-op and report MoveNotFound.
func (s *Store) Move(id string, status domain.Status) (MoveResult, error) {
	if !status.Valid() {
		return MoveNotFound, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return MoveNotFound, ErrReentrantMutation
	}
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("move ignored for unknown project", "project_id", id)
		return MoveNotFound, nil
	}
	changed, err := s.projects[idx].SetStatus(status, s.clock())
	if err != nil {
		s.mu.Unlock()
		return MoveNotFound, err
	}
	if !changed {
		s.mu.Unlock()
		return MoveUnchanged, nil
	}
	s.logger.Debug("project moved", "project_id", id, "status", status)
	s.notifyLocked()
	return MoveApplied, nil
}

// AddListener registers fn for future mutations and returns a func that unregisters it.
func (s *Store) AddListener(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, entry := range s.listeners {
				if entry.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Projects returns a copy of every project in insertion order.
func (s *Store) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Project(nil), s.projects...)
}

// Project returns one project by id.
func (s *Store) Project(id string) (domain.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return domain.Project{}, false
	}
	return s.projects[idx], true
}

// indexOfLocked finds a project by id with s.mu held.
func (s *Store) indexOfLocked(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

// notifyLocked releases s.mu and calls each listener in registration order
// with its own copy of the current snapshot.
func (s *Store) notifyLocked() {
	snapshot := append([]domain.Project(nil), s.projects...)
	listeners := append([]listenerEntry(nil), s.listeners...)
	s.dispatching = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.dispatching = false
		s.mu.Unlock()
	}()
	for _, entry := range listeners {
		entry.fn(append([]domain.Project(nil), snapshot...))
	}
}
