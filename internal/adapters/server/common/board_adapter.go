package common

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/evanschultz/projboard/internal/app"
	"github.com/evanschultz/projboard/internal/board"
	"github.com/evanschultz/projboard/internal/domain"
	"github.com/evanschultz/projboard/internal/validate"
)

// defaultActivityLimit bounds activity listings when callers omit a limit.
const defaultActivityLimit = 50

// maxActivityLimit caps one activity listing.
const maxActivityLimit = 500

// AdapterOption configures a BoardAdapter.
type AdapterOption func(*BoardAdapter)

// WithActivity exposes recorded change events through the adapter.
func WithActivity(reader ActivityReader) AdapterOption {
	return func(a *BoardAdapter) {
		a.activity = reader
	}
}

// WithRules replaces the default form rules.
func WithRules(rules validate.Rules) AdapterOption {
	return func(a *BoardAdapter) {
		a.rules = rules
	}
}

// WithAdapterClock sets the snapshot timestamp source.
func WithAdapterClock(clock app.Clock) AdapterOption {
	return func(a *BoardAdapter) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// BoardAdapter maps transport contracts onto one board and its store.
// Requests are serialized so concurrent clients never mutate during a listener dispatch.
type BoardAdapter struct {
	mu       sync.Mutex
	board    *board.Board
	rules    validate.Rules
	activity ActivityReader
	clock    app.Clock
}

// NewBoardAdapter builds one common adapter over b.
func NewBoardAdapter(b *board.Board, opts ...AdapterOption) *BoardAdapter {
	a := &BoardAdapter{
		board: b,
		rules: validate.DefaultRules(),
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Board captures what every list view currently renders.
func (a *BoardAdapter) Board(ctx context.Context) (BoardSnapshot, error) {
	if err := a.ready(ctx); err != nil {
		return BoardSnapshot{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	out := BoardSnapshot{CapturedAt: a.clock().UTC()}
	for _, view := range a.board.Views() {
		list := ListSnapshot{
			Status:    view.Status().String(),
			Heading:   view.Heading(),
			ElementID: view.ElementID(),
			Projects:  []ProjectCard{},
		}
		for _, item := range view.Items() {
			project := item.Project()
			list.Projects = append(list.Projects, ProjectCard{
				ID:          project.ID,
				ElementID:   item.ElementID(),
				Title:       item.Title(),
				Description: item.Description(),
				People:      project.People,
				PeopleLabel: item.PeopleLabel(),
			})
		}
		out.Lists = append(out.Lists, list)
	}
	return out, nil
}

// ListProjects returns projects in insertion order, optionally filtered by status.
func (a *BoardAdapter) ListProjects(ctx context.Context, in ListProjectsRequest) ([]domain.Project, error) {
	if err := a.ready(ctx); err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(in.Status)
	a.mu.Lock()
	defer a.mu.Unlock()

	projects := a.board.Store().Projects()
	if raw == "" {
		if projects == nil {
			projects = []domain.Project{}
		}
		return projects, nil
	}
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", errors.Join(ErrInvalidRequest, err))
	}
	return domain.FilterByStatus(projects, status), nil
}

// AddProject submits one project through the input form rules.
func (a *BoardAdapter) AddProject(ctx context.Context, in AddProjectRequest) (domain.Project, error) {
	if err := a.ready(ctx); err != nil {
		return domain.Project{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	form := board.NewInputForm(a.board.Store(), a.rules)
	form.Title = in.Title
	form.Description = in.Description
	form.People = strconv.Itoa(in.People)
	project, err := form.Submit()
	if err != nil {
		if errors.Is(err, board.ErrAllFieldsRequired) {
			return domain.Project{}, fmt.Errorf("add project: %w", errors.Join(ErrValidation, err))
		}
		return domain.Project{}, fmt.Errorf("add project: %w", err)
	}
	return project, nil
}

// MoveProject drags one project onto the list for the requested status.
func (a *BoardAdapter) MoveProject(ctx context.Context, in MoveProjectRequest) (MoveProjectResult, error) {
	if err := a.ready(ctx); err != nil {
		return MoveProjectResult{}, err
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return MoveProjectResult{}, fmt.Errorf("move project: id is required: %w", ErrInvalidRequest)
	}
	status, err := domain.ParseStatus(in.Status)
	if err != nil {
		return MoveProjectResult{}, fmt.Errorf("move project: %w", errors.Join(ErrInvalidRequest, err))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	result, err := a.board.Transfer(id, status)
	if err != nil {
		return MoveProjectResult{}, fmt.Errorf("move project: %w", err)
	}
	if result == app.MoveNotFound {
		return MoveProjectResult{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	project, ok := a.board.Store().Project(id)
	if !ok {
		return MoveProjectResult{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	return MoveProjectResult{Project: project, Result: result.String()}, nil
}

// ListActivity lists recorded change events, newest first.
func (a *BoardAdapter) ListActivity(ctx context.Context, in ListActivityRequest) ([]ActivityEntry, error) {
	if err := a.ready(ctx); err != nil {
		return nil, err
	}
	if a.activity == nil {
		return nil, ErrActivityUnavailable
	}
	limit, err := normalizeActivityLimit(in.Limit)
	if err != nil {
		return nil, err
	}
	var events []domain.ChangeEvent
	if projectID := strings.TrimSpace(in.ProjectID); projectID != "" {
		events, err = a.activity.ProjectHistory(ctx, projectID, limit)
	} else {
		events, err = a.activity.Recent(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	out := make([]ActivityEntry, 0, len(events))
	for _, event := range events {
		out = append(out, ActivityEntry{
			ID:         event.ID,
			ProjectID:  event.ProjectID,
			Operation:  string(event.Operation),
			Title:      event.Title,
			FromStatus: string(event.FromStatus),
			ToStatus:   string(event.ToStatus),
			Summary:    event.Summary(),
			OccurredAt: event.OccurredAt.UTC(),
		})
	}
	return out, nil
}

// ready rejects calls on an unconfigured adapter or a canceled context.
func (a *BoardAdapter) ready(ctx context.Context) error {
	if a == nil || a.board == nil {
		return fmt.Errorf("board adapter is not configured: %w", ErrInvalidRequest)
	}
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("request canceled: %w", err)
	}
	return nil
}

// normalizeActivityLimit applies the default and cap for activity listings.
func normalizeActivityLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("limit must be >= 0: %w", ErrInvalidRequest)
	case limit == 0:
		return defaultActivityLimit, nil
	case limit > maxActivityLimit:
		return maxActivityLimit, nil
	default:
		return limit, nil
	}
}
