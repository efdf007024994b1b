package board

import (
	"sync"

	"github.com/evanschultz/projboard/internal/app"
	"github.com/evanschultz/projboard/internal/domain"
)

// ProjectStore is the state holder the widgets observe and mutate.
type ProjectStore interface {
	Add(title, description string, people int) (domain.Project, error)
	Move(id string, status domain.Status) (app.MoveResult, error)
	AddListener(fn app.Listener) func()
	Projects() []domain.Project
	Project(id string) (domain.Project, bool)
}

// ViewOption configures a ListView.
type ViewOption func(*ListView)

// WithViewLogger attaches a logger to the view and its items.
func WithViewLogger(logger app.Logger) ViewOption {
	return func(v *ListView) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// ListView shows the projects with one status and accepts dropped projects.
type ListView struct {
	store  ProjectStore
	status domain.Status
	logger app.Logger

	mu        sync.RWMutex
	items     []Item
	droppable bool
	remove    func()
}

// NewListView builds a view for status and subscribes it to store changes.
func NewListView(store ProjectStore, status domain.Status, opts ...ViewOption) *ListView {
	v := &ListView{
		store:  store,
		status: status,
		logger: app.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	v.render(store.Projects())
	v.remove = store.AddListener(v.render)
	return v
}

// render keeps the projects that match the view status.
func (v *ListView) render(projects []domain.Project) {
	matched := domain.FilterByStatus(projects, v.status)
	items := make([]Item, 0, len(matched))
	for _, project := range matched {
		items = append(items, NewItem(project, v.logger))
	}
	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
}

// Status returns the status this view shows.
func (v *ListView) Status() domain.Status {
	return v.status
}

// Heading returns the list heading.
func (v *ListView) Heading() string {
	return v.status.Heading()
}

// ElementID returns the list container identifier.
func (v *ListView) ElementID() string {
	return string(v.status) + "-projects-list"
}

// Items returns the rendered rows.
func (v *ListView) Items() []Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Item(nil), v.items...)
}

// Item returns one rendered row by project id.
func (v *ListView) Item(id string) (Item, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, item := range v.items {
		if item.ElementID() == id {
			return item, true
		}
	}
	return Item{}, false
}

// Droppable reports whether the view is showing the drop affordance.
func (v *ListView) Droppable() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.droppable
}

// DragOver accepts plain-text payloads and turns on the drop affordance.
func (v *ListView) DragOver(dt *DataTransfer) bool {
	types := dt.Types()
	if len(types) == 0 || types[0] != MIMEPlainText {
		return false
	}
	v.mu.Lock()
	v.droppable = true
	v.mu.Unlock()
	return true
}

// Drop moves the dragged project into this view's status.
func (v *ListView) Drop(dt *DataTransfer) (app.MoveResult, error) {
	v.mu.Lock()
	v.droppable = false
	v.mu.Unlock()

	id := dt.GetData(MIMEPlainText)
	if id == "" {
		return app.MoveNotFound, nil
	}
	dt.DropEffect = EffectMove
	result, err := v.store.Move(id, v.status)
	if err != nil {
		v.logger.Warn("drop failed", "project_id", id, "status", v.status, "err", err)
		return result, err
	}
	return result, nil
}

// DragLeave turns off the drop affordance.
func (v *ListView) DragLeave() {
	v.mu.Lock()
	v.droppable = false
	v.mu.Unlock()
}

// Close unsubscribes the view from the store.
func (v *ListView) Close() {
	if v.remove != nil {
		v.remove()
	}
}
