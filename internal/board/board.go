package board

import (
	"fmt"

	"github.com/evanschultz/projboard/internal/app"
	"github.com/evanschultz/projboard/internal/domain"
)

// Board composes the active and finished views over one store.
type Board struct {
	store  ProjectStore
	logger app.Logger
	views  []*ListView
}

// New builds one view per status, in board order.
func New(store ProjectStore, logger app.Logger) *Board {
	if logger == nil {
		logger = app.NopLogger{}
	}
	b := &Board{store: store, logger: logger}
	for _, status := range domain.Statuses() {
		b.views = append(b.views, NewListView(store, status, WithViewLogger(logger)))
	}
	return b
}

// Store returns the backing state holder.
func (b *Board) Store() ProjectStore {
	return b.store
}

// Views returns the list views in board order.
func (b *Board) Views() []*ListView {
	return append([]*ListView(nil), b.views...)
}

// View returns the list view for status.
func (b *Board) View(status domain.Status) (*ListView, bool) {
	for _, view := range b.views {
		if view.Status() == status {
			return view, true
		}
	}
	return nil, false
}

// Item returns the draggable row for id, or a bare row when nothing renders it.
func (b *Board) Item(id string) Item {
	for _, view := range b.views {
		if item, ok := view.Item(id); ok {
			return item
		}
	}
	return NewItem(domain.Project{ID: id}, b.logger)
}

// Transfer runs one complete drag gesture of project id onto the status view.
func (b *Board) Transfer(id string, status domain.Status) (app.MoveResult, error) {
	target, ok := b.View(status)
	if !ok {
		return app.MoveNotFound, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	return Handoff(b.Item(id), target)
}

// Handoff runs DragStart, DragOver, Drop and DragEnd between source and target.
// A target that refuses the payload gets DragLeave and nothing moves.
func Handoff(source DragSource, target DropTarget) (app.MoveResult, error) {
	dt := NewDataTransfer()
	source.DragStart(dt)
	defer source.DragEnd(dt)

	if !target.DragOver(dt) {
		target.DragLeave()
		return app.MoveNotFound, nil
	}
	return target.Drop(dt)
}

// Close unsubscribes every view.
func (b *Board) Close() {
	for _, view := range b.views {
		view.Close()
	}
}
