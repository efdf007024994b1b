// Package board provides the headless project board widgets: list views that
// accept drops, project items that act as drag sources, and the input form.
package board

import "github.com/evanschultz/projboard/internal/app"

// Drag payload types and effects.
const (
	MIMEPlainText = "text/plain"
	EffectMove    = "move"
)

// DataTransfer carries a drag payload keyed by MIME-like type for one gesture.
type DataTransfer struct {
	EffectAllowed string
	DropEffect    string

	types []string
	data  map[string]string
}

// NewDataTransfer returns an empty payload.
func NewDataTransfer() *DataTransfer {
	return &DataTransfer{data: map[string]string{}}
}

// SetData stores value under the payload type.
func (d *DataTransfer) SetData(typ, value string) {
	if d.data == nil {
		d.data = map[string]string{}
	}
	if _, ok := d.data[typ]; !ok {
		d.types = append(d.types, typ)
	}
	d.data[typ] = value
}

// GetData returns the value stored under the payload type.
func (d *DataTransfer) GetData(typ string) string {
	if d == nil {
		return ""
	}
	return d.data[typ]
}

// Types lists payload types in the order they were first set.
func (d *DataTransfer) Types() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.types...)
}

// DragSource is anything that can start and end a drag gesture.
type DragSource interface {
	DragStart(*DataTransfer)
	DragEnd(*DataTransfer)
}

// DropTarget is anything that can accept a drag payload.
type DropTarget interface {
	DragOver(*DataTransfer) bool
	Drop(*DataTransfer) (app.MoveResult, error)
	DragLeave()
}

var (
	_ DragSource = Item{}
	_ DropTarget = (*ListView)(nil)
)
