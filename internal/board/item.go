package board

import (
	"github.com/evanschultz/projboard/internal/app"
	"github.com/evanschultz/projboard/internal/domain"
)

// Item renders one project row and acts as its drag source.
type Item struct {
	project domain.Project
	logger  app.Logger
}

// NewItem wraps a project as a draggable row.
func NewItem(project domain.Project, logger app.Logger) Item {
	if logger == nil {
		logger = app.NopLogger{}
	}
	return Item{project: project, logger: logger}
}

// Project returns the wrapped project.
func (i Item) Project() domain.Project {
	return i.project
}

// ElementID returns the row identifier, which is the project id.
func (i Item) ElementID() string {
	return i.project.ID
}

// Title returns the project title.
func (i Item) Title() string {
	return i.project.Title
}

// Description returns the project description.
func (i Item) Description() string {
	return i.project.Description
}

// PeopleLabel returns the assigned-people line.
func (i Item) PeopleLabel() string {
	return i.project.PeopleLabel()
}

// DragStart puts the project id on the payload as plain text.
func (i Item) DragStart(dt *DataTransfer) {
	dt.SetData(MIMEPlainText, i.project.ID)
	dt.EffectAllowed = EffectMove
}

// DragEnd logs the end of the gesture.
func (i Item) DragEnd(_ *DataTransfer) {
	i.logger.Debug("Drag end", "project_id", i.project.ID)
}
