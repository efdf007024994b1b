// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"

	"github.com/evanschultz/projboard/internal/domain"
)

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrValidation reports project input rejected by the form rules.
var ErrValidation = errors.New("validation failed")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// ErrActivityUnavailable reports missing activity backing support.
var ErrActivityUnavailable = errors.New("activity surface unavailable")

// ListProjectsRequest filters the project listing. A blank status lists every project.
type ListProjectsRequest struct {
	Status string `json:"status,omitempty"`
}

// AddProjectRequest carries one new project as submitted through a transport.
type AddProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	People      int    `json:"people"`
}

// MoveProjectRequest drops one project onto the list for Status.
type MoveProjectRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// MoveProjectResult reports the outcome of one move.
type MoveProjectResult struct {
	Project domain.Project `json:"project"`
	Result  string         `json:"result"`
}

// ListActivityRequest bounds the activity listing. Zero uses the default limit.
// A non-blank ProjectID narrows the listing to one project.
type ListActivityRequest struct {
	ProjectID string `json:"project_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// ActivityEntry is one change event as exposed to transports.
type ActivityEntry struct {
	ID         int64     `json:"id"`
	ProjectID  string    `json:"project_id"`
	Operation  string    `json:"operation"`
	Title      string    `json:"title"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProjectCard is one rendered row in a list snapshot.
type ProjectCard struct {
	ID          string `json:"id"`
	ElementID   string `json:"element_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	People      int    `json:"people"`
	PeopleLabel string `json:"people_label"`
}

// ListSnapshot captures the rows one list view currently renders.
type ListSnapshot struct {
	Status    string        `json:"status"`
	Heading   string        `json:"heading"`
	ElementID string        `json:"element_id"`
	Projects  []ProjectCard `json:"projects"`
}

// BoardSnapshot captures every list view in board order.
type BoardSnapshot struct {
	CapturedAt time.Time      `json:"captured_at"`
	Lists      []ListSnapshot `json:"lists"`
}

// BoardService is the surface both transports serve.
type BoardService interface {
	Board(context.Context) (BoardSnapshot, error)
	ListProjects(context.Context, ListProjectsRequest) ([]domain.Project, error)
	AddProject(context.Context, AddProjectRequest) (domain.Project, error)
	MoveProject(context.Context, MoveProjectRequest) (MoveProjectResult, error)
	ListActivity(context.Context, ListActivityRequest) ([]ActivityEntry, error)
}

// ActivityReader lists recorded change events, newest first.
type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]domain.ChangeEvent, error)
	ProjectHistory(ctx context.Context, projectID string, limit int) ([]domain.ChangeEvent, error)
}
