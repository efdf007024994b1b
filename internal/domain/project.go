package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of a project.
type Status string

// Canonical project statuses.
const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Statuses lists every status in board order.
func Statuses() []Status {
	return []Status{StatusActive, StatusFinished}
}

// ParseStatus parses input into a canonical status.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.TrimSpace(strings.ToLower(raw))) {
	case StatusActive:
		return StatusActive, nil
	case StatusFinished:
		return StatusFinished, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// Valid reports whether the status is canonical.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusFinished
}

// String returns the status value.
func (s Status) String() string {
	return string(s)
}

// Heading returns the list heading shown above projects with this status.
func (s Status) Heading() string {
	return strings.ToUpper(string(s)) + " PROJECTS"
}

// Project represents one tracked project.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	People      int       `json:"people"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectInput holds values for constructing a project.
type ProjectInput struct {
	ID          string
	Title       string
	Description string
	People      int
}

// NewProject constructs an active project.
func NewProject(in ProjectInput, now time.Time) (Project, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.ID == "" {
		return Project{}, ErrInvalidID
	}
	if in.Title == "" {
		return Project{}, ErrInvalidTitle
	}
	if in.Description == "" {
		return Project{}, ErrInvalidDescription
	}
	if in.People < 1 {
		return Project{}, ErrInvalidPeople
	}

	return Project{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		People:      in.People,
		Status:      StatusActive,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// SetStatus changes the project status and reports whether anything changed.
func (p *Project) SetStatus(status Status, now time.Time) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	if p.Status == status {
		return false, nil
	}
	p.Status = status
	p.UpdatedAt = now.UTC()
	return true, nil
}

// PeopleLabel renders the assigned-people line for list rows.
func (p Project) PeopleLabel() string {
	if p.People == 1 {
		return "1 person assigned."
	}
	return fmt.Sprintf("%d people assigned.", p.People)
}

// FilterByStatus returns the projects with the requested status, preserving order.
func FilterByStatus(projects []Project, status Status) []Project {
	out := make([]Project, 0, len(projects))
	for _, project := range projects {
		if project.Status == status {
			out = append(out, project)
		}
	}
	return out
}
