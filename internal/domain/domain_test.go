package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewProjectTrimsAndDefaultsActive(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	p, err := NewProject(ProjectInput{
		ID:          " p1 ",
		Title:       "  Build API  ",
		Description: " Design and build REST API ",
		People:      3,
	}, now)
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}
	if p.ID != "p1" || p.Title != "Build API" || p.Description != "Design and build REST API" {
		t.Fatalf("unexpected trimmed project %#v", p)
	}
	if p.Status != StatusActive {
		t.Fatalf("expected active status, got %q", p.Status)
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps %v %v", p.CreatedAt, p.UpdatedAt)
	}
}

func TestNewProjectValidation(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		in   ProjectInput
		want error
	}{
		{name: "missing id", in: ProjectInput{Title: "t", Description: "d", People: 1}, want: ErrInvalidID},
		{name: "blank title", in: ProjectInput{ID: "p", Title: "   ", Description: "d", People: 1}, want: ErrInvalidTitle},
		{name: "blank description", in: ProjectInput{ID: "p", Title: "t", Description: "", People: 1}, want: ErrInvalidDescription},
		{name: "zero people", in: ProjectInput{ID: "p", Title: "t", Description: "d", People: 0}, want: ErrInvalidPeople},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewProject(tc.in, now); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for raw, want := range map[string]Status{
		"active":     StatusActive,
		" Finished ": StatusFinished,
		"ACTIVE":     StatusActive,
	} {
		got, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("ParseStatus(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseStatus("archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	p, err := NewProject(ProjectInput{ID: "p1", Title: "t", Description: "d", People: 1}, now)
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}
	later := now.Add(time.Minute)
	changed, err := p.SetStatus(StatusFinished, later)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if !changed || p.Status != StatusFinished || !p.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected status change %#v", p)
	}
	changed, err = p.SetStatus(StatusFinished, later.Add(time.Minute))
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if changed || !p.UpdatedAt.Equal(later) {
		t.Fatalf("expected unchanged project, got %#v", p)
	}
	if _, err := p.SetStatus("paused", later); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestPeopleLabelAndHeading(t *testing.T) {
	if got := (Project{People: 1}).PeopleLabel(); got != "1 person assigned." {
		t.Fatalf("unexpected singular label %q", got)
	}
	if got := (Project{People: 4}).PeopleLabel(); got != "4 people assigned." {
		t.Fatalf("unexpected plural label %q", got)
	}
	if got := StatusActive.Heading(); got != "ACTIVE PROJECTS" {
		t.Fatalf("unexpected heading %q", got)
	}
	if got := StatusFinished.Heading(); got != "FINISHED PROJECTS" {
		t.Fatalf("unexpected heading %q", got)
	}
}

func TestFilterByStatusKeepsOrder(t *testing.T) {
	projects := []Project{
		{ID: "a", Status: StatusActive},
		{ID: "b", Status: StatusFinished},
		{ID: "c", Status: StatusActive},
	}
	active := FilterByStatus(projects, StatusActive)
	if len(active) != 2 || active[0].ID != "a" || active[1].ID != "c" {
		t.Fatalf("unexpected active filter %#v", active)
	}
	finished := FilterByStatus(projects, StatusFinished)
	if len(finished) != 1 || finished[0].ID != "b" {
		t.Fatalf("unexpected finished filter %#v", finished)
	}
}

func TestChangeEventSummary(t *testing.T) {
	created := ChangeEvent{Operation: ChangeOperationCreate, Title: "Build API"}
	if got := created.Summary(); got != "created Build API" {
		t.Fatalf("unexpected summary %q", got)
	}
	moved := ChangeEvent{Operation: ChangeOperationMove, Title: "Build API", FromStatus: StatusActive, ToStatus: StatusFinished}
	if got := moved.Summary(); got != "moved Build API from active to finished" {
		t.Fatalf("unexpected summary %q", got)
	}
}
