package tui

import (
	"github.com/evanschultz/projboard/internal/app"
	"github.com/evanschultz/projboard/internal/board"
)

// Option configures a Model.
type Option func(*Model)

// WithActivity attaches the activity log source.
func WithActivity(reader ActivityReader) Option {
	return func(m *Model) {
		m.activity = reader
	}
}

// WithInputForm replaces the project form the model submits through.
func WithInputForm(form *board.InputForm) Option {
	return func(m *Model) {
		if form != nil {
			m.form = form
		}
	}
}

// WithClipboard overrides the clipboard writer used to copy project ids.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.clipboardWrite = write
		}
	}
}

// WithShowDescriptions toggles the description line on list rows.
func WithShowDescriptions(show bool) Option {
	return func(m *Model) {
		m.showDescriptions = show
	}
}

// WithActivityLimit bounds how many events the activity modal loads.
func WithActivityLimit(limit int) Option {
	return func(m *Model) {
		if limit > 0 {
			m.activityLimit = limit
		}
	}
}

// WithKeyConfig applies key overrides.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithLogger attaches a logger for drag and form events.
func WithLogger(logger app.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}
