package tui

import (
	"strings"
	"unicode"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit        key.Binding
	toggleHelp  key.Binding
	moveLeft    key.Binding
	moveRight   key.Binding
	moveUp      key.Binding
	moveDown    key.Binding
	newProject  key.Binding
	projectInfo key.Binding
	grab        key.Binding
	drop        key.Binding
	cancel      key.Binding
	copyID      key.Binding
	activityLog key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "list left")),
		moveRight:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "list right")),
		moveUp:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "project up")),
		moveDown:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "project down")),
		newProject:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new project")),
		projectInfo: key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "project info")),
		grab:        key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "drag project")),
		drop:        key.NewBinding(key.WithKeys("space", "enter"), key.WithHelp("space/enter", "drop")),
		cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		copyID:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		activityLog: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "activity log")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newProject, k.grab, k.projectInfo, k.activityLog, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newProject, k.projectInfo, k.copyID, k.activityLog, k.toggleHelp, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.grab, k.drop, k.cancel},
	}
}

// KeyConfig holds optional key overrides. Blank values keep the defaults.
type KeyConfig struct {
	NewProject  string
	Grab        string
	CopyID      string
	ActivityLog string
}

// applyConfig applies configured key overrides.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.newProject, cfg.NewProject, "n", "new project")
	configureBinding(&k.grab, cfg.Grab, "space", "drag project")
	configureBinding(&k.copyID, cfg.CopyID, "y", "copy id")
	configureBinding(&k.activityLog, cfg.ActivityLog, "a", "activity log")
}

// configureBinding replaces the keys and help of one binding.
func configureBinding(binding *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	binding.SetKeys(keys...)
	binding.SetHelp(help, desc)
}

// parseBindingKeys converts one configured key into matcher keys and a help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" && strings.TrimSpace(fallback) != "" {
		raw = strings.TrimSpace(fallback)
	}
	if raw == "" || strings.EqualFold(raw, "space") {
		return []string{" ", "space"}, "space"
	}
	runes := []rune(raw)
	if len(runes) == 1 {
		r := runes[0]
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}
