package tui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/evanschultz/projboard/internal/app"
	"github.com/evanschultz/projboard/internal/board"
	"github.com/evanschultz/projboard/internal/domain"
	"github.com/evanschultz/projboard/internal/validate"
)

// ActivityReader lists recorded change events, newest first.
type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]domain.ChangeEvent, error)
	ProjectHistory(ctx context.Context, projectID string, limit int) ([]domain.ChangeEvent, error)
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddProject
	modeAlert
	modeDrag
	modeProjectInfo
	modeActivityLog
)

// projectFormFields stores project-form field labels in display order.
var projectFormFields = []string{"title", "description", "people"}

// project-form field indexes.
const (
	formFieldTitle = iota
	formFieldDescription
	formFieldPeople
)

// activity log limits used by modal rendering.
const (
	activityLogDefaultLimit = 50
	activityLogViewWindow   = 14
)

// board layout constants shared by rendering and mouse hit testing.
const (
	// left/right border (2), horizontal padding (4), margin-right (1)
	columnOverhead = 7
	// top border, top padding, heading, spacer
	itemRowOffset = 4
	boardTopRow   = 2
)

// activityEntry stores one rendered activity-log row.
type activityEntry struct {
	At      time.Time
	Summary string
	Target  string
}

// dragState tracks one in-flight drag gesture.
type dragState struct {
	dt       *board.DataTransfer
	item     board.Item
	source   domain.Status
	hover    domain.Status
	accepted bool
	viaMouse bool
	moved    bool
}

// Model is the board TUI.
type Model struct {
	board    *board.Board
	form     *board.InputForm
	activity ActivityReader
	logger   app.Logger

	keys keyMap
	help help.Model

	mode   inputMode
	ready  bool
	width  int
	height int
	status string
	err    error

	selectedColumn int
	selectedItem   int

	formInputs []textinput.Model
	formFocus  int
	alert      string

	drag          dragState
	infoProjectID string
	infoHistory   []domain.ChangeEvent

	activityLog      []activityEntry
	activityLimit    int
	showDescriptions bool

	info           *projectInfoRenderer
	clipboardWrite func(string) error
}

// projectAddedMsg carries the outcome of one form submission.
type projectAddedMsg struct {
	project domain.Project
	err     error
}

// dropMsg carries the outcome of one drop.
type dropMsg struct {
	id     string
	title  string
	target domain.Status
	result app.MoveResult
	err    error
}

// activityLogLoadedMsg carries persisted activity entries.
type activityLogLoadedMsg struct {
	entries []activityEntry
	err     error
}

// projectHistoryLoadedMsg carries one project's recorded changes.
type projectHistoryLoadedMsg struct {
	projectID string
	events    []domain.ChangeEvent
	err       error
}

// actionMsg carries a status line update.
type actionMsg struct {
	status string
}

// NewModel constructs a model over b.
func NewModel(b *board.Board, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		board:            b,
		form:             board.NewInputForm(b.Store(), validate.DefaultRules()),
		logger:           app.NopLogger{},
		keys:             newKeyMap(),
		help:             h,
		status:           "ready",
		activityLog:      []activityEntry{},
		activityLimit:    activityLogDefaultLimit,
		showDescriptions: true,
		info:             &projectInfoRenderer{},
		clipboardWrite:   clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case projectAddedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, board.ErrAllFieldsRequired) {
				m.alert = msg.err.Error()
				m.mode = modeAlert
				m.status = "invalid input"
				return m, nil
			}
			m.status = "add project failed: " + msg.err.Error()
			return m, nil
		}
		m.mode = modeNone
		m.formInputs = nil
		m.formFocus = 0
		m.status = "added " + msg.project.Title
		m.logger.Info("project added", "project_id", msg.project.ID, "title", msg.project.Title)
		m.focusProject(msg.project.ID)
		return m, nil

	case dropMsg:
		if msg.err != nil {
			m.status = "move failed: " + msg.err.Error()
			return m, nil
		}
		switch msg.result {
		case app.MoveApplied:
			m.status = fmt.Sprintf("moved %s to %s", msg.title, msg.target)
			m.logger.Info("project moved", "project_id", msg.id, "status", msg.target)
		case app.MoveUnchanged:
			m.status = fmt.Sprintf("%s is already %s", msg.title, msg.target)
		default:
			m.status = "project not found"
		}
		m.focusProject(msg.id)
		return m, nil

	case activityLogLoadedMsg:
		if msg.err != nil {
			if m.mode == modeActivityLog {
				m.status = "activity log unavailable: " + msg.err.Error()
			}
			return m, nil
		}
		m.activityLog = append([]activityEntry(nil), msg.entries...)
		return m, nil

	case projectHistoryLoadedMsg:
		if msg.projectID != m.infoProjectID {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("project history unavailable", "project_id", msg.projectID, "err", msg.err)
			m.infoHistory = nil
			return m, nil
		}
		m.infoHistory = msg.events
		return m, nil

	case actionMsg:
		if msg.status != "" {
			m.status = msg.status
		}
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.renderContent())
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// handleNormalModeKey handles keys while no modal is open.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll {
		if msg.String() == "esc" || key.Matches(msg, m.keys.toggleHelp) {
			m.help.ShowAll = false
			return m, nil
		}
		if !key.Matches(msg, m.keys.quit) {
			return m, nil
		}
	}
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = true
		return m, nil
	case key.Matches(msg, m.keys.newProject):
		cmd := m.startProjectForm()
		return m, cmd
	case key.Matches(msg, m.keys.grab):
		return m.startDrag(false)
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedItem = 0
		}
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.board.Views())-1 {
			m.selectedColumn++
			m.selectedItem = 0
		}
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedItem > 0 {
			m.selectedItem--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.selectedItem++
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.projectInfo):
		project, ok := m.selectedProject()
		if !ok {
			m.status = "no project selected"
			return m, nil
		}
		m.mode = modeProjectInfo
		m.infoProjectID = project.ID
		m.infoHistory = nil
		m.status = "project info"
		return m, m.loadProjectHistory(project.ID)
	case key.Matches(msg, m.keys.copyID):
		project, ok := m.selectedProject()
		if !ok {
			m.status = "no project selected"
			return m, nil
		}
		return m, m.copyProjectID(project.ID)
	case key.Matches(msg, m.keys.activityLog):
		cmd := m.openActivityLog()
		return m, cmd
	default:
		return m, nil
	}
}

// handleInputModeKey routes keys to the open modal.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAddProject:
		return m.handleFormKey(msg)

	case modeAlert:
		switch msg.String() {
		case "enter", "esc", "space":
			m.mode = modeAddProject
			m.alert = ""
			m.status = "new project"
			m.focusFormField(m.formFocus)
		}
		return m, nil

	case modeDrag:
		return m.handleDragKey(msg)

	case modeProjectInfo:
		switch {
		case msg.String() == "esc" || key.Matches(msg, m.keys.projectInfo):
			m.mode = modeNone
			m.infoProjectID = ""
			m.infoHistory = nil
			m.status = "ready"
			return m, nil
		case key.Matches(msg, m.keys.copyID):
			return m, m.copyProjectID(m.infoProjectID)
		}
		return m, nil

	case modeActivityLog:
		if msg.String() == "esc" || key.Matches(msg, m.keys.activityLog) {
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil

	default:
		return m, nil
	}
}

// handleFormKey handles keys inside the new-project form.
func (m Model) handleFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Code == tea.KeyEscape || msg.String() == "esc":
		m.mode = modeNone
		m.formInputs = nil
		m.formFocus = 0
		m.form.Clear()
		m.status = "cancelled"
		return m, nil
	case msg.String() == "shift+tab" || msg.String() == "up":
		m.focusFormField(m.formFocus - 1)
		return m, nil
	case msg.Code == tea.KeyTab || msg.String() == "tab" || msg.String() == "down":
		m.focusFormField(m.formFocus + 1)
		return m, nil
	case msg.Code == tea.KeyEnter || msg.String() == "enter":
		return m.submitProjectForm()
	default:
		if len(m.formInputs) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
		return m, cmd
	}
}

// handleDragKey handles keys while a project is picked up.
func (m Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.cancelDrag("drag cancelled")
		return m, nil
	case key.Matches(msg, m.keys.moveLeft):
		m.hoverColumn(m.hoverIndex() - 1)
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		m.hoverColumn(m.hoverIndex() + 1)
		return m, nil
	case key.Matches(msg, m.keys.drop):
		return m.dropDrag()
	default:
		return m, nil
	}
}

// startProjectForm opens the new-project form, restoring any values still held by the form.
func (m *Model) startProjectForm() tea.Cmd {
	rules := m.form.Rules()
	m.mode = modeAddProject
	m.status = "new project"
	m.formFocus = 0
	m.formInputs = []textinput.Model{
		newModalInput("", lengthHint(rules.Title, "characters"), m.form.Title, 120),
		newModalInput("", lengthHint(rules.Description, "characters"), m.form.Description, 300),
		newModalInput("", valueHint(rules.People, "people"), m.form.People, 8),
	}
	m.focusFormField(0)
	return nil
}

// focusFormField focuses one form input, wrapping at both ends.
func (m *Model) focusFormField(idx int) {
	if len(m.formInputs) == 0 {
		return
	}
	idx = wrapIndex(idx, len(m.formInputs))
	m.formFocus = idx
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	_ = m.formInputs[idx].Focus()
}

// submitProjectForm copies the inputs into the form and submits it on the update loop.
func (m Model) submitProjectForm() (tea.Model, tea.Cmd) {
	if len(m.formInputs) != len(projectFormFields) {
		return m, nil
	}
	title := m.formInputs[formFieldTitle].Value()
	description := m.formInputs[formFieldDescription].Value()
	people := m.formInputs[formFieldPeople].Value()
	m.form.Title = title
	m.form.Description = description
	m.form.People = people
	project, err := m.form.Submit()
	return m.Update(projectAddedMsg{project: project, err: err})
}

// startDrag picks up the selected project.
func (m Model) startDrag(viaMouse bool) (tea.Model, tea.Cmd) {
	view, ok := m.currentView()
	if !ok {
		return m, nil
	}
	items := view.Items()
	if len(items) == 0 {
		m.status = "nothing to drag"
		return m, nil
	}
	item := items[clamp(m.selectedItem, 0, len(items)-1)]
	dt := board.NewDataTransfer()
	item.DragStart(dt)
	m.drag = dragState{
		dt:       dt,
		item:     item,
		source:   view.Status(),
		hover:    view.Status(),
		viaMouse: viaMouse,
	}
	m.drag.accepted = view.DragOver(dt)
	m.mode = modeDrag
	m.status = "dragging " + item.Title()
	m.logger.Debug("drag start", "project_id", item.ElementID())
	return m, nil
}

// hoverIndex returns the board index of the hovered list.
func (m Model) hoverIndex() int {
	for idx, view := range m.board.Views() {
		if view.Status() == m.drag.hover {
			return idx
		}
	}
	return 0
}

// hoverColumn moves the drag over the list at idx.
func (m *Model) hoverColumn(idx int) {
	views := m.board.Views()
	if len(views) == 0 {
		return
	}
	m.hoverDrag(views[clamp(idx, 0, len(views)-1)].Status())
}

// hoverDrag leaves the previous list and enters the one for status.
func (m *Model) hoverDrag(status domain.Status) {
	if status == m.drag.hover {
		return
	}
	if prev, ok := m.board.View(m.drag.hover); ok {
		prev.DragLeave()
	}
	m.drag.hover = status
	m.drag.moved = true
	m.drag.accepted = false
	if next, ok := m.board.View(status); ok {
		m.drag.accepted = next.DragOver(m.drag.dt)
	}
	for idx, view := range m.board.Views() {
		if view.Status() == status {
			m.selectedColumn = idx
		}
	}
}

// cancelDrag abandons the drag without moving anything.
func (m *Model) cancelDrag(status string) {
	if view, ok := m.board.View(m.drag.hover); ok {
		view.DragLeave()
	}
	if m.drag.dt != nil {
		m.drag.item.DragEnd(m.drag.dt)
		m.focusProject(m.drag.item.ElementID())
	}
	m.drag = dragState{}
	m.mode = modeNone
	m.status = status
}

// dropDrag drops the carried project on the hovered list on the update loop.
func (m Model) dropDrag() (tea.Model, tea.Cmd) {
	drag := m.drag
	target, ok := m.board.View(drag.hover)
	if !ok || !drag.accepted {
		m.cancelDrag("drop rejected")
		return m, nil
	}
	m.drag = dragState{}
	m.mode = modeNone
	result, err := target.Drop(drag.dt)
	drag.item.DragEnd(drag.dt)
	return m.Update(dropMsg{
		id:     drag.item.ElementID(),
		title:  drag.item.Title(),
		target: target.Status(),
		result: result,
		err:    err,
	})
}

// handleMouseClick selects a list and picks up the clicked project.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.help.ShowAll || msg.Button != tea.MouseLeft {
		return m, nil
	}
	col, ok := m.columnAt(msg.X)
	if !ok {
		return m, nil
	}
	m.selectedColumn = col
	idx := m.itemIndexAt(col, msg.Y)
	if idx < 0 {
		m.clampSelections()
		return m, nil
	}
	m.selectedItem = idx
	return m.startDrag(true)
}

// handleMouseMotion hovers the list under the pointer during a mouse drag.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeDrag || !m.drag.viaMouse {
		return m, nil
	}
	col, ok := m.columnAt(msg.X)
	if !ok {
		return m, nil
	}
	m.hoverDrag(m.board.Views()[col].Status())
	return m, nil
}

// handleMouseRelease finishes a mouse drag. Releasing over the source list without leaving it only selects.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeDrag || !m.drag.viaMouse {
		return m, nil
	}
	col, ok := m.columnAt(msg.X)
	if !ok {
		m.cancelDrag("drag cancelled")
		return m, nil
	}
	status := m.board.Views()[col].Status()
	if status == m.drag.source && !m.drag.moved {
		m.cancelDrag("ready")
		return m, nil
	}
	m.hoverDrag(status)
	return m.dropDrag()
}

// handleMouseWheel scrolls the selection in the current list.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.help.ShowAll {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.selectedItem > 0 {
			m.selectedItem--
		}
	case tea.MouseWheelDown:
		m.selectedItem++
		m.clampSelections()
	}
	return m, nil
}

// columnAt maps a screen column to a list index.
func (m Model) columnAt(x int) (int, bool) {
	if x < 0 {
		return 0, false
	}
	idx := x / (m.columnWidth() + columnOverhead)
	if idx >= len(m.board.Views()) {
		return 0, false
	}
	return idx, true
}

// itemIndexAt maps a screen row inside list col to an item index, or -1.
func (m Model) itemIndexAt(col, y int) int {
	views := m.board.Views()
	if col < 0 || col >= len(views) {
		return -1
	}
	row := y - boardTopRow - itemRowOffset
	if row < 0 {
		return -1
	}
	height := m.itemHeight()
	for idx := range views[col].Items() {
		if row < height {
			return idx
		}
		row -= height + 1
		if row < 0 {
			return -1
		}
	}
	return -1
}

// itemHeight returns the rendered lines per list row.
func (m Model) itemHeight() int {
	if m.showDescriptions {
		return 3
	}
	return 2
}

// copyProjectID writes id to the system clipboard.
func (m Model) copyProjectID(id string) tea.Cmd {
	write := m.clipboardWrite
	return func() tea.Msg {
		if err := write(id); err != nil {
			return actionMsg{status: "copy failed: " + err.Error()}
		}
		return actionMsg{status: "copied " + id}
	}
}

// openActivityLog enters activity-log mode and triggers the activity fetch.
func (m *Model) openActivityLog() tea.Cmd {
	m.mode = modeActivityLog
	m.status = "activity log"
	return m.loadActivityLog
}

// loadActivityLog reads recent events from the activity source.
func (m Model) loadActivityLog() tea.Msg {
	if m.activity == nil {
		return activityLogLoadedMsg{entries: []activityEntry{}}
	}
	events, err := m.activity.Recent(context.Background(), m.activityLimit)
	if err != nil {
		return activityLogLoadedMsg{err: err}
	}
	return activityLogLoadedMsg{entries: mapChangeEventsToActivityEntries(events)}
}

// loadProjectHistory reads the recorded changes for one project.
func (m Model) loadProjectHistory(projectID string) tea.Cmd {
	if m.activity == nil {
		return nil
	}
	reader := m.activity
	limit := m.activityLimit
	return func() tea.Msg {
		events, err := reader.ProjectHistory(context.Background(), projectID, limit)
		return projectHistoryLoadedMsg{projectID: projectID, events: events, err: err}
	}
}

// mapChangeEventsToActivityEntries converts newest-first events into chronological rows.
func mapChangeEventsToActivityEntries(events []domain.ChangeEvent) []activityEntry {
	entries := make([]activityEntry, 0, len(events))
	for idx := len(events) - 1; idx >= 0; idx-- {
		entries = append(entries, mapChangeEventToActivityEntry(events[idx]))
	}
	return entries
}

// mapChangeEventToActivityEntry derives a compact activity row from one event.
func mapChangeEventToActivityEntry(event domain.ChangeEvent) activityEntry {
	summary := string(event.Operation)
	switch event.Operation {
	case domain.ChangeOperationCreate:
		summary = "create project"
	case domain.ChangeOperationMove:
		summary = fmt.Sprintf("move %s → %s", event.FromStatus, event.ToStatus)
	}
	target := strings.TrimSpace(event.Title)
	if target == "" {
		target = strings.TrimSpace(event.ProjectID)
	}
	if target == "" {
		target = "-"
	}
	return activityEntry{
		At:      event.OccurredAt.UTC(),
		Summary: summary,
		Target:  target,
	}
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// lengthHint renders a placeholder from a rule's length bounds.
func lengthHint(rule validate.Rule, unit string) string {
	switch {
	case rule.MinLength != nil && rule.MaxLength != nil:
		return fmt.Sprintf("%d-%d %s", *rule.MinLength, *rule.MaxLength, unit)
	case rule.MinLength != nil:
		return fmt.Sprintf("at least %d %s", *rule.MinLength, unit)
	case rule.MaxLength != nil:
		return fmt.Sprintf("up to %d %s", *rule.MaxLength, unit)
	default:
		return ""
	}
}

// valueHint renders a placeholder from a rule's value bounds.
func valueHint(rule validate.Rule, unit string) string {
	switch {
	case rule.MinValue != nil && rule.MaxValue != nil:
		return fmt.Sprintf("%d-%d %s", *rule.MinValue, *rule.MaxValue, unit)
	case rule.MinValue != nil:
		return fmt.Sprintf("at least %d %s", *rule.MinValue, unit)
	case rule.MaxValue != nil:
		return fmt.Sprintf("up to %d %s", *rule.MaxValue, unit)
	default:
		return unit
	}
}

// currentView returns the selected list view.
func (m Model) currentView() (*board.ListView, bool) {
	views := m.board.Views()
	if len(views) == 0 {
		return nil, false
	}
	return views[clamp(m.selectedColumn, 0, len(views)-1)], true
}

// selectedProject returns the project under the cursor.
func (m Model) selectedProject() (domain.Project, bool) {
	view, ok := m.currentView()
	if !ok {
		return domain.Project{}, false
	}
	items := view.Items()
	if len(items) == 0 {
		return domain.Project{}, false
	}
	return items[clamp(m.selectedItem, 0, len(items)-1)].Project(), true
}

// focusProject moves the cursor to the row showing id.
func (m *Model) focusProject(id string) {
	for col, view := range m.board.Views() {
		for idx, item := range view.Items() {
			if item.ElementID() == id {
				m.selectedColumn = col
				m.selectedItem = idx
				return
			}
		}
	}
	m.clampSelections()
}

// clampSelections clamps selections.
func (m *Model) clampSelections() {
	views := m.board.Views()
	m.selectedColumn = clamp(m.selectedColumn, 0, len(views)-1)
	if len(views) == 0 {
		m.selectedItem = 0
		return
	}
	m.selectedItem = clamp(m.selectedItem, 0, len(views[m.selectedColumn].Items())-1)
}

// renderContent renders the full screen as text.
func (m Model) renderContent() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n\npress q to quit\n"
	}
	if !m.ready {
		return "loading..."
	}
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("projboard") + statusStyle.Render("  ["+m.modeLabel()+"]")
	header += statusStyle.Render(fmt.Sprintf("  %d projects", len(m.board.Store().Projects())))

	sections := []string{header, "", m.renderBoard(accent, muted, dim)}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		contentHeight := max(0, m.height-lipgloss.Height(helpLine))
		content = fitLines(content, contentHeight)
	}
	fullContent := content + "\n" + helpLine

	overlay := m.renderModeOverlay(accent, muted, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, m.width-8)
	}
	if overlay != "" {
		height := lipgloss.Height(fullContent)
		if m.height > 0 {
			height = m.height
		}
		fullContent = placeOverlay(overlay, max(1, m.width), max(1, height))
	}
	return fullContent
}

// renderBoard renders one bordered column per list view.
func (m Model) renderBoard(accent, muted, dim color.Color) string {
	views := m.board.Views()
	colWidth := m.columnWidth()
	innerHeight := max(1, m.columnHeight()-4)

	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(1, 2).
		MarginRight(1).
		Width(colWidth)
	selColStyle := baseColStyle.BorderForeground(accent)
	dropColStyle := baseColStyle.BorderForeground(lipgloss.Color("212"))
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	draggingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	subStyle := lipgloss.NewStyle().Foreground(muted)

	columnViews := make([]string, 0, len(views))
	for colIdx, view := range views {
		items := view.Items()
		lines := []string{colTitle.Render(fmt.Sprintf("%s (%d)", view.Heading(), len(items))), ""}
		if len(items) == 0 {
			lines = append(lines, emptyStyle.Render("(empty)"))
		}
		for idx, item := range items {
			selected := colIdx == m.selectedColumn && idx == m.selectedItem
			dragging := m.mode == modeDrag && item.ElementID() == m.drag.item.ElementID()
			prefix := "   "
			switch {
			case dragging:
				prefix = "⇢  "
			case selected:
				prefix = "│  "
			}
			title := prefix + truncate(item.Title(), max(1, colWidth-10))
			switch {
			case dragging:
				title = draggingStyle.Render(title)
			case selected:
				title = selectedStyle.Render(title)
			}
			lines = append(lines, title, prefix+subStyle.Render(item.PeopleLabel()))
			if m.showDescriptions {
				lines = append(lines, prefix+subStyle.Render(truncate(item.Description(), max(1, colWidth-10))))
			}
			if idx < len(items)-1 {
				lines = append(lines, "")
			}
		}

		content := fitLines(strings.Join(lines, "\n"), innerHeight)
		style := baseColStyle
		switch {
		case view.Droppable():
			style = dropColStyle
		case colIdx == m.selectedColumn:
			style = selColStyle
		}
		columnViews = append(columnViews, style.Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

// renderModeOverlay renders the modal for the current mode.
func (m Model) renderModeOverlay(accent, muted color.Color, maxWidth int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)

	switch m.mode {
	case modeAddProject:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 24, 96))
		}
		lines := []string{titleStyle.Render("New Project")}
		fieldWidth := max(18, maxWidth-28)
		for i, in := range m.formInputs {
			label := fmt.Sprintf("%d.", i+1)
			if i < len(projectFormFields) {
				label = projectFormFields[i]
			}
			labelStyle := lipgloss.NewStyle().Foreground(muted)
			if i == m.formFocus {
				labelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
			}
			in.SetWidth(fieldWidth)
			lines = append(lines, labelStyle.Render(fmt.Sprintf("%-12s", label+":"))+" "+in.View())
		}
		lines = append(lines, hintStyle.Render("enter save • esc cancel • tab next field"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeAlert:
		alertStyle := boxStyle.BorderForeground(lipgloss.Color("203"))
		if maxWidth > 0 {
			alertStyle = alertStyle.Width(clamp(maxWidth, 24, 48))
		}
		lines := []string{
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Render("Alert"),
			m.alert,
			hintStyle.Render("enter dismiss"),
		}
		return alertStyle.Render(strings.Join(lines, "\n"))

	case modeProjectInfo:
		project, ok := m.board.Store().Project(m.infoProjectID)
		if !ok {
			return ""
		}
		width := 76
		if maxWidth > 0 {
			width = clamp(maxWidth, 24, 76)
			boxStyle = boxStyle.Width(width)
		}
		lines := []string{
			titleStyle.Render("Project Info"),
			m.info.render(project, m.infoHistory, width-4),
			hintStyle.Render("y copy id • esc close"),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeActivityLog:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 44, 96))
		}
		lines := []string{titleStyle.Render("Activity Log")}
		if len(m.activityLog) == 0 {
			lines = append(lines, hintStyle.Render("(no activity yet)"))
		} else {
			rendered := 0
			for idx := len(m.activityLog) - 1; idx >= 0; idx-- {
				entry := m.activityLog[idx]
				lines = append(lines, fmt.Sprintf("%s  %s • %s", formatActivityTimestamp(entry.At), entry.Summary, truncate(entry.Target, 42)))
				rendered++
				if rendered >= activityLogViewWindow {
					break
				}
			}
		}
		lines = append(lines, hintStyle.Render("esc close"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	default:
		return ""
	}
}

// renderHelpOverlay renders the full key help.
func (m Model) renderHelpOverlay(accent, muted color.Color, maxWidth int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if maxWidth > 0 {
		style = style.Width(clamp(maxWidth, 32, 96))
	}
	helpBubble := m.help
	helpBubble.ShowAll = true
	helpBubble.SetWidth(max(0, maxWidth-4))
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Help"),
		helpBubble.View(m.keys),
		lipgloss.NewStyle().Foreground(muted).Render("? or esc close"),
	}
	return style.Render(strings.Join(lines, "\n"))
}

// modeLabel returns the header label for the current mode.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeAddProject:
		return "new project"
	case modeAlert:
		return "alert"
	case modeDrag:
		return "drag"
	case modeProjectInfo:
		return "info"
	case modeActivityLog:
		return "activity"
	default:
		return "normal"
	}
}

// formatActivityTimestamp formats an activity time for the log modal.
func formatActivityTimestamp(at time.Time) string {
	if at.IsZero() {
		return "--:--:--"
	}
	local := at.Local()
	now := time.Now().In(local.Location())
	if local.Year() != now.Year() || local.YearDay() != now.YearDay() {
		return local.Format("01-02 15:04")
	}
	return local.Format("15:04:05")
}

// columnWidth returns column width.
func (m Model) columnWidth() int {
	count := max(1, len(m.board.Views()))
	w := 32
	if m.width > 0 {
		candidate := (m.width - count*columnOverhead) / count
		if candidate > 0 {
			w = candidate
		}
	}
	return clamp(w, 24, 48)
}

// columnHeight returns column height.
func (m Model) columnHeight() int {
	headerLines := 2
	footerLines := 4
	h := m.height - headerLines - footerLines
	if h < 10 {
		return 10
	}
	return h
}

// boardTop returns the screen row of the top column border.
func (m Model) boardTop() int {
	return boardTopRow
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// wrapIndex wraps idx into [0,total).
func wrapIndex(idx, total int) int {
	if total <= 0 {
		return 0
	}
	return ((idx % total) + total) % total
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// placeOverlay centers a modal on an otherwise blank screen.
func placeOverlay(overlay string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
