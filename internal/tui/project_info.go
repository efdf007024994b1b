package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/evanschultz/projboard/internal/domain"
)

// minInfoWrap is the narrowest wrap width the info renderer accepts.
const minInfoWrap = 24

// projectInfoRenderer renders the project info modal body as terminal markdown.
// The glamour renderer is rebuilt only when the wrap width changes.
type projectInfoRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render formats project and its newest-first history at width.
// It falls back to the plain markdown source if glamour fails.
func (r *projectInfoRenderer) render(project domain.Project, history []domain.ChangeEvent, width int) string {
	source := projectMarkdown(project, history)
	width = max(width, minInfoWrap)
	if r.renderer == nil || r.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return source
		}
		r.renderer = renderer
		r.width = width
	}
	out, err := r.renderer.Render(source)
	if err != nil {
		return source
	}
	return strings.TrimRight(out, "\n")
}

// projectMarkdown builds the info card for one project.
func projectMarkdown(project domain.Project, history []domain.ChangeEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", project.Title, project.Description)
	fmt.Fprintf(&b, "- **Status:** %s\n", project.Status)
	fmt.Fprintf(&b, "- **People:** %s\n", project.PeopleLabel())
	fmt.Fprintf(&b, "- **ID:** `%s`\n", project.ID)
	if len(history) == 0 {
		return b.String()
	}
	b.WriteString("\n## History\n\n")
	for _, event := range history {
		fmt.Fprintf(&b, "- %s %s\n", formatActivityTimestamp(event.OccurredAt), event.Summary())
	}
	return b.String()
}
