package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"w8/internal/domain"
	"w8/internal/state"
)

type palette struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
	alert   lipgloss.Style
	cursor  lipgloss.Style
	score   lipgloss.Style
	panel   lipgloss.Style
	divider lipgloss.Style
}

func paletteFor(theme string) palette {
	colors := map[string]string{
		"title": "", "muted": "241", "accent": "69", "alert": "204",
		"cursor": "205", "score": "42", "divider": "238",
	}
	if strings.EqualFold(theme, "light") {
		colors = map[string]string{
			"title": "235", "muted": "242", "accent": "25", "alert": "124",
			"cursor": "90", "score": "28", "divider": "250",
		}
	}
	fg := func(name string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colors[name]))
	}
	return palette{
		title:   fg("title").Bold(true),
		muted:   fg("muted"),
		accent:  fg("accent").Bold(true),
		alert:   fg("alert").Bold(true),
		cursor:  fg("cursor").Bold(true),
		score:   fg("score").Bold(true),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		divider: fg("divider"),
	}
}

func (model Model) View() string {
	colors := paletteFor(model.state.Prefs.Theme)
	if model.help.ShowAll {
		return model.helpScreen(colors)
	}
	return model.mainScreen(colors) + "\n" + model.statusBar(colors)
}

func (model Model) mainScreen(colors palette) string {
	rows := maxInt(model.listHeight(), 3)
	listWidth, detailWidth := splitPanels(model.width)
	listing := model.listingPanel(colors, rows, listWidth)
	if detailWidth == 0 {
		return listing
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		listing,
		colors.divider.Render("│"),
		model.detailPanel(colors, rows, detailWidth),
	)
}

func (model Model) statusBar(colors palette) string {
	status := ellipsize(model.status, model.width-4)
	if model.scanning {
		status = model.spinner.View() + " " + status
	}
	style := colors.muted
	if lower := strings.ToLower(model.status); strings.Contains(lower, "error") || strings.Contains(lower, "warning") {
		style = colors.alert
	}
	order := colors.muted.Render("order: " + string(model.state.Prefs.SortMode))
	keys := model.help.ShortHelpView(model.keys.ShortHelp())
	return style.Render(status) + "\n" + spread(order, keys, model.width)
}

func (model Model) listingPanel(colors palette, rows, width int) string {
	inner := maxInt(width-2, 18)
	badge := "IDLE"
	if model.scanning {
		badge = "SCANNING"
	}
	title := colors.title.Render("w8") + "  " + crumbs(model.state.CurrentPath())
	lines := []string{spread(title, colors.accent.Render(badge), inner)}

	visible := model.state.VisibleNodes()
	if len(visible) == 0 {
		lines = append(lines, "Nothing scored")
	}
	first := clamp(model.viewTop, 0, maxInt(len(visible)-1, 0))
	last := minInt(first+rows, len(visible))
	for index := first; index < last; index++ {
		lines = append(lines, model.listingRow(colors, visible[index], index == model.state.Cursor))
	}
	for len(lines) < rows+1 {
		lines = append(lines, "")
	}
	return colors.panel.Width(inner).Render(strings.Join(lines, "\n"))
}

func (model Model) listingRow(colors palette, item state.VisibleNode, selected bool) string {
	node := item.Node
	name := node.Name
	if node.Type == domain.NodeDir {
		name += "/"
	}
	score := fmt.Sprintf("%8d", node.Score)
	if selected {
		row := fmt.Sprintf("%s %7d  %s%s %s", score, node.LineCount, strings.Repeat("  ", item.Depth), model.glyph(node), name)
		return colors.cursor.Render(row)
	}
	return fmt.Sprintf("%s %7d  %s%s %s", colors.score.Render(score), node.LineCount, strings.Repeat("  ", item.Depth), model.glyph(node), name)
}

func (model Model) detailPanel(colors palette, rows, width int) string {
	inner := maxInt(width-2, 10)
	node := model.state.CurrentNode()
	if node == nil {
		return colors.panel.Width(inner).Render("No selection")
	}
	lines := []string{
		colors.title.Render("Path"),
		node.Path,
		"",
		colors.title.Render("Weight"),
		fmt.Sprintf("Score : %d", node.Score),
		fmt.Sprintf("Lines : %d", node.LineCount),
		fmt.Sprintf("Share : %.1f%%", model.state.ShareOfParent(node)*100),
	}
	if node.Type == domain.NodeDir {
		lines = append(lines,
			"",
			colors.title.Render("Contents"),
			fmt.Sprintf("Folders: %d", node.DirCount),
			fmt.Sprintf("Files  : %d", node.FileCount),
		)
	}
	body := lipgloss.NewStyle().Width(inner).Height(rows + 1).Render(strings.Join(lines, "\n"))
	return colors.panel.Width(inner).Render(body)
}

func (model Model) helpScreen(colors palette) string {
	lines := []string{
		colors.title.Render("w8 Help"),
		"",
		"Each row shows score, line count and name.",
		"A directory scores the sum of everything beneath it.",
		"",
		model.help.FullHelpView(model.keys.FullHelp()),
	}
	width := model.width
	if width <= 0 {
		width = 80
	}
	return colors.panel.Width(maxInt(width-2, 10)).Render(strings.Join(lines, "\n"))
}

func (model Model) glyph(node *domain.Node) string {
	switch {
	case node.Type != domain.NodeDir:
		return "·"
	case model.state.IsExpanded(node.ID):
		return "▾"
	default:
		return "▸"
	}
}

// crumbs renders a path as its components joined by chevrons.
func crumbs(path string) string {
	path = filepath.Clean(path)
	if path == "." {
		return path
	}
	parts := strings.Split(path, string(filepath.Separator))
	if parts[0] == "" {
		parts[0] = string(filepath.Separator)
	}
	return strings.Join(parts, " › ")
}

// spread places left and right at the two edges of a line of the given width.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if width <= 0 || gap < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

// splitPanels returns the listing and detail widths. The detail panel is
// dropped on narrow terminals.
func splitPanels(width int) (int, int) {
	if width < 80 {
		return width, 0
	}
	listing := maxInt(width*3/5, 40)
	detail := width - listing - 1
	if detail < 30 {
		return width, 0
	}
	return listing, detail
}

func ellipsize(message string, limit int) string {
	if limit <= 3 || len(message) <= limit {
		return message
	}
	return message[:limit-3] + "..."
}

func clamp(value, low, high int) int {
	return maxInt(low, minInt(value, high))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
