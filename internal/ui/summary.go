package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"w8/internal/domain"
	"w8/internal/services"
)

// PrintSummary writes the end-of-run report for tree.
func PrintSummary(w io.Writer, tree domain.DirectoryNode, elapsed time.Duration) error {
	renderer := lipgloss.NewRenderer(w)
	label := renderer.NewStyle().Bold(true)
	value := renderer.NewStyle().Foreground(lipgloss.Color("42"))

	rows := [][2]string{
		{"Path Processed", tree.Path},
		{"Lines of Code", fmt.Sprint(tree.LineCount)},
		{"Code Complexity (w8-score)", fmt.Sprint(tree.Score)},
		{"Files Processed", fmt.Sprint(tree.FileCount())},
		{"Time Taken", formatElapsed(elapsed)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s: %s\n", label.Render(row[0]), value.Render(row[1])); err != nil {
			return err
		}
	}
	return nil
}

// PrintWarnings lists the paths a tolerant scan skipped.
func PrintWarnings(w io.Writer, warnings []services.ScanWarning) error {
	if len(warnings) == 0 {
		return nil
	}
	renderer := lipgloss.NewRenderer(w)
	warn := renderer.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	if _, err := fmt.Fprintln(w, warn.Render(fmt.Sprintf("Skipped %d path(s):", len(warnings)))); err != nil {
		return err
	}
	for _, warning := range warnings {
		if _, err := fmt.Fprintf(w, "  [%s] %s\n", warning.Reason, warning.Path); err != nil {
			return err
		}
	}
	return nil
}

// PrintHistory renders ledger rows as an aligned table.
func PrintHistory(w io.Writer, runs []services.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}
	renderer := lipgloss.NewRenderer(w)
	header := renderer.NewStyle().Bold(true)
	lines := []string{header.Render(fmt.Sprintf("%-4s  %-19s  %8s  %8s  %6s  %10s  %s", "ID", "STARTED", "SCORE", "LINES", "FILES", "TOOK", "ROOT"))}
	for _, run := range runs {
		lines = append(lines, fmt.Sprintf("%-4d  %-19s  %8d  %8d  %6d  %10s  %s",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.TotalScore,
			run.TotalLines,
			run.FilesProcessed,
			formatElapsed(run.Duration),
			run.RootPath,
		))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// formatElapsed prints a duration with two decimals in the largest unit
// that keeps it at or above one.
func formatElapsed(elapsed time.Duration) string {
	switch {
	case elapsed >= time.Second:
		return fmt.Sprintf("%.2fs", elapsed.Seconds())
	case elapsed >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(elapsed)/float64(time.Millisecond))
	case elapsed >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(elapsed)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%.2fns", float64(elapsed))
	}
}
