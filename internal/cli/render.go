package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/microscan/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

// RenderRecords renders classification records as a table. Ingredient lists
// are joined with commas.
func RenderRecords(records []model.ClassificationRecord) string {
	if len(records) == 0 {
		return SubtleStyle.Render("(no classifications)")
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{
			rec.Name,
			FormatRisk(rec.RiskTier),
			joinOrDash(rec.HighRiskIngredients),
			joinOrDash(rec.MediumRiskIngredients),
		}
	}
	return renderTable([]string{"Product", "Risk", "High risk", "Medium risk"}, rows)
}

// RenderEntries renders a user's saved products as a table.
func RenderEntries(entries []model.SavedProductEntry) string {
	if len(entries) == 0 {
		return SubtleStyle.Render("(no saved products)")
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.ID,
			e.Name,
			FormatRisk(e.RiskTier),
			e.SavedAt.Local().Format("Jan 2, 2006 15:04"),
		}
	}
	return renderTable([]string{"ID", "Product", "Risk", "Saved"}, rows)
}

// RenderUser renders a user's profile in a box.
func RenderUser(user *model.User) string {
	content := fmt.Sprintf("ID:       %s\n", user.ID) +
		fmt.Sprintf("Username: %s\n", user.Username) +
		fmt.Sprintf("Email:    %s\n", user.Email) +
		fmt.Sprintf("Created:  %s", user.CreatedAt.Local().Format("Jan 2, 2006"))
	return RenderBox("User", content)
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = TableCellStyle.Width(widths[i] + 2).Render(h)
	}
	b.WriteString(TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)))
	for _, row := range rows {
		b.WriteString("\n")
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// NewProgressBar returns a progress bar for total items written to w.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
