package console

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zenibako/fireworks-golang/show"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	finaleStyle  = cellStyle.Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	totalsStyle  = lipgloss.NewStyle().Padding(0, 1)
)

// Column headers of the running-order table
var Headers = []string{"Name", "Run Time", "Type", "Sequence Number"}

// RenderTable draws the running order. Grand Finale rows are highlighted.
func RenderTable(rows []show.Row) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Name, r.Runtime, r.Category, strconv.Itoa(r.Sequence)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && rows[row].Category == show.CategoryGrandFinale {
				return finaleStyle
			}
			return cellStyle
		})

	return t.Render()
}

// RenderTotals formats the three running-time labels.
func RenderTotals(t show.Totals) string {
	lines := []string{
		"Total Main Event Time: " + t.Main(),
		"Total Grand Finale Time: " + t.Grand(),
		"Total Run Time: " + t.Overall(),
	}
	return totalsStyle.Render(strings.Join(lines, "\n"))
}

func renderWarning(title, message string) string {
	return warningStyle.Render(title+": ") + message
}

func renderNotice(message string) string {
	return noticeStyle.Render(message)
}
