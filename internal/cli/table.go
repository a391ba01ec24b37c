package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is how transaction dates are printed.
const DateLayout = "Jan 02, 2006 15:04"

var currency = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders an amount as US dollars with thousands separators.
func FormatAmount(amount float64) string {
	if amount < 0 {
		return currency.Sprintf("-$%.2f", -amount)
	}
	return currency.Sprintf("$%.2f", amount)
}

// RenderTransactions renders txns as a bordered table with dates in loc.
func RenderTransactions(txns []model.Transaction, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		rows = append(rows, []string{
			txn.ID,
			FormatAmount(txn.Amount),
			txn.Status.Label(),
			txn.Date.In(loc).Format(DateLayout),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers("ID", "AMOUNT", "STATUS", "DATE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			style := TableCellStyle
			if col == 1 {
				style = style.Align(lipgloss.Right)
			}
			if col == 2 && row >= 0 && row < len(txns) {
				style = style.Foreground(StatusStyle(txns[row].Status).GetForeground())
			}
			return style
		})

	return t.String()
}

// RenderPageFooter summarizes a page of results.
func RenderPageFooter(page model.Page) string {
	noun := "transactions"
	if page.TotalItems == 1 {
		noun = "transaction"
	}
	return SubtleStyle.Render(fmt.Sprintf("Page %d of %d · %d %s",
		page.CurrentPage, page.TotalPages, page.TotalItems, noun))
}
