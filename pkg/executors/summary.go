package executors

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/berrnk/bdz1/pkg/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Summary prints account balances, per category totals and the income
// minus expense difference for [start, end].
func (e *Executor) Summary(start, end time.Time) {
	fmt.Fprintln(e.out, headerStyle.Render("Accounts"))
	for _, a := range e.ledger.Accounts() {
		fmt.Fprintf(e.out, "  %4d  %-24s %14s\n", a.ID(), a.Name, a.Balance.StringFixed(2))
	}

	fmt.Fprintln(e.out, headerStyle.Render("Categories"))
	for _, c := range e.ledger.CategoryBreakdown() {
		fmt.Fprintf(e.out, "  %4d  %-24s %s %s\n", c.CategoryID, c.Name,
			incomeStyle.Render(fmt.Sprintf("+%13s", c.Income.StringFixed(2))),
			expenseStyle.Render(fmt.Sprintf("-%13s", c.Expense.StringFixed(2))))
	}

	totals := e.ledger.PeriodTotals(start, end)
	fmt.Fprintln(e.out, headerStyle.Render(fmt.Sprintf("Period %s .. %s", start.Format(models.DateLayout), end.Format(models.DateLayout))))
	fmt.Fprintf(e.out, "  income     %14s\n", totals.Income.StringFixed(2))
	fmt.Fprintf(e.out, "  expense    %14s\n", totals.Expense.StringFixed(2))
	fmt.Fprintf(e.out, "  difference %14s\n", totals.Net().StringFixed(2))
}
