package executors

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/berrnk/bdz1/pkg/plan"
)

var (
	existingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	addedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
)

// Plan prints what Apply would do with p without touching the ledger.
func (e *Executor) Plan(p *plan.Plan) (*Report, error) {
	report, err := BuildReport(p, e.ledger)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("processing plan report", "total", len(report.Items), "existing", report.ExistingCount(), "to_add", report.MissingCount())

	for _, item := range report.Items {
		line := fmt.Sprintf("%-9s %s", item.Kind, item.Label)
		if item.Status == Exists {
			fmt.Fprintln(e.out, existingStyle.Render("= "+line))
			continue
		}
		fmt.Fprintln(e.out, addedStyle.Render("+ "+line))
	}

	if report.MissingCount() == 0 {
		fmt.Fprintf(e.out, "\nPlan: all %d item(s) already in the ledger\n", report.ExistingCount())
	} else {
		fmt.Fprintf(e.out, "\nPlan: %d item(s) will be added, %d already in the ledger\n", report.MissingCount(), report.ExistingCount())
	}
	return report, nil
}
