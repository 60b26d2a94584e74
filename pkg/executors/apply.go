package executors

import (
	"fmt"

	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/plan"
)

// Apply creates every planned entity the ledger does not hold yet, through
// the ledger service so balances follow the operations. Entities created
// before a failure are kept.
func (e *Executor) Apply(p *plan.Plan) (*Report, error) {
	e.logger.Debug("applying plan")

	report, err := BuildReport(p, e.ledger)
	if err != nil {
		return nil, err
	}
	e.logger.Info("entities to create", "count", report.MissingCount())

	for _, item := range report.Missing(models.AccountEntity) {
		a := p.Accounts[item.Index]
		if _, err := e.ledger.CreateAccount(a.Name, a.Balance); err != nil {
			return nil, fmt.Errorf("account %q: %w", a.Name, err)
		}
	}
	for _, item := range report.Missing(models.CategoryEntity) {
		c := p.Categories[item.Index]
		if _, err := e.ledger.CreateCategory(c.Type, c.Name); err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Name, err)
		}
	}

	accounts := map[string]int64{}
	for _, a := range e.ledger.Accounts() {
		if _, ok := accounts[a.Name]; !ok {
			accounts[a.Name] = a.ID()
		}
	}
	categories := map[string]int64{}
	for _, c := range e.ledger.Categories() {
		if _, ok := categories[c.Name]; !ok {
			categories[c.Name] = c.ID()
		}
	}

	for _, item := range report.Missing(models.OperationEntity) {
		o := p.Operations[item.Index]
		date, err := models.ParseDate(o.Date)
		if err != nil {
			return nil, err
		}
		if _, err := e.ledger.CreateOperation(o.Type, accounts[o.Account], o.Amount, date, o.Description, categories[o.Category]); err != nil {
			return nil, fmt.Errorf("operation %d: %w", item.Index+1, err)
		}
	}
	e.logger.Info("plan applied", "created", report.MissingCount(), "existing", report.ExistingCount())
	return report, nil
}
