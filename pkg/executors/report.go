package executors

import (
	"fmt"
	"time"

	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/plan"
	"github.com/berrnk/bdz1/pkg/service"
)

// Status is the reconciliation result of one planned entity.
type Status int

const (
	// Exists: the ledger already holds a matching entity.
	Exists Status = iota
	// ToAdd: the entity is missing and Apply will create it.
	ToAdd
)

// Entry links one planned entity to the ledger.
type Entry struct {
	Kind   models.EntityKind
	Index  int // position in the plan list of its kind
	Label  string
	Status Status
}

type Report struct {
	Items []Entry
	toAdd int
}

// BuildReport matches a plan against the ledger. Accounts match by name,
// categories by name and kind, operations by account, category, amount,
// date and description. Operations must reference accounts and categories
// that exist in the ledger or in the plan itself.
func BuildReport(p *plan.Plan, l *service.Ledger) (*Report, error) {
	r := &Report{}

	accountNames := map[string]bool{}
	accountByID := map[int64]string{}
	for _, a := range l.Accounts() {
		accountNames[a.Name] = true
		accountByID[a.ID()] = a.Name
	}
	categoryNames := map[string]bool{}
	categoryByID := map[int64]string{}
	for _, c := range l.Categories() {
		categoryNames[c.Name] = true
		categoryByID[c.ID()] = c.Name
	}
	existingOps := map[string]int{}
	for _, o := range l.Operations() {
		existingOps[operationKey(o.Kind(), accountByID[o.AccountID()], categoryByID[o.CategoryID()], o.Amount().String(), o.Date(), o.Description())]++
	}

	knownCategories := map[string]bool{}
	for _, c := range l.Categories() {
		knownCategories[c.Name+"|"+c.Kind().String()] = true
	}

	planned := map[string]bool{}
	for i, a := range p.Accounts {
		status := ToAdd
		if accountNames[a.Name] || planned[a.Name] {
			status = Exists
		}
		planned[a.Name] = true
		r.add(Entry{Kind: models.AccountEntity, Index: i, Label: fmt.Sprintf("%-24s %s", a.Name, a.Balance), Status: status})
	}

	plannedCategories := map[string]bool{}
	for i, c := range p.Categories {
		key := c.Name + "|" + c.Type.String()
		status := ToAdd
		if knownCategories[key] || plannedCategories[key] {
			status = Exists
		}
		plannedCategories[key] = true
		plannedCategories[c.Name] = true
		r.add(Entry{Kind: models.CategoryEntity, Index: i, Label: fmt.Sprintf("%-24s %s", c.Name, c.Type), Status: status})
	}

	for i, o := range p.Operations {
		if !accountNames[o.Account] && !planned[o.Account] {
			return nil, fmt.Errorf("operation %d: unknown account %q", i+1, o.Account)
		}
		if !categoryNames[o.Category] && !plannedCategories[o.Category] {
			return nil, fmt.Errorf("operation %d: unknown category %q", i+1, o.Category)
		}
		date, err := models.ParseDate(o.Date)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
		status := ToAdd
		key := operationKey(o.Type, o.Account, o.Category, o.Amount.String(), date, o.Description)
		if existingOps[key] > 0 {
			existingOps[key]--
			status = Exists
		}
		label := fmt.Sprintf("%s | %-24s | %-12s | %-8s | %s", date.Format(models.DateLayout), o.Description, o.Category, o.Type, o.Amount)
		r.add(Entry{Kind: models.OperationEntity, Index: i, Label: label, Status: status})
	}
	return r, nil
}

func operationKey(kind models.Kind, account, category, amount string, date time.Time, description string) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s", kind, account, category, amount, date.Format(models.DateLayout), description)
}

func (r *Report) add(e Entry) {
	r.Items = append(r.Items, e)
	if e.Status == ToAdd {
		r.toAdd++
	}
}

// ExistingCount returns how many planned entities the ledger already holds.
func (r *Report) ExistingCount() int {
	return len(r.Items) - r.toAdd
}

// MissingCount returns how many planned entities Apply would create.
func (r *Report) MissingCount() int {
	return r.toAdd
}

// Missing returns the entries of the given kind that still need creating.
func (r *Report) Missing(kind models.EntityKind) []Entry {
	var out []Entry
	for _, e := range r.Items {
		if e.Kind == kind && e.Status == ToAdd {
			out = append(out, e)
		}
	}
	return out
}
