package encoder

import (
	"io"
	"strconv"

	"github.com/berrnk/bdz1/pkg/csv"
	"github.com/berrnk/bdz1/pkg/models"
)

var (
	AccountHeader   = []string{"Id", "Name", "Balance"}
	CategoryHeader  = []string{"Id", "Name", "Type"}
	OperationHeader = []string{"Id", "Type", "Amount", "Date", "Description", "CategoryId", "BankAccountId"}
)

// CSV writes three comma separated tables, each with its own header.
type CSV struct {
	entities
}

func (e *CSV) tables() (accounts, categories, operations []byte) {
	accounts = csv.Create(AccountHeader, e.accounts, func(a *models.Account) []string {
		return []string{id(a.ID()), a.Name, models.FormatAmount(a.Balance)}
	})
	categories = csv.Create(CategoryHeader, e.categories, func(c *models.Category) []string {
		return []string{id(c.ID()), c.Name, c.Kind().String()}
	})
	operations = csv.Create(OperationHeader, e.operations, func(o *models.Operation) []string {
		return []string{
			id(o.ID()),
			o.Kind().String(),
			models.FormatAmount(o.Amount()),
			o.Date().Format(models.DateLayout),
			o.Description(),
			id(o.CategoryID()),
			id(o.AccountID()),
		}
	})
	return accounts, categories, operations
}

func (e *CSV) Flush(accounts, categories, operations io.Writer) error {
	a, c, o := e.tables()
	if err := writeAll(accounts, a); err != nil {
		return err
	}
	if err := writeAll(categories, c); err != nil {
		return err
	}
	return writeAll(operations, o)
}

// WriteDocument writes the three tables separated by a blank line.
func (e *CSV) WriteDocument(w io.Writer) error {
	a, c, o := e.tables()
	blank := []byte("\n")
	return writeAll(w, a, blank, c, blank, o)
}

func id(v int64) string { return strconv.FormatInt(v, 10) }
