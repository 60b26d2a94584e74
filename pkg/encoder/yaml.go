package encoder

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/berrnk/bdz1/pkg/models"
)

// YAML writes the block format: a section key followed by one
// "- Key: value" block per entity. Strings are double quoted with inner
// quotes escaped as \".
type YAML struct {
	entities
}

func (e *YAML) sections() (accounts, categories, operations []byte) {
	var buf bytes.Buffer
	buf.WriteString("Accounts:\n")
	for _, a := range e.accounts {
		fmt.Fprintf(&buf, "  - Id: %d\n", a.ID())
		fmt.Fprintf(&buf, "    Name: %s\n", quote(a.Name))
		fmt.Fprintf(&buf, "    Balance: %s\n", models.FormatAmount(a.Balance))
	}
	accounts = bytes.Clone(buf.Bytes())

	buf.Reset()
	buf.WriteString("Categories:\n")
	for _, c := range e.categories {
		fmt.Fprintf(&buf, "  - Id: %d\n", c.ID())
		fmt.Fprintf(&buf, "    Name: %s\n", quote(c.Name))
		fmt.Fprintf(&buf, "    Type: %s\n", c.Kind())
	}
	categories = bytes.Clone(buf.Bytes())

	buf.Reset()
	buf.WriteString("Operations:\n")
	for _, o := range e.operations {
		fmt.Fprintf(&buf, "  - Id: %d\n", o.ID())
		fmt.Fprintf(&buf, "    Type: %s\n", o.Kind())
		fmt.Fprintf(&buf, "    Amount: %s\n", models.FormatAmount(o.Amount()))
		fmt.Fprintf(&buf, "    Date: %s\n", o.Date().Format(models.DateLayout))
		fmt.Fprintf(&buf, "    Description: %s\n", quote(o.Description()))
		fmt.Fprintf(&buf, "    CategoryId: %d\n", o.CategoryID())
		fmt.Fprintf(&buf, "    BankAccountId: %d\n", o.AccountID())
	}
	operations = bytes.Clone(buf.Bytes())
	return accounts, categories, operations
}

func (e *YAML) Flush(accounts, categories, operations io.Writer) error {
	a, c, o := e.sections()
	if err := writeAll(accounts, a); err != nil {
		return err
	}
	if err := writeAll(categories, c); err != nil {
		return err
	}
	return writeAll(operations, o)
}

func (e *YAML) WriteDocument(w io.Writer) error {
	a, c, o := e.sections()
	return writeAll(w, a, c, o)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
