// Package plan reads batch ledger plans: YAML files listing accounts,
// categories and operations to create, where operations point at accounts
// and categories by name.
package plan

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/berrnk/bdz1/pkg/models"
)

type Plan struct {
	Accounts   []Account   `yaml:"accounts"`
	Categories []Category  `yaml:"categories"`
	Operations []Operation `yaml:"operations"`
}

type Account struct {
	Name    string          `yaml:"name"`
	Balance decimal.Decimal `yaml:"balance"`
}

type Category struct {
	Name string      `yaml:"name"`
	Type models.Kind `yaml:"type"`
}

type Operation struct {
	Type        models.Kind     `yaml:"type"`
	Account     string          `yaml:"account"`
	Category    string          `yaml:"category"`
	Amount      decimal.Decimal `yaml:"amount"`
	Date        string          `yaml:"date"`
	Description string          `yaml:"description"`
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Accounts)+len(p.Categories)+len(p.Operations) == 0 {
		return nil, fmt.Errorf("plan is empty")
	}
	for i, op := range p.Operations {
		if op.Account == "" {
			return nil, fmt.Errorf("operation %d: missing account", i+1)
		}
		if op.Category == "" {
			return nil, fmt.Errorf("operation %d: missing category", i+1)
		}
		if _, err := models.ParseDate(op.Date); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
	}
	return &p, nil
}

func (p *Plan) Print() {
	p.Fprint(os.Stdout)
}

func (p *Plan) Fprint(w io.Writer) {
	fmt.Fprintf(w, "accounts=%d categories=%d operations=%d\n", len(p.Accounts), len(p.Categories), len(p.Operations))
	for i, a := range p.Accounts {
		fmt.Fprintf(w, "[a%d] name=%s balance=%s\n", i+1, a.Name, a.Balance)
	}
	for i, c := range p.Categories {
		fmt.Fprintf(w, "[c%d] name=%s type=%s\n", i+1, c.Name, c.Type)
	}
	for i, o := range p.Operations {
		fmt.Fprintf(w, "[o%d] type=%s account=%s category=%s amount=%s date=%s\n", i+1, o.Type, o.Account, o.Category, o.Amount, o.Date)
	}
}
