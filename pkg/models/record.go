package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// FormatAmount writes d with its own scale, so 1000.50 stays "1000.50".
func FormatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// AccountRecord is the flat field set of an Account as written to documents.
type AccountRecord struct {
	ID      int64           `json:"Id"`
	Name    string          `json:"Name"`
	Balance decimal.Decimal `json:"Balance"`
}

type CategoryRecord struct {
	ID   int64  `json:"Id"`
	Type Kind   `json:"Type"`
	Name string `json:"Name"`
}

type OperationRecord struct {
	ID            int64           `json:"Id"`
	Type          Kind            `json:"Type"`
	Amount        decimal.Decimal `json:"Amount"`
	Date          string          `json:"Date"`
	Description   string          `json:"Description"`
	CategoryID    int64           `json:"CategoryId"`
	BankAccountID int64           `json:"BankAccountId"`
}

func (r AccountRecord) MarshalJSON() ([]byte, error) {
	type plain AccountRecord
	return json.Marshal(struct {
		plain
		Balance json.Number `json:"Balance"`
	}{plain(r), json.Number(FormatAmount(r.Balance))})
}

func (r OperationRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID            int64       `json:"Id"`
		Type          Kind        `json:"Type"`
		Amount        json.Number `json:"Amount"`
		Date          string      `json:"Date"`
		Description   string      `json:"Description"`
		CategoryID    int64       `json:"CategoryId"`
		BankAccountID int64       `json:"BankAccountId"`
	}{r.ID, r.Type, json.Number(FormatAmount(r.Amount)), r.Date, r.Description, r.CategoryID, r.BankAccountID})
}

func (a *Account) Record() AccountRecord {
	return AccountRecord{ID: a.id, Name: a.Name, Balance: a.Balance}
}

func (c *Category) Record() CategoryRecord {
	return CategoryRecord{ID: c.id, Type: c.kind, Name: c.Name}
}

func (o *Operation) Record() OperationRecord {
	return OperationRecord{
		ID:            o.id,
		Type:          o.kind,
		Amount:        o.amount,
		Date:          o.date.Format(DateLayout),
		Description:   o.description,
		CategoryID:    o.categoryID,
		BankAccountID: o.accountID,
	}
}

func (r AccountRecord) Account() *Account {
	return NewAccount(r.ID, r.Name, r.Balance)
}

func (r CategoryRecord) Category() (*Category, error) {
	return NewCategory(r.ID, r.Type, r.Name)
}

func (r OperationRecord) Operation() (*Operation, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return NewOperation(r.ID, r.Type, r.BankAccountID, r.Amount, date, r.Description, r.CategoryID)
}
