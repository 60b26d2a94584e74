package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date layout used by every interchange format.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a calendar date. Timestamps are accepted and truncated to their day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected %s", s, DateLayout)
}

// Entity is implemented by the three record kinds held in a ledger.
type Entity interface {
	ID() int64
	Entity() EntityKind
}

// Account is a money holder. Name and Balance are mutable, the id is not.
type Account struct {
	id      int64
	Name    string
	Balance decimal.Decimal
}

// NewAccount builds an account without validation, as decoders do.
// Use Factory.NewAccount for validated creation.
func NewAccount(id int64, name string, balance decimal.Decimal) *Account {
	return &Account{id: id, Name: name, Balance: balance}
}

func (a *Account) ID() int64          { return a.id }
func (a *Account) Entity() EntityKind { return AccountEntity }

// Apply adds the signed effect of an operation of the given kind to the balance.
func (a *Account) Apply(kind Kind, amount decimal.Decimal) {
	if kind == Expense {
		a.Balance = a.Balance.Sub(amount)
		return
	}
	a.Balance = a.Balance.Add(amount)
}

// Revert undoes Apply for the same kind and amount.
func (a *Account) Revert(kind Kind, amount decimal.Decimal) {
	if kind == Expense {
		a.Balance = a.Balance.Add(amount)
		return
	}
	a.Balance = a.Balance.Sub(amount)
}

func (a *Account) String() string {
	return fmt.Sprintf("Id: %d, Account: %s, Balance: %s", a.id, a.Name, a.Balance)
}

// Category groups operations. Its kind is fixed at creation, its name is not.
type Category struct {
	id   int64
	kind Kind
	Name string
}

func NewCategory(id int64, kind Kind, name string) (*Category, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Field: "category kind", Reason: kind.String() + " is not Income or Expense"}
	}
	return &Category{id: id, kind: kind, Name: name}, nil
}

func (c *Category) ID() int64          { return c.id }
func (c *Category) Entity() EntityKind { return CategoryEntity }
func (c *Category) Kind() Kind         { return c.kind }

func (c *Category) String() string {
	return fmt.Sprintf("Category: Id: %d, %s (%s)", c.id, c.Name, c.kind)
}

// Operation is a single income or expense booked against an account.
// Account and category ids are references only; nothing checks they exist.
type Operation struct {
	id          int64
	kind        Kind
	accountID   int64
	amount      decimal.Decimal
	date        time.Time
	description string
	categoryID  int64
}

func NewOperation(id int64, kind Kind, accountID int64, amount decimal.Decimal, date time.Time, description string, categoryID int64) (*Operation, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Field: "operation kind", Reason: kind.String() + " is not Income or Expense"}
	}
	if amount.IsNegative() {
		return nil, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return &Operation{
		id:          id,
		kind:        kind,
		accountID:   accountID,
		amount:      amount,
		date:        Day(date),
		description: description,
		categoryID:  categoryID,
	}, nil
}

func (o *Operation) ID() int64               { return o.id }
func (o *Operation) Entity() EntityKind      { return OperationEntity }
func (o *Operation) Kind() Kind              { return o.kind }
func (o *Operation) AccountID() int64        { return o.accountID }
func (o *Operation) Amount() decimal.Decimal { return o.amount }
func (o *Operation) Date() time.Time         { return o.date }
func (o *Operation) Description() string     { return o.description }
func (o *Operation) CategoryID() int64       { return o.categoryID }

// Amend replaces the editable fields. Account balances are not touched.
func (o *Operation) Amend(amount decimal.Decimal, date time.Time, description string) error {
	if amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	o.amount = amount
	o.date = Day(date)
	o.description = description
	return nil
}

// Within reports whether the operation date falls in [start, end], by calendar day.
func (o *Operation) Within(start, end time.Time) bool {
	return !o.date.Before(Day(start)) && !o.date.After(Day(end))
}

func (o *Operation) String() string {
	return fmt.Sprintf("Operation: Id: %d, %s, Amount: %s, Date: %s", o.id, o.kind, o.amount, o.date.Format(DateLayout))
}
