package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Allocator hands out identifiers, one independent sequence per entity kind.
// It is not safe for concurrent use.
type Allocator struct {
	last map[EntityKind]int64
}

func NewAllocator() *Allocator {
	return &Allocator{last: make(map[EntityKind]int64)}
}

// Next returns the next identifier of the sequence, starting at 1.
func (a *Allocator) Next(kind EntityKind) int64 {
	a.last[kind]++
	return a.last[kind]
}

// Observe moves the sequence past id so it is never handed out.
func (a *Allocator) Observe(kind EntityKind, id int64) {
	if id > a.last[kind] {
		a.last[kind] = id
	}
}

// Last returns the highest identifier handed out or observed, 0 when none.
func (a *Allocator) Last(kind EntityKind) int64 { return a.last[kind] }

// Factory creates validated entities with freshly allocated identifiers.
type Factory struct {
	ids *Allocator
}

func NewFactory(ids *Allocator) *Factory {
	if ids == nil {
		ids = NewAllocator()
	}
	return &Factory{ids: ids}
}

// Allocator exposes the sequences backing the factory.
func (f *Factory) Allocator() *Allocator { return f.ids }

func (f *Factory) NewAccount(name string, initialBalance decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "account name", Reason: "must not be empty"}
	}
	if initialBalance.IsNegative() {
		return nil, &ValidationError{Field: "initial balance", Reason: "must not be negative"}
	}
	return NewAccount(f.ids.Next(AccountEntity), name, initialBalance), nil
}

func (f *Factory) NewCategory(kind Kind, name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "category name", Reason: "must not be empty"}
	}
	if !kind.Valid() {
		return nil, &ValidationError{Field: "category kind", Reason: kind.String() + " is not Income or Expense"}
	}
	return NewCategory(f.ids.Next(CategoryEntity), kind, name)
}

func (f *Factory) NewOperation(kind Kind, accountID int64, amount decimal.Decimal, date time.Time, description string, categoryID int64) (*Operation, error) {
	// validate before allocating so a rejected operation does not burn an id
	if _, err := NewOperation(0, kind, accountID, amount, date, description, categoryID); err != nil {
		return nil, err
	}
	return NewOperation(f.ids.Next(OperationEntity), kind, accountID, amount, date, description, categoryID)
}
