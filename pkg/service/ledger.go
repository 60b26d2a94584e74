// Package service exposes the ledger operations. It is the only path that
// keeps account balances consistent with the operations booked against them.
package service

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/store"
)

// Visitor receives every entity of a ledger during an export pass.
type Visitor interface {
	VisitAccount(*models.Account)
	VisitCategory(*models.Category)
	VisitOperation(*models.Operation)
}

// Ledger is the facade over a store. It is not safe for concurrent use;
// callers sharing one Ledger must serialize every call.
type Ledger struct {
	store   *store.Store
	factory *models.Factory
	logger  *log.Logger
}

func New(s *store.Store, f *models.Factory, logger *log.Logger) *Ledger {
	if s == nil {
		s = store.New()
	}
	if f == nil {
		f = models.NewFactory(nil)
	}
	return &Ledger{store: s, factory: f, logger: logger}
}

// Store returns the underlying store, e.g. for importers.
func (l *Ledger) Store() *store.Store { return l.store }

// SyncIdentifiers advances the id sequences past every id already in the
// store, so entities loaded without the allocator never collide with new ones.
func (l *Ledger) SyncIdentifiers() {
	ids := l.factory.Allocator()
	for _, kind := range []models.EntityKind{models.AccountEntity, models.CategoryEntity, models.OperationEntity} {
		for _, e := range l.store.All(kind) {
			ids.Observe(kind, e.ID())
		}
	}
}

// Accounts.

func (l *Ledger) CreateAccount(name string, initialBalance decimal.Decimal) (*models.Account, error) {
	acc, err := l.factory.NewAccount(name, initialBalance)
	if err != nil {
		return nil, err
	}
	if err := l.store.Add(acc); err != nil {
		return nil, err
	}
	l.logger.Debug("account created", "id", acc.ID(), "name", acc.Name, "balance", acc.Balance)
	return acc, nil
}

// EditAccount overwrites name and balance. The new balance is taken as is.
func (l *Ledger) EditAccount(id int64, name string, balance decimal.Decimal) error {
	acc, err := l.Account(id)
	if err != nil {
		return err
	}
	acc.Name = name
	acc.Balance = balance
	l.logger.Debug("account edited", "id", id, "name", name, "balance", balance)
	return nil
}

// DeleteAccount removes the account. Operations referencing it are kept.
func (l *Ledger) DeleteAccount(id int64) {
	if l.store.Remove(models.AccountEntity, id) {
		l.logger.Debug("account deleted", "id", id)
	}
}

func (l *Ledger) Account(id int64) (*models.Account, error) {
	acc, ok := l.store.Account(id)
	if !ok {
		return nil, &models.NotFoundError{Kind: models.AccountEntity, ID: id}
	}
	return acc, nil
}

func (l *Ledger) Accounts() []*models.Account { return l.store.Accounts() }

// Categories.

func (l *Ledger) CreateCategory(kind models.Kind, name string) (*models.Category, error) {
	c, err := l.factory.NewCategory(kind, name)
	if err != nil {
		return nil, err
	}
	if err := l.store.Add(c); err != nil {
		return nil, err
	}
	l.logger.Debug("category created", "id", c.ID(), "kind", kind, "name", name)
	return c, nil
}

func (l *Ledger) EditCategory(id int64, name string) error {
	c, err := l.Category(id)
	if err != nil {
		return err
	}
	c.Name = name
	l.logger.Debug("category edited", "id", id, "name", name)
	return nil
}

// DeleteCategory removes the category. Operations referencing it are kept.
func (l *Ledger) DeleteCategory(id int64) {
	if l.store.Remove(models.CategoryEntity, id) {
		l.logger.Debug("category deleted", "id", id)
	}
}

func (l *Ledger) Category(id int64) (*models.Category, error) {
	c, ok := l.store.Category(id)
	if !ok {
		return nil, &models.NotFoundError{Kind: models.CategoryEntity, ID: id}
	}
	return c, nil
}

func (l *Ledger) Categories() []*models.Category { return l.store.Categories() }

// Operations.

// CreateOperation books an operation and applies it to the account balance.
// An operation against a missing account is still recorded, without any
// balance change.
func (l *Ledger) CreateOperation(kind models.Kind, accountID int64, amount decimal.Decimal, date time.Time, description string, categoryID int64) (*models.Operation, error) {
	op, err := l.factory.NewOperation(kind, accountID, amount, date, description, categoryID)
	if err != nil {
		return nil, err
	}
	if err := l.store.Add(op); err != nil {
		return nil, err
	}
	if acc, ok := l.store.Account(accountID); ok {
		acc.Apply(kind, amount)
	} else {
		l.logger.Debug("operation references unknown account, balance untouched", "operation", op.ID(), "account", accountID)
	}
	l.logger.Debug("operation created", "id", op.ID(), "kind", kind, "account", accountID, "amount", amount)
	return op, nil
}

// EditOperation replaces amount, date and description. The owning account
// balance is deliberately left as is: only create and delete move balances.
func (l *Ledger) EditOperation(id int64, amount decimal.Decimal, date time.Time, description string) error {
	op, err := l.Operation(id)
	if err != nil {
		return err
	}
	if err := op.Amend(amount, date, description); err != nil {
		return err
	}
	l.logger.Debug("operation edited", "id", id, "amount", amount)
	return nil
}

// DeleteOperation removes the operation and reverses its balance effect.
func (l *Ledger) DeleteOperation(id int64) {
	op, ok := l.store.Operation(id)
	if !ok {
		return
	}
	l.store.Remove(models.OperationEntity, id)
	if acc, ok := l.store.Account(op.AccountID()); ok {
		acc.Revert(op.Kind(), op.Amount())
	}
	l.logger.Debug("operation deleted", "id", id)
}

func (l *Ledger) Operation(id int64) (*models.Operation, error) {
	op, ok := l.store.Operation(id)
	if !ok {
		return nil, &models.NotFoundError{Kind: models.OperationEntity, ID: id}
	}
	return op, nil
}

func (l *Ledger) Operations() []*models.Operation { return l.store.Operations() }

// ExportData feeds accounts, then categories, then operations to v.
func (l *Ledger) ExportData(v Visitor) {
	for _, a := range l.store.Accounts() {
		v.VisitAccount(a)
	}
	for _, c := range l.store.Categories() {
		v.VisitCategory(c)
	}
	for _, o := range l.store.Operations() {
		v.VisitOperation(o)
	}
}
