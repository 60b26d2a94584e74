// Package store keeps every live entity of a ledger in memory.
//
// Collections preserve insertion order and are addressed by a linear scan on
// the identifier. Nothing enforces uniqueness: adding an entity whose id is
// already present keeps both. The store is not safe for concurrent use.
package store

import (
	"fmt"
	"slices"

	"github.com/berrnk/bdz1/pkg/models"
)

type collection[T models.Entity] struct {
	items []T
}

func (c *collection[T]) add(item T) {
	c.items = append(c.items, item)
}

func (c *collection[T]) index(id int64) int {
	return slices.IndexFunc(c.items, func(item T) bool { return item.ID() == id })
}

func (c *collection[T]) find(id int64) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// remove drops the first entity carrying id.
func (c *collection[T]) remove(id int64) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

func (c *collection[T]) all() []T {
	return slices.Clone(c.items)
}

// Store holds accounts, categories and operations.
type Store struct {
	accounts   collection[*models.Account]
	categories collection[*models.Category]
	operations collection[*models.Operation]
}

func New() *Store {
	return &Store{}
}

// Add appends an entity to the collection of its kind.
func (s *Store) Add(e models.Entity) error {
	switch v := e.(type) {
	case *models.Account:
		s.accounts.add(v)
	case *models.Category:
		s.categories.add(v)
	case *models.Operation:
		s.operations.add(v)
	default:
		return fmt.Errorf("store: unsupported entity %T", e)
	}
	return nil
}

// Remove deletes the entity of the given kind and id, reporting whether one was found.
func (s *Store) Remove(kind models.EntityKind, id int64) bool {
	switch kind {
	case models.AccountEntity:
		return s.accounts.remove(id)
	case models.CategoryEntity:
		return s.categories.remove(id)
	case models.OperationEntity:
		return s.operations.remove(id)
	}
	return false
}

// Find returns the first entity of the given kind carrying id.
func (s *Store) Find(kind models.EntityKind, id int64) (models.Entity, bool) {
	switch kind {
	case models.AccountEntity:
		if a, ok := s.accounts.find(id); ok {
			return a, true
		}
	case models.CategoryEntity:
		if c, ok := s.categories.find(id); ok {
			return c, true
		}
	case models.OperationEntity:
		if o, ok := s.operations.find(id); ok {
			return o, true
		}
	}
	return nil, false
}

// All returns a snapshot of the given collection in insertion order.
func (s *Store) All(kind models.EntityKind) []models.Entity {
	var out []models.Entity
	switch kind {
	case models.AccountEntity:
		for _, a := range s.accounts.items {
			out = append(out, a)
		}
	case models.CategoryEntity:
		for _, c := range s.categories.items {
			out = append(out, c)
		}
	case models.OperationEntity:
		for _, o := range s.operations.items {
			out = append(out, o)
		}
	}
	return out
}

// Len reports how many entities of the given kind are held.
func (s *Store) Len(kind models.EntityKind) int {
	switch kind {
	case models.AccountEntity:
		return len(s.accounts.items)
	case models.CategoryEntity:
		return len(s.categories.items)
	case models.OperationEntity:
		return len(s.operations.items)
	}
	return 0
}

func (s *Store) Account(id int64) (*models.Account, bool)     { return s.accounts.find(id) }
func (s *Store) Category(id int64) (*models.Category, bool)   { return s.categories.find(id) }
func (s *Store) Operation(id int64) (*models.Operation, bool) { return s.operations.find(id) }

func (s *Store) Accounts() []*models.Account     { return s.accounts.all() }
func (s *Store) Categories() []*models.Category  { return s.categories.all() }
func (s *Store) Operations() []*models.Operation { return s.operations.all() }
