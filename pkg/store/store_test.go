package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrnk/bdz1/pkg/models"
)

func TestStoreAddFindRemove(t *testing.T) {
	s := New()
	a1 := models.NewAccount(1, "Checking", decimal.NewFromInt(100))
	a2 := models.NewAccount(2, "Savings", decimal.Zero)
	c1, err := models.NewCategory(1, models.Income, "Salary")
	require.NoError(t, err)

	require.NoError(t, s.Add(a1))
	require.NoError(t, s.Add(a2))
	require.NoError(t, s.Add(c1))

	got, ok := s.Find(models.AccountEntity, 2)
	require.True(t, ok)
	assert.Same(t, a2, got)

	// ids are per kind: category 1 and account 1 coexist
	got, ok = s.Find(models.CategoryEntity, 1)
	require.True(t, ok)
	assert.Same(t, c1, got)

	_, ok = s.Find(models.OperationEntity, 1)
	assert.False(t, ok)

	assert.True(t, s.Remove(models.AccountEntity, 1))
	assert.False(t, s.Remove(models.AccountEntity, 1))
	assert.Equal(t, []*models.Account{a2}, s.Accounts())
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	s := New()
	for _, id := range []int64{5, 2, 9} {
		op, err := models.NewOperation(id, models.Expense, 1, decimal.NewFromInt(id), time.Now(), "", 1)
		require.NoError(t, err)
		require.NoError(t, s.Add(op))
	}

	var ids []int64
	for _, e := range s.All(models.OperationEntity) {
		ids = append(ids, e.ID())
	}
	assert.Equal(t, []int64{5, 2, 9}, ids)
	assert.Equal(t, 3, s.Len(models.OperationEntity))
}

func TestStoreAcceptsDuplicateIDs(t *testing.T) {
	s := New()
	first := models.NewAccount(1, "first", decimal.Zero)
	second := models.NewAccount(1, "second", decimal.Zero)
	require.NoError(t, s.Add(first))
	require.NoError(t, s.Add(second))

	assert.Len(t, s.Accounts(), 2)
	got, ok := s.Account(1)
	require.True(t, ok)
	assert.Same(t, first, got)

	require.True(t, s.Remove(models.AccountEntity, 1))
	got, ok = s.Account(1)
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestStoreSnapshotsAreDetached(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(models.NewAccount(1, "a", decimal.Zero)))

	snap := s.Accounts()
	snap[0] = nil

	assert.Len(t, s.Accounts(), 1)
	assert.NotNil(t, s.Accounts()[0])
}

func TestStoreRejectsUnknownEntity(t *testing.T) {
	assert.Error(t, New().Add(nil))
}
