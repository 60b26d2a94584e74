package executors

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/plan"
	"github.com/berrnk/bdz1/pkg/service"
	"github.com/berrnk/bdz1/pkg/store"
)

const sample = `accounts:
  - name: Checking
    balance: 1000
  - name: Cash
    balance: 50
categories:
  - name: Salary
    type: Income
  - name: Food
    type: Expense
operations:
  - type: Income
    account: Checking
    category: Salary
    amount: 2000
    date: 2024-03-01
    description: March pay
  - type: Expense
    account: Cash
    category: Food
    amount: 12.5
    date: 2024-03-02
`

func setup(t *testing.T) (*Executor, *service.Ledger, *bytes.Buffer) {
	t.Helper()
	l := service.New(store.New(), models.NewFactory(nil), log.New(io.Discard))
	e := New(log.New(io.Discard), l)
	var out bytes.Buffer
	e.SetOutput(&out)
	return e, l, &out
}

func load(t *testing.T, doc string) *plan.Plan {
	t.Helper()
	p, err := plan.Parse([]byte(doc))
	require.NoError(t, err)
	return p
}

func TestPlanDoesNotTouchLedger(t *testing.T) {
	e, l, out := setup(t)
	_, err := l.CreateAccount("Checking", decimal.NewFromInt(1000))
	require.NoError(t, err)

	report, err := e.Plan(load(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 1, report.ExistingCount())
	assert.Equal(t, 5, report.MissingCount())
	assert.Len(t, l.Accounts(), 1)
	assert.Empty(t, l.Operations())

	assert.Contains(t, out.String(), "= account   Checking")
	assert.Contains(t, out.String(), "+ account   Cash")
	assert.Contains(t, out.String(), "Plan: 5 item(s) will be added, 1 already in the ledger")
}

func TestApplyCreatesThroughService(t *testing.T) {
	e, l, _ := setup(t)
	report, err := e.Apply(load(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 6, report.MissingCount())

	accounts := l.Accounts()
	require.Len(t, accounts, 2)
	assert.Equal(t, "3000", accounts[0].Balance.String())
	assert.Equal(t, "37.5", accounts[1].Balance.String())

	ops := l.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, accounts[1].ID(), ops[1].AccountID())
	assert.Equal(t, l.Categories()[1].ID(), ops[1].CategoryID())
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), ops[1].Date())
}

func TestApplyIsIdempotent(t *testing.T) {
	e, l, out := setup(t)
	p := load(t, sample)
	_, err := e.Apply(p)
	require.NoError(t, err)

	report, err := e.Apply(p)
	require.NoError(t, err)
	assert.Equal(t, 0, report.MissingCount())
	assert.Len(t, l.Accounts(), 2)
	assert.Len(t, l.Operations(), 2)
	assert.Equal(t, "3000", l.Accounts()[0].Balance.String())

	out.Reset()
	_, err = e.Plan(p)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Plan: all 6 item(s) already in the ledger")
}

func TestBuildReportUnknownReferences(t *testing.T) {
	_, l, _ := setup(t)
	doc := "operations:\n  - type: Income\n    account: Nowhere\n    category: Salary\n    amount: 1\n    date: 2024-01-01\n"
	_, err := BuildReport(load(t, doc), l)
	assert.ErrorContains(t, err, `unknown account "Nowhere"`)

	_, err = l.CreateAccount("Nowhere", decimal.Zero)
	require.NoError(t, err)
	_, err = BuildReport(load(t, doc), l)
	assert.ErrorContains(t, err, `unknown category "Salary"`)
}

func TestApplyStopsOnValidationError(t *testing.T) {
	e, l, _ := setup(t)
	doc := "accounts:\n  - name: Good\n    balance: 1\n  - name: Bad\n    balance: -1\n"
	_, err := e.Apply(load(t, doc))
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Len(t, l.Accounts(), 1)
}

func TestSummary(t *testing.T) {
	e, _, out := setup(t)
	_, err := e.Apply(load(t, sample))
	require.NoError(t, err)
	out.Reset()

	e.Summary(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	s := out.String()
	assert.Contains(t, s, "Checking")
	assert.Contains(t, s, "3000.00")
	assert.Contains(t, s, "Salary")
	assert.Contains(t, s, "Period 2024-03-01 .. 2024-03-31")
	assert.Contains(t, s, "difference        1987.50")
}
