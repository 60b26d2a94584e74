package plan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrnk/bdz1/pkg/models"
)

const sample = `accounts:
  - name: Checking
    balance: 1000.50
categories:
  - name: Salary
    type: Income
  - name: Food
    type: expense
operations:
  - type: Income
    account: Checking
    category: Salary
    amount: 2000
    date: 2024-03-01
    description: March pay
  - type: 1
    account: Checking
    category: Food
    amount: "12.30"
    date: 2024-03-02
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	require.Len(t, p.Accounts, 1)
	assert.Equal(t, "1000.5", p.Accounts[0].Balance.String())
	require.Len(t, p.Categories, 2)
	assert.Equal(t, models.Expense, p.Categories[1].Type)
	require.Len(t, p.Operations, 2)
	assert.Equal(t, models.Expense, p.Operations[1].Type)
	assert.Equal(t, "12.3", p.Operations[1].Amount.String())
	assert.Equal(t, "2024-03-01", p.Operations[0].Date)
	assert.Equal(t, "", p.Operations[1].Description)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"empty":       "accounts: []\n",
		"bad yaml":    "accounts: [\n",
		"bad kind":    "categories:\n  - name: x\n    type: gift\n",
		"no account":  "operations:\n  - type: Income\n    category: x\n    amount: 1\n    date: 2024-01-01\n",
		"no category": "operations:\n  - type: Income\n    account: x\n    amount: 1\n    date: 2024-01-01\n",
		"bad date":    "operations:\n  - type: Income\n    account: x\n    category: y\n    amount: 1\n    date: someday\n",
		"bad amount":  "operations:\n  - type: Income\n    account: x\n    category: y\n    amount: lots\n    date: 2024-01-01\n",
	}
	for name, doc := range tests {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFprint(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	p.Fprint(&buf)
	assert.Equal(t, "accounts=1 categories=2 operations=2\n"+
		"[a1] name=Checking balance=1000.5\n"+
		"[c1] name=Salary type=Income\n"+
		"[c2] name=Food type=Expense\n"+
		"[o1] type=Income account=Checking category=Salary amount=2000 date=2024-03-01\n"+
		"[o2] type=Expense account=Checking category=Food amount=12.3 date=2024-03-02\n", buf.String())
}
