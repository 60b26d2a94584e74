package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/berrnk/bdz1/pkg/models"
)

// Totals is the income and expense sum of a group of operations.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net returns Income - Expense.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// CategorySummary is one row of CategoryBreakdown.
type CategorySummary struct {
	CategoryID int64
	Name       string
	Totals
}

// IncomeExpenseDifference sums income minus expense over operations dated
// within [start, end], both ends included.
func (l *Ledger) IncomeExpenseDifference(start, end time.Time) decimal.Decimal {
	return l.PeriodTotals(start, end).Net()
}

// PeriodTotals returns the income and expense sums within [start, end].
func (l *Ledger) PeriodTotals(start, end time.Time) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, op := range l.store.Operations() {
		if !op.Within(start, end) {
			continue
		}
		if op.Kind() == models.Income {
			t.Income = t.Income.Add(op.Amount())
		} else {
			t.Expense = t.Expense.Add(op.Amount())
		}
	}
	return t
}

// GroupOperationsByCategory totals operations per category name. Every
// category appears, possibly with zero totals. Categories sharing a name
// collapse into one entry: the one stored last wins.
func (l *Ledger) GroupOperationsByCategory() map[string]Totals {
	out := make(map[string]Totals)
	for _, s := range l.CategoryBreakdown() {
		out[s.Name] = s.Totals
	}
	return out
}

// CategoryBreakdown totals operations per category, in category insertion
// order. Categories sharing an id all receive the totals of that id.
func (l *Ledger) CategoryBreakdown() []CategorySummary {
	byID := make(map[int64]Totals)
	for _, op := range l.store.Operations() {
		t, ok := byID[op.CategoryID()]
		if !ok {
			t = Totals{Income: decimal.Zero, Expense: decimal.Zero}
		}
		if op.Kind() == models.Income {
			t.Income = t.Income.Add(op.Amount())
		} else {
			t.Expense = t.Expense.Add(op.Amount())
		}
		byID[op.CategoryID()] = t
	}

	categories := l.store.Categories()
	out := make([]CategorySummary, len(categories))
	for i, c := range categories {
		t, ok := byID[c.ID()]
		if !ok {
			t = Totals{Income: decimal.Zero, Expense: decimal.Zero}
		}
		out[i] = CategorySummary{CategoryID: c.ID(), Name: c.Name, Totals: t}
	}
	return out
}
