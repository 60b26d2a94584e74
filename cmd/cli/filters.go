package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/berrnk/bdz1/pkg/models"
)

type filters struct {
	startDate   string
	endDate     string
	minAmount   string
	maxAmount   string
	kind        string
	description string
}

type filterFunc func(*models.Operation) bool

func (f *filters) toFilterFunc() (filterFunc, error) {
	var (
		start, end time.Time
		lo, hi     decimal.Decimal
		kind       models.Kind
		err        error
	)
	if f.startDate != "" {
		if start, err = models.ParseDate(f.startDate); err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
	}
	if f.endDate != "" {
		if end, err = models.ParseDate(f.endDate); err != nil {
			return nil, fmt.Errorf("--end: %w", err)
		}
	}
	if f.minAmount != "" {
		if lo, err = decimal.NewFromString(f.minAmount); err != nil {
			return nil, fmt.Errorf("--min: %w", err)
		}
	}
	if f.maxAmount != "" {
		if hi, err = decimal.NewFromString(f.maxAmount); err != nil {
			return nil, fmt.Errorf("--max: %w", err)
		}
	}
	if f.kind != "" {
		if kind, err = models.ParseKind(f.kind); err != nil {
			return nil, fmt.Errorf("--type: %w", err)
		}
	}

	return func(o *models.Operation) bool {
		if f.startDate != "" && o.Date().Before(start) {
			return false
		}
		if f.endDate != "" && o.Date().After(end) {
			return false
		}
		if f.minAmount != "" && o.Amount().LessThan(lo) {
			return false
		}
		if f.maxAmount != "" && o.Amount().GreaterThan(hi) {
			return false
		}
		if f.kind != "" && o.Kind() != kind {
			return false
		}
		if f.description != "" && !strings.Contains(strings.ToLower(o.Description()), strings.ToLower(f.description)) {
			return false
		}
		return true
	}, nil
}
