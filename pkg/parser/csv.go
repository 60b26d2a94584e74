package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/berrnk/bdz1/pkg/csv"
	"github.com/berrnk/bdz1/pkg/models"
)

// ParseCSV reads the three-table document: accounts, categories and
// operations, separated by blank lines, each table starting with a header.
// Rows with too few fields are skipped. Any value that fails to parse
// fails the whole document.
//
// Quoted fields may contain commas and quotes but not line breaks.
func (p *Parser) ParseCSV(data []byte) ([]models.Entity, error) {
	sections := csv.Sections(string(data))
	if len(sections) < 3 {
		return nil, &models.ParseError{
			Format: models.CSV,
			Reason: "expected three sections (accounts, categories, operations), found " + strconv.Itoa(len(sections)),
		}
	}

	var out []models.Entity
	rows := []struct {
		min   int
		parse func([]string) (models.Entity, error)
	}{
		{3, csvAccount},
		{3, csvCategory},
		{7, csvOperation},
	}
	for i, r := range rows {
		lines := csv.Lines(sections[i])
		for n, line := range lines {
			if n == 0 {
				continue
			}
			fields := csv.SplitFields(line)
			if len(fields) < r.min {
				p.logger.Debug("skipping short row", "section", i+1, "row", n, "fields", len(fields))
				continue
			}
			e, err := r.parse(fields)
			if err != nil {
				return nil, &models.ParseError{
					Format: models.CSV,
					Reason: "section " + strconv.Itoa(i+1) + " row " + strconv.Itoa(n),
					Err:    err,
				}
			}
			out = append(out, e)
		}
	}
	return out, nil
}

func csvAccount(f []string) (models.Entity, error) {
	id, err := parseID(f[0])
	if err != nil {
		return nil, err
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(f[2]))
	if err != nil {
		return nil, err
	}
	return models.NewAccount(id, f[1], balance), nil
}

func csvCategory(f []string) (models.Entity, error) {
	id, err := parseID(f[0])
	if err != nil {
		return nil, err
	}
	kind, err := models.ParseKind(f[2])
	if err != nil {
		return nil, err
	}
	return models.NewCategory(id, kind, f[1])
}

func csvOperation(f []string) (models.Entity, error) {
	rec := models.OperationRecord{Date: f[3], Description: f[4]}
	var err error
	if rec.ID, err = parseID(f[0]); err != nil {
		return nil, err
	}
	if rec.Type, err = models.ParseKind(f[1]); err != nil {
		return nil, err
	}
	if rec.Amount, err = decimal.NewFromString(strings.TrimSpace(f[2])); err != nil {
		return nil, err
	}
	if rec.CategoryID, err = parseID(f[5]); err != nil {
		return nil, err
	}
	if rec.BankAccountID, err = parseID(f[6]); err != nil {
		return nil, err
	}
	return rec.Operation()
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
