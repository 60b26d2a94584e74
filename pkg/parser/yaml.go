package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/berrnk/bdz1/pkg/models"
)

// block is one "- Key: value" item of a section.
type block struct {
	line   int
	fields map[string]string
}

// ParseYAML reads the block format written by the YAML encoder. It is a
// line scanner, not a YAML parser: a trimmed line ending in ':' opens a
// section, a line starting with '-' opens an item, any other line adds a
// "Key: value" pair to the current item. Items of unknown sections are
// ignored. Description is optional; every other key is required.
func (p *Parser) ParseYAML(data []byte) ([]models.Entity, error) {
	sections := map[string][]*block{}
	var (
		section string
		current *block
	)
	for n, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "-") && strings.HasSuffix(line, ":") {
			section = strings.TrimSuffix(line, ":")
			current = nil
			continue
		}
		if strings.HasPrefix(line, "-") {
			current = &block{line: n + 1, fields: map[string]string{}}
			sections[section] = append(sections[section], current)
			line = strings.TrimSpace(line[1:])
			if line == "" {
				continue
			}
		} else if current == nil {
			p.logger.Debug("skipping line outside an item", "line", n+1)
			continue
		}
		if key, value, ok := strings.Cut(line, ":"); ok {
			current.fields[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
		}
	}

	var out []models.Entity
	for _, s := range []struct {
		name  string
		build func(*block) (models.Entity, error)
	}{
		{"Accounts", yamlAccount},
		{"Categories", yamlCategory},
		{"Operations", yamlOperation},
	} {
		for _, b := range sections[s.name] {
			e, err := s.build(b)
			if err != nil {
				return nil, &models.ParseError{Format: models.YAML, Line: b.line, Reason: "in " + s.name, Err: err}
			}
			out = append(out, e)
		}
	}
	return out, nil
}

// unquote strips one pair of surrounding double quotes and unescapes \".
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return strings.ReplaceAll(v[1:len(v)-1], `\"`, `"`)
	}
	return strings.Trim(v, `"`)
}

func (b *block) required(key string) (string, error) {
	v, ok := b.fields[key]
	if !ok {
		return "", fmt.Errorf("missing required key %q", key)
	}
	return v, nil
}

func (b *block) id(key string) (int64, error) {
	v, err := b.required(key)
	if err != nil {
		return 0, err
	}
	id, err := parseID(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return id, nil
}

func (b *block) decimal(key string) (decimal.Decimal, error) {
	v, err := b.required(key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func (b *block) kind(key string) (models.Kind, error) {
	v, err := b.required(key)
	if err != nil {
		return 0, err
	}
	return models.ParseKind(v)
}

func yamlAccount(b *block) (models.Entity, error) {
	id, err := b.id("Id")
	if err != nil {
		return nil, err
	}
	name, err := b.required("Name")
	if err != nil {
		return nil, err
	}
	balance, err := b.decimal("Balance")
	if err != nil {
		return nil, err
	}
	return models.NewAccount(id, name, balance), nil
}

func yamlCategory(b *block) (models.Entity, error) {
	id, err := b.id("Id")
	if err != nil {
		return nil, err
	}
	name, err := b.required("Name")
	if err != nil {
		return nil, err
	}
	kind, err := b.kind("Type")
	if err != nil {
		return nil, err
	}
	return models.NewCategory(id, kind, name)
}

func yamlOperation(b *block) (models.Entity, error) {
	rec := models.OperationRecord{Description: b.fields["Description"]}
	var err error
	if rec.ID, err = b.id("Id"); err != nil {
		return nil, err
	}
	if rec.Type, err = b.kind("Type"); err != nil {
		return nil, err
	}
	if rec.Amount, err = b.decimal("Amount"); err != nil {
		return nil, err
	}
	if rec.Date, err = b.required("Date"); err != nil {
		return nil, err
	}
	if rec.CategoryID, err = b.id("CategoryId"); err != nil {
		return nil, err
	}
	if rec.BankAccountID, err = b.id("BankAccountId"); err != nil {
		return nil, err
	}
	return rec.Operation()
}
