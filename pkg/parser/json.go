package parser

import (
	"encoding/json"
	"fmt"

	"github.com/berrnk/bdz1/pkg/models"
)

type document struct {
	Accounts   []models.AccountRecord   `json:"Accounts"`
	Categories []models.CategoryRecord  `json:"Categories"`
	Operations []models.OperationRecord `json:"Operations"`
}

// ParseJSON reads an object holding Accounts, Categories and Operations
// arrays. A missing array is read as empty.
func (p *Parser) ParseJSON(data []byte) ([]models.Entity, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &models.ParseError{Format: models.JSON, Reason: "malformed document", Err: err}
	}

	out := make([]models.Entity, 0, len(doc.Accounts)+len(doc.Categories)+len(doc.Operations))
	for _, r := range doc.Accounts {
		out = append(out, r.Account())
	}
	for i, r := range doc.Categories {
		c, err := r.Category()
		if err != nil {
			return nil, &models.ParseError{Format: models.JSON, Reason: fmt.Sprintf("Categories[%d]", i), Err: err}
		}
		out = append(out, c)
	}
	for i, r := range doc.Operations {
		o, err := r.Operation()
		if err != nil {
			return nil, &models.ParseError{Format: models.JSON, Reason: fmt.Sprintf("Operations[%d]", i), Err: err}
		}
		out = append(out, o)
	}
	p.logger.Debug("decoded json document", "accounts", len(doc.Accounts), "categories", len(doc.Categories), "operations", len(doc.Operations))
	return out, nil
}
