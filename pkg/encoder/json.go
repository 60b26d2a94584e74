package encoder

import (
	"encoding/json"
	"io"

	"github.com/berrnk/bdz1/pkg/models"
)

// JSON writes indented arrays of the entity records.
type JSON struct {
	entities
}

// Document is the single document layout, also read back by the JSON decoder.
type Document struct {
	Accounts   []models.AccountRecord   `json:"Accounts"`
	Categories []models.CategoryRecord  `json:"Categories"`
	Operations []models.OperationRecord `json:"Operations"`
}

func (e *JSON) document() Document {
	doc := Document{
		Accounts:   make([]models.AccountRecord, 0, len(e.accounts)),
		Categories: make([]models.CategoryRecord, 0, len(e.categories)),
		Operations: make([]models.OperationRecord, 0, len(e.operations)),
	}
	for _, a := range e.accounts {
		doc.Accounts = append(doc.Accounts, a.Record())
	}
	for _, c := range e.categories {
		doc.Categories = append(doc.Categories, c.Record())
	}
	for _, o := range e.operations {
		doc.Operations = append(doc.Operations, o.Record())
	}
	return doc
}

func (e *JSON) Flush(accounts, categories, operations io.Writer) error {
	doc := e.document()
	if err := writeJSON(accounts, doc.Accounts); err != nil {
		return err
	}
	if err := writeJSON(categories, doc.Categories); err != nil {
		return err
	}
	return writeJSON(operations, doc.Operations)
}

func (e *JSON) WriteDocument(w io.Writer) error {
	return writeJSON(w, e.document())
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeAll(w, data, []byte("\n"))
}
