package importer

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/parser"
	"github.com/berrnk/bdz1/pkg/store"
)

// Report is the outcome of one import. A failed import merges nothing and
// carries the reason in Failure; callers that need to tell a failure from
// an empty document check Failed.
type Report struct {
	Source     string
	Accounts   int
	Categories int
	Operations int
	Failure    string
}

func (r Report) Failed() bool { return r.Failure != "" }

// Total is the number of entities merged.
func (r Report) Total() int { return r.Accounts + r.Categories + r.Operations }

func (r Report) String() string {
	if r.Failed() {
		return fmt.Sprintf("import of %s failed: %s", r.Source, r.Failure)
	}
	return fmt.Sprintf("imported %d objects from %s (%d accounts, %d categories, %d operations)",
		r.Total(), r.Source, r.Accounts, r.Categories, r.Operations)
}

// Import decodes data and appends every entity to s. Entities go straight
// into the store: balances are taken as written and ids are not checked for
// duplicates. Decoding happens before any merge, so a document that fails
// to decode leaves s untouched.
//
// Import never returns an error. Read and decode failures are reported in
// Report.Failure so an interactive caller keeps going.
func Import(s *store.Store, dec parser.Decoder, data []byte) Report {
	var r Report
	entities, err := dec.Decode(data)
	if err != nil {
		r.Failure = err.Error()
		return r
	}
	for _, e := range entities {
		switch e.(type) {
		case *models.Account, *models.Category, *models.Operation:
		default:
			r.Failure = fmt.Sprintf("decoder produced unsupported entity %T", e)
			return r
		}
	}
	for _, e := range entities {
		_ = s.Add(e)
		switch e.Entity() {
		case models.AccountEntity:
			r.Accounts++
		case models.CategoryEntity:
			r.Categories++
		case models.OperationEntity:
			r.Operations++
		}
	}
	return r
}

// Importer reads documents from files or bytes into a store.
type Importer struct {
	store  *store.Store
	parser *parser.Parser
	logger *log.Logger
}

func New(s *store.Store, p *parser.Parser, logger *log.Logger) *Importer {
	return &Importer{store: s, parser: p, logger: logger}
}

// ImportFile imports the document at path. An empty format is detected
// from the file extension.
func (i *Importer) ImportFile(path string, format models.Format) Report {
	if format == "" {
		f, err := models.DetectFormat(path)
		if err != nil {
			return i.fail(Report{Source: path, Failure: err.Error()})
		}
		format = f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return i.fail(Report{Source: path, Failure: err.Error()})
	}
	return i.ImportBytes(data, format, path)
}

// ImportBytes imports one in-memory document. source only labels the report.
func (i *Importer) ImportBytes(data []byte, format models.Format, source string) Report {
	dec, err := i.parser.Decoder(format)
	if err != nil {
		return i.fail(Report{Source: source, Failure: err.Error()})
	}
	r := Import(i.store, dec, data)
	r.Source = source
	if r.Failed() {
		return i.fail(r)
	}
	i.logger.Info("import complete", "source", source, "format", format,
		"accounts", r.Accounts, "categories", r.Categories, "operations", r.Operations)
	return r
}

func (i *Importer) fail(r Report) Report {
	i.logger.Warn("import failed", "source", r.Source, "reason", r.Failure)
	return r
}
