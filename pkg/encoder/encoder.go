// Package encoder writes a ledger out in one of the interchange formats.
//
// An Encoder is fed every entity through its Visit methods, then written
// either as three documents (one per entity kind) with Flush, or as a
// single document with WriteDocument. Encoders keep references to the
// visited entities and are meant for one export pass.
package encoder

import (
	"fmt"
	"io"
	"os"

	"github.com/berrnk/bdz1/pkg/models"
)

type Encoder interface {
	VisitAccount(*models.Account)
	VisitCategory(*models.Category)
	VisitOperation(*models.Operation)

	// Flush writes the accounts, categories and operations documents.
	Flush(accounts, categories, operations io.Writer) error
	// WriteDocument writes every entity as one importable document.
	WriteDocument(w io.Writer) error
}

// New returns an empty encoder for the format.
func New(format models.Format) (Encoder, error) {
	switch format {
	case models.CSV:
		return &CSV{}, nil
	case models.JSON:
		return &JSON{}, nil
	case models.YAML:
		return &YAML{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFiles flushes enc into three files. Files are written in order and
// the first failure is returned; files already written are left in place.
func WriteFiles(enc Encoder, accountsPath, categoriesPath, operationsPath string) error {
	paths := []string{accountsPath, categoriesPath, operationsPath}
	outs := make([]*fileSink, len(paths))
	for i, p := range paths {
		outs[i] = &fileSink{path: p}
	}
	if err := enc.Flush(outs[0], outs[1], outs[2]); err != nil {
		return err
	}
	for _, o := range outs {
		if err := o.commit(); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes enc as a single document.
func WriteFile(enc Encoder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enc.WriteDocument(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// fileSink buffers one document and writes it to its path on commit.
type fileSink struct {
	path string
	data []byte
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.data = append(s.data, p...)
	return len(p), nil
}

func (s *fileSink) commit() error {
	if err := os.WriteFile(s.path, s.data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// entities is the visit state shared by every encoder.
type entities struct {
	accounts   []*models.Account
	categories []*models.Category
	operations []*models.Operation
}

func (e *entities) VisitAccount(a *models.Account)     { e.accounts = append(e.accounts, a) }
func (e *entities) VisitCategory(c *models.Category)   { e.categories = append(e.categories, c) }
func (e *entities) VisitOperation(o *models.Operation) { e.operations = append(e.operations, o) }

func writeAll(w io.Writer, docs ...[]byte) error {
	for _, d := range docs {
		if _, err := w.Write(d); err != nil {
			return err
		}
	}
	return nil
}
