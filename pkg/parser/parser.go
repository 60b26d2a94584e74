// Package parser decodes interchange documents into ledger entities.
//
// Decoders are pure: they return every entity of a document or an error,
// never a partial result. Merging into a store is the importer's job.
package parser

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/berrnk/bdz1/pkg/models"
)

// Decoder turns one whole document into entities, accounts first, then
// categories, then operations.
type Decoder interface {
	Decode(data []byte) ([]models.Entity, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte) ([]models.Entity, error)

func (f DecoderFunc) Decode(data []byte) ([]models.Entity, error) { return f(data) }

type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// Decoder returns the decoder for a format.
func (p *Parser) Decoder(format models.Format) (Decoder, error) {
	switch format {
	case models.CSV:
		return DecoderFunc(p.ParseCSV), nil
	case models.JSON:
		return DecoderFunc(p.ParseJSON), nil
	case models.YAML:
		return DecoderFunc(p.ParseYAML), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ProcessBytes decodes data with the format given by the filename extension.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]models.Entity, error) {
	format, err := models.DetectFormat(filename)
	if err != nil {
		p.logger.Debug("unknown file type", "filename", filename)
		return nil, err
	}
	p.logger.Debug("detected file type", "format", format, "filename", filename)

	dec, err := p.Decoder(format)
	if err != nil {
		return nil, err
	}
	return dec.Decode(data)
}
