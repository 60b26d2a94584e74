package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects one of the three interchange encodings.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formats lists every supported format in menu order.
var Formats = []Format{CSV, JSON, YAML}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// DetectFormat derives the format from a file name extension.
func DetectFormat(filename string) (Format, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "", fmt.Errorf("cannot detect format of %q: no extension", filename)
	}
	return ParseFormat(ext)
}

// Ext returns the file extension, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}
