// Package csv holds the small delimited-text grammar shared by the CSV
// encoder and decoder: comma separated fields, double quotes around values
// that need them, sections separated by a blank line.
package csv

import (
	"bytes"
	"strings"
)

// RowFunc turns one record into its field values, in column order.
type RowFunc[T any] func(T) []string

// Create renders a header line followed by one line per record.
// Every line, the last included, ends with "\n".
func Create[T any](header []string, records []T, row RowFunc[T]) []byte {
	var buf bytes.Buffer
	writeLine(&buf, header)
	for _, r := range records {
		writeLine(&buf, row(r))
	}
	return buf.Bytes()
}

func writeLine(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(Escape(f))
	}
	buf.WriteByte('\n')
}

// Escape wraps s in double quotes, doubling inner quotes, when it contains
// a comma, a double quote or a newline. Other values are returned as is.
func Escape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// SplitFields splits one line on commas outside double quotes and
// unescapes quoted fields.
func SplitFields(line string) []string {
	var (
		fields []string
		field  strings.Builder
		quoted bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '"':
			if i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			quoted = false
		case c == '"' && field.Len() == 0:
			quoted = true
		case c == ',' && !quoted:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	return append(fields, field.String())
}

// Sections splits a document on blank lines and drops empty sections.
func Sections(doc string) []string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	var out []string
	for _, s := range strings.Split(doc, "\n\n") {
		if s = strings.Trim(s, "\n"); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Lines splits a section into its non-empty lines.
func Lines(section string) []string {
	var out []string
	for _, l := range strings.Split(section, "\n") {
		if l = strings.TrimSuffix(l, "\r"); l != "" {
			out = append(out, l)
		}
	}
	return out
}
