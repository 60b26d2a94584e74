package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"two\nlines", "\"two\nlines\""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Escape(tt.in), tt.in)
	}
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{"1", "Checking", "10.5"}, SplitFields("1,Checking,10.5"))
	assert.Equal(t, []string{"1", "a,b", ""}, SplitFields(`1,"a,b",`))
	assert.Equal(t, []string{`say "hi"`, "x"}, SplitFields(`"say ""hi""",x`))
	assert.Equal(t, []string{""}, SplitFields(""))
}

func TestSplitFieldsInvertsEscape(t *testing.T) {
	values := []string{"a", `q"uote`, "com,ma", ""}
	var line string
	for i, v := range values {
		if i > 0 {
			line += ","
		}
		line += Escape(v)
	}
	assert.Equal(t, values, SplitFields(line))
}

func TestCreate(t *testing.T) {
	type row struct{ id, name string }
	got := Create([]string{"Id", "Name"}, []row{{"1", "a"}, {"2", "b,c"}}, func(r row) []string {
		return []string{r.id, r.name}
	})
	assert.Equal(t, "Id,Name\n1,a\n2,\"b,c\"\n", string(got))

	empty := Create[row]([]string{"Id", "Name"}, nil, nil)
	assert.Equal(t, "Id,Name\n", string(empty))
}

func TestSectionsAndLines(t *testing.T) {
	doc := "A\n1\n\nB\r\n2\r\n\r\nC\n\n\n"
	sections := Sections(doc)
	assert.Equal(t, []string{"A\n1", "B\n2", "C"}, sections)
	assert.Equal(t, []string{"A", "1"}, Lines(sections[0]))
	assert.Equal(t, []string{"x", "y"}, Lines("x\r\n\ny\n"))
}
