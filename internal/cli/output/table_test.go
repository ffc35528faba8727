package output

import (
	"bytes"
	"strings"
	"testing"
)

type tabled struct{}

func (tabled) Table() *Table {
	return &Table{Headers: []string{"X"}, Rows: [][]string{{"custom"}}}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTable_Render(t *testing.T) {
	table := &Table{Headers: []string{"KEY", "VALUE"}}
	table.AddRow("a", "1")
	table.AddRow("longer-key", "2")

	var buf bytes.Buffer
	if err := table.Render(&buf, false); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got := lines(buf.String())
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(got), buf.String())
	}
	if !strings.HasPrefix(got[0], "KEY") {
		t.Errorf("header line = %q", got[0])
	}
	// Columns are aligned.
	if strings.Index(got[1], "1") != strings.Index(got[2], "2") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}

	buf.Reset()
	if err := table.Render(&buf, true); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "KEY") {
		t.Error("headers rendered with noHeaders")
	}
}

func TestTableFormatter_Format(t *testing.T) {
	tests := []struct {
		name    string
		data    any
		want    []string
		notWant []string
	}{
		{
			name:    "slice of structs",
			data:    []sample{{Name: "a", Count: 1, Hidden: "h"}, {Name: "", Count: 2}},
			want:    []string{"NAME", "COUNT", "a", "-"},
			notWant: []string{"HIDDEN"},
		},
		{
			name: "slice of pointers",
			data: []*sample{{Name: "p"}, nil},
			want: []string{"NAME", "p"},
		},
		{
			name: "single struct",
			data: &sample{Name: "one", Count: 3},
			want: []string{"FIELD", "VALUE", "name", "one", "count", "3"},
		},
		{
			name: "byte slice cell",
			data: []struct {
				Value []byte `json:"value"`
			}{{Value: []byte("raw")}},
			want: []string{"VALUE", "raw"},
		},
		{
			name: "tabler",
			data: tabled{},
			want: []string{"X", "custom"},
		},
		{
			name: "falls back to json",
			data: map[string]int{"a": 1},
			want: []string{`"a": 1`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&TableFormatter{}).Format(&buf, tt.data); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output contains %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestTableFormatter_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
