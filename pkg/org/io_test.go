package org

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/orgchart/pkg/errors"
)

const chartJSON = `{
  "name": "acme",
  "members": [
    {"id": "ceo", "name": "Ada", "title": "CEO"},
    {"id": "cto", "name": "Brian", "manager": "ceo"},
    {"name": "Cleo", "manager": "cto"}
  ]
}`

const chartTOML = `
name = "acme"

[[members]]
id = "ceo"
name = "Ada"
title = "CEO"

[[members]]
id = "ops"
name = "Operations"
kind = "group"
manager = "ceo"

[[members]]
id = "dan"
name = "Dan"
manager = "ops"
`

func TestReadJSON(t *testing.T) {
	c, err := ReadJSON(strings.NewReader(chartJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if c.Name != "acme" || len(c.Members) != 3 {
		t.Fatalf("chart = %+v", c)
	}
	if _, err := uuid.Parse(c.Members[2].ID); err != nil {
		t.Errorf("generated id %q is not a uuid: %v", c.Members[2].ID, err)
	}
	if got := c.Reports("cto"); len(got) != 1 || got[0] != c.Members[2].ID {
		t.Errorf("Reports(cto) = %v", got)
	}
}

func TestReadJSONUnknownField(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"members": [{"id": "a", "salary": 1}]}`))
	if !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("ReadJSON() error = %v, want %s", err, errors.ErrCodeInvalidChart)
	}
}

func TestReadTOML(t *testing.T) {
	c, err := ReadTOML(strings.NewReader(chartTOML))
	if err != nil {
		t.Fatalf("ReadTOML() error = %v", err)
	}
	if m, _ := c.Member("ops"); !m.IsGroup() {
		t.Errorf("ops kind = %q, want group", m.Kind)
	}
	if id, _ := c.TopGroup(); id != "ops" {
		t.Errorf("TopGroup() = %q, want ops", id)
	}
}

func TestReadTOMLUnknownKey(t *testing.T) {
	_, err := ReadTOML(strings.NewReader("[[members]]\nid = \"a\"\nshoe_size = 44\n"))
	if !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("ReadTOML() error = %v, want %s", err, errors.ErrCodeInvalidChart)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"json", write("a.json", chartJSON), ""},
		{"toml", write("b.TOML", chartTOML), ""},
		{"yaml", write("c.yaml", "members: []"), errors.ErrCodeInvalidFormat},
		{"missing", filepath.Join(dir, "nope.json"), errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(tt.path)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("ReadFile() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	c, err := ReadJSON(strings.NewReader(chartJSON))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, c); err != nil {
		t.Fatal(err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(WriteJSON()) error = %v", err)
	}
	if len(back.Members) != len(c.Members) || back.Members[2].ID != c.Members[2].ID {
		t.Errorf("chart changed across write/read: %+v", back.Members)
	}
}
