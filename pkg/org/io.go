package org

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// ReadJSON decodes and validates a chart in JSON form.
func ReadJSON(r io.Reader) (*Chart, error) {
	var c Chart
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode json chart")
	}
	return finish(&c)
}

// ReadTOML decodes and validates a chart in TOML form:
//
//	name = "Acme"
//
//	[[members]]
//	id = "ceo"
//	name = "Ada"
func ReadTOML(r io.Reader) (*Chart, error) {
	var c Chart
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode toml chart")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidChart, "unknown toml keys: %v", undecoded)
	}
	return finish(&c)
}

// ReadFile reads a chart, choosing the decoder by file extension.
func ReadFile(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "chart %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(f)
	case ".toml":
		return ReadTOML(f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported chart file %q (want .json or .toml)", filepath.Base(path))
	}
}

// WriteJSON encodes c as indented JSON.
func WriteJSON(w io.Writer, c *Chart) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func finish(c *Chart) (*Chart, error) {
	assignIDs(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func assignIDs(c *Chart) {
	for i := range c.Members {
		if strings.TrimSpace(c.Members[i].ID) == "" {
			c.Members[i].ID = uuid.NewString()
		}
	}
}
