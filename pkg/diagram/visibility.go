package diagram

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Mode selects which members are shown.
type Mode string

const (
	ModeAll   Mode = "all"
	ModeTeams Mode = "teams"
)

// ValidModes lists the accepted modes.
var ValidModes = []Mode{ModeAll, ModeTeams}

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeAll, nil
	}
	if !slices.Contains(ValidModes, m) {
		return "", errors.New(errors.ErrCodeInvalidMode, "invalid mode: %s (must be all or teams)", s)
	}
	return m, nil
}

// Visibility controls which members of a chart are drawn.
type Visibility struct {
	Mode      Mode
	Collapsed map[string]bool
}

// IsCollapsed reports whether id's reports are hidden.
func (v Visibility) IsCollapsed(id string) bool {
	return v.Collapsed[id]
}

// Toggle returns a copy of v with id's collapsed state flipped.
func (v Visibility) Toggle(id string) Visibility {
	out := Visibility{Mode: v.Mode, Collapsed: maps.Clone(v.Collapsed)}
	if out.Collapsed == nil {
		out.Collapsed = make(map[string]bool)
	}
	if out.Collapsed[id] {
		delete(out.Collapsed, id)
	} else {
		out.Collapsed[id] = true
	}
	return out
}

// WithMode returns a copy of v using mode m.
func (v Visibility) WithMode(m Mode) Visibility {
	return Visibility{Mode: m, Collapsed: maps.Clone(v.Collapsed)}
}

// CollapsedIDs returns the collapsed member ids in sorted order.
func (v Visibility) CollapsedIDs() []string {
	return slices.Sorted(maps.Keys(v.Collapsed))
}

// NewVisibility builds a Visibility from a mode string and collapsed ids.
func NewVisibility(mode string, collapsed []string) (Visibility, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Visibility{}, err
	}
	v := Visibility{Mode: m, Collapsed: make(map[string]bool, len(collapsed))}
	for _, id := range collapsed {
		v.Collapsed[id] = true
	}
	return v, nil
}
