package org

import (
	"github.com/matzehuels/orgchart/pkg/errors"
)

// Kind distinguishes people from grouping nodes.
type Kind string

const (
	KindPerson Kind = "person"
	KindGroup  Kind = "group"
)

// Member is one entry of a chart.
type Member struct {
	ID      string `json:"id" toml:"id"`
	Name    string `json:"name" toml:"name"`
	Title   string `json:"title,omitempty" toml:"title"`
	Team    string `json:"team,omitempty" toml:"team"`
	Manager string `json:"manager,omitempty" toml:"manager"`
	Kind    Kind   `json:"kind,omitempty" toml:"kind"`
}

// IsGroup reports whether m is a grouping node.
func (m Member) IsGroup() bool { return m.Kind == KindGroup }

// Chart is an organization chart. Call Validate before using the query
// methods on a chart that was built by hand.
type Chart struct {
	Name    string   `json:"name,omitempty" toml:"name"`
	Members []Member `json:"members" toml:"members"`

	byID    map[string]int
	reports map[string][]string
	root    string
}

// Sentinel errors returned by Validate, wrapped with details.
var (
	ErrNoRoot        = errors.New(errors.ErrCodeInvalidChart, "chart has no top-level member")
	ErrMultipleRoots = errors.New(errors.ErrCodeInvalidChart, "chart has more than one top-level member")
	ErrCycle         = errors.New(errors.ErrCodeInvalidChart, "reporting lines form a cycle")
)

// Validate checks ids, kinds and reporting lines and indexes the chart.
func (c *Chart) Validate() error {
	byID := make(map[string]int, len(c.Members))
	for i := range c.Members {
		m := &c.Members[i]
		if err := errors.ValidateMemberID(m.ID); err != nil {
			return err
		}
		if _, dup := byID[m.ID]; dup {
			return errors.New(errors.ErrCodeInvalidChart, "duplicate member id %q", m.ID)
		}
		switch m.Kind {
		case "":
			m.Kind = KindPerson
		case KindPerson, KindGroup:
		default:
			return errors.New(errors.ErrCodeInvalidChart, "member %q: unknown kind %q", m.ID, m.Kind)
		}
		if m.Name == "" {
			m.Name = m.ID
		}
		byID[m.ID] = i
	}

	reports := make(map[string][]string)
	var roots []string
	for _, m := range c.Members {
		if m.Manager == "" {
			roots = append(roots, m.ID)
			continue
		}
		if m.Manager == m.ID {
			return errors.Wrap(errors.ErrCodeInvalidChart, ErrCycle, "member %q manages itself", m.ID)
		}
		if _, ok := byID[m.Manager]; !ok {
			return errors.New(errors.ErrCodeInvalidChart, "member %q: unknown manager %q", m.ID, m.Manager)
		}
		reports[m.Manager] = append(reports[m.Manager], m.ID)
	}
	switch {
	case len(roots) == 0:
		return ErrNoRoot
	case len(roots) > 1:
		return errors.Wrap(errors.ErrCodeInvalidChart, ErrMultipleRoots, "top-level members %v", roots)
	}

	// every member must be reachable from the root, otherwise some
	// reporting chain loops back on itself
	seen := make(map[string]bool, len(c.Members))
	stack := []string{roots[0]}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen[id] = true
		stack = append(stack, reports[id]...)
	}
	for _, m := range c.Members {
		if !seen[m.ID] {
			return errors.Wrap(errors.ErrCodeInvalidChart, ErrCycle, "member %q is not below %q", m.ID, roots[0])
		}
	}

	c.byID, c.reports, c.root = byID, reports, roots[0]
	return nil
}

// Root returns the id of the member without a manager.
func (c *Chart) Root() string { return c.root }

// Member looks up a member by id.
func (c *Chart) Member(id string) (Member, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Member{}, false
	}
	return c.Members[i], true
}

// Reports returns the direct reports of id in chart order.
func (c *Chart) Reports(id string) []string { return c.reports[id] }

// IsIndividualContributor reports whether id is a person without reports.
func (c *Chart) IsIndividualContributor(id string) bool {
	m, ok := c.Member(id)
	return ok && !m.IsGroup() && len(c.reports[id]) == 0
}

// TopManager returns the shallowest person in the chart.
func (c *Chart) TopManager() (string, bool) {
	return c.shallowest(func(m Member) bool { return !m.IsGroup() })
}

// TopGroup returns the shallowest grouping node in the chart.
func (c *Chart) TopGroup() (string, bool) {
	return c.shallowest(Member.IsGroup)
}

func (c *Chart) shallowest(match func(Member) bool) (string, bool) {
	if c.root == "" {
		return "", false
	}
	queue := []string{c.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if m, _ := c.Member(id); match(m) {
			return id, true
		}
		queue = append(queue, c.reports[id]...)
	}
	return "", false
}

// Depth returns the number of managers above id, or -1 if id is unknown.
func (c *Chart) Depth(id string) int {
	if _, ok := c.byID[id]; !ok {
		return -1
	}
	d := 0
	for {
		m, _ := c.Member(id)
		if m.Manager == "" {
			return d
		}
		id = m.Manager
		d++
	}
}
