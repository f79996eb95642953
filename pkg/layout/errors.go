package layout

import "fmt"

// InvariantError describes a broken internal invariant. It is raised with
// panic inside a pass and converted to a regular error by Engine.Execute.
type InvariantError struct {
	Op   string // stage that failed
	Node string // external id involved, if any
	Msg  string
}

func (e *InvariantError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("layout %s: node %q: %s", e.Op, e.Node, e.Msg)
	}
	return fmt.Sprintf("layout %s: %s", e.Op, e.Msg)
}

func invariant(op, node, format string, args ...any) {
	panic(&InvariantError{Op: op, Node: node, Msg: fmt.Sprintf(format, args...)})
}
