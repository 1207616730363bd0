package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/nanzhong/neotest"
)

// Outcome is the typed result of a pass or fail event: passed, failed,
// skipped or todo.
type Outcome struct {
	Depth      int
	Name       string
	File       string
	Line       *int
	Column     *int
	TestNumber *int
	Status     neotest.Status
	Error      *neotest.Error
	Details    map[string]json.RawMessage
}

// NewOutcome builds the outcome of a classified result event, normalizing
// its failure detail.
func NewOutcome(c *Classified) (*Outcome, error) {
	e, details, err := NormalizeError(c.Details)
	if err != nil {
		return nil, err
	}

	o := &Outcome{
		Depth:      c.Depth,
		Name:       c.Name,
		File:       c.File,
		Line:       c.Line,
		Column:     c.Column,
		TestNumber: c.TestNumber,
		Status:     c.Status,
		Error:      e,
		Details:    details,
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// validate only rejects statuses that can not settle a node. An error on a
// passed or skipped outcome is kept as reported.
func (o *Outcome) validate() error {
	if !o.Status.Terminal() {
		return fmt.Errorf("%w: %q is not a result status", ErrInvalidOutcome, o.Status)
	}
	return nil
}

// Tree reconstructs the test tree from start and result events.
//
// open holds the currently open node for every depth along the active path:
// open[d] is the node at depth d still waiting for its result. A start event
// pushes, a result event pops. Siblings can not interleave, so a start or
// result at depth d requires that nothing deeper than d is still open.
type Tree struct {
	roots []*neotest.Node
	open  []*neotest.Node
}

// NewTree constructs an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Roots returns the top level nodes in the order they started.
func (t *Tree) Roots() []*neotest.Node {
	return t.roots
}

// Open returns the number of nodes that started without a result yet.
func (t *Tree) Open() int {
	return len(t.open)
}

// Add appends a new node for a start event as the last child of the open
// node one level up, or as a new root at depth 0.
func (t *Tree) Add(c *Classified) (*neotest.Node, error) {
	depth := c.Depth
	if depth < 0 || depth > len(t.open) {
		return nil, ErrMissingParent
	}
	if depth < len(t.open) {
		return nil, fmt.Errorf("%w %d: %q", ErrUnfinishedNode, depth, t.open[depth].Name)
	}

	node := &neotest.Node{
		Name:       c.Name,
		File:       c.File,
		Line:       c.Line,
		Column:     c.Column,
		Status:     c.Status,
		TestNumber: c.TestNumber,
		Depth:      depth,
		Children:   []*neotest.Node{},
	}
	if depth == 0 {
		t.roots = append(t.roots, node)
	} else {
		parent := t.open[depth-1]
		parent.Children = append(parent.Children, node)
	}
	t.open = append(t.open, node)
	return node, nil
}

// Merge settles the open node at the outcome's depth and closes it. Fields
// present in the outcome replace the ones recorded at start; children are
// never touched.
func (t *Tree) Merge(o *Outcome) (*neotest.Node, error) {
	depth := o.Depth
	if depth < 0 || depth >= len(t.open) {
		return nil, ErrNoOpenNode
	}
	if depth != len(t.open)-1 {
		deeper := t.open[len(t.open)-1]
		return nil, fmt.Errorf("%w %d: %q", ErrUnfinishedNode, deeper.Depth, deeper.Name)
	}

	node := t.open[depth]
	if o.Name != "" {
		node.Name = o.Name
	}
	if o.File != "" {
		node.File = o.File
	}
	if o.Line != nil {
		node.Line = o.Line
	}
	if o.Column != nil {
		node.Column = o.Column
	}
	if o.TestNumber != nil {
		node.TestNumber = o.TestNumber
	}
	node.Status = o.Status
	if o.Error != nil {
		node.Error = o.Error
	}
	if o.Details != nil {
		node.Details = o.Details
	}

	t.open = t.open[:depth]
	return node, nil
}
