package reporter

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/nanzhong/neotest"
)

// Separator joins the file and node names of an identifier.
const Separator = "::"

// Walk visits every node depth first, parents before children and children
// in the order they started, together with its identifier. Identifiers start
// with the file of the top level node followed by the names of all ancestors
// and the node itself.
func Walk(roots []*neotest.Node) iter.Seq2[string, *neotest.Node] {
	return func(yield func(string, *neotest.Node) bool) {
		for _, root := range roots {
			if !walk(root, []string{root.File}, yield) {
				return
			}
		}
	}
}

func walk(node *neotest.Node, namespace []string, yield func(string, *neotest.Node) bool) bool {
	path := append(slices.Clip(namespace), node.Name)
	if !yield(strings.Join(path, Separator), node) {
		return false
	}
	for _, child := range node.Children {
		if !walk(child, path, yield) {
			return false
		}
	}
	return true
}

// Flatten collects a result for every node of the tree, suites included.
func Flatten(roots []*neotest.Node) *neotest.Results {
	results := neotest.NewResults()
	for id, node := range Walk(roots) {
		results.Set(id, ResultOf(node))
	}
	return results
}

// ResultOf returns the UI facing result of a single node.
func ResultOf(node *neotest.Node) *neotest.Result {
	return &neotest.Result{
		Status: node.Status,
		Short:  fmt.Sprintf("%s: %s", node.Name, node.Status),
		Location: neotest.Location{
			Line:   node.Line,
			Column: node.Column,
		},
	}
}
