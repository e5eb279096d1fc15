package harness

import (
	"fmt"

	"github.com/roach88/orb/internal/flow"
)

// evaluateAssertion checks a single assertion against graph.
func evaluateAssertion(graph *flow.Graph, a Assertion) error {
	switch a.Type {
	case AssertNodeType:
		return assertNodeType(graph, a)
	case AssertEdgeCount:
		return assertEdgeCount(graph, a)
	case AssertTableRows:
		return assertTableRows(graph, a)
	case AssertBinding:
		return assertBinding(graph, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func findNode(graph *flow.Graph, id string) (flow.Node, error) {
	for _, n := range graph.Nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return flow.Node{}, fmt.Errorf("node %q not found", id)
}

func assertNodeType(graph *flow.Graph, a Assertion) error {
	n, err := findNode(graph, a.Node)
	if err != nil {
		return err
	}
	if got := n.Content.NodeType(); got != a.NodeType {
		return fmt.Errorf("node %q: expected type %s, got %s", a.Node, a.NodeType, got)
	}
	return nil
}

func assertEdgeCount(graph *flow.Graph, a Assertion) error {
	count := 0
	for _, e := range graph.Edges {
		if e.SourceID == a.From && e.TargetID == a.To {
			count++
		}
	}
	if count != a.Count {
		return fmt.Errorf("edge %s -> %s: expected %d occurrence(s), got %d", a.From, a.To, a.Count, count)
	}
	return nil
}

func assertTableRows(graph *flow.Graph, a Assertion) error {
	n, err := findNode(graph, a.Node)
	if err != nil {
		return err
	}
	table, ok := n.Content.(*flow.TableContent)
	if !ok {
		return fmt.Errorf("node %q is a %s, not a table", a.Node, n.Content.NodeType())
	}
	if len(table.Rules) != a.Count {
		return fmt.Errorf("node %q: expected %d row(s), got %d", a.Node, a.Count, len(table.Rules))
	}
	return nil
}

func assertBinding(graph *flow.Graph, a Assertion) error {
	n, err := findNode(graph, a.Node)
	if err != nil {
		return err
	}
	expr, ok := n.Content.(*flow.ExpressionContent)
	if !ok {
		return fmt.Errorf("node %q is a %s, not an expression", a.Node, n.Content.NodeType())
	}
	for _, b := range expr.Expressions {
		if b.Key == a.Key {
			if b.Value != a.Value {
				return fmt.Errorf("node %q: binding %s expected %q, got %q", a.Node, a.Key, a.Value, b.Value)
			}
			return nil
		}
	}
	return fmt.Errorf("node %q: no binding for key %q", a.Node, a.Key)
}
