package flow

import "encoding/json"

// Synthetic node identifiers. Unit ids must not collide with these.
const (
	EntryID = "request"
	ExitID  = "response"
)

// HitPolicy selects which matching rows of a table contribute to the result.
type HitPolicy string

// HitPolicyFirst means the first matching rule wins. It is the only policy
// the compiler emits.
const HitPolicyFirst HitPolicy = "first"

// Graph is a compiled decision flow, handed whole to the evaluation engine.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one vertex of the graph. Name always equals ID.
type Node struct {
	ID      string
	Name    string
	Content NodeContent
}

// Edge is a directed data dependency from SourceID to TargetID.
type Edge struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

// NodeContent is a sealed interface over the node kinds.
type NodeContent interface {
	// NodeType is the serialized type tag, e.g. "decisionTableNode".
	NodeType() string
	nodeContent() // Sealed
}

// EntryContent marks the synthetic entry node.
type EntryContent struct{}

// ExitContent marks the synthetic exit node.
type ExitContent struct{}

// TableContent is the content of a decision table node.
type TableContent struct {
	HitPolicy HitPolicy    `json:"hitPolicy"`
	Rules     []Rule       `json:"rules"`
	Inputs    []TableField `json:"inputs"`
	Outputs   []TableField `json:"outputs"`
}

// TableField describes one table column. ID, Name and Field are identical.
type TableField struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Field string `json:"field"`
}

// ExpressionContent is the content of an expression node.
type ExpressionContent struct {
	Expressions []ExpressionBinding `json:"expressions"`
}

// ExpressionBinding binds the result of Value to Key.
type ExpressionBinding struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FunctionContent is the content of a function node. It serializes as the
// bare source string.
type FunctionContent struct {
	Source string
}

// MarshalJSON writes the source as a JSON string.
func (c *FunctionContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Source)
}

func (EntryContent) NodeType() string       { return "inputNode" }
func (ExitContent) NodeType() string        { return "outputNode" }
func (*TableContent) NodeType() string      { return "decisionTableNode" }
func (*ExpressionContent) NodeType() string { return "expressionNode" }
func (*FunctionContent) NodeType() string   { return "functionNode" }

func (EntryContent) nodeContent()       {}
func (ExitContent) nodeContent()        {}
func (*TableContent) nodeContent()      {}
func (*ExpressionContent) nodeContent() {}
func (*FunctionContent) nodeContent()   {}

// nodeJSON is the wire layout of a Node.
type nodeJSON struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Content NodeContent `json:"content,omitempty"`
}

// MarshalJSON renders the node with its type tag. Entry and exit nodes
// carry no content.
func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{ID: n.ID, Name: n.Name}
	if n.Content != nil {
		out.Type = n.Content.NodeType()
		switch n.Content.(type) {
		case EntryContent, ExitContent:
		default:
			out.Content = n.Content
		}
	}
	return json.Marshal(out)
}

// NodeIDs returns the node identifiers in graph order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Entry returns the synthetic entry node.
func (g *Graph) Entry() Node { return g.Nodes[0] }

// Exit returns the synthetic exit node.
func (g *Graph) Exit() Node { return g.Nodes[len(g.Nodes)-1] }
