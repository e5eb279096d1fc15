package compiler

import (
	"github.com/roach88/orb/internal/flow"
)

// BuildNodes emits the entry node, one node per unit in order, and the exit
// node. It fails only if a unit carries no payload.
func BuildNodes(units []flow.ResolvedUnit) ([]flow.Node, error) {
	nodes := make([]flow.Node, 0, len(units)+2)
	nodes = append(nodes, flow.Node{ID: flow.EntryID, Name: flow.EntryID, Content: flow.EntryContent{}})

	for _, unit := range units {
		node, err := buildNode(unit)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	nodes = append(nodes, flow.Node{ID: flow.ExitID, Name: flow.ExitID, Content: flow.ExitContent{}})
	return nodes, nil
}

func buildNode(unit flow.ResolvedUnit) (flow.Node, error) {
	if unit.Payload == nil {
		return flow.Node{}, flow.BuildError(flow.ErrCodeMissingPayload, unit.ID, "unit has no resolved payload")
	}

	b := &nodeBuilder{unit: unit}
	if err := unit.Payload.Accept(b); err != nil {
		return flow.Node{}, err
	}
	return flow.Node{ID: unit.ID, Name: unit.ID, Content: b.content}, nil
}

// nodeBuilder implements flow.PayloadVisitor; adding a payload variant
// without a Visit method here is a compile error.
type nodeBuilder struct {
	unit    flow.ResolvedUnit
	content flow.NodeContent
}

var _ flow.PayloadVisitor = (*nodeBuilder)(nil)

func (b *nodeBuilder) VisitTable(p *flow.TableRules) error {
	b.content = &flow.TableContent{
		HitPolicy: flow.HitPolicyFirst,
		Rules:     p.Rows,
		Inputs:    tableFields(b.unit.Inputs),
		Outputs:   tableFields(b.unit.Outputs),
	}
	return nil
}

func (b *nodeBuilder) VisitExpression(p *flow.Expression) error {
	b.content = &flow.ExpressionContent{
		Expressions: []flow.ExpressionBinding{{ID: p.Key, Key: p.Key, Value: p.Text}},
	}
	return nil
}

func (b *nodeBuilder) VisitFunction(p *flow.FunctionSource) error {
	b.content = &flow.FunctionContent{Source: p.Source}
	return nil
}

func tableFields(names []string) []flow.TableField {
	fields := make([]flow.TableField, len(names))
	for i, name := range names {
		fields[i] = flow.TableField{ID: name, Name: name, Field: name}
	}
	return fields
}
