package flow

import "fmt"

// Kind identifies what a decision unit computes.
type Kind string

const (
	KindTable      Kind = "table"
	KindExpression Kind = "expression"
	KindFunction   Kind = "function"
)

// ParseKind maps the textual kind from a flow file to a Kind.
// Matching is exact; "Table" is not a valid kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindTable, KindExpression, KindFunction:
		return k, nil
	default:
		return "", fmt.Errorf("unknown decision kind %q: must be one of table, expression, function", s)
	}
}

// UnitSpec is a decision unit as declared in a flow file.
// Inputs and Outputs are never nil once the loader has produced the value.
type UnitSpec struct {
	ID      string   `json:"id"`
	Kind    Kind     `json:"kind"`
	Rules   string   `json:"rules"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
	Sources []string `json:"sources"`
	Targets []string `json:"targets"`
}

// Rule is one row of a decision table: field name -> raw cell text.
// Values are not coerced; that is the evaluation engine's job.
type Rule map[string]string

// ResolvedUnit is a UnitSpec together with its loaded rule payload.
type ResolvedUnit struct {
	UnitSpec
	Payload Payload
}

// Payload is a sealed interface over the resolved rule payloads.
// Only *TableRules, *Expression and *FunctionSource implement it.
type Payload interface {
	payload() // Sealed

	// Accept dispatches to the visitor method for the concrete payload.
	Accept(v PayloadVisitor) error
}

// PayloadVisitor has one method per Payload variant.
type PayloadVisitor interface {
	VisitTable(p *TableRules) error
	VisitExpression(p *Expression) error
	VisitFunction(p *FunctionSource) error
}

// TableRules holds the ordered rows of a table unit.
type TableRules struct {
	Rows []Rule
}

func (*TableRules) payload() {}

// Accept implements Payload.
func (p *TableRules) Accept(v PayloadVisitor) error { return v.VisitTable(p) }

// Expression is the single binding of an expression unit.
type Expression struct {
	Key  string // first declared input field
	Text string
}

func (*Expression) payload() {}

// Accept implements Payload.
func (p *Expression) Accept(v PayloadVisitor) error { return v.VisitExpression(p) }

// FunctionSource is the verbatim source of a function unit.
type FunctionSource struct {
	Source string
}

func (*FunctionSource) payload() {}

// Accept implements Payload.
func (p *FunctionSource) Accept(v PayloadVisitor) error { return v.VisitFunction(p) }
