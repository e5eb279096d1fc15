package compiler

import "github.com/roach88/orb/internal/flow"

func exprUnit(id string, sources, targets []string) flow.ResolvedUnit {
	return flow.ResolvedUnit{
		UnitSpec: flow.UnitSpec{
			ID:      id,
			Kind:    flow.KindExpression,
			Rules:   "x > 1",
			Inputs:  []string{"x"},
			Outputs: []string{},
			Sources: sources,
			Targets: targets,
		},
		Payload: &flow.Expression{Key: "x", Text: "x > 1"},
	}
}

func tableUnit(id string, rows []flow.Rule, sources, targets []string) flow.ResolvedUnit {
	return flow.ResolvedUnit{
		UnitSpec: flow.UnitSpec{
			ID:      id,
			Kind:    flow.KindTable,
			Rules:   id + ".csv",
			Inputs:  []string{"a", "b"},
			Outputs: []string{"out"},
			Sources: sources,
			Targets: targets,
		},
		Payload: &flow.TableRules{Rows: rows},
	}
}

func funcUnit(id, source string, sources, targets []string) flow.ResolvedUnit {
	return flow.ResolvedUnit{
		UnitSpec: flow.UnitSpec{
			ID:      id,
			Kind:    flow.KindFunction,
			Rules:   id + ".js",
			Inputs:  []string{},
			Outputs: []string{},
			Sources: sources,
			Targets: targets,
		},
		Payload: &flow.FunctionSource{Source: source},
	}
}
