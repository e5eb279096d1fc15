package flow

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// WriteText renders g as indented, human-readable text. The layout is for
// inspection only and is not a stable machine-readable contract.
//
//	nodes (3):
//	  request [input]
//	  e1 [expression]
//	    amount = amount > 100
//	  response [output]
//	edges (0):
func (g *Graph) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "nodes (%d):\n", len(g.Nodes))
	for _, n := range g.Nodes {
		writeNodeText(bw, n)
	}

	fmt.Fprintf(bw, "edges (%d):\n", len(g.Edges))
	for _, e := range g.Edges {
		fmt.Fprintf(bw, "  %s -> %s\n", e.SourceID, e.TargetID)
	}

	return bw.Flush()
}

func writeNodeText(w io.Writer, n Node) {
	switch c := n.Content.(type) {
	case EntryContent:
		fmt.Fprintf(w, "  %s [input]\n", n.ID)
	case ExitContent:
		fmt.Fprintf(w, "  %s [output]\n", n.ID)
	case *TableContent:
		fmt.Fprintf(w, "  %s [table hit=%s rules=%d]\n", n.ID, c.HitPolicy, len(c.Rules))
		fmt.Fprintf(w, "    inputs: %s\n", joinFields(c.Inputs))
		fmt.Fprintf(w, "    outputs: %s\n", joinFields(c.Outputs))
		for i, r := range c.Rules {
			fmt.Fprintf(w, "    #%d %s\n", i+1, formatRule(r))
		}
	case *ExpressionContent:
		fmt.Fprintf(w, "  %s [expression]\n", n.ID)
		for _, b := range c.Expressions {
			fmt.Fprintf(w, "    %s = %s\n", b.Key, b.Value)
		}
	case *FunctionContent:
		lines := strings.Count(c.Source, "\n")
		if c.Source != "" && !strings.HasSuffix(c.Source, "\n") {
			lines++
		}
		fmt.Fprintf(w, "  %s [function lines=%d]\n", n.ID, lines)
	default:
		fmt.Fprintf(w, "  %s\n", n.ID)
	}
}

func joinFields(fields []TableField) string {
	if len(fields) == 0 {
		return "-"
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Field
	}
	return strings.Join(names, ", ")
}

// formatRule prints a row with its fields in sorted order so the output is
// deterministic.
func formatRule(r Rule) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, r[k])
	}
	return strings.Join(parts, " ")
}
