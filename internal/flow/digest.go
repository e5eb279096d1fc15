package flow

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainGraph is the domain prefix for graph digests.
// The version suffix allows a future change of the hashed layout.
const DomainGraph = "orb/graph/v1"

// Digest computes a content-addressed fingerprint of g.
// Format: SHA256(domain + 0x00 + canonical JSON of g)
func Digest(g *Graph) (string, error) {
	canonical, err := MarshalCanonical(g.canonicalValue())
	if err != nil {
		return "", fmt.Errorf("Digest: failed to marshal: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainGraph))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MustDigest is like Digest but panics on error.
// Use only in tests or when the graph is known to be valid.
func MustDigest(g *Graph) string {
	d, err := Digest(g)
	if err != nil {
		panic(err)
	}
	return d
}

// canonicalValue converts g into the generic shape MarshalCanonical accepts.
// It mirrors the MarshalJSON layout.
func (g *Graph) canonicalValue() map[string]any {
	nodes := make([]any, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = n.canonicalValue()
	}
	edges := make([]any, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = map[string]any{"sourceId": e.SourceID, "targetId": e.TargetID}
	}
	return map[string]any{"nodes": nodes, "edges": edges}
}

func (n Node) canonicalValue() map[string]any {
	out := map[string]any{"id": n.ID, "name": n.Name}
	if n.Content == nil {
		return out
	}
	out["type"] = n.Content.NodeType()

	switch c := n.Content.(type) {
	case *TableContent:
		rules := make([]any, len(c.Rules))
		for i, r := range c.Rules {
			row := make(map[string]any, len(r))
			for k, v := range r {
				row[k] = v
			}
			rules[i] = row
		}
		out["content"] = map[string]any{
			"hitPolicy": string(c.HitPolicy),
			"rules":     rules,
			"inputs":    canonicalFields(c.Inputs),
			"outputs":   canonicalFields(c.Outputs),
		}
	case *ExpressionContent:
		exprs := make([]any, len(c.Expressions))
		for i, b := range c.Expressions {
			exprs[i] = map[string]any{"id": b.ID, "key": b.Key, "value": b.Value}
		}
		out["content"] = map[string]any{"expressions": exprs}
	case *FunctionContent:
		out["content"] = c.Source
	}
	return out
}

func canonicalFields(fields []TableField) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = map[string]any{"id": f.ID, "name": f.Name, "field": f.Field}
	}
	return out
}
