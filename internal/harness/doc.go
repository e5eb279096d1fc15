// Package harness provides conformance testing for orb decision flows.
//
// The harness compiles a flow file, compares the resulting graph (or the
// failure) against a YAML scenario, and optionally snapshots the rendered
// graph as a golden file.
//
// # Scenario Format
//
//	name: kyb_graph
//	description: "KYB flow compiles into a six-edge graph"
//	flow: ../flows/kyb/flow.json     # relative to the scenario file
//	options:
//	  autowire: false
//	  strict_edges: false
//	expect:
//	  nodes: [request, risk_flags, sanctions, mapper, score, response]
//	  edges:
//	    - [request, risk_flags]
//	assertions:
//	  - type: node_type
//	    node: mapper
//	    node_type: functionNode
//	  - type: edge_count
//	    from: risk_flags
//	    to: mapper
//	    count: 1
//
// Failure scenarios replace nodes/edges with an expected error:
//
//	expect:
//	  error:
//	    kind: resolution
//	    code: E203
//
// # Assertion Types
//
//   - node_type: the node exists and has the given serialized type
//   - edge_count: the edge from -> to appears exactly count times
//   - table_rows: the table node has exactly count rows
//   - binding: the expression node binds key to value
//
// Rule paths inside flows are always resolved relative to the flow file,
// so scenarios are independent of the working directory.
package harness
