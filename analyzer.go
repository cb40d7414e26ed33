package flowcanvas

import "fmt"

type Complexity string

const (
	ComplexityTrivial  Complexity = "trivial"
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Complexity breakpoints over nodes+edges. Policy values, not derived.
const (
	TrivialMaxElements  = 5
	SimpleMaxElements   = 10
	ModerateMaxElements = 20
)

// Report is a best-effort structural summary of a workflow document.
// Issues are advisory; the analyzer never rejects a document.
type Report struct {
	NodeCount  int            `json:"node_count"`
	EdgeCount  int            `json:"edge_count"`
	NodeTypes  map[string]int `json:"node_types"`
	Complexity Complexity     `json:"complexity"`
	Issues     []string       `json:"issues"`
}

// Analyze tallies node types and flags disconnected nodes and edges that
// reference missing nodes. A nil workflow is treated as empty.
func Analyze(w *Workflow) Report {
	r := Report{
		NodeTypes: map[string]int{},
		Issues:    []string{},
	}

	if w == nil {
		r.Complexity = complexityOf(0)
		return r
	}

	r.NodeCount = len(w.Nodes)
	r.EdgeCount = len(w.Edges)
	r.Complexity = complexityOf(r.NodeCount + r.EdgeCount)

	for i := range w.Nodes {
		r.NodeTypes[w.Nodes[i].Type]++
	}

	connected := make(map[string]struct{}, len(w.Nodes))
	for i := range w.Edges {
		connected[w.Edges[i].Source] = struct{}{}
		connected[w.Edges[i].Target] = struct{}{}
	}

	nodeIDs := make(map[string]struct{}, len(w.Nodes))
	for i := range w.Nodes {
		nodeIDs[w.Nodes[i].ID] = struct{}{}

		if _, ok := connected[w.Nodes[i].ID]; !ok {
			r.Issues = append(r.Issues, fmt.Sprintf("Node %s is not connected", w.Nodes[i].ID))
		}
	}

	for i := range w.Edges {
		e := w.Edges[i]
		if _, ok := nodeIDs[e.Source]; !ok {
			r.Issues = append(r.Issues, fmt.Sprintf("Edge %s references missing node %s", e.ID, e.Source))
		}
		if _, ok := nodeIDs[e.Target]; !ok {
			r.Issues = append(r.Issues, fmt.Sprintf("Edge %s references missing node %s", e.ID, e.Target))
		}
	}

	return r
}

// AnalyzeDocument analyzes an untyped JSON document. Missing or mistyped
// fields are coerced to empty values; it never fails.
func AnalyzeDocument(doc map[string]any) Report {
	w := DecodeDocument(doc)
	return Analyze(&w)
}

func complexityOf(elements int) Complexity {
	switch {
	case elements <= TrivialMaxElements:
		return ComplexityTrivial
	case elements <= SimpleMaxElements:
		return ComplexitySimple
	case elements <= ModerateMaxElements:
		return ComplexityModerate
	default:
		return ComplexityComplex
	}
}
