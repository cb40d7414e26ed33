package flowcanvas_test

import (
	"fmt"
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeDisconnectedNode(t *testing.T) {
	w := &flowcanvas.Workflow{
		Nodes: []flowcanvas.Node{
			{ID: `A`, Type: `Input`},
			{ID: `B`, Type: `Output`},
			{ID: `C`, Type: `Input`},
		},
		Edges: []flowcanvas.Edge{
			{ID: `e1`, Source: `A`, Target: `B`},
		},
	}

	r := flowcanvas.Analyze(w)
	require.Equal(t, 3, r.NodeCount)
	require.Equal(t, 1, r.EdgeCount)
	require.Equal(t, map[string]int{`Input`: 2, `Output`: 1}, r.NodeTypes)
	require.Equal(t, []string{`Node C is not connected`}, r.Issues)
	require.Equal(t, flowcanvas.ComplexityTrivial, r.Complexity)
}

func TestAnalyzeEmpty(t *testing.T) {
	r := flowcanvas.Analyze(&flowcanvas.Workflow{})
	require.Equal(t, 0, r.NodeCount)
	require.Equal(t, 0, r.EdgeCount)
	require.Equal(t, map[string]int{}, r.NodeTypes)
	require.Equal(t, []string{}, r.Issues)
	require.Equal(t, flowcanvas.ComplexityTrivial, r.Complexity)
}

func TestAnalyzeNil(t *testing.T) {
	r := flowcanvas.Analyze(nil)
	require.Equal(t, 0, r.NodeCount)
	require.Equal(t, map[string]int{}, r.NodeTypes)
	require.Equal(t, []string{}, r.Issues)
	require.Equal(t, flowcanvas.ComplexityTrivial, r.Complexity)
}

func TestAnalyzeDanglingEdge(t *testing.T) {
	w := &flowcanvas.Workflow{
		Nodes: []flowcanvas.Node{
			{ID: `A`, Type: `Input`},
			{ID: `B`, Type: `Output`},
		},
		Edges: []flowcanvas.Edge{
			{ID: `e1`, Source: `A`, Target: `B`},
			{ID: `e2`, Source: `A`, Target: `ghost`},
		},
	}

	r := flowcanvas.Analyze(w)
	require.Equal(t, []string{`Edge e2 references missing node ghost`}, r.Issues)
}

func TestAnalyzeIssueOrder(t *testing.T) {
	w := &flowcanvas.Workflow{
		Nodes: []flowcanvas.Node{
			{ID: `lonely-1`, Type: `Input`},
			{ID: `lonely-2`, Type: `Output`},
		},
		Edges: []flowcanvas.Edge{
			{ID: `e1`, Source: `ghost-a`, Target: `ghost-b`},
		},
	}

	r := flowcanvas.Analyze(w)
	require.Equal(t, []string{
		`Node lonely-1 is not connected`,
		`Node lonely-2 is not connected`,
		`Edge e1 references missing node ghost-a`,
		`Edge e1 references missing node ghost-b`,
	}, r.Issues)
}

func TestAnalyzeComplexityBreakpoints(t *testing.T) {
	buildWorkflow := func(nodes int) *flowcanvas.Workflow {
		w := &flowcanvas.Workflow{}
		for i := 0; i < nodes; i++ {
			w.Nodes = append(w.Nodes, flowcanvas.Node{ID: fmt.Sprintf("n%d", i), Type: `Input`})
		}
		return w
	}

	require.Equal(t, flowcanvas.ComplexityTrivial, flowcanvas.Analyze(buildWorkflow(flowcanvas.TrivialMaxElements)).Complexity)
	require.Equal(t, flowcanvas.ComplexitySimple, flowcanvas.Analyze(buildWorkflow(flowcanvas.TrivialMaxElements+1)).Complexity)
	require.Equal(t, flowcanvas.ComplexitySimple, flowcanvas.Analyze(buildWorkflow(flowcanvas.SimpleMaxElements)).Complexity)
	require.Equal(t, flowcanvas.ComplexityModerate, flowcanvas.Analyze(buildWorkflow(flowcanvas.SimpleMaxElements+1)).Complexity)
	require.Equal(t, flowcanvas.ComplexityModerate, flowcanvas.Analyze(buildWorkflow(flowcanvas.ModerateMaxElements)).Complexity)
	require.Equal(t, flowcanvas.ComplexityComplex, flowcanvas.Analyze(buildWorkflow(flowcanvas.ModerateMaxElements+1)).Complexity)
}

func TestAnalyzeComplexityMonotonic(t *testing.T) {
	rank := map[flowcanvas.Complexity]int{
		flowcanvas.ComplexityTrivial:  0,
		flowcanvas.ComplexitySimple:   1,
		flowcanvas.ComplexityModerate: 2,
		flowcanvas.ComplexityComplex:  3,
	}

	w := &flowcanvas.Workflow{}
	prev := flowcanvas.Analyze(w).Complexity
	for i := 0; i < 30; i++ {
		w.Nodes = append(w.Nodes, flowcanvas.Node{ID: fmt.Sprintf("n%d", i), Type: `Input`})

		cur := flowcanvas.Analyze(w).Complexity
		require.GreaterOrEqual(t, rank[cur], rank[prev])
		prev = cur
	}
}

func TestAnalyzeDocumentMalformed(t *testing.T) {
	r := flowcanvas.AnalyzeDocument(map[string]any{
		`workflow_name`: 42,
		`nodes`: []any{
			map[string]any{`id`: `A`, `type`: `Input`},
			`not a node`,
			map[string]any{`id`: true, `type`: nil},
		},
		`edges`: `not a list`,
	})

	require.Equal(t, 2, r.NodeCount)
	require.Equal(t, 0, r.EdgeCount)
	require.Equal(t, map[string]int{`Input`: 1, ``: 1}, r.NodeTypes)
	require.Equal(t, []string{
		`Node A is not connected`,
		`Node  is not connected`,
	}, r.Issues)
}

func TestAnalyzeDocumentNil(t *testing.T) {
	r := flowcanvas.AnalyzeDocument(nil)
	require.Equal(t, 0, r.NodeCount)
	require.Equal(t, []string{}, r.Issues)
}

func TestAnalyzeDefaultWorkflowClean(t *testing.T) {
	r := flowcanvas.Analyze(flowcanvas.DefaultWorkflow())
	require.Equal(t, 2, r.NodeCount)
	require.Equal(t, 1, r.EdgeCount)
	require.Empty(t, r.Issues)
	require.Equal(t, flowcanvas.ComplexityTrivial, r.Complexity)
}
