package flowcanvas_test

import (
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/stretchr/testify/require"
)

func TestWorkflowCopyTo(t *testing.T) {
	minV := 0.0
	maxV := 2.0

	w := &flowcanvas.Workflow{
		ID:   `aWID`,
		Name: `A Workflow`,
		Nodes: []flowcanvas.Node{
			{
				ID:       `n1`,
				Type:     `OpenAI`,
				Position: flowcanvas.Position{X: 10, Y: 20},
				Data: flowcanvas.NodeData{
					DisplayName: `OpenAI`,
					Template: map[string]flowcanvas.FieldSpec{
						`temperature`: {
							DisplayName: `Temperature`,
							Type:        flowcanvas.FieldTypeNumber,
							Value:       0.7,
							Min:         &minV,
							Max:         &maxV,
						},
						`model`: {
							DisplayName: `Model`,
							Type:        flowcanvas.FieldTypeOptions,
							Value:       `gpt-4`,
							Options:     []string{`gpt-4`, `gpt-4o`},
						},
					},
				},
			},
		},
		Edges: []flowcanvas.Edge{
			{ID: `e1`, Source: `n1`, Target: `n2`},
		},
	}

	cp := w.CopyTo(&flowcanvas.Workflow{})
	require.Equal(t, w, cp)

	// mutations must not leak between copies
	cp.Nodes[0].Data.Template[`model`] = flowcanvas.FieldSpec{DisplayName: `Changed`}
	cp.Edges[0].Target = `changed`
	*cp.Nodes[0].Data.Template[`temperature`].Min = 42

	require.Equal(t, `Model`, w.Nodes[0].Data.Template[`model`].DisplayName)
	require.Equal(t, `n2`, w.Edges[0].Target)
	require.Equal(t, 0.0, *w.Nodes[0].Data.Template[`temperature`].Min)
}

func TestWorkflowNodeEdgeLookup(t *testing.T) {
	w := flowcanvas.DefaultWorkflow()

	n, ok := w.Node(`input-1`)
	require.True(t, ok)
	require.Equal(t, `Input`, n.Type)

	_, ok = w.Node(`unknown`)
	require.False(t, ok)

	e, ok := w.Edge(`edge-1`)
	require.True(t, ok)
	require.Equal(t, `input-1`, e.Source)

	_, ok = w.Edge(`unknown`)
	require.False(t, ok)
}

func TestWorkflowJSONRoundTrip(t *testing.T) {
	w := flowcanvas.DefaultWorkflow()

	b, err := flowcanvas.MarshalJSONWorkflow(w)
	require.NoError(t, err)

	got := &flowcanvas.Workflow{}
	require.NoError(t, flowcanvas.UnmarshalJSONWorkflow(b, got))
	require.Equal(t, w.ID, got.ID)
	require.Equal(t, w.Name, got.Name)
	require.Len(t, got.Nodes, len(w.Nodes))
	require.Len(t, got.Edges, len(w.Edges))
}

func TestDecodeDocument(t *testing.T) {
	w := flowcanvas.DecodeDocument(map[string]any{
		`workflow_id`:   `aWID`,
		`workflow_name`: `A Workflow`,
		`nodes`: []any{
			map[string]any{
				`id`:       `n1`,
				`type`:     `Number`,
				`position`: map[string]any{`x`: 1.5, `y`: 2.5},
				`data`: map[string]any{
					`display_name`: `Number`,
					`template`: map[string]any{
						`value`: map[string]any{
							`display_name`: `Value`,
							`type`:         `number`,
							`value`:        3.0,
							`min`:          0.0,
							`max`:          10.0,
						},
					},
				},
			},
		},
		`edges`: []any{
			map[string]any{`id`: `e1`, `source`: `n1`, `target`: `n2`, `target_handle`: `input`},
		},
	})

	require.Equal(t, flowcanvas.WorkflowID(`aWID`), w.ID)
	require.Equal(t, `A Workflow`, w.Name)
	require.Len(t, w.Nodes, 1)
	require.Equal(t, flowcanvas.Position{X: 1.5, Y: 2.5}, w.Nodes[0].Position)

	f := w.Nodes[0].Data.Template[`value`]
	require.Equal(t, flowcanvas.FieldTypeNumber, f.Type)
	require.Equal(t, 3.0, f.Value)
	require.Equal(t, 0.0, *f.Min)
	require.Equal(t, 10.0, *f.Max)

	require.Len(t, w.Edges, 1)
	require.Equal(t, `input`, w.Edges[0].TargetHandle)
}

func TestNewWorkflowID(t *testing.T) {
	id1 := flowcanvas.NewWorkflowID()
	id2 := flowcanvas.NewWorkflowID()
	require.NotEmpty(t, id1)
	require.NotEqual(t, id1, id2)
}
