package flowcanvas_test

import (
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRecord(t *testing.T) {
	minV := 0.0
	maxV := 2.0

	rec := &flowcanvas.Record{
		Workflow: flowcanvas.Workflow{
			ID:   `aWID`,
			Name: `A Workflow`,
			Nodes: []flowcanvas.Node{
				{
					ID:       `openai-1`,
					Type:     `OpenAI`,
					Position: flowcanvas.Position{X: 120.5, Y: -40},
					Data: flowcanvas.NodeData{
						DisplayName: `OpenAI`,
						Template: map[string]flowcanvas.FieldSpec{
							`model`: {
								DisplayName: `Model`,
								Type:        flowcanvas.FieldTypeOptions,
								Value:       `gpt-4`,
								Options:     []string{`gpt-4`, `gpt-4o`},
							},
							`temperature`: {
								DisplayName: `Temperature`,
								Type:        flowcanvas.FieldTypeNumber,
								Value:       0.7,
								Min:         &minV,
								Max:         &maxV,
							},
							`prompt`: {
								DisplayName: `Prompt`,
								Type:        flowcanvas.FieldTypeString,
								IsHandle:    true,
							},
						},
					},
				},
				{
					ID:   `output-1`,
					Type: `Output`,
					Data: flowcanvas.NodeData{DisplayName: `Output`},
				},
			},
			Edges: []flowcanvas.Edge{
				{ID: `e1`, Source: `openai-1`, SourceHandle: `response`, Target: `output-1`, TargetHandle: `input`},
			},
		},
		Rev:                  7,
		CommittedAtUnixMilli: 1700000000000,
	}

	b := flowcanvas.MarshalRecord(rec, nil)
	require.NotEmpty(t, b)

	got := &flowcanvas.Record{}
	require.NoError(t, flowcanvas.UnmarshalRecord(b, got))
	require.Equal(t, rec, got)
}

func TestMarshalUnmarshalWorkflowEmpty(t *testing.T) {
	b := flowcanvas.MarshalWorkflow(&flowcanvas.Workflow{}, nil)

	got := &flowcanvas.Workflow{}
	require.NoError(t, flowcanvas.UnmarshalWorkflow(b, got))
	require.Equal(t, &flowcanvas.Workflow{}, got)
}

func TestMarshalRecordDeterministic(t *testing.T) {
	rec := &flowcanvas.Record{}
	flowcanvas.DefaultWorkflow().CopyTo(&rec.Workflow)
	rec.Rev = 1

	b1 := flowcanvas.MarshalRecord(rec, nil)
	b2 := flowcanvas.MarshalRecord(rec, nil)
	require.Equal(t, b1, b2)
}

func TestUnmarshalRecordGarbage(t *testing.T) {
	rec := &flowcanvas.Record{}
	require.Error(t, flowcanvas.UnmarshalRecord([]byte(`not a protobuf`), rec))
}
