package storetest

import (
	"github.com/makasim/flowcanvas"
)

func aWorkflow(id flowcanvas.WorkflowID, name string) flowcanvas.Workflow {
	return flowcanvas.Workflow{
		ID:   id,
		Name: name,
		Nodes: []flowcanvas.Node{
			{
				ID:       `input-1`,
				Type:     `Input`,
				Position: flowcanvas.Position{X: 100, Y: 200},
				Data: flowcanvas.NodeData{
					DisplayName: `Input`,
					Template: map[string]flowcanvas.FieldSpec{
						`value`: {
							DisplayName: `Value`,
							Type:        flowcanvas.FieldTypeString,
							Value:       `hello`,
						},
					},
				},
			},
			{
				ID:       `output-1`,
				Type:     `Output`,
				Position: flowcanvas.Position{X: 400, Y: 200},
				Data: flowcanvas.NodeData{
					DisplayName: `Output`,
					Template: map[string]flowcanvas.FieldSpec{
						`input`: {
							DisplayName: `Input`,
							Type:        flowcanvas.FieldTypeString,
							IsHandle:    true,
						},
					},
				},
			},
		},
		Edges: []flowcanvas.Edge{
			{
				ID:           `edge-1`,
				Source:       `input-1`,
				SourceHandle: `value`,
				Target:       `output-1`,
				TargetHandle: `input`,
			},
		},
	}
}

func aRecord(id flowcanvas.WorkflowID, name string, rev int64) *flowcanvas.Record {
	return &flowcanvas.Record{
		Workflow: aWorkflow(id, name),
		Rev:      rev,
	}
}
