package flowcanvas

import (
	"github.com/oklog/ulid/v2"
)

type WorkflowID string

// Workflow is the document exchanged with the canvas frontend.
// The frontend owns its content; the backend reads it and echoes it back.
type Workflow struct {
	ID    WorkflowID `json:"workflow_id"`
	Name  string     `json:"workflow_name"`
	Nodes []Node     `json:"nodes"`
	Edges []Edge     `json:"edges"`
}

type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NodeData struct {
	DisplayName string               `json:"display_name"`
	Template    map[string]FieldSpec `json:"template"`
}

type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeOptions FieldType = "options"
	FieldTypeObject  FieldType = "object"
)

type FieldSpec struct {
	DisplayName string    `json:"display_name"`
	Type        FieldType `json:"type"`
	Value       any       `json:"value,omitempty"`

	// IsHandle marks the field as a connection point rather than
	// a plain configuration value.
	IsHandle bool `json:"is_handle,omitempty"`

	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Edge connects a source node's output handle to a target node's input handle.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"source_handle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"target_handle,omitempty"`
}

func NewWorkflowID() WorkflowID {
	return WorkflowID(ulid.Make().String())
}

func (w *Workflow) CopyTo(to *Workflow) *Workflow {
	to.ID = w.ID
	to.Name = w.Name

	if cap(to.Nodes) >= len(w.Nodes) {
		to.Nodes = to.Nodes[:len(w.Nodes)]
	} else {
		to.Nodes = make([]Node, len(w.Nodes))
	}
	for i := range w.Nodes {
		w.Nodes[i].CopyTo(&to.Nodes[i])
	}

	if cap(to.Edges) >= len(w.Edges) {
		to.Edges = to.Edges[:len(w.Edges)]
	} else {
		to.Edges = make([]Edge, len(w.Edges))
	}
	copy(to.Edges, w.Edges)

	return to
}

func (w *Workflow) Node(id string) (Node, bool) {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return w.Nodes[i], true
		}
	}

	return Node{}, false
}

func (w *Workflow) Edge(id string) (Edge, bool) {
	for i := range w.Edges {
		if w.Edges[i].ID == id {
			return w.Edges[i], true
		}
	}

	return Edge{}, false
}

func (n *Node) CopyTo(to *Node) {
	to.ID = n.ID
	to.Type = n.Type
	to.Position = n.Position
	to.Data.DisplayName = n.Data.DisplayName

	if n.Data.Template == nil {
		to.Data.Template = nil
		return
	}

	to.Data.Template = make(map[string]FieldSpec, len(n.Data.Template))
	for name, f := range n.Data.Template {
		to.Data.Template[name] = f.copy()
	}
}

func (f FieldSpec) copy() FieldSpec {
	cp := f

	if f.Min != nil {
		v := *f.Min
		cp.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		cp.Max = &v
	}
	if f.Options != nil {
		cp.Options = append([]string(nil), f.Options...)
	}

	return cp
}
