package flowcanvas

import (
	"encoding/json"
)

func MarshalJSONWorkflow(w *Workflow) ([]byte, error) {
	return json.Marshal(w)
}

func UnmarshalJSONWorkflow(data []byte, w *Workflow) error {
	return json.Unmarshal(data, w)
}

func MarshalJSONReport(r Report) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeDocument converts an untyped JSON document into a Workflow.
// The frontend may send partial or mistyped payloads mid-edit; every field
// that does not match the expected shape collapses to its zero value.
func DecodeDocument(doc map[string]any) Workflow {
	w := Workflow{}
	if doc == nil {
		return w
	}

	w.ID = WorkflowID(asString(doc["workflow_id"]))
	w.Name = asString(doc["workflow_name"])

	if nodes, ok := doc["nodes"].([]any); ok {
		w.Nodes = make([]Node, 0, len(nodes))
		for _, n0 := range nodes {
			n, ok := n0.(map[string]any)
			if !ok {
				continue
			}

			w.Nodes = append(w.Nodes, decodeNode(n))
		}
	}

	if edges, ok := doc["edges"].([]any); ok {
		w.Edges = make([]Edge, 0, len(edges))
		for _, e0 := range edges {
			e, ok := e0.(map[string]any)
			if !ok {
				continue
			}

			w.Edges = append(w.Edges, Edge{
				ID:           asString(e["id"]),
				Source:       asString(e["source"]),
				SourceHandle: asString(e["source_handle"]),
				Target:       asString(e["target"]),
				TargetHandle: asString(e["target_handle"]),
			})
		}
	}

	return w
}

func decodeNode(n map[string]any) Node {
	node := Node{
		ID:   asString(n["id"]),
		Type: asString(n["type"]),
	}

	if pos, ok := n["position"].(map[string]any); ok {
		node.Position.X = asFloat(pos["x"])
		node.Position.Y = asFloat(pos["y"])
	}

	data, ok := n["data"].(map[string]any)
	if !ok {
		return node
	}

	node.Data.DisplayName = asString(data["display_name"])

	tpl, ok := data["template"].(map[string]any)
	if !ok {
		return node
	}

	node.Data.Template = make(map[string]FieldSpec, len(tpl))
	for name, f0 := range tpl {
		f, ok := f0.(map[string]any)
		if !ok {
			node.Data.Template[name] = FieldSpec{}
			continue
		}

		spec := FieldSpec{
			DisplayName: asString(f["display_name"]),
			Type:        FieldType(asString(f["type"])),
			Value:       f["value"],
		}
		if isHandle, ok := f["is_handle"].(bool); ok {
			spec.IsHandle = isHandle
		}
		if v, ok := f["min"].(float64); ok {
			spec.Min = &v
		}
		if v, ok := f["max"].(float64); ok {
			spec.Max = &v
		}
		if opts, ok := f["options"].([]any); ok {
			for _, opt := range opts {
				if s, ok := opt.(string); ok {
					spec.Options = append(spec.Options, s)
				}
			}
		}

		node.Data.Template[name] = spec
	}

	return node
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}
