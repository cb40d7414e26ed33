package flowcanvas

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/VictoriaMetrics/easyproto"
)

var mp = &easyproto.MarshalerPool{}

func MarshalRecord(rec *Record, dst []byte) []byte {
	m := mp.Get()
	defer mp.Put(m)

	marshalRecord(rec, m.MessageMarshaler())
	return m.Marshal(dst)
}

// message Record {
//  Workflow workflow = 1;
//  int64 rev = 2;
//  int64 committed_at_unix_milli = 3;
// }
func marshalRecord(rec *Record, mm *easyproto.MessageMarshaler) {
	marshalWorkflow(&rec.Workflow, mm.AppendMessage(1))

	if rec.Rev != 0 {
		mm.AppendInt64(2, rec.Rev)
	}
	if rec.CommittedAtUnixMilli != 0 {
		mm.AppendInt64(3, rec.CommittedAtUnixMilli)
	}
}

func UnmarshalRecord(src []byte, rec *Record) (err error) {
	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return fmt.Errorf("cannot read next field")
		}
		switch fc.FieldNum {
		case 1:
			data, ok := fc.MessageData()
			if !ok {
				return fmt.Errorf("cannot read 'Workflow workflow = 1;' field")
			}

			if err := UnmarshalWorkflow(data, &rec.Workflow); err != nil {
				return fmt.Errorf("cannot unmarshal 'Workflow workflow = 1;' field: %w", err)
			}
		case 2:
			rev, ok := fc.Int64()
			if !ok {
				return fmt.Errorf("cannot read 'int64 rev = 2;' field")
			}
			rec.Rev = rev
		case 3:
			timestamp, ok := fc.Int64()
			if !ok {
				return fmt.Errorf("cannot read 'int64 committed_at_unix_milli = 3;' field")
			}
			rec.CommittedAtUnixMilli = timestamp
		}
	}
	return nil
}

func MarshalWorkflow(w *Workflow, dst []byte) []byte {
	m := mp.Get()
	defer mp.Put(m)

	marshalWorkflow(w, m.MessageMarshaler())
	return m.Marshal(dst)
}

// message Workflow {
//  string workflow_id = 1;
//  string workflow_name = 2;
//  repeated Node nodes = 3;
//  repeated Edge edges = 4;
// }
func marshalWorkflow(w *Workflow, mm *easyproto.MessageMarshaler) {
	if w.ID != "" {
		mm.AppendString(1, string(w.ID))
	}
	if w.Name != "" {
		mm.AppendString(2, w.Name)
	}
	for i := range w.Nodes {
		marshalNode(&w.Nodes[i], mm.AppendMessage(3))
	}
	for i := range w.Edges {
		marshalEdge(&w.Edges[i], mm.AppendMessage(4))
	}
}

func UnmarshalWorkflow(src []byte, w *Workflow) (err error) {
	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return fmt.Errorf("cannot read next field")
		}
		switch fc.FieldNum {
		case 1:
			id, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string workflow_id = 1;' field")
			}
			w.ID = WorkflowID(strings.Clone(id))
		case 2:
			name, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string workflow_name = 2;' field")
			}
			w.Name = strings.Clone(name)
		case 3:
			data, ok := fc.MessageData()
			if !ok {
				return fmt.Errorf("cannot read 'repeated Node nodes = 3;' field")
			}

			n := Node{}
			if err := unmarshalNode(data, &n); err != nil {
				return fmt.Errorf("cannot unmarshal 'repeated Node nodes = 3;' field: %w", err)
			}

			w.Nodes = append(w.Nodes, n)
		case 4:
			data, ok := fc.MessageData()
			if !ok {
				return fmt.Errorf("cannot read 'repeated Edge edges = 4;' field")
			}

			e := Edge{}
			if err := unmarshalEdge(data, &e); err != nil {
				return fmt.Errorf("cannot unmarshal 'repeated Edge edges = 4;' field: %w", err)
			}

			w.Edges = append(w.Edges, e)
		}
	}
	return nil
}

// message Node {
//  string id = 1;
//  string type = 2;
//  double x = 3;
//  double y = 4;
//  string display_name = 5;
//  repeated TemplateField template = 6;
// }
func marshalNode(n *Node, mm *easyproto.MessageMarshaler) {
	if n.ID != "" {
		mm.AppendString(1, n.ID)
	}
	if n.Type != "" {
		mm.AppendString(2, n.Type)
	}
	if n.Position.X != 0 {
		mm.AppendDouble(3, n.Position.X)
	}
	if n.Position.Y != 0 {
		mm.AppendDouble(4, n.Position.Y)
	}
	if n.Data.DisplayName != "" {
		mm.AppendString(5, n.Data.DisplayName)
	}
	for _, name := range sortedFieldNames(n.Data.Template) {
		f := n.Data.Template[name]
		marshalTemplateField(name, &f, mm.AppendMessage(6))
	}
}

func unmarshalNode(src []byte, n *Node) (err error) {
	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return fmt.Errorf("cannot read next field")
		}
		switch fc.FieldNum {
		case 1:
			id, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string id = 1;' field")
			}
			n.ID = strings.Clone(id)
		case 2:
			typ, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string type = 2;' field")
			}
			n.Type = strings.Clone(typ)
		case 3:
			x, ok := fc.Double()
			if !ok {
				return fmt.Errorf("cannot read 'double x = 3;' field")
			}
			n.Position.X = x
		case 4:
			y, ok := fc.Double()
			if !ok {
				return fmt.Errorf("cannot read 'double y = 4;' field")
			}
			n.Position.Y = y
		case 5:
			displayName, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string display_name = 5;' field")
			}
			n.Data.DisplayName = strings.Clone(displayName)
		case 6:
			data, ok := fc.MessageData()
			if !ok {
				return fmt.Errorf("cannot read 'repeated TemplateField template = 6;' field")
			}

			if n.Data.Template == nil {
				n.Data.Template = make(map[string]FieldSpec)
			}

			name, f, err := unmarshalTemplateField(data)
			if err != nil {
				return fmt.Errorf("cannot unmarshal 'repeated TemplateField template = 6;' field: %w", err)
			}
			n.Data.Template[name] = f
		}
	}
	return nil
}

// message TemplateField {
//  string name = 1;
//  string display_name = 2;
//  string type = 3;
//  string value_json = 4;
//  bool is_handle = 5;
//  double min = 6;
//  bool has_min = 7;
//  double max = 8;
//  bool has_max = 9;
//  repeated string options = 10;
// }
//
// The field value is carried as JSON since it is free-form on the wire too.
func marshalTemplateField(name string, f *FieldSpec, mm *easyproto.MessageMarshaler) {
	if name != "" {
		mm.AppendString(1, name)
	}
	if f.DisplayName != "" {
		mm.AppendString(2, f.DisplayName)
	}
	if f.Type != "" {
		mm.AppendString(3, string(f.Type))
	}
	if f.Value != nil {
		b, err := json.Marshal(f.Value)
		if err == nil {
			mm.AppendString(4, string(b))
		}
	}
	if f.IsHandle {
		mm.AppendBool(5, true)
	}
	if f.Min != nil {
		mm.AppendDouble(6, *f.Min)
		mm.AppendBool(7, true)
	}
	if f.Max != nil {
		mm.AppendDouble(8, *f.Max)
		mm.AppendBool(9, true)
	}
	for _, opt := range f.Options {
		mm.AppendString(10, opt)
	}
}

func unmarshalTemplateField(src []byte) (string, FieldSpec, error) {
	var name string
	var f FieldSpec
	var min, max float64
	var hasMin, hasMax bool
	var err error

	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return "", f, fmt.Errorf("cannot read next field")
		}
		switch fc.FieldNum {
		case 1:
			v, ok := fc.String()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'string name = 1;' field")
			}
			name = strings.Clone(v)
		case 2:
			v, ok := fc.String()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'string display_name = 2;' field")
			}
			f.DisplayName = strings.Clone(v)
		case 3:
			v, ok := fc.String()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'string type = 3;' field")
			}
			f.Type = FieldType(strings.Clone(v))
		case 4:
			v, ok := fc.String()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'string value_json = 4;' field")
			}

			var value any
			if err := json.Unmarshal([]byte(v), &value); err != nil {
				return "", f, fmt.Errorf("cannot decode 'string value_json = 4;' field: %w", err)
			}
			f.Value = value
		case 5:
			v, ok := fc.Bool()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'bool is_handle = 5;' field")
			}
			f.IsHandle = v
		case 6:
			v, ok := fc.Double()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'double min = 6;' field")
			}
			min = v
		case 7:
			v, ok := fc.Bool()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'bool has_min = 7;' field")
			}
			hasMin = v
		case 8:
			v, ok := fc.Double()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'double max = 8;' field")
			}
			max = v
		case 9:
			v, ok := fc.Bool()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'bool has_max = 9;' field")
			}
			hasMax = v
		case 10:
			v, ok := fc.String()
			if !ok {
				return "", f, fmt.Errorf("cannot read 'repeated string options = 10;' field")
			}
			f.Options = append(f.Options, strings.Clone(v))
		}
	}

	if hasMin {
		f.Min = &min
	}
	if hasMax {
		f.Max = &max
	}

	return name, f, nil
}

// message Edge {
//  string id = 1;
//  string source = 2;
//  string source_handle = 3;
//  string target = 4;
//  string target_handle = 5;
// }
func marshalEdge(e *Edge, mm *easyproto.MessageMarshaler) {
	if e.ID != "" {
		mm.AppendString(1, e.ID)
	}
	if e.Source != "" {
		mm.AppendString(2, e.Source)
	}
	if e.SourceHandle != "" {
		mm.AppendString(3, e.SourceHandle)
	}
	if e.Target != "" {
		mm.AppendString(4, e.Target)
	}
	if e.TargetHandle != "" {
		mm.AppendString(5, e.TargetHandle)
	}
}

func unmarshalEdge(src []byte, e *Edge) (err error) {
	var fc easyproto.FieldContext
	for len(src) > 0 {
		src, err = fc.NextField(src)
		if err != nil {
			return fmt.Errorf("cannot read next field")
		}
		switch fc.FieldNum {
		case 1:
			v, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string id = 1;' field")
			}
			e.ID = strings.Clone(v)
		case 2:
			v, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string source = 2;' field")
			}
			e.Source = strings.Clone(v)
		case 3:
			v, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string source_handle = 3;' field")
			}
			e.SourceHandle = strings.Clone(v)
		case 4:
			v, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string target = 4;' field")
			}
			e.Target = strings.Clone(v)
		case 5:
			v, ok := fc.String()
			if !ok {
				return fmt.Errorf("cannot read 'string target_handle = 5;' field")
			}
			e.TargetHandle = strings.Clone(v)
		}
	}
	return nil
}

func sortedFieldNames(template map[string]FieldSpec) []string {
	if len(template) == 0 {
		return nil
	}

	names := make([]string, 0, len(template))
	for name := range template {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
