package flowcanvas

// NodeTypeMeta is declarative frontend metadata for a node type:
// how the canvas renders it and which fields its property panel shows.
// Node types carry no executable behavior in the backend.
type NodeTypeMeta struct {
	Type        string               `json:"type"`
	DisplayName string               `json:"display_name"`
	Category    string               `json:"category"`
	Icon        string               `json:"icon"`
	Template    map[string]FieldSpec `json:"template"`
}

type TypeRegistry struct {
	types map[string]NodeTypeMeta
	order []string
}

func (tr *TypeRegistry) SetType(meta NodeTypeMeta) {
	if tr.types == nil {
		tr.types = make(map[string]NodeTypeMeta)
	}

	if _, ok := tr.types[meta.Type]; !ok {
		tr.order = append(tr.order, meta.Type)
	}
	tr.types[meta.Type] = meta
}

func (tr *TypeRegistry) Type(typeTag string) (NodeTypeMeta, error) {
	meta, ok := tr.types[typeTag]
	if !ok {
		return NodeTypeMeta{}, ErrTypeNotFound
	}

	return copyMeta(meta), nil
}

// Types returns the registered metadata in registration order.
func (tr *TypeRegistry) Types() []NodeTypeMeta {
	metas := make([]NodeTypeMeta, 0, len(tr.order))
	for _, typeTag := range tr.order {
		metas = append(metas, copyMeta(tr.types[typeTag]))
	}

	return metas
}

// NewNode stamps a node of the given type at a canvas position,
// with the type's field template as its initial data.
func (tr *TypeRegistry) NewNode(typeTag, id string, pos Position) (Node, error) {
	meta, err := tr.Type(typeTag)
	if err != nil {
		return Node{}, err
	}

	return Node{
		ID:       id,
		Type:     meta.Type,
		Position: pos,
		Data: NodeData{
			DisplayName: meta.DisplayName,
			Template:    meta.Template,
		},
	}, nil
}

func copyMeta(meta NodeTypeMeta) NodeTypeMeta {
	cp := meta

	if meta.Template != nil {
		cp.Template = make(map[string]FieldSpec, len(meta.Template))
		for name, f := range meta.Template {
			cp.Template[name] = f.copy()
		}
	}

	return cp
}

// DefaultTypes returns a registry with the stock node types.
func DefaultTypes() *TypeRegistry {
	tr := &TypeRegistry{}
	for _, meta := range defaultTypes {
		tr.SetType(meta)
	}

	return tr
}

// DefaultWorkflow returns the example payload rendered when the host
// configures no initial value: two connected nodes and one edge.
func DefaultWorkflow() *Workflow {
	tr := DefaultTypes()

	input, _ := tr.NewNode("Input", "input-1", Position{X: 100, Y: 200})
	output, _ := tr.NewNode("Output", "output-1", Position{X: 500, Y: 200})

	return &Workflow{
		ID:    "workflow-default",
		Name:  "New Workflow",
		Nodes: []Node{input, output},
		Edges: []Edge{
			{
				ID:           "edge-1",
				Source:       "input-1",
				SourceHandle: "output",
				Target:       "output-1",
				TargetHandle: "input",
			},
		},
	}
}

func strField(displayName, value string) FieldSpec {
	return FieldSpec{DisplayName: displayName, Type: FieldTypeString, Value: value}
}

func handleField(displayName string) FieldSpec {
	return FieldSpec{DisplayName: displayName, Type: FieldTypeString, IsHandle: true}
}

func numField(displayName string, value, minV, maxV float64) FieldSpec {
	return FieldSpec{DisplayName: displayName, Type: FieldTypeNumber, Value: value, Min: &minV, Max: &maxV}
}

func optField(displayName, value string, options ...string) FieldSpec {
	return FieldSpec{DisplayName: displayName, Type: FieldTypeOptions, Value: value, Options: options}
}

var defaultTypes = []NodeTypeMeta{
	{
		Type: "Input", DisplayName: "Input", Category: "io", Icon: "log-in",
		Template: map[string]FieldSpec{
			"input_name": strField("Input Name", "input"),
			"value":      strField("Value", ""),
			"output":     handleField("Output"),
		},
	},
	{
		Type: "Output", DisplayName: "Output", Category: "io", Icon: "log-out",
		Template: map[string]FieldSpec{
			"output_name": strField("Output Name", "output"),
			"input":       handleField("Input"),
		},
	},
	{
		Type: "Text", DisplayName: "Text", Category: "io", Icon: "type",
		Template: map[string]FieldSpec{
			"text":   strField("Text", ""),
			"output": handleField("Output"),
		},
	},
	{
		Type: "Number", DisplayName: "Number", Category: "io", Icon: "hash",
		Template: map[string]FieldSpec{
			"value":  numField("Value", 0, -1e9, 1e9),
			"output": handleField("Output"),
		},
	},
	{
		Type: "FileUpload", DisplayName: "File Upload", Category: "io", Icon: "upload",
		Template: map[string]FieldSpec{
			"accept": strField("Accepted Types", "*"),
			"output": handleField("File"),
		},
	},
	{
		Type: "OpenAI", DisplayName: "OpenAI", Category: "llm", Icon: "sparkles",
		Template: map[string]FieldSpec{
			"model":       optField("Model", "gpt-4o", "gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"),
			"system":      strField("System Prompt", ""),
			"temperature": numField("Temperature", 0.7, 0, 2),
			"prompt":      handleField("Prompt"),
			"response":    handleField("Response"),
		},
	},
	{
		Type: "Anthropic", DisplayName: "Anthropic", Category: "llm", Icon: "sparkles",
		Template: map[string]FieldSpec{
			"model":       optField("Model", "claude-sonnet-4-20250514", "claude-sonnet-4-20250514", "claude-3-5-haiku-20241022"),
			"system":      strField("System Prompt", ""),
			"temperature": numField("Temperature", 1, 0, 1),
			"prompt":      handleField("Prompt"),
			"response":    handleField("Response"),
		},
	},
	{
		Type: "Gemini", DisplayName: "Google Gemini", Category: "llm", Icon: "sparkles",
		Template: map[string]FieldSpec{
			"model":    optField("Model", "gemini-2.0-flash", "gemini-2.0-flash", "gemini-1.5-pro"),
			"prompt":   handleField("Prompt"),
			"response": handleField("Response"),
		},
	},
	{
		Type: "Summarizer", DisplayName: "Summarizer", Category: "llm", Icon: "align-left",
		Template: map[string]FieldSpec{
			"max_words": numField("Max Words", 100, 10, 2000),
			"text":      handleField("Text"),
			"summary":   handleField("Summary"),
		},
	},
	{
		Type: "Classifier", DisplayName: "Classifier", Category: "llm", Icon: "tags",
		Template: map[string]FieldSpec{
			"labels": strField("Labels (comma separated)", ""),
			"text":   handleField("Text"),
			"label":  handleField("Label"),
		},
	},
	{
		Type: "Translator", DisplayName: "Translator", Category: "llm", Icon: "languages",
		Template: map[string]FieldSpec{
			"target_language": strField("Target Language", "English"),
			"text":            handleField("Text"),
			"translation":     handleField("Translation"),
		},
	},
	{
		Type: "Embeddings", DisplayName: "Embeddings", Category: "llm", Icon: "binary",
		Template: map[string]FieldSpec{
			"model":  strField("Model", "text-embedding-3-small"),
			"text":   handleField("Text"),
			"vector": handleField("Vector"),
		},
	},
	{
		Type: "ImageGeneration", DisplayName: "Image Generation", Category: "llm", Icon: "image",
		Template: map[string]FieldSpec{
			"size":   optField("Size", "1024x1024", "512x512", "1024x1024", "1792x1024"),
			"prompt": handleField("Prompt"),
			"image":  handleField("Image"),
		},
	},
	{
		Type: "RAGQuery", DisplayName: "RAG Query", Category: "llm", Icon: "database-search",
		Template: map[string]FieldSpec{
			"top_k":   numField("Top K", 5, 1, 50),
			"query":   handleField("Query"),
			"context": handleField("Context"),
		},
	},
	{
		Type: "HTTPRequest", DisplayName: "HTTP Request", Category: "integration", Icon: "globe",
		Template: map[string]FieldSpec{
			"method":   optField("Method", "GET", "GET", "POST", "PUT", "DELETE"),
			"url":      strField("URL", ""),
			"headers":  {DisplayName: "Headers", Type: FieldTypeObject},
			"body":     handleField("Body"),
			"response": handleField("Response"),
		},
	},
	{
		Type: "Webhook", DisplayName: "Webhook", Category: "integration", Icon: "webhook",
		Template: map[string]FieldSpec{
			"url":     strField("Webhook URL", ""),
			"payload": handleField("Payload"),
		},
	},
	{
		Type: "Email", DisplayName: "Email", Category: "integration", Icon: "mail",
		Template: map[string]FieldSpec{
			"to":      strField("To", ""),
			"subject": strField("Subject", ""),
			"body":    handleField("Body"),
		},
	},
	{
		Type: "Slack", DisplayName: "Slack Message", Category: "integration", Icon: "message-square",
		Template: map[string]FieldSpec{
			"channel": strField("Channel", "#general"),
			"message": handleField("Message"),
		},
	},
	{
		Type: "Database", DisplayName: "Database Query", Category: "integration", Icon: "database",
		Template: map[string]FieldSpec{
			"query":  strField("SQL Query", ""),
			"params": handleField("Parameters"),
			"rows":   handleField("Rows"),
		},
	},
	{
		Type: "Schedule", DisplayName: "Schedule", Category: "trigger", Icon: "clock",
		Template: map[string]FieldSpec{
			"cron":    strField("Cron Expression", "0 * * * *"),
			"trigger": handleField("Trigger"),
		},
	},
	{
		Type: "Condition", DisplayName: "Condition", Category: "logic", Icon: "git-branch",
		Template: map[string]FieldSpec{
			"operator": optField("Operator", "equals", "equals", "not_equals", "contains", "greater_than", "less_than"),
			"value":    strField("Compare To", ""),
			"input":    handleField("Input"),
			"true":     handleField("True"),
			"false":    handleField("False"),
		},
	},
	{
		Type: "Loop", DisplayName: "Loop", Category: "logic", Icon: "repeat",
		Template: map[string]FieldSpec{
			"max_iterations": numField("Max Iterations", 10, 1, 1000),
			"items":          handleField("Items"),
			"item":           handleField("Item"),
		},
	},
	{
		Type: "Merge", DisplayName: "Merge", Category: "logic", Icon: "git-merge",
		Template: map[string]FieldSpec{
			"input_a": handleField("Input A"),
			"input_b": handleField("Input B"),
			"output":  handleField("Output"),
		},
	},
	{
		Type: "Split", DisplayName: "Split", Category: "logic", Icon: "split",
		Template: map[string]FieldSpec{
			"input":    handleField("Input"),
			"output_a": handleField("Output A"),
			"output_b": handleField("Output B"),
		},
	},
	{
		Type: "Filter", DisplayName: "Filter", Category: "logic", Icon: "filter",
		Template: map[string]FieldSpec{
			"expression": strField("Expression", ""),
			"items":      handleField("Items"),
			"filtered":   handleField("Filtered"),
		},
	},
	{
		Type: "Delay", DisplayName: "Delay", Category: "logic", Icon: "timer",
		Template: map[string]FieldSpec{
			"seconds": numField("Seconds", 1, 0, 86400),
			"input":   handleField("Input"),
			"output":  handleField("Output"),
		},
	},
	{
		Type: "Transform", DisplayName: "Transform", Category: "data", Icon: "wand",
		Template: map[string]FieldSpec{
			"expression": strField("Expression", ""),
			"input":      handleField("Input"),
			"output":     handleField("Output"),
		},
	},
	{
		Type: "Template", DisplayName: "Template", Category: "data", Icon: "braces",
		Template: map[string]FieldSpec{
			"template": strField("Template", "{{input}}"),
			"input":    handleField("Input"),
			"output":   handleField("Output"),
		},
	},
	{
		Type: "Code", DisplayName: "Code", Category: "data", Icon: "code",
		Template: map[string]FieldSpec{
			"language": optField("Language", "javascript", "javascript", "python"),
			"code":     strField("Code", ""),
			"input":    handleField("Input"),
			"output":   handleField("Output"),
		},
	},
	{
		Type: "JSONParser", DisplayName: "JSON Parser", Category: "data", Icon: "braces",
		Template: map[string]FieldSpec{
			"path":   strField("JSON Path", "$"),
			"input":  handleField("Input"),
			"output": handleField("Output"),
		},
	},
}
