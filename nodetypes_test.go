package flowcanvas_test

import (
	"testing"

	"github.com/makasim/flowcanvas"
	"github.com/stretchr/testify/require"
)

func TestDefaultTypes(t *testing.T) {
	tr := flowcanvas.DefaultTypes()

	metas := tr.Types()
	require.GreaterOrEqual(t, len(metas), 25)

	seen := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		require.NotEmpty(t, meta.Type)
		require.NotEmpty(t, meta.DisplayName)
		require.NotEmpty(t, meta.Category)

		_, ok := seen[meta.Type]
		require.False(t, ok, "duplicate type %s", meta.Type)
		seen[meta.Type] = struct{}{}
	}

	for _, typeTag := range []string{`Input`, `Output`, `OpenAI`, `Anthropic`, `Condition`, `HTTPRequest`} {
		_, ok := seen[typeTag]
		require.True(t, ok, "missing type %s", typeTag)
	}
}

func TestTypeRegistrySetType(t *testing.T) {
	tr := &flowcanvas.TypeRegistry{}
	tr.SetType(flowcanvas.NodeTypeMeta{Type: `Custom`, DisplayName: `Custom`, Category: `misc`})

	meta, err := tr.Type(`Custom`)
	require.NoError(t, err)
	require.Equal(t, `Custom`, meta.DisplayName)

	tr.SetType(flowcanvas.NodeTypeMeta{Type: `Custom`, DisplayName: `Custom v2`, Category: `misc`})

	meta, err = tr.Type(`Custom`)
	require.NoError(t, err)
	require.Equal(t, `Custom v2`, meta.DisplayName)

	require.Len(t, tr.Types(), 1)
}

func TestTypeRegistryTypeNotFound(t *testing.T) {
	tr := flowcanvas.DefaultTypes()

	_, err := tr.Type(`Unknown`)
	require.ErrorIs(t, err, flowcanvas.ErrTypeNotFound)

	_, err = tr.NewNode(`Unknown`, `n1`, flowcanvas.Position{})
	require.ErrorIs(t, err, flowcanvas.ErrTypeNotFound)
}

func TestTypeRegistryCopySafety(t *testing.T) {
	tr := flowcanvas.DefaultTypes()

	meta, err := tr.Type(`OpenAI`)
	require.NoError(t, err)
	meta.Template[`model`] = flowcanvas.FieldSpec{DisplayName: `Changed`}

	meta2, err := tr.Type(`OpenAI`)
	require.NoError(t, err)
	require.NotEqual(t, `Changed`, meta2.Template[`model`].DisplayName)
}

func TestNewNode(t *testing.T) {
	tr := flowcanvas.DefaultTypes()

	n, err := tr.NewNode(`Text`, `text-1`, flowcanvas.Position{X: 50, Y: 60})
	require.NoError(t, err)
	require.Equal(t, `text-1`, n.ID)
	require.Equal(t, `Text`, n.Type)
	require.Equal(t, flowcanvas.Position{X: 50, Y: 60}, n.Position)
	require.Contains(t, n.Data.Template, `text`)
}

func TestDefaultWorkflow(t *testing.T) {
	w := flowcanvas.DefaultWorkflow()
	require.Equal(t, flowcanvas.WorkflowID(`workflow-default`), w.ID)
	require.Equal(t, `New Workflow`, w.Name)
	require.Len(t, w.Nodes, 2)
	require.Len(t, w.Edges, 1)

	_, ok := w.Node(`input-1`)
	require.True(t, ok)
	_, ok = w.Node(`output-1`)
	require.True(t, ok)
}
