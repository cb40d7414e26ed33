package flowcanvas_test

import (
	"testing"
	"time"

	"github.com/makasim/flowcanvas"
	"github.com/makasim/flowcanvas/storetest"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBuilderDefaults(t *testing.T) {
	l, _ := storetest.NewTestLogger(t)

	b := flowcanvas.NewBuilder(l)
	defer b.Close()

	require.Equal(t, int64(0), b.Rev())

	w := b.Value()
	require.Equal(t, flowcanvas.WorkflowID(`workflow-default`), w.ID)
	require.Len(t, w.Nodes, 2)

	props := b.Props()
	require.Equal(t, `Workflow`, props.Label)
	require.True(t, props.Visible)
	require.True(t, props.Render)
}

func TestBuilderOptions(t *testing.T) {
	l, _ := storetest.NewTestLogger(t)

	w := &flowcanvas.Workflow{ID: `aWID`, Name: `A Workflow`}
	props := flowcanvas.DefaultProps()
	props.Label = `My Canvas`

	b := flowcanvas.NewBuilder(l, flowcanvas.WithValue(w), flowcanvas.WithProps(props))
	defer b.Close()

	require.Equal(t, flowcanvas.WorkflowID(`aWID`), b.Value().ID)
	require.Equal(t, `My Canvas`, b.Props().Label)
}

func TestBuilderPrePostProcessIdentity(t *testing.T) {
	l, _ := storetest.NewTestLogger(t)

	b := flowcanvas.NewBuilder(l)
	defer b.Close()

	w := flowcanvas.DefaultWorkflow()
	require.Same(t, w, b.Preprocess(b.Postprocess(w)))
}

func TestBuilderSetValueEmitsChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	l, _ := storetest.NewTestLogger(t)

	b := flowcanvas.NewBuilder(l)
	defer b.Close()

	w := b.Watch()
	defer w.Close()

	rev := b.SetValue(&flowcanvas.Workflow{ID: `aWID`, Name: `A Workflow`})
	require.Equal(t, int64(1), rev)

	ev := nextEvent(t, w)
	require.Equal(t, flowcanvas.EventChange, ev.Type)
	require.Equal(t, int64(1), ev.Rev)
	require.Equal(t, flowcanvas.WorkflowID(`aWID`), ev.Workflow.ID)

	requireNoEvent(t, w)
}

func TestBuilderInputEmitsInputThenChange(t *testing.T) {
	l, _ := storetest.NewTestLogger(t)

	b := flowcanvas.NewBuilder(l)
	defer b.Close()

	w := b.Watch()
	defer w.Close()

	rev := b.Input(&flowcanvas.Workflow{ID: `aWID`})
	require.Equal(t, int64(1), rev)

	ev := nextEvent(t, w)
	require.Equal(t, flowcanvas.EventInput, ev.Type)
	require.Equal(t, int64(1), ev.Rev)

	ev = nextEvent(t, w)
	require.Equal(t, flowcanvas.EventChange, ev.Type)
	require.Equal(t, int64(1), ev.Rev)
}

func TestBuilderRevMonotonic(t *testing.T) {
	l, _ := storetest.NewTestLogger(t)

	b := flowcanvas.NewBuilder(l)
	defer b.Close()

	require.Equal(t, int64(1), b.SetValue(&flowcanvas.Workflow{ID: `a`}))
	require.Equal(t, int64(2), b.Input(&flowcanvas.Workflow{ID: `b`}))
	require.Equal(t, int64(3), b.SetValue(&flowcanvas.Workflow{ID: `c`}))
	require.Equal(t, int64(3), b.Rev())
}

func TestBuilderValueIsolated(t *testing.T) {
	l, _ := storetest.NewTestLogger(t)

	b := flowcanvas.NewBuilder(l)
	defer b.Close()

	b.SetValue(&flowcanvas.Workflow{
		ID:    `aWID`,
		Nodes: []flowcanvas.Node{{ID: `n1`, Type: `Input`}},
	})

	w := b.Value()
	w.Nodes[0].Type = `Changed`

	require.Equal(t, `Input`, b.Value().Nodes[0].Type)
}

func TestBuilderDropOldestOnSlowWatcher(t *testing.T) {
	l, _ := storetest.NewTestLogger(t)

	b := flowcanvas.NewBuilder(l)
	defer b.Close()

	w := b.Watch()
	defer w.Close()

	// overflow the watcher buffer; the newest events must survive
	for i := 0; i < 50; i++ {
		b.SetValue(&flowcanvas.Workflow{ID: `aWID`})
	}

	var lastRev int64
	for {
		select {
		case ev := <-w.Next():
			lastRev = ev.Rev
			continue
		default:
		}
		break
	}

	require.Equal(t, int64(50), lastRev)
}

func TestBuilderClose(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	l, _ := storetest.NewTestLogger(t)

	b := flowcanvas.NewBuilder(l)

	w := b.Watch()

	b.SetValue(&flowcanvas.Workflow{ID: `aWID`})
	b.Close()

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("watcher not closed")
	}

	// closing twice is a noop
	b.Close()

	require.Equal(t, flowcanvas.WorkflowID(`aWID`), b.Value().ID)
}

func TestBuilderWatchAfterClose(t *testing.T) {
	l, _ := storetest.NewTestLogger(t)

	b := flowcanvas.NewBuilder(l)
	b.Close()

	w := b.Watch()
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("watcher on closed builder not closed")
	}

	w.Close()
}

func nextEvent(t *testing.T, w *flowcanvas.Watcher) flowcanvas.Event {
	t.Helper()

	select {
	case ev := <-w.Next():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return flowcanvas.Event{}
	}
}

func requireNoEvent(t *testing.T, w *flowcanvas.Watcher) {
	t.Helper()

	select {
	case ev := <-w.Next():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(time.Millisecond * 50):
	}
}
