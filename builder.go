package flowcanvas

import (
	"log/slog"
	"sync"
)

type EventType string

const (
	// EventChange fires on any value transition, user-driven or programmatic.
	EventChange EventType = "change"
	// EventInput fires only on direct user interaction.
	EventInput EventType = "input"
)

type Event struct {
	Type     EventType `json:"type"`
	Rev      int64     `json:"rev"`
	Workflow Workflow  `json:"workflow"`
}

// Props are cosmetic component options. The backend passes them through
// to the frontend unchanged.
type Props struct {
	Label       string   `json:"label,omitempty"`
	Info        string   `json:"info,omitempty"`
	ShowLabel   bool     `json:"show_label"`
	Container   bool     `json:"container"`
	Scale       int      `json:"scale,omitempty"`
	MinWidth    int      `json:"min_width,omitempty"`
	Visible     bool     `json:"visible"`
	ElemID      string   `json:"elem_id,omitempty"`
	ElemClasses []string `json:"elem_classes,omitempty"`
	Render      bool     `json:"render"`
}

func DefaultProps() Props {
	return Props{
		Label:     "Workflow",
		ShowLabel: true,
		Container: true,
		MinWidth:  160,
		Visible:   true,
		Render:    true,
	}
}

// Builder holds the current workflow document on behalf of the frontend
// canvas and fans value transitions out to watchers. It never validates or
// transforms the document; defects are only visible through Analyze.
type Builder struct {
	mux      sync.Mutex
	value    Workflow
	rev      int64
	props    Props
	watchers map[*Watcher]struct{}
	closed   bool

	l *slog.Logger
}

type BuilderOption func(*Builder)

func WithValue(w *Workflow) BuilderOption {
	return func(b *Builder) {
		w.CopyTo(&b.value)
	}
}

func WithProps(props Props) BuilderOption {
	return func(b *Builder) {
		b.props = props
	}
}

func NewBuilder(l *slog.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		props:    DefaultProps(),
		watchers: make(map[*Watcher]struct{}),
		l:        l,
	}
	DefaultWorkflow().CopyTo(&b.value)

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Value returns a copy of the current document.
func (b *Builder) Value() Workflow {
	b.mux.Lock()
	defer b.mux.Unlock()

	w := Workflow{}
	b.value.CopyTo(&w)
	return w
}

func (b *Builder) Rev() int64 {
	b.mux.Lock()
	defer b.mux.Unlock()

	return b.rev
}

func (b *Builder) Props() Props {
	return b.props
}

// Preprocess hands the frontend's document to host code unmodified.
func (b *Builder) Preprocess(w *Workflow) *Workflow {
	return w
}

// Postprocess hands the host's document to the frontend unmodified.
func (b *Builder) Postprocess(w *Workflow) *Workflow {
	return w
}

// SetValue replaces the document programmatically and emits a change event.
func (b *Builder) SetValue(w *Workflow) int64 {
	return b.set(w, EventChange)
}

// Input replaces the document in response to a user gesture on the canvas
// and emits an input event followed by a change event.
func (b *Builder) Input(w *Workflow) int64 {
	return b.set(w, EventInput, EventChange)
}

func (b *Builder) Watch() *Watcher {
	w := newWatcher(b)

	b.mux.Lock()
	closed := b.closed
	if !closed {
		b.watchers[w] = struct{}{}
	}
	b.mux.Unlock()

	if closed {
		w.close()
	}

	return w
}

// Close detaches and closes all watchers. The value remains readable.
func (b *Builder) Close() {
	b.mux.Lock()
	if b.closed {
		b.mux.Unlock()
		return
	}
	b.closed = true

	watchers := make([]*Watcher, 0, len(b.watchers))
	for w := range b.watchers {
		watchers = append(watchers, w)
	}
	b.watchers = make(map[*Watcher]struct{})
	b.mux.Unlock()

	for _, w := range watchers {
		w.close()
	}
}

func (b *Builder) set(w *Workflow, eventTypes ...EventType) int64 {
	b.mux.Lock()

	w.CopyTo(&b.value)
	b.rev++
	rev := b.rev

	events := make([]Event, 0, len(eventTypes))
	for _, et := range eventTypes {
		ev := Event{Type: et, Rev: rev}
		b.value.CopyTo(&ev.Workflow)
		events = append(events, ev)
	}

	watchers := make([]*Watcher, 0, len(b.watchers))
	for wtr := range b.watchers {
		watchers = append(watchers, wtr)
	}
	b.mux.Unlock()

	for _, ev := range events {
		logEvent(ev, b.l)
		for _, wtr := range watchers {
			wtr.notify(ev)
		}
	}

	return rev
}

func (b *Builder) removeWatcher(w *Watcher) {
	b.mux.Lock()
	delete(b.watchers, w)
	b.mux.Unlock()
}
