package flowcanvas

import (
	"sync/atomic"
)

const watcherBuffer = 16

// Watcher receives builder events. Delivery is lossy under backpressure:
// when the buffer is full the oldest event is dropped, which is safe
// because every event carries the full current document.
type Watcher struct {
	b *Builder

	eventCh chan Event
	closeCh chan struct{}
	closed  atomic.Bool
}

func newWatcher(b *Builder) *Watcher {
	return &Watcher{
		b:       b,
		eventCh: make(chan Event, watcherBuffer),
		closeCh: make(chan struct{}),
	}
}

func (w *Watcher) Next() <-chan Event {
	return w.eventCh
}

// Done is closed when the watcher is detached, either by Close or by
// the builder shutting down.
func (w *Watcher) Done() <-chan struct{} {
	return w.closeCh
}

func (w *Watcher) Close() {
	w.b.removeWatcher(w)
	w.close()
}

func (w *Watcher) close() {
	if !w.closed.CompareAndSwap(false, true) {
		return
	}

	close(w.closeCh)
}

func (w *Watcher) notify(ev Event) {
	for {
		select {
		case w.eventCh <- ev:
			return
		case <-w.closeCh:
			return
		default:
		}

		// buffer full; drop the oldest
		select {
		case <-w.eventCh:
		default:
		}
	}
}
