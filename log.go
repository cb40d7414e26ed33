package flowcanvas

import (
	"log/slog"
)

func logEvent(ev Event, l *slog.Logger) {
	args := []any{
		"event", string(ev.Type),
		"rev", ev.Rev,
		"workflow", string(ev.Workflow.ID),
		"nodes", len(ev.Workflow.Nodes),
		"edges", len(ev.Workflow.Edges),
	}

	if ev.Workflow.Name != `` {
		args = append(args, "name", ev.Workflow.Name)
	}

	l.Debug("emit event", args...)
}
