package storetest

import (
	"log/slog"
	"os"

	"github.com/thejerf/slogassert"
)

type TestingT interface {
	Cleanup(func())
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Helper()
	Name() string
}

// NewTestLogger returns a debug-level logger recording into a slogassert
// handler, tagged with the test name. Set FLOWCANVAS_TEST_LOG=true to also
// print the records to stderr.
func NewTestLogger(t TestingT) (*slog.Logger, *slogassert.Handler) {
	var wrappedH slog.Handler
	if os.Getenv(`FLOWCANVAS_TEST_LOG`) == `true` {
		wrappedH = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			ReplaceAttr: dropTimeAttr,
		})
	}

	h := slogassert.New(t, slog.LevelDebug, wrappedH)
	l := slog.New(h).With(`test`, t.Name())

	return l, h
}

func dropTimeAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
