package ui_test

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/makasim/flowcanvas/ui"
	"github.com/stretchr/testify/require"
)

func TestPublicFS(t *testing.T) {
	b, err := fs.ReadFile(ui.PublicFS(), `index.html`)
	require.NoError(t, err)
	require.NotEmpty(t, b)
}

func TestHandlerServesIndex(t *testing.T) {
	h := ui.Handler()

	for _, path := range []string{`/`, `/index.html`, `/canvas/some-workflow`} {
		req := httptest.NewRequest(`GET`, path, nil)
		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, req)

		require.Equal(t, http.StatusOK, rw.Code, path)
		require.Contains(t, rw.Body.String(), `FlowCanvas`, path)
	}
}
