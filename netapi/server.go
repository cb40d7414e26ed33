package netapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/makasim/flowcanvas"
	"golang.org/x/time/rate"
)

// API exposes a builder, an analyzer, a node type registry and a store
// over plain JSON POST endpoints.
type API struct {
	b  *flowcanvas.Builder
	s  flowcanvas.Store
	tr *flowcanvas.TypeRegistry

	inputLim *rate.Limiter

	l *slog.Logger
}

type Option func(*API)

// WithInputLimit caps how many input events per second the API accepts.
func WithInputLimit(lim rate.Limit, burst int) Option {
	return func(a *API) {
		a.inputLim = rate.NewLimiter(lim, burst)
	}
}

func New(b *flowcanvas.Builder, s flowcanvas.Store, tr *flowcanvas.TypeRegistry, l *slog.Logger, opts ...Option) *API {
	a := &API{
		b:  b,
		s:  s,
		tr: tr,

		inputLim: rate.NewLimiter(rate.Limit(50), 100),

		l: l,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func HandleAll(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if HandleGetValue(rw, r, a) {
		return true
	}
	if HandleSetValue(rw, r, a) {
		return true
	}
	if HandleInput(rw, r, a) {
		return true
	}
	if HandleGetConfig(rw, r, a) {
		return true
	}
	if HandleWatch(rw, r, a) {
		return true
	}
	if HandleAnalyze(rw, r, a) {
		return true
	}
	if HandleGetTypes(rw, r, a) {
		return true
	}
	if HandleStoreGet(rw, r, a) {
		return true
	}
	if HandleStoreSave(rw, r, a) {
		return true
	}
	if HandleStoreList(rw, r, a) {
		return true
	}
	if HandleStoreDelete(rw, r, a) {
		return true
	}

	return false
}

type valueResponse struct {
	Workflow flowcanvas.Workflow `json:"workflow"`
	Rev      int64               `json:"rev"`
}

type valueRequest struct {
	Workflow map[string]any `json:"workflow"`
}

func HandleGetValue(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Builder/GetValue" {
		return false
	}

	writeJSON(rw, valueResponse{
		Workflow: a.b.Value(),
		Rev:      a.b.Rev(),
	})
	return true
}

func HandleSetValue(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Builder/SetValue" {
		return false
	}

	req, err := readJSON[valueRequest](r)
	if err != nil {
		writeInvalidArgumentError(rw, err.Error())
		return true
	}

	w := flowcanvas.DecodeDocument(req.Workflow)
	rev := a.b.SetValue(&w)

	writeJSON(rw, valueResponse{
		Workflow: a.b.Value(),
		Rev:      rev,
	})
	return true
}

func HandleInput(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Builder/Input" {
		return false
	}

	if !a.inputLim.Allow() {
		writeResourceExhaustedError(rw, "too many input events")
		return true
	}

	req, err := readJSON[valueRequest](r)
	if err != nil {
		writeInvalidArgumentError(rw, err.Error())
		return true
	}

	w := flowcanvas.DecodeDocument(req.Workflow)
	rev := a.b.Input(&w)

	writeJSON(rw, valueResponse{
		Workflow: a.b.Value(),
		Rev:      rev,
	})
	return true
}

type configResponse struct {
	Props   flowcanvas.Props       `json:"props"`
	Example flowcanvas.Workflow    `json:"example"`
	Events  []flowcanvas.EventType `json:"events"`
}

func HandleGetConfig(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Builder/GetConfig" {
		return false
	}

	writeJSON(rw, configResponse{
		Props:   a.b.Props(),
		Example: *flowcanvas.DefaultWorkflow(),
		Events:  []flowcanvas.EventType{flowcanvas.EventChange, flowcanvas.EventInput},
	})
	return true
}

// HandleWatch streams builder events as newline delimited JSON until the
// client disconnects or the builder shuts down.
func HandleWatch(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Builder/Watch" {
		return false
	}

	flusher, ok := rw.(http.Flusher)
	if !ok {
		writeUnknownError(rw, "streaming unsupported")
		return true
	}

	w := a.b.Watch()
	defer w.Close()

	rw.Header().Set("Content-Type", "application/x-ndjson")
	rw.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(rw)
	for {
		select {
		case ev := <-w.Next():
			if err := enc.Encode(ev); err != nil {
				return true
			}
			flusher.Flush()
		case <-w.Done():
			return true
		case <-r.Context().Done():
			return true
		}
	}
}

func HandleAnalyze(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Analyzer/Analyze" {
		return false
	}

	req, err := readJSON[valueRequest](r)
	if err != nil {
		writeInvalidArgumentError(rw, err.Error())
		return true
	}

	writeJSON(rw, struct {
		Report flowcanvas.Report `json:"report"`
	}{
		Report: flowcanvas.AnalyzeDocument(req.Workflow),
	})
	return true
}

func HandleGetTypes(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Types/GetTypes" {
		return false
	}

	writeJSON(rw, struct {
		Types []flowcanvas.NodeTypeMeta `json:"types"`
	}{
		Types: a.tr.Types(),
	})
	return true
}

type storeGetRequest struct {
	WorkflowID flowcanvas.WorkflowID `json:"workflow_id"`
	Rev        int64                 `json:"rev,omitempty"`
}

type recordResponse struct {
	Record flowcanvas.Record `json:"record"`
}

func HandleStoreGet(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Store/Get" {
		return false
	}

	req, err := readJSON[storeGetRequest](r)
	if err != nil {
		writeInvalidArgumentError(rw, err.Error())
		return true
	}
	if req.WorkflowID == `` {
		writeInvalidArgumentError(rw, "workflow_id is empty")
		return true
	}

	var rec *flowcanvas.Record
	if req.Rev > 0 {
		rec, err = a.s.GetRev(r.Context(), req.WorkflowID, req.Rev)
	} else {
		rec, err = a.s.Get(r.Context(), req.WorkflowID)
	}
	if errors.Is(err, flowcanvas.ErrNotFound) {
		writeNotFoundError(rw, err.Error())
		return true
	} else if err != nil {
		writeUnknownError(rw, err.Error())
		return true
	}

	writeJSON(rw, recordResponse{Record: *rec})
	return true
}

func HandleStoreSave(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Store/Save" {
		return false
	}

	req, err := readJSON[recordResponse](r)
	if err != nil {
		writeInvalidArgumentError(rw, err.Error())
		return true
	}

	rec := req.Record
	if err := a.s.Save(r.Context(), &rec); flowcanvas.IsErrRevMismatch(err) {
		writeAbortedError(rw, err.Error())
		return true
	} else if err != nil {
		writeUnknownError(rw, err.Error())
		return true
	}

	writeJSON(rw, recordResponse{Record: rec})
	return true
}

func HandleStoreList(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Store/List" {
		return false
	}

	infos, err := a.s.List(r.Context())
	if err != nil {
		writeUnknownError(rw, err.Error())
		return true
	}
	if infos == nil {
		infos = []flowcanvas.WorkflowInfo{}
	}

	writeJSON(rw, struct {
		Workflows []flowcanvas.WorkflowInfo `json:"workflows"`
	}{
		Workflows: infos,
	})
	return true
}

func HandleStoreDelete(rw http.ResponseWriter, r *http.Request, a *API) bool {
	if r.URL.Path != "/flowcanvas.v1.Store/Delete" {
		return false
	}

	req, err := readJSON[storeGetRequest](r)
	if err != nil {
		writeInvalidArgumentError(rw, err.Error())
		return true
	}
	if req.WorkflowID == `` {
		writeInvalidArgumentError(rw, "workflow_id is empty")
		return true
	}

	if err := a.s.Delete(r.Context(), req.WorkflowID); errors.Is(err, flowcanvas.ErrNotFound) {
		writeNotFoundError(rw, err.Error())
		return true
	} else if err != nil {
		writeUnknownError(rw, err.Error())
		return true
	}

	writeJSON(rw, struct{}{})
	return true
}

func readJSON[T any](r *http.Request) (T, error) {
	var req T

	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		return req, fmt.Errorf("failed to read request body: %w", err)
	}

	if len(reqBody) == 0 {
		return req, nil
	}

	if err := json.Unmarshal(reqBody, &req); err != nil {
		return req, fmt.Errorf("failed to unmarshal request body: %w", err)
	}

	return req, nil
}

func writeJSON(rw http.ResponseWriter, res any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(rw).Encode(res)
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(rw http.ResponseWriter, status int, code, message string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	_ = json.NewEncoder(rw).Encode(apiError{Code: code, Message: message})
}

func writeInvalidArgumentError(rw http.ResponseWriter, message string) {
	writeError(rw, http.StatusBadRequest, "invalid_argument", message)
}

func writeUnknownError(rw http.ResponseWriter, message string) {
	writeError(rw, http.StatusInternalServerError, "unknown", message)
}

func writeNotFoundError(rw http.ResponseWriter, message string) {
	writeError(rw, http.StatusNotFound, "not_found", message)
}

func writeAbortedError(rw http.ResponseWriter, message string) {
	writeError(rw, http.StatusConflict, "aborted", message)
}

func writeResourceExhaustedError(rw http.ResponseWriter, message string) {
	writeError(rw, http.StatusTooManyRequests, "resource_exhausted", message)
}
