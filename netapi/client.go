package netapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/makasim/flowcanvas"
)

// Client talks to a remote API over HTTP.
type Client struct {
	httpHost string

	c *http.Client
}

func NewClient(httpHost string) *Client {
	return &Client{
		httpHost: httpHost,

		c: &http.Client{},
	}
}

func (c *Client) GetValue(ctx context.Context) (flowcanvas.Workflow, int64, error) {
	res := valueResponse{}
	if err := c.do(ctx, "/flowcanvas.v1.Builder/GetValue", struct{}{}, &res); err != nil {
		return flowcanvas.Workflow{}, 0, err
	}

	return res.Workflow, res.Rev, nil
}

func (c *Client) SetValue(ctx context.Context, w *flowcanvas.Workflow) (int64, error) {
	return c.sendValue(ctx, "/flowcanvas.v1.Builder/SetValue", w)
}

func (c *Client) Input(ctx context.Context, w *flowcanvas.Workflow) (int64, error) {
	return c.sendValue(ctx, "/flowcanvas.v1.Builder/Input", w)
}

func (c *Client) GetConfig(ctx context.Context) (flowcanvas.Props, error) {
	res := configResponse{}
	if err := c.do(ctx, "/flowcanvas.v1.Builder/GetConfig", struct{}{}, &res); err != nil {
		return flowcanvas.Props{}, err
	}

	return res.Props, nil
}

func (c *Client) Analyze(ctx context.Context, w *flowcanvas.Workflow) (flowcanvas.Report, error) {
	res := struct {
		Report flowcanvas.Report `json:"report"`
	}{}
	if err := c.do(ctx, "/flowcanvas.v1.Analyzer/Analyze", struct {
		Workflow *flowcanvas.Workflow `json:"workflow"`
	}{Workflow: w}, &res); err != nil {
		return flowcanvas.Report{}, err
	}

	return res.Report, nil
}

func (c *Client) GetTypes(ctx context.Context) ([]flowcanvas.NodeTypeMeta, error) {
	res := struct {
		Types []flowcanvas.NodeTypeMeta `json:"types"`
	}{}
	if err := c.do(ctx, "/flowcanvas.v1.Types/GetTypes", struct{}{}, &res); err != nil {
		return nil, err
	}

	return res.Types, nil
}

func (c *Client) StoreGet(ctx context.Context, id flowcanvas.WorkflowID, rev int64) (*flowcanvas.Record, error) {
	res := recordResponse{}
	if err := c.do(ctx, "/flowcanvas.v1.Store/Get", storeGetRequest{WorkflowID: id, Rev: rev}, &res); err != nil {
		return nil, err
	}

	return &res.Record, nil
}

func (c *Client) StoreSave(ctx context.Context, rec *flowcanvas.Record) error {
	res := recordResponse{}
	if err := c.do(ctx, "/flowcanvas.v1.Store/Save", recordResponse{Record: *rec}, &res); err != nil {
		return err
	}

	res.Record.CopyTo(rec)
	return nil
}

func (c *Client) StoreList(ctx context.Context) ([]flowcanvas.WorkflowInfo, error) {
	res := struct {
		Workflows []flowcanvas.WorkflowInfo `json:"workflows"`
	}{}
	if err := c.do(ctx, "/flowcanvas.v1.Store/List", struct{}{}, &res); err != nil {
		return nil, err
	}

	return res.Workflows, nil
}

func (c *Client) StoreDelete(ctx context.Context, id flowcanvas.WorkflowID) error {
	return c.do(ctx, "/flowcanvas.v1.Store/Delete", storeGetRequest{WorkflowID: id}, &struct{}{})
}

// Watch streams builder events until ctx is cancelled. The returned
// channel is closed when the stream ends.
func (c *Client) Watch(ctx context.Context) (<-chan flowcanvas.Event, error) {
	req, err := http.NewRequestWithContext(ctx, `POST`, strings.TrimRight(c.httpHost, `/`)+"/flowcanvas.v1.Builder/Watch", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		return nil, decodeError(resp.StatusCode, b)
	}

	eventCh := make(chan flowcanvas.Event)
	go func() {
		defer close(eventCh)
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			ev := flowcanvas.Event{}
			if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
				return
			}

			select {
			case eventCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return eventCh, nil
}

func (c *Client) sendValue(ctx context.Context, path string, w *flowcanvas.Workflow) (int64, error) {
	res := valueResponse{}
	if err := c.do(ctx, path, struct {
		Workflow *flowcanvas.Workflow `json:"workflow"`
	}{Workflow: w}, &res); err != nil {
		return 0, err
	}

	return res.Rev, nil
}

func (c *Client) do(ctx context.Context, path string, req0 any, res any) error {
	b, err := json.Marshal(req0)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, `POST`, strings.TrimRight(c.httpHost, `/`)+path, bytes.NewBuffer(b))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	b, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, b)
	}

	if err := json.Unmarshal(b, res); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

func decodeError(statusCode int, b []byte) error {
	apiErr := apiError{}
	if err := json.Unmarshal(b, &apiErr); err != nil {
		return fmt.Errorf("response status code: %d; unmarshal error: %s", statusCode, err)
	}

	switch {
	case apiErr.Code == "not_found":
		return flowcanvas.ErrNotFound
	case apiErr.Code == "aborted" && strings.HasPrefix(apiErr.Message, "rev mismatch: "):
		_, idsStr, _ := strings.Cut(apiErr.Message, "rev mismatch: ")
		splitIDs := strings.Split(idsStr, ",")
		ids := make([]flowcanvas.WorkflowID, 0, len(splitIDs))
		for i := range splitIDs {
			id := strings.TrimSpace(splitIDs[i])
			if id == "" {
				continue
			}

			ids = append(ids, flowcanvas.WorkflowID(id))
		}

		return flowcanvas.ErrRevMismatch{IDS: ids}
	}

	return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
}
