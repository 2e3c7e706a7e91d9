package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/safewatch/safewatch/internal/log"
)

// envelope wraps inputs and outputs the way the backend's JSON transformer
// expects: {"json": <value>}.
type envelope struct {
	JSON json.RawMessage `json:"json"`
}

type successResponse struct {
	Result struct {
		Data envelope `json:"data"`
	} `json:"result"`
}

type errorResponse struct {
	Error struct {
		JSON struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
			Data    struct {
				Code       string `json:"code"`
				HTTPStatus int    `json:"httpStatus"`
				Path       string `json:"path"`
			} `json:"data"`
		} `json:"json"`
	} `json:"error"`
}

// RetryPolicy bounds attempts for one kind of call.
type RetryPolicy struct {
	Retries int
	Delay   func(attempt int) time.Duration
}

// QueryBackoff is min(1s * 2^attempt, 5s).
func QueryBackoff(attempt int) time.Duration {
	d := time.Second << uint(attempt)
	if d > 5*time.Second || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// MutationBackoff is a flat 1s.
func MutationBackoff(int) time.Duration {
	return time.Second
}

type callKind int

const (
	kindQuery callKind = iota
	kindMutation
)

func (k callKind) String() string {
	if k == kindMutation {
		return "mutation"
	}
	return "query"
}

// transport performs single procedure calls with retry.
type transport struct {
	baseURL    string
	httpClient *http.Client
	queries    RetryPolicy
	mutations  RetryPolicy
	logger     *log.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// call invokes proc and returns the raw JSON result.
func (t *transport) call(ctx context.Context, kind callKind, proc string, input any) (json.RawMessage, error) {
	policy := t.queries
	if kind == kindMutation {
		policy = t.mutations
	}

	var lastErr *Error
	for attempt := 0; attempt <= policy.Retries; attempt++ {
		if attempt > 0 {
			delay := QueryBackoff(attempt - 1)
			if policy.Delay != nil {
				delay = policy.Delay(attempt - 1)
			}
			_ = t.logger.Append(log.LogEvent{
				Event:     log.EventRequestRetry,
				Procedure: proc,
				Op:        kind.String(),
				Attempt:   attempt,
				Error:     lastErr.Error(),
			})
			if err := t.sleep(ctx, delay); err != nil {
				return nil, transportError(proc, err)
			}
		}

		start := time.Now()
		data, err := t.do(ctx, kind, proc, input)
		if err == nil {
			return data, nil
		}
		lastErr = err
		_ = t.logger.Append(log.LogEvent{
			Event:      log.EventRequestFailed,
			Procedure:  proc,
			Op:         kind.String(),
			Attempt:    attempt + 1,
			Error:      err.Error(),
			DurationMs: time.Since(start).Milliseconds(),
		})
		if !err.Retryable() {
			break
		}
	}
	return nil, lastErr
}

func (t *transport) do(ctx context.Context, kind callKind, proc string, input any) (json.RawMessage, *Error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, &Error{Procedure: proc, Message: "invalid request", cause: errors.Wrap(err, "marshal input"), noRetry: true}
	}
	body, err := json.Marshal(envelope{JSON: payload})
	if err != nil {
		return nil, &Error{Procedure: proc, Message: "invalid request", cause: errors.Wrap(err, "marshal envelope"), noRetry: true}
	}

	endpoint := strings.TrimRight(t.baseURL, "/") + "/" + proc

	var req *http.Request
	if kind == kindQuery {
		q := url.Values{}
		q.Set("input", string(body))
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	}
	if err != nil {
		return nil, transportError(proc, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, transportError(proc, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(proc, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var ok successResponse
		if err := json.Unmarshal(raw, &ok); err != nil {
			return nil, &Error{
				Procedure:  proc,
				HTTPStatus: resp.StatusCode,
				Message:    "unexpected response from server",
				cause:      errors.Wrap(err, "decode response"),
				noRetry:    true,
			}
		}
		return ok.Result.Data.JSON, nil
	}

	return nil, decodeError(proc, resp.StatusCode, raw)
}

func decodeError(proc string, status int, raw []byte) *Error {
	gwErr := &Error{Procedure: proc, HTTPStatus: status, Message: http.StatusText(status)}
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error.JSON.Message != "" {
		gwErr.Message = er.Error.JSON.Message
		gwErr.Code = er.Error.JSON.Data.Code
		if er.Error.JSON.Data.HTTPStatus != 0 {
			gwErr.HTTPStatus = er.Error.JSON.Data.HTTPStatus
		}
	}
	if gwErr.Message == "" {
		gwErr.Message = "request failed"
	}
	return gwErr
}
