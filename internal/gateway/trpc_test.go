package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safewatch/safewatch/internal/log"
)

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Second, QueryBackoff(0))
	assert.Equal(t, 2*time.Second, QueryBackoff(1))
	assert.Equal(t, 4*time.Second, QueryBackoff(2))
	assert.Equal(t, 5*time.Second, QueryBackoff(3))
	assert.Equal(t, 5*time.Second, QueryBackoff(70))
	assert.Equal(t, time.Second, MutationBackoff(0))
	assert.Equal(t, time.Second, MutationBackoff(4))
}

func TestQueryWireFormat(t *testing.T) {
	var gotMethod, gotPath, gotInput string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotInput = r.URL.Query().Get("input")
		_, _ = io.WriteString(w, `{"result":{"data":{"json":[{"id":"c1","name":"Pat","phone":"1","email":null,"relation":null,"userId":"u1"}]}}}`)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/api/trpc/"})
	contacts, err := c.Contacts(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/api/trpc/emergencyContacts.getByUserId", gotPath)
	assert.JSONEq(t, `{"json":{"userId":"u1"}}`, gotInput)
	require.Len(t, contacts, 1)
	assert.Nil(t, contacts[0].Email)
}

func TestMutationWireFormat(t *testing.T) {
	var gotMethod string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"result":{"data":{"json":{"id":"c9","name":"Pat","phone":"555","userId":"u1"}}}}`)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.CreateContact(context.Background(), "u1", ContactInput{Name: "Pat", Phone: "555"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.JSONEq(t, `{"json":{"userId":"u1","name":"Pat","phone":"555"}}`, string(gotBody))
}

func TestAlertWireSeverityNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"result":{"data":{"json":[
			{"id":"a1","type":"flood_warning","severity":"HIGH","message":"m","createdAt":"2025-01-02T03:04:05.000Z","isResolved":false,"userId":"u1"},
			{"id":"a2","type":"SOMETHING_NEW","severity":"bogus","message":"m","createdAt":"2025-01-03T03:04:05Z","isResolved":false,"userId":"u1"}
		]}}}`)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	alerts, err := c.Alerts(context.Background(), AlertFilter{AccountID: "u1"})
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, "a2", alerts[0].ID)
	assert.Equal(t, "Something New", alerts[0].Type.Label())
	assert.False(t, alerts[0].Severity.Known())
	assert.Equal(t, "FLOOD_WARNING", alerts[1].Type.String())
	assert.Equal(t, "Warning", alerts[1].Severity.Label())
}

func TestTransportErrorsRetried(t *testing.T) {
	logger, err := log.NewLogger(t.TempDir())
	require.NoError(t, err)

	c := New(Options{
		BaseURL:      "http://127.0.0.1:1",
		QueryRetries: 2,
		QueryDelay:   func(int) time.Duration { return 0 },
		Logger:       logger,
	})
	_, err = c.Accounts(context.Background())
	require.Error(t, err)

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "unable to reach server", gwErr.Message)
	assert.True(t, gwErr.Retryable())

	events, err := logger.ReadAll()
	require.NoError(t, err)
	var failed, retried int
	for _, ev := range events {
		switch ev.Event {
		case log.EventRequestFailed:
			failed++
		case log.EventRequestRetry:
			retried++
		}
	}
	assert.Equal(t, 3, failed)
	assert.Equal(t, 2, retried)
}

func TestMalformedResponseNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, QueryRetries: 2, QueryDelay: func(int) time.Duration { return 0 }})
	_, err := c.Accounts(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTooManyRequestsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, `{"result":{"data":{"json":[]}}}`)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, QueryRetries: 2, QueryDelay: func(int) time.Duration { return 0 }})
	accounts, err := c.Accounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCanceledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, QueryRetries: 2, QueryDelay: func(int) time.Duration { return time.Hour }})
	start := time.Now()
	_, err := c.Accounts(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestNegativeRetriesClamped(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, QueryRetries: -3})
	_, err := c.Accounts(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDecodeErrorEnvelope(t *testing.T) {
	raw := []byte(`{"error":{"json":{"message":"Contact not found","code":-32004,"data":{"code":"NOT_FOUND","httpStatus":404,"path":"emergencyContacts.update"}}}}`)
	e := decodeError(ProcContactsUpdate, http.StatusNotFound, raw)
	assert.Equal(t, "Contact not found", e.Message)
	assert.Equal(t, "NOT_FOUND", e.Code)
	assert.Equal(t, 404, e.HTTPStatus)
	assert.Contains(t, e.Error(), "NOT_FOUND")

	e = decodeError(ProcContactsUpdate, http.StatusBadGateway, []byte("<html>"))
	assert.Equal(t, "Bad Gateway", e.Message)
	assert.True(t, e.Retryable())
}
