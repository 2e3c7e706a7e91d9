package devserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, srv *httptest.Server, proc, input string) (*http.Response, map[string]any) {
	t.Helper()
	q := url.Values{}
	q.Set("input", input)
	resp, err := http.Get(srv.URL + DefaultPrefix + "/" + proc + "?" + q.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func post(t *testing.T, srv *httptest.Server, proc, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+DefaultPrefix+"/"+proc, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func newServer(t *testing.T) (*Backend, *httptest.Server) {
	t.Helper()
	b := New()
	b.Seed()
	srv := httptest.NewServer(b.Router(DefaultPrefix))
	t.Cleanup(srv.Close)
	return b, srv
}

func TestQueryEnvelope(t *testing.T) {
	_, srv := newServer(t)

	resp, body := get(t, srv, "alerts.getAll", `{"json":{"userId":"u1","isResolved":false}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["result"].(map[string]any)["data"].(map[string]any)["json"].([]any)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	assert.Equal(t, "FLOOD_WARNING", first["type"])
	assert.Equal(t, "WARNING", first["severity"])
}

func TestAccountCounts(t *testing.T) {
	_, srv := newServer(t)

	_, body := get(t, srv, "users.getById", `{"json":{"id":"u1"}}`)
	acct := body["result"].(map[string]any)["data"].(map[string]any)["json"].(map[string]any)
	counts := acct["_count"].(map[string]any)
	assert.EqualValues(t, 2, counts["emergencyContacts"])
	assert.EqualValues(t, 3, counts["alerts"])
}

func TestErrorEnvelope(t *testing.T) {
	_, srv := newServer(t)

	resp, body := post(t, srv, "alerts.resolve", `{"json":{"id":"missing"}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	e := body["error"].(map[string]any)["json"].(map[string]any)
	assert.Equal(t, "alert not found", e["message"])
	data := e["data"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", data["code"])
	assert.EqualValues(t, 404, data["httpStatus"])
	assert.Equal(t, "alerts.resolve", data["path"])
}

func TestMethodMismatch(t *testing.T) {
	_, srv := newServer(t)

	resp, _ := get(t, srv, "alerts.create", `{"json":{}}`)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = post(t, srv, "users.getAll", `{"json":null}`)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestUnknownProcedure(t *testing.T) {
	_, srv := newServer(t)
	resp, _ := get(t, srv, "nope.nothing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFailNext(t *testing.T) {
	b, srv := newServer(t)
	b.FailNext("users.getAll", http.StatusServiceUnavailable)

	resp, _ := get(t, srv, "users.getAll", `{"json":null}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp, _ = get(t, srv, "users.getAll", `{"json":null}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, b.Calls("users.getAll"))
}

func TestContactLifecycle(t *testing.T) {
	b, srv := newServer(t)

	resp, body := post(t, srv, "emergencyContacts.create", `{"json":{"userId":"u3","name":"Pat","phone":"555"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := body["result"].(map[string]any)["data"].(map[string]any)["json"].(map[string]any)["id"].(string)
	assert.NotEmpty(t, id)
	require.Len(t, b.listContacts("u3"), 1)

	resp, _ = post(t, srv, "emergencyContacts.update", `{"json":{"id":"`+id+`","name":"Pat Lee","phone":"556"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pat Lee", b.listContacts("u3")[0].Name)

	resp, _ = post(t, srv, "emergencyContacts.delete", `{"json":{"id":"`+id+`"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, b.listContacts("u3"))

	resp, _ = post(t, srv, "emergencyContacts.create", `{"json":{"userId":"u3","name":" ","phone":"555"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
