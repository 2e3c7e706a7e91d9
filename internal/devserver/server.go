package devserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/safewatch/safewatch/internal/gateway"
)

// DefaultPrefix is where the real backend mounts its router.
const DefaultPrefix = "/api/trpc"

type procKind int

const (
	query procKind = iota
	mutation
)

type procFunc func(b *Backend, input json.RawMessage) (any, *rpcError)

type procedure struct {
	kind procKind
	fn   procFunc
}

type rpcError struct {
	status  int
	message string
}

func badRequest(msg string) *rpcError { return &rpcError{status: http.StatusBadRequest, message: msg} }
func notFound(msg string) *rpcError   { return &rpcError{status: http.StatusNotFound, message: msg} }

var procedures = map[string]procedure{
	gateway.ProcUsersGetAll:       {query, usersGetAll},
	gateway.ProcUsersGetByID:      {query, usersGetByID},
	gateway.ProcAlertsGetAll:      {query, alertsGetAll},
	gateway.ProcAlertsCreate:      {mutation, alertsCreate},
	gateway.ProcAlertsResolve:     {mutation, alertsResolve},
	gateway.ProcContactsGetByUser: {query, contactsGetByUser},
	gateway.ProcContactsCreate:    {mutation, contactsCreate},
	gateway.ProcContactsUpdate:    {mutation, contactsUpdate},
	gateway.ProcContactsDelete:    {mutation, contactsDelete},
}

// Router mounts every procedure under prefix, e.g. "/api/trpc".
func (b *Backend) Router(prefix string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "OK\n")
	}).Methods(http.MethodGet)

	api := r.PathPrefix(strings.TrimRight(prefix, "/")).Subrouter()
	api.HandleFunc("/{proc}", b.serveProcedure).Methods(http.MethodGet, http.MethodPost)
	return r
}

func (b *Backend) serveProcedure(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["proc"]

	if status, injected := b.record(name); injected {
		writeError(w, name, &rpcError{status: status, message: "injected failure"})
		return
	}

	proc, ok := procedures[name]
	if !ok {
		writeError(w, name, notFound("No procedure found on path \""+name+"\""))
		return
	}
	wantMethod := http.MethodGet
	if proc.kind == mutation {
		wantMethod = http.MethodPost
	}
	if r.Method != wantMethod {
		writeError(w, name, &rpcError{status: http.StatusMethodNotAllowed, message: "Unsupported " + r.Method + " request"})
		return
	}

	var raw []byte
	if r.Method == http.MethodGet {
		raw = []byte(r.URL.Query().Get("input"))
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, name, badRequest("unreadable body"))
			return
		}
		raw = body
	}

	var in struct {
		JSON json.RawMessage `json:"json"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			writeError(w, name, badRequest("input is not a JSON envelope"))
			return
		}
	}

	out, rerr := proc.fn(b, in.JSON)
	if rerr != nil {
		writeError(w, name, rerr)
		return
	}
	writeResult(w, out)
}

func writeResult(w http.ResponseWriter, out any) {
	var resp struct {
		Result struct {
			Data struct {
				JSON any `json:"json"`
			} `json:"data"`
		} `json:"result"`
	}
	resp.Result.Data.JSON = out
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// rpcCodes maps HTTP statuses to tRPC error names and JSON-RPC codes.
var rpcCodes = map[int]struct {
	name string
	code int
}{
	http.StatusBadRequest:          {"BAD_REQUEST", -32600},
	http.StatusUnauthorized:        {"UNAUTHORIZED", -32001},
	http.StatusNotFound:            {"NOT_FOUND", -32004},
	http.StatusMethodNotAllowed:    {"METHOD_NOT_SUPPORTED", -32005},
	http.StatusTooManyRequests:     {"TOO_MANY_REQUESTS", -32029},
	http.StatusInternalServerError: {"INTERNAL_SERVER_ERROR", -32603},
}

func writeError(w http.ResponseWriter, proc string, e *rpcError) {
	c, ok := rpcCodes[e.status]
	if !ok {
		c = rpcCodes[http.StatusInternalServerError]
	}

	var resp struct {
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
	resp.Error.JSON.Message = e.message
	resp.Error.JSON.Code = c.code
	resp.Error.JSON.Data.Code = c.name
	resp.Error.JSON.Data.HTTPStatus = e.status
	resp.Error.JSON.Data.Path = proc

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.status)
	_ = json.NewEncoder(w).Encode(resp)
}

func decodeInput(raw json.RawMessage, v any) *rpcError {
	if len(raw) == 0 || string(raw) == "null" {
		return badRequest("input is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return badRequest("invalid input: " + err.Error())
	}
	return nil
}

func usersGetAll(b *Backend, _ json.RawMessage) (any, *rpcError) {
	return b.listAccounts(), nil
}

func usersGetByID(b *Backend, raw json.RawMessage) (any, *rpcError) {
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeInput(raw, &in); err != nil {
		return nil, err
	}
	a, ok := b.account(in.ID)
	if !ok {
		return nil, nil
	}
	return a, nil
}

func alertsGetAll(b *Backend, raw json.RawMessage) (any, *rpcError) {
	var in struct {
		Limit      int    `json:"limit"`
		IsResolved *bool  `json:"isResolved"`
		UserID     string `json:"userId"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, badRequest("invalid input: " + err.Error())
		}
	}
	if in.Limit > 100 {
		return nil, badRequest("limit must be at most 100")
	}
	return b.listAlerts(in.UserID, in.IsResolved, in.Limit), nil
}

func alertsCreate(b *Backend, raw json.RawMessage) (any, *rpcError) {
	var in gateway.CreateAlertInput
	if err := decodeInput(raw, &in); err != nil {
		return nil, err
	}
	if !in.Type.Known() {
		return nil, badRequest("invalid alert type")
	}
	if !in.Severity.Known() {
		return nil, badRequest("invalid severity")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, badRequest("message is required")
	}
	if !b.hasAccount(in.UserID) {
		return nil, notFound("user not found")
	}
	return b.createAlert(in), nil
}

func alertsResolve(b *Backend, raw json.RawMessage) (any, *rpcError) {
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeInput(raw, &in); err != nil {
		return nil, err
	}
	a, ok := b.resolveAlert(in.ID)
	if !ok {
		return nil, notFound("alert not found")
	}
	return a, nil
}

func contactsGetByUser(b *Backend, raw json.RawMessage) (any, *rpcError) {
	var in struct {
		UserID string `json:"userId"`
	}
	if err := decodeInput(raw, &in); err != nil {
		return nil, err
	}
	return b.listContacts(in.UserID), nil
}

type contactInput struct {
	ID       string  `json:"id"`
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email"`
	Relation *string `json:"relation"`
}

func (in contactInput) check() *rpcError {
	if strings.TrimSpace(in.Name) == "" {
		return badRequest("name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return badRequest("phone is required")
	}
	return nil
}

func contactsCreate(b *Backend, raw json.RawMessage) (any, *rpcError) {
	var in contactInput
	if err := decodeInput(raw, &in); err != nil {
		return nil, err
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	if !b.hasAccount(in.UserID) {
		return nil, notFound("user not found")
	}
	return b.AddContact(gateway.Contact{
		UserID:   in.UserID,
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		Relation: in.Relation,
	}), nil
}

func contactsUpdate(b *Backend, raw json.RawMessage) (any, *rpcError) {
	var in contactInput
	if err := decodeInput(raw, &in); err != nil {
		return nil, err
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	c, ok := b.updateContact(in.ID, func(c *gateway.Contact) {
		c.Name = in.Name
		c.Phone = in.Phone
		c.Email = in.Email
		c.Relation = in.Relation
	})
	if !ok {
		return nil, notFound("contact not found")
	}
	return c, nil
}

func contactsDelete(b *Backend, raw json.RawMessage) (any, *rpcError) {
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeInput(raw, &in); err != nil {
		return nil, err
	}
	c, ok := b.deleteContact(in.ID)
	if !ok {
		return nil, notFound("contact not found")
	}
	return c, nil
}
