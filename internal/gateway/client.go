package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/safewatch/safewatch/internal/config"
	"github.com/safewatch/safewatch/internal/log"
)

// Gateway is the typed view of the backend used by screens and commands.
//
// Reads are cached. When a refetch fails and an earlier result exists, the
// earlier result is returned together with the error so callers can keep
// showing it.
type Gateway interface {
	Accounts(ctx context.Context, opts ...ReadOption) ([]Account, error)
	Account(ctx context.Context, id string, opts ...ReadOption) (*Account, error)
	Alerts(ctx context.Context, f AlertFilter, opts ...ReadOption) ([]Alert, error)
	Contacts(ctx context.Context, accountID string, opts ...ReadOption) ([]Contact, error)

	CreateAlert(ctx context.Context, in CreateAlertInput) (*Alert, error)
	ResolveAlert(ctx context.Context, id string) (*Alert, error)
	CreateContact(ctx context.Context, accountID string, in ContactInput) (*Contact, error)
	UpdateContact(ctx context.Context, id string, in ContactInput) (*Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

type readOptions struct {
	refresh bool
}

// ReadOption tunes a cached read.
type ReadOption func(*readOptions)

// Refresh bypasses the staleness check and always refetches.
func Refresh() ReadOption {
	return func(o *readOptions) { o.refresh = true }
}

// Options configures a Client. Zero durations and nil funcs take the
// defaults; retry counts are used as given.
type Options struct {
	BaseURL         string
	HTTPClient      *http.Client
	QueryRetries    int
	MutationRetries int
	QueryDelay      func(attempt int) time.Duration
	MutationDelay   func(attempt int) time.Duration
	StaleTime       time.Duration
	GCTime          time.Duration
	Persister       Persister
	Logger          *log.Logger
	Now             func() time.Time
}

// Client talks to the backend's tRPC endpoint.
type Client struct {
	t     *transport
	cache *queryCache
}

var _ Gateway = (*Client)(nil)

// New builds a Client. Negative retry counts are treated as zero.
func New(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.QueryDelay == nil {
		opts.QueryDelay = QueryBackoff
	}
	if opts.MutationDelay == nil {
		opts.MutationDelay = MutationBackoff
	}
	if opts.StaleTime <= 0 {
		opts.StaleTime = 5 * time.Minute
	}
	if opts.GCTime <= 0 {
		opts.GCTime = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Client{
		t: &transport{
			baseURL:    opts.BaseURL,
			httpClient: opts.HTTPClient,
			queries:    RetryPolicy{Retries: max(opts.QueryRetries, 0), Delay: opts.QueryDelay},
			mutations:  RetryPolicy{Retries: max(opts.MutationRetries, 0), Delay: opts.MutationDelay},
			logger:     opts.Logger,
			sleep:      sleepCtx,
		},
		cache: newQueryCache(opts.StaleTime, opts.GCTime, opts.Persister, opts.Now),
	}
}

// NewFromConfig builds a Client from the loaded configuration.
func NewFromConfig(cfg *config.Config, persister Persister, logger *log.Logger) *Client {
	opts := Options{
		BaseURL:         cfg.ServerURL(),
		HTTPClient:      &http.Client{Timeout: cfg.RequestTimeout()},
		QueryRetries:    cfg.Gateway.QueryRetries,
		MutationRetries: cfg.Gateway.MutationRetries,
		StaleTime:       time.Duration(cfg.Gateway.StaleTime) * time.Second,
		GCTime:          time.Duration(cfg.Gateway.GCTime) * time.Second,
		Logger:          logger,
	}
	if cfg.Gateway.PersistCache {
		opts.Persister = persister
	}
	return New(opts)
}

// Restore loads persisted query results so the first screen can render
// before the network answers. It returns the number of entries restored.
func (c *Client) Restore(ctx context.Context) (int, error) {
	return c.cache.restore(ctx)
}

// Invalidate marks cached results of the given procedures stale.
func (c *Client) Invalidate(ctx context.Context, procs ...string) {
	c.cache.invalidate(ctx, procs...)
}

// read runs a cached query and decodes its result into T.
func read[T any](ctx context.Context, c *Client, proc string, input any, opts []ReadOption) (T, error) {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	key := cacheKey(proc, input)
	prev, hasPrev := c.cache.get(key)
	if hasPrev && !o.refresh && c.cache.fresh(prev) {
		if v, err := decodeResult[T](proc, prev.data); err == nil {
			return v, nil
		}
	}

	since := c.cache.epoch(proc)
	raw, err := c.t.call(ctx, kindQuery, proc, input)
	if err != nil {
		if hasPrev {
			if v, derr := decodeResult[T](proc, prev.data); derr == nil {
				return v, err
			}
		}
		return zero, err
	}

	v, err := decodeResult[T](proc, raw)
	if err != nil {
		return zero, err
	}
	c.cache.put(ctx, key, proc, raw, since)
	return v, nil
}

func decodeResult[T any](proc string, raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &Error{
			Procedure: proc,
			Message:   "unexpected response from server",
			cause:     errors.Wrapf(err, "decode %s", proc),
			noRetry:   true,
		}
	}
	return v, nil
}

func (c *Client) mutate(ctx context.Context, proc string, input any, out any) error {
	raw, err := c.t.call(ctx, kindMutation, proc, input)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{
			Procedure: proc,
			Message:   "unexpected response from server",
			cause:     errors.Wrapf(err, "decode %s", proc),
			noRetry:   true,
		}
	}
	return nil
}

// Accounts lists every account on the backend.
func (c *Client) Accounts(ctx context.Context, opts ...ReadOption) ([]Account, error) {
	return read[[]Account](ctx, c, ProcUsersGetAll, nil, opts)
}

// Account fetches one account. A missing account is returned as nil with
// no error.
func (c *Client) Account(ctx context.Context, id string, opts ...ReadOption) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	return read[*Account](ctx, c, ProcUsersGetByID, idInput{ID: id}, opts)
}

// Alerts lists alerts for one account, newest first.
func (c *Client) Alerts(ctx context.Context, f AlertFilter, opts ...ReadOption) ([]Alert, error) {
	if strings.TrimSpace(f.AccountID) == "" {
		return nil, ErrAccountRequired
	}
	in := alertsInput{Limit: f.Limit, IsResolved: f.Resolved, UserID: f.AccountID}
	alerts, err := read[[]Alert](ctx, c, ProcAlertsGetAll, in, opts)
	for i := range alerts {
		alerts[i].normalize()
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, err
}

// Contacts lists the emergency contacts of an account.
func (c *Client) Contacts(ctx context.Context, accountID string, opts ...ReadOption) ([]Contact, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrAccountRequired
	}
	return read[[]Contact](ctx, c, ProcContactsGetByUser, userIDInput{UserID: accountID}, opts)
}

// CreateAlert validates in and submits it. Alert lists and account counts
// are invalidated on success.
func (c *Client) CreateAlert(ctx context.Context, in CreateAlertInput) (*Alert, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Message = strings.TrimSpace(in.Message)

	var out Alert
	if err := c.mutate(ctx, ProcAlertsCreate, in, &out); err != nil {
		return nil, err
	}
	out.normalize()
	c.cache.invalidate(ctx, ProcAlertsGetAll, ProcUsersGetAll, ProcUsersGetByID)
	return &out, nil
}

// ResolveAlert marks an alert resolved.
func (c *Client) ResolveAlert(ctx context.Context, id string) (*Alert, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	var out Alert
	if err := c.mutate(ctx, ProcAlertsResolve, idInput{ID: id}, &out); err != nil {
		return nil, err
	}
	out.normalize()
	c.cache.invalidate(ctx, ProcAlertsGetAll)
	return &out, nil
}

// CreateContact adds a contact to an account.
func (c *Client) CreateContact(ctx context.Context, accountID string, in ContactInput) (*Contact, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrAccountRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	payload := contactPayload{
		UserID:   accountID,
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		Relation: in.Relation,
	}
	var out Contact
	if err := c.mutate(ctx, ProcContactsCreate, payload, &out); err != nil {
		return nil, err
	}
	c.invalidateContacts(ctx)
	return &out, nil
}

// UpdateContact replaces the editable fields of a contact.
func (c *Client) UpdateContact(ctx context.Context, id string, in ContactInput) (*Contact, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	payload := contactPayload{
		ID:       id,
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		Relation: in.Relation,
	}
	var out Contact
	if err := c.mutate(ctx, ProcContactsUpdate, payload, &out); err != nil {
		return nil, err
	}
	c.invalidateContacts(ctx)
	return &out, nil
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrIDRequired
	}
	if err := c.mutate(ctx, ProcContactsDelete, idInput{ID: id}, nil); err != nil {
		return err
	}
	c.invalidateContacts(ctx)
	return nil
}

func (c *Client) invalidateContacts(ctx context.Context) {
	c.cache.invalidate(ctx, ProcContactsGetByUser, ProcUsersGetAll, ProcUsersGetByID)
}
