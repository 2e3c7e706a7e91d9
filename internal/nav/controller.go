package nav

import (
	"context"

	"github.com/safewatch/safewatch/internal/log"
)

// SessionStore persists the selected account. *session.Session satisfies it.
type SessionStore interface {
	Load(ctx context.Context) (string, bool)
	Save(ctx context.Context, accountID string)
	Clear(ctx context.Context)
}

// Phase distinguishes the boot-time loading state from normal operation.
type Phase int

const (
	Loading Phase = iota
	Ready
)

func (p Phase) String() string {
	if p == Ready {
		return "ready"
	}
	return "loading"
}

// Controller tracks the current screen and selected account. It is not
// safe for concurrent use; callers drive it from a single goroutine.
type Controller struct {
	session SessionStore
	logger  *log.Logger

	phase   Phase
	screen  Screen
	account string
	gen     uint64
}

// New returns a controller in the Loading phase.
func New(session SessionStore, logger *log.Logger) *Controller {
	return &Controller{session: session, logger: logger, screen: AccountSelection}
}

// Phase reports whether the boot lookup has resolved.
func (c *Controller) Phase() Phase { return c.phase }

// Screen returns the current screen.
func (c *Controller) Screen() Screen { return c.screen }

// Account returns the selected account id, or "" when none is selected.
func (c *Controller) Account() string { return c.account }

// Generation identifies the current mount. It changes on every screen or
// account change.
func (c *Controller) Generation() uint64 { return c.gen }

// IsCurrent reports whether a result tagged with gen still belongs to the
// mounted screen.
func (c *Controller) IsCurrent(gen uint64) bool { return gen == c.gen }

// Boot looks up the persisted session and resolves the initial screen.
func (c *Controller) Boot(ctx context.Context) Screen {
	id, ok := c.session.Load(ctx)
	return c.Resolve(id, ok)
}

// Resolve finishes booting with the result of a session lookup done
// elsewhere. Calls after the first are ignored.
func (c *Controller) Resolve(accountID string, ok bool) Screen {
	if c.phase == Ready {
		return c.screen
	}
	c.phase = Ready
	if ok && accountID != "" {
		c.account = accountID
		c.enter(Dashboard)
	} else {
		c.enter(AccountSelection)
	}
	return c.screen
}

// Select chooses an account and moves to the dashboard. It is a no-op while
// loading, for an empty id, when the id is already selected, or from any
// screen other than account selection.
func (c *Controller) Select(ctx context.Context, accountID string) bool {
	if c.phase != Ready || accountID == "" || accountID == c.account {
		return false
	}
	to, ok := Next(c.screen, AccountChosen)
	if !ok {
		return false
	}

	c.account = accountID
	c.session.Save(ctx, accountID)
	c.logger.Activity(log.EventAccountSelected, accountID, nil)
	c.enter(to)
	return true
}

// Dispatch applies ev. Illegal pairs leave the state unchanged and return
// false. AccountChosen carries an id and must go through Select.
func (c *Controller) Dispatch(ctx context.Context, ev Event) bool {
	if c.phase != Ready || ev == AccountChosen {
		return false
	}
	if c.account == "" {
		// Only account selection is reachable without an account.
		c.screen = AccountSelection
		return false
	}
	to, ok := Next(c.screen, ev)
	if !ok {
		return false
	}

	if ev == Logout {
		prev := c.account
		c.account = ""
		c.session.Clear(ctx)
		c.logger.Activity(log.EventLogout, prev, nil)
	}
	c.enter(to)
	return true
}

func (c *Controller) enter(s Screen) {
	if c.account == "" {
		s = AccountSelection
	}
	c.screen = s
	c.gen++
	if s == Dashboard {
		c.logger.Activity(log.EventDashboardAccessed, c.account, nil)
	}
}
