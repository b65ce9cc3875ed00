package session

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v3"

	"github.com/biomed-cmms/cmms-access/internal/auth"
)

type providerKey struct{}

// Provider holds the current role of one browser session and its logout hook.
type Provider struct {
	mu        sync.RWMutex
	state     State
	persister *Persister
	onLogout  []func()
}

// NewProvider loads the persisted state through persister.
// A nil persister gives a provider that only lives in memory.
func NewProvider(persister *Persister) *Provider {
	p := &Provider{persister: persister, state: LoggedOut()}
	if persister != nil {
		p.state = persister.Load()
	}

	return p
}

// State returns a copy of the current state.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state
}

// Role returns the current role. A logged out session still carries a role.
func (p *Provider) Role() auth.Role {
	return p.State().UserRole
}

// IsLoggedIn reports whether the session is logged in.
func (p *Provider) IsLoggedIn() bool {
	return p.State().IsLoggedIn
}

// OnLogout registers fn to run after every Logout.
func (p *Provider) OnLogout(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.onLogout = append(p.onLogout, fn)
}

// Login switches the session to role and persists it.
func (p *Provider) Login(role auth.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	st := State{IsLoggedIn: true, UserRole: role}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.persister != nil {
		if err := p.persister.Save(st); err != nil {
			return err
		}
	}

	p.state = st

	return nil
}

// Rebind moves the session to persister and clears the value the previous
// persister stored. The in-memory state is kept; the next Login or Logout
// writes through the new persister.
func (p *Provider) Rebind(persister *Persister) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	old := p.persister
	p.persister = persister

	if old != nil {
		return old.Clear()
	}

	return nil
}

// Logout resets the session to LoggedOut, clears the persisted value and runs the logout hooks.
func (p *Provider) Logout() error {
	p.mu.Lock()
	p.state = LoggedOut()
	hooks := append([]func(){}, p.onLogout...)

	var err error
	if p.persister != nil {
		err = p.persister.Clear()
	}
	p.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	return err
}

// WithProvider returns a copy of ctx carrying p.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// FromContext returns the provider stored in ctx. It panics with ErrNoProvider
// when ctx carries none.
func FromContext(ctx context.Context) *Provider {
	p, ok := ctx.Value(providerKey{}).(*Provider)
	if !ok || p == nil {
		panic(ErrNoProvider)
	}

	return p
}

// Attach stores p in the request locals.
func Attach(c fiber.Ctx, p *Provider) {
	c.Locals(providerKey{}, p)
}

// FromLocals returns the provider attached to the request. It panics with
// ErrNoProvider when the session middleware did not run.
func FromLocals(c fiber.Ctx) *Provider {
	p, ok := c.Locals(providerKey{}).(*Provider)
	if !ok || p == nil {
		panic(ErrNoProvider)
	}

	return p
}
