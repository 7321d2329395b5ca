// Package session owns the client-side authentication state: an explicitly
// injected manager with a defined lifecycle (Initialize, SignIn, SignOut)
// instead of an ambient global, plus a subscription interface for auth
// events with a proper unsubscribe contract.
package session

import (
	"context"
	"sync"

	"gas-delivery-api/client"
	"gas-delivery-api/models"

	"github.com/google/uuid"
)

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseAuthenticated Phase = "authenticated"
	PhaseAnonymous     Phase = "anonymous"
)

// Event is an auth state change notification.
type Event string

const (
	EventSignedIn  Event = "SIGNED_IN"
	EventSignedOut Event = "SIGNED_OUT"
)

// Snapshot is an immutable view of the session at one instant.
type Snapshot struct {
	Phase Phase
	Role  models.UserRole // set only while authenticated, immutable per session
	User  *models.User
}

// Listener receives auth events with the session snapshot after the change.
type Listener func(Event, Snapshot)

// Gateway is the slice of the API client the session manager depends on.
type Gateway interface {
	SignIn(ctx context.Context, email, password string) (*client.AuthResult, error)
	SignUp(ctx context.Context, email, password string, profile client.Profile) (*client.AuthResult, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	SetToken(token string)
	Token() string
}

// Manager drives the session lifecycle:
// uninitialized → loading → {authenticated(role), anonymous}.
type Manager struct {
	gw    Gateway
	store Store

	mu        sync.RWMutex
	phase     Phase
	role      models.UserRole
	user      *models.User
	listeners map[string]Listener
}

// NewManager creates a session manager over the given gateway. Passing a nil
// store falls back to an in-memory one.
func NewManager(gw Gateway, store Store) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		gw:        gw,
		store:     store,
		phase:     PhaseUninitialized,
		listeners: make(map[string]Listener),
	}
}

// Snapshot returns the current session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Phase: m.phase, Role: m.role, User: m.user}
}

// Initialize resolves any persisted session. While it runs the phase is
// loading and role-gated views must block.
func (m *Manager) Initialize(ctx context.Context) error {
	m.setPhase(PhaseLoading)

	token, ok := m.store.Get(KeyAuthToken)
	if !ok || token == "" {
		m.becomeAnonymous()
		return nil
	}

	m.gw.SetToken(token)
	user, err := m.gw.CurrentUser(ctx)
	if err != nil {
		// Stale or revoked token: drop it and start anonymous
		m.gw.SetToken("")
		m.clearPersisted()
		m.becomeAnonymous()
		return nil
	}

	m.becomeAuthenticated(user)
	return nil
}

// SignIn authenticates and transitions to authenticated(role).
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	m.setPhase(PhaseLoading)

	result, err := m.gw.SignIn(ctx, email, password)
	if err != nil {
		m.becomeAnonymous()
		return err
	}

	m.persist(result)
	m.becomeAuthenticated(result.User)
	m.emit(EventSignedIn)
	return nil
}

// SignUp creates a customer account and signs the session in. The driver
// role is rejected before any call leaves the process.
func (m *Manager) SignUp(ctx context.Context, email, password string, profile client.Profile) error {
	m.setPhase(PhaseLoading)

	result, err := m.gw.SignUp(ctx, email, password, profile)
	if err != nil {
		m.becomeAnonymous()
		return err
	}

	m.persist(result)
	m.becomeAuthenticated(result.User)
	m.emit(EventSignedIn)
	return nil
}

// SignOut clears the session and all persisted role state.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.gw.SignOut(ctx)

	m.clearPersisted()
	m.becomeAnonymous()
	m.emit(EventSignedOut)
	return err
}

// Subscribe registers a listener for auth events and returns an unsubscribe
// function. Unsubscribe is idempotent.
func (m *Manager) Subscribe(l Listener) (unsubscribe func()) {
	id := uuid.NewString()
	m.mu.Lock()
	m.listeners[id] = l
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// OnboardingComplete reports the persisted onboarding flag.
func (m *Manager) OnboardingComplete() bool {
	v, _ := m.store.Get(KeyOnboardingComplete)
	return v == "true"
}

// MarkOnboardingComplete sets the persisted onboarding flag.
func (m *Manager) MarkOnboardingComplete() {
	m.store.Set(KeyOnboardingComplete, "true")
}

func (m *Manager) setPhase(p Phase) {
	m.mu.Lock()
	m.phase = p
	m.mu.Unlock()
}

func (m *Manager) becomeAuthenticated(user *models.User) {
	m.mu.Lock()
	m.phase = PhaseAuthenticated
	m.user = user
	if user != nil {
		m.role = user.Role
	}
	m.mu.Unlock()
}

func (m *Manager) becomeAnonymous() {
	m.mu.Lock()
	m.phase = PhaseAnonymous
	m.user = nil
	m.role = ""
	m.mu.Unlock()
}

func (m *Manager) persist(result *client.AuthResult) {
	m.store.Set(KeyAuthToken, result.Token)
	if result.User != nil {
		m.store.Set(KeyUserRole, string(result.User.Role))
	}
}

func (m *Manager) clearPersisted() {
	m.store.Delete(KeyAuthToken)
	m.store.Delete(KeyUserRole)
}

func (m *Manager) emit(event Event) {
	snap := m.Snapshot()
	m.mu.RLock()
	ls := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		ls = append(ls, l)
	}
	m.mu.RUnlock()
	for _, l := range ls {
		l(event, snap)
	}
}
