// Package session tracks whether the user is signed in and drives the
// credential store and Auth Client on the UI's behalf.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"unseen/internal/client/authclient"
	"unseen/internal/client/credential"
)

// ErrOperationInProgress is returned when an auth operation is already running.
var ErrOperationInProgress = errors.New("session: another operation is in progress")

// MsgSaveFailed is shown when a login succeeded but the token could not be stored.
const MsgSaveFailed = "Could not save your session. Please try again."

// AuthClient is the subset of the Auth API the Controller calls.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*authclient.AuthResponse, error)
	SignUp(ctx context.Context, name, email, password string) (*authclient.AuthResponse, error)
	ValidateSession(ctx context.Context, token string) (*authclient.User, error)
}

// State is a snapshot of the client-side authentication state.
// IsAuthenticated implies CurrentUser != nil.
type State struct {
	CurrentUser     *authclient.User
	IsAuthenticated bool
	IsCheckingAuth  bool
	IsLoading       bool
	Error           string
}

// Controller owns State. All methods are safe for concurrent use, but at most
// one of Login, SignUp and CheckAuthenticationStatus runs at a time.
type Controller struct {
	store  credential.Store
	client AuthClient
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	busy   bool
	subs   map[int]func(State)
	nextID int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Controller in the checking state. Call CheckAuthenticationStatus
// to resolve it.
func New(store credential.Store, client AuthClient, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		client: client,
		logger: slog.Default(),
		state:  State{IsCheckingAuth: true},
		subs:   make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open creates a Controller and runs the startup check.
func Open(ctx context.Context, store credential.Store, client AuthClient, opts ...Option) (*Controller, error) {
	c := New(store, client, opts...)
	if err := c.CheckAuthenticationStatus(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Subscribe registers fn to receive every state change. fn runs on the goroutine
// that made the change and must not call back into the Controller synchronously.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// CheckAuthenticationStatus validates the stored token, if any. Any failure,
// including an unreadable store or an unreachable server, clears the token and
// leaves the Controller unauthenticated. Calling it again re-validates.
func (c *Controller) CheckAuthenticationStatus(ctx context.Context) error {
	if err := c.begin(func(s *State) { s.IsCheckingAuth = true }); err != nil {
		return err
	}

	user := c.validateStored(ctx)

	c.finish(func(s *State) {
		s.IsCheckingAuth = false
		s.CurrentUser = user
		s.IsAuthenticated = user != nil
	})
	return nil
}

func (c *Controller) validateStored(ctx context.Context) *authclient.User {
	token, ok, err := c.store.Get()
	if err != nil {
		c.logger.Warn("stored credential unreadable", "error", err)
		c.deleteToken()
		return nil
	}
	if !ok {
		return nil
	}

	user, err := c.client.ValidateSession(ctx, token)
	if err != nil {
		c.logger.Info("session validation failed", "error", err)
		c.deleteToken()
		return nil
	}
	return user
}

// Login signs in with email and password. On failure State().Error holds the
// user-facing message, the same error is returned, and the previous session
// (if any) is kept.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, func(ctx context.Context) (*authclient.AuthResponse, error) {
		return c.client.Login(ctx, email, password)
	})
}

// SignUp registers a new account and signs in with it.
func (c *Controller) SignUp(ctx context.Context, name, email, password string) error {
	return c.authenticate(ctx, func(ctx context.Context) (*authclient.AuthResponse, error) {
		return c.client.SignUp(ctx, name, email, password)
	})
}

func (c *Controller) authenticate(ctx context.Context, call func(context.Context) (*authclient.AuthResponse, error)) error {
	if err := c.begin(func(s *State) {
		s.IsLoading = true
		s.Error = ""
	}); err != nil {
		return err
	}

	res, err := call(ctx)
	if err != nil {
		// keep the previous session and stored token
		c.finish(func(s *State) {
			s.IsCheckingAuth = false
			s.IsLoading = false
			s.Error = err.Error()
		})
		return err
	}

	if saveErr := c.store.Save(res.Token); saveErr != nil {
		c.logger.Error("failed to save session token", "error", saveErr)
		c.deleteToken()
		err = &saveError{err: saveErr}
		c.finish(func(s *State) {
			s.IsCheckingAuth = false
			s.IsLoading = false
			s.CurrentUser = nil
			s.IsAuthenticated = false
			s.Error = err.Error()
		})
		return err
	}

	c.finish(func(s *State) {
		user := res.User
		s.IsCheckingAuth = false
		s.IsLoading = false
		s.CurrentUser = &user
		s.IsAuthenticated = true
		s.Error = ""
	})
	return nil
}

// Logout clears the stored token and the current user. Error is left as is.
// It never calls the server and is safe to repeat.
func (c *Controller) Logout() error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrOperationInProgress
	}
	err := c.store.Delete()
	c.state.CurrentUser = nil
	c.state.IsAuthenticated = false
	snap, subs := c.snapshot(), c.subscribers()
	c.mu.Unlock()

	notify(subs, snap)
	if err != nil {
		return fmt.Errorf("session: delete token: %w", err)
	}
	return nil
}

// begin marks an operation as running and applies the initial state change.
func (c *Controller) begin(apply func(*State)) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrOperationInProgress
	}
	c.busy = true
	apply(&c.state)
	snap, subs := c.snapshot(), c.subscribers()
	c.mu.Unlock()

	notify(subs, snap)
	return nil
}

func (c *Controller) finish(apply func(*State)) {
	c.mu.Lock()
	apply(&c.state)
	c.busy = false
	snap, subs := c.snapshot(), c.subscribers()
	c.mu.Unlock()

	notify(subs, snap)
}

func (c *Controller) deleteToken() {
	if err := c.store.Delete(); err != nil {
		c.logger.Warn("failed to delete stored credential", "error", err)
	}
}

// snapshot requires c.mu to be held.
func (c *Controller) snapshot() State {
	s := c.state
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		s.CurrentUser = &u
	}
	return s
}

func (c *Controller) subscribers() []func(State) {
	fns := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func(State), s State) {
	for _, fn := range fns {
		fn(s)
	}
}

// saveError wraps a credential store failure after a successful login.
type saveError struct {
	err error
}

func (e *saveError) Error() string { return MsgSaveFailed }

func (e *saveError) Unwrap() error { return e.err }
