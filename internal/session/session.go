// Package session wires a board's components together for one run of the
// program. A Session is created once at startup, passed to whatever needs
// it, and closed on exit or logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/taskboard/internal/auth"
	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/calendar"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/dragdrop"
	"github.com/twiced-technology-gmbh/taskboard/internal/kv"
	"github.com/twiced-technology-gmbh/taskboard/internal/notify"
	"github.com/twiced-technology-gmbh/taskboard/internal/persist"
)

// ErrNotLoggedIn is returned by operations that need a stored token.
var ErrNotLoggedIn = errors.New("not logged in")

// User is the signed-in account, persisted under the user entry.
type User struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session holds the components of an open board.
type Session struct {
	Config   *config.Config
	Log      log.FieldLogger
	Storage  kv.Store
	Persist  *persist.Adapter
	Board    *board.Store
	Drops    *dragdrop.Coordinator
	Calendar *calendar.Book
	Auth     *auth.Client

	// Alerts are the deadline events found when the session was opened.
	Alerts []notify.Event

	mu     sync.Mutex
	user   *User
	closed bool
}

// Options tweak Open; the zero value is the normal CLI setup.
type Options struct {
	// Store replaces the configured storage backend.
	Store kv.Store
	// Today overrides the date deadlines are compared against.
	Today *date.Date
	// Auth replaces the account service client.
	Auth *auth.Client
}

// Open builds a session for cfg: it opens storage, hydrates the board and
// scans deadlines once.
func Open(ctx context.Context, cfg *config.Config, logger log.FieldLogger, opts Options) (*Session, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}

	store := opts.Store
	if store == nil {
		var err error
		store, err = kv.Open(ctx, kv.Options{
			Backend:     cfg.Storage.Backend,
			Dir:         cfg.Dir(),
			Quota:       cfg.Storage.QuotaBytes,
			RedisURL:    cfg.Storage.RedisURL,
			RedisPrefix: cfg.Storage.RedisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
		}
	}

	adapter := persist.New(store, logger)
	bs := board.NewStore(adapter.Load(ctx))

	client := opts.Auth
	if client == nil {
		client = auth.NewClient(cfg.Auth.BaseURL, cfg.AuthTimeout(), nil, logger)
	}

	today := date.Today()
	if opts.Today != nil {
		today = *opts.Today
	}

	s := &Session{
		Config:   cfg,
		Log:      logger,
		Storage:  store,
		Persist:  adapter,
		Board:    bs,
		Drops:    dragdrop.New(bs, adapter, logger),
		Calendar: calendar.NewBook(store, logger),
		Auth:     client,
		Alerts:   notify.Scan(bs.Flatten(), today),
	}
	s.user = s.loadUser(ctx)
	return s, nil
}

// Save writes the current board.
func (s *Session) Save(ctx context.Context) error {
	return s.Persist.Save(ctx, s.Board)
}

// Reload re-reads the task collection from storage and rehydrates the
// board, discarding unsaved placement.
func (s *Session) Reload(ctx context.Context) board.Board {
	return s.Board.Hydrate(s.Persist.Load(ctx))
}

// WatchPaths returns the directories holding the board's storage, or nil
// when the backend does not live on disk.
func (s *Session) WatchPaths() []string {
	switch s.Config.Storage.Backend {
	case kv.BackendFile, "":
		return []string{kv.StoreDir(s.Config.Dir())}
	case kv.BackendSQLite:
		return []string{s.Config.Dir()}
	}
	return nil
}

// User returns the signed-in user.
func (s *Session) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Token returns the stored bearer token.
func (s *Session) Token(ctx context.Context) (string, error) {
	data, err := s.Storage.Get(ctx, kv.TokenKey)
	if errors.Is(err, kv.ErrNotFound) || (err == nil && len(data) == 0) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Login authenticates against the account service and stores the token and
// user.
func (s *Session) Login(ctx context.Context, creds auth.Credentials) (User, error) {
	resp, err := s.Auth.Login(ctx, creds)
	if err != nil {
		return User{}, err
	}
	u := User{Email: creds.Email, Role: resp.Role}
	return u, s.signIn(ctx, resp.Token, u)
}

// Register creates an account and signs in with it.
func (s *Session) Register(ctx context.Context, reg auth.Registration) (User, error) {
	resp, err := s.Auth.Register(ctx, reg)
	if err != nil {
		return User{}, err
	}
	u := User{Email: reg.Email, Role: resp.Role}
	return u, s.signIn(ctx, resp.Token, u)
}

func (s *Session) signIn(ctx context.Context, token string, u User) error {
	data, err := sonic.Marshal(u)
	if err != nil {
		return err
	}
	if token != "" {
		if err := s.Storage.Set(ctx, kv.TokenKey, []byte(token)); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}
	}
	if err := s.Storage.Set(ctx, kv.UserKey, data); err != nil {
		return fmt.Errorf("storing user: %w", err)
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	s.Log.WithField("user", u.Email).Info("signed in")
	return nil
}

// Logout forgets the user and token and closes the session.
func (s *Session) Logout(ctx context.Context) error {
	errs := []error{
		s.Storage.Delete(ctx, kv.TokenKey),
		s.Storage.Delete(ctx, kv.UserKey),
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	errs = append(errs, s.Close())
	return errors.Join(errs...)
}

// Close releases the storage backend. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.Storage.Close()
}

func (s *Session) loadUser(ctx context.Context) *User {
	data, err := s.Storage.Get(ctx, kv.UserKey)
	if err != nil {
		return nil
	}
	var u User
	if err := sonic.Unmarshal(data, &u); err != nil || u.Email == "" {
		s.Log.WithField("entry", kv.UserKey).Warn("ignoring unreadable stored user")
		return nil
	}
	return &u
}
