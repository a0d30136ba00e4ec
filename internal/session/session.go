// Package session keeps the active actor's resolved preferences and moves a
// guest's local preferences into durable storage on first sign-in.
//
// All mutating operations run one at a time. A call that arrives while a
// commit is in flight waits for it to settle and then works on the state the
// previous call left behind.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/maxtype/internal/model"
	"github.com/verte-zerg/maxtype/internal/prefs"
)

// ErrNotInitialized is returned by updates issued before Initialize.
var ErrNotInitialized = errors.New("session not initialized")

// Identity names the actor. The zero value is a guest.
type Identity struct {
	UserID string
}

// Guest returns the guest identity.
func Guest() Identity { return Identity{} }

// Account returns the identity of an authenticated user.
func Account(userID string) Identity { return Identity{UserID: userID} }

// IsGuest reports whether the identity is unauthenticated.
func (i Identity) IsGuest() bool { return i.UserID == "" }

// LocalStore is the client-side key-value store holding guest preferences.
type LocalStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// CommitFunc writes preferences to durable storage and returns what was stored.
// Timeouts are the implementation's concern.
type CommitFunc func(ctx context.Context, id Identity, p model.Preferences) (model.Preferences, error)

// CommitError reports a failed write to either storage tier.
type CommitError struct {
	Op       string
	Identity Identity
	Err      error
}

func (e *CommitError) Error() string {
	who := "guest"
	if !e.Identity.IsGuest() {
		who = fmt.Sprintf("user %q", e.Identity.UserID)
	}
	return fmt.Sprintf("failed to %s preferences for %s: %v", e.Op, who, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Result is delivered by UpdateAsync.
type Result struct {
	Preferences model.Preferences
	Err         error
}

// Status is a point-in-time view of the session.
type Status struct {
	Current     model.Preferences
	State       State
	Phase       Phase
	IsGuest     bool
	Initialized bool
	Busy        bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session holds the preferences of the current actor.
type Session struct {
	local  LocalStore
	commit CommitFunc
	logger *zap.Logger

	// gate admits one mutating operation at a time.
	gate chan struct{}

	mu       sync.RWMutex
	current  model.Preferences
	identity Identity
	state    State
	phase    Phase
	busy     bool
}

// New creates an uninitialized session.
func New(local LocalStore, commit CommitFunc, opts ...Option) *Session {
	s := &Session{
		local:   local,
		commit:  commit,
		logger:  zap.NewNop(),
		gate:    make(chan struct{}, 1),
		current: prefs.Defaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns a snapshot of the session state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Current:     s.current,
		State:       s.state,
		Phase:       s.phase,
		IsGuest:     s.identity.IsGuest(),
		Initialized: s.state != StateUninitialized,
		Busy:        s.busy,
	}
}

// Current returns the resolved preferences.
func (s *Session) Current() model.Preferences {
	return s.Status().Current
}

// Initialize resolves preferences for id. For a guest, durable is ignored and
// the local snapshot (or the defaults) is used. For an account, durable is
// adopted and a pending local snapshot is migrated when the account still has
// default preferences. The snapshot is erased whether or not the migration
// commit succeeds; on failure the durable preferences stay current and a
// *CommitError is returned. Calling Initialize again for the identity already
// active is a no-op.
func (s *Session) Initialize(ctx context.Context, id Identity, durable *model.Preferences) (MigrationOutcome, error) {
	if err := s.acquire(ctx); err != nil {
		return MigrationNone, err
	}
	defer s.release()

	s.mu.RLock()
	active := s.state != StateUninitialized && s.identity == id
	s.mu.RUnlock()
	if active {
		return MigrationNone, nil
	}

	local := s.loadLocal()
	if id.IsGuest() {
		p := prefs.Defaults()
		if local != nil {
			p = *local
		}
		s.activate(id, StateGuest, p)
		return MigrationNone, nil
	}

	base := prefs.Defaults()
	if durable != nil {
		if err := prefs.Validate(*durable); err != nil {
			s.logger.Warn("ignoring invalid account preferences",
				zap.String("user", id.UserID), zap.Error(err))
		} else {
			base = *durable
		}
	}
	s.activate(id, StateAuthenticated, base)

	if local == nil {
		return MigrationNone, nil
	}
	if !prefs.ShouldMigrate(base, local) {
		s.eraseLocal()
		s.logger.Info("discarded guest preferences; account already customized",
			zap.String("user", id.UserID))
		return MigrationSkipped, nil
	}

	s.beginCommit()
	committed, err := s.commitDurable(ctx, id, *local)
	// A second attempt would keep prompting; the snapshot goes either way.
	s.eraseLocal()
	if err != nil {
		s.endCommit(nil)
		s.logger.Warn("guest preference migration failed",
			zap.String("user", id.UserID), zap.Error(err))
		return MigrationFailed, &CommitError{Op: "migrate", Identity: id, Err: err}
	}
	s.endCommit(&committed)
	s.logger.Info("migrated guest preferences", zap.String("user", id.UserID))
	return MigrationApplied, nil
}

// UpdatePreferences validates next and persists it to the active tier.
func (s *Session) UpdatePreferences(ctx context.Context, next model.Preferences) (model.Preferences, error) {
	return s.UpdateCandidate(ctx, prefs.Candidate(next))
}

// UpdateCandidate validates an untyped candidate and persists it.
// Invalid input returns *prefs.ValidationError without any I/O.
func (s *Session) UpdateCandidate(ctx context.Context, candidate map[string]any) (model.Preferences, error) {
	return s.mutate(ctx, "update", func(model.Preferences) map[string]any {
		return candidate
	})
}

// Patch applies changes over the preferences current at the time the
// operation is admitted.
func (s *Session) Patch(ctx context.Context, changes map[string]any) (model.Preferences, error) {
	return s.mutate(ctx, "update", func(cur model.Preferences) map[string]any {
		return prefs.Apply(cur, changes)
	})
}

// ResetPreferences stores the defaults.
func (s *Session) ResetPreferences(ctx context.Context) (model.Preferences, error) {
	return s.UpdatePreferences(ctx, prefs.Defaults())
}

// UpdateAsync runs UpdatePreferences in the background. The channel yields
// exactly one Result. Concurrent async calls are serialized but their order
// is not guaranteed.
func (s *Session) UpdateAsync(ctx context.Context, next model.Preferences) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		p, err := s.UpdatePreferences(ctx, next)
		ch <- Result{Preferences: p, Err: err}
	}()
	return ch
}

func (s *Session) mutate(ctx context.Context, op string, build func(model.Preferences) map[string]any) (model.Preferences, error) {
	if err := s.acquire(ctx); err != nil {
		return model.Preferences{}, err
	}
	defer s.release()

	s.mu.RLock()
	state, id, cur := s.state, s.identity, s.current
	s.mu.RUnlock()
	if state == StateUninitialized {
		return model.Preferences{}, ErrNotInitialized
	}

	next, err := prefs.MergePreferences(build(cur))
	if err != nil {
		return model.Preferences{}, err
	}

	s.beginCommit()
	var stored model.Preferences
	if id.IsGuest() {
		stored, err = s.saveLocal(next)
	} else {
		stored, err = s.commitDurable(ctx, id, next)
	}
	if err != nil {
		s.endCommit(nil)
		s.logger.Warn("preference update failed",
			zap.String("user", id.UserID), zap.Error(err))
		return model.Preferences{}, &CommitError{Op: op, Identity: id, Err: err}
	}
	s.endCommit(&stored)
	return stored, nil
}

// commitDurable runs the commit detached from ctx cancellation and rejects a
// stored value outside the schema.
func (s *Session) commitDurable(ctx context.Context, id Identity, p model.Preferences) (model.Preferences, error) {
	stored, err := s.commit(context.WithoutCancel(ctx), id, p)
	if err != nil {
		return model.Preferences{}, err
	}
	if err := prefs.Validate(stored); err != nil {
		return model.Preferences{}, fmt.Errorf("durable store returned invalid preferences: %w", err)
	}
	return stored, nil
}

func (s *Session) acquire(ctx context.Context) error {
	select {
	case s.gate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) release() {
	<-s.gate
}

func (s *Session) activate(id Identity, state State, p model.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
	s.state = state
	s.current = p
	s.phase = PhaseIdle
	s.busy = false
}

func (s *Session) beginCommit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = true
	s.phase = PhaseCommitting
}

// endCommit settles a commit; nil means the attempt failed and current stays.
func (s *Session) endCommit(stored *model.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if stored == nil {
		s.phase = PhaseRolledBack
		return
	}
	s.current = *stored
	s.phase = PhaseSettled
}

func (s *Session) loadLocal() *model.Preferences {
	raw, ok, err := s.local.Get(prefs.StorageKey)
	if err != nil {
		s.logger.Warn("failed to read local preferences", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	p, err := prefs.DecodeSnapshot(raw)
	if err != nil {
		s.logger.Warn("discarding invalid local preferences", zap.Error(err))
		s.eraseLocal()
		return nil
	}
	return &p
}

func (s *Session) saveLocal(p model.Preferences) (model.Preferences, error) {
	raw, err := prefs.EncodeSnapshot(p)
	if err != nil {
		return model.Preferences{}, err
	}
	if err := s.local.Set(prefs.StorageKey, raw); err != nil {
		return model.Preferences{}, err
	}
	return p, nil
}

func (s *Session) eraseLocal() {
	if err := s.local.Remove(prefs.StorageKey); err != nil {
		s.logger.Warn("failed to clear local preferences", zap.Error(err))
	}
}
