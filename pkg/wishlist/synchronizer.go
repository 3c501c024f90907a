// Package wishlist keeps a local copy of the caller's wishlist in sync with
// the remote store, scoped to whichever identity is currently active.
package wishlist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/yashrajoria/marketplace/pkg/catalog"
	"github.com/yashrajoria/marketplace/pkg/identity"
)

// DefaultTimeout bounds each remote call when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Status is the state of the last wishlist operation.
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Notification kinds passed to Notifier.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

// Notifier delivers user-facing outcome messages. It must not block.
type Notifier interface {
	Notify(kind, message string)
}

// IdentitySource reports the active identity. *identity.Resolver satisfies it.
type IdentitySource interface {
	CurrentIdentity() identity.Identity
}

// Snapshot is a copy of the synchronizer state.
type Snapshot struct {
	Identity identity.Identity
	Items    []catalog.Product
	Status   Status
	Err      error
}

// Options tune a Synchronizer. Zero values are usable.
type Options struct {
	Timeout  time.Duration
	Notifier Notifier
	Logger   *zap.Logger
}

// Synchronizer owns the local wishlist. Remote calls for one identity run one
// at a time, fetches included; concurrent fetches for one identity share a
// single call. Each call is stamped when it starts and a response never
// replaces the list applied by a later call.
type Synchronizer struct {
	remote     Remote
	identities IdentitySource
	notifier   Notifier
	log        *zap.Logger
	timeout    time.Duration

	mu       sync.RWMutex
	owner    identity.Identity
	items    []catalog.Product
	status   Status
	lastErr  error
	inflight int
	issued   uint64
	applied  uint64

	// locks holds one semaphore per identity that owned the list. The entry
	// of a previous owner is dropped when ownership changes.
	locksMu sync.Mutex
	locks   map[string]*semaphore.Weighted

	fetches singleflight.Group
}

func New(remote Remote, identities IdentitySource, opts Options) *Synchronizer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Synchronizer{
		remote:     remote,
		identities: identities,
		notifier:   opts.Notifier,
		log:        opts.Logger,
		timeout:    opts.Timeout,
		locks:      make(map[string]*semaphore.Weighted),
	}
}

// Fetch replaces the local list with the server's. On failure the previous
// list is kept. There is no retry.
func (s *Synchronizer) Fetch(ctx context.Context) error {
	id := s.identities.CurrentIdentity()
	if id.IsAnonymous() {
		s.reportAuthMissing("fetch")
		return ErrAuthMissing
	}

	s.begin(id)
	v, err, shared := s.fetches.Do(id.Key(), func() (interface{}, error) {
		lock := s.lockFor(id)
		if err := lock.Acquire(ctx, 1); err != nil {
			return fetchResult{}, err
		}
		defer lock.Release(1)

		seq := s.stamp()
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		items, err := s.remote.List(callCtx, id)
		return fetchResult{items: items, seq: seq}, err
	})
	if shared {
		s.log.Debug("wishlist fetch shared", zap.String("identity", id.Key()))
	}

	res, _ := v.(fetchResult)
	return s.finish(id, "fetch", res.seq, res.items, err, "")
}

type fetchResult struct {
	items []catalog.Product
	seq   uint64
}

// Add puts productID on the wishlist. The server's full list replaces local
// state; adding a product that is already present is harmless.
func (s *Synchronizer) Add(ctx context.Context, productID string) error {
	return s.mutate(ctx, "add", productID, "Added to wishlist", s.remote.Add)
}

// Remove takes productID off the wishlist.
func (s *Synchronizer) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, "remove", productID, "Removed from wishlist", s.remote.Remove)
}

// Refresh reacts to an identity change: the list of the previous identity is
// dropped, and the new identity's list is fetched. Nothing happens when the
// identity is unchanged.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	id := s.identities.CurrentIdentity()

	s.mu.Lock()
	changed := id.Key() != s.owner.Key()
	if changed {
		s.adopt(id)
	}
	s.mu.Unlock()

	if !changed || id.IsAnonymous() {
		return nil
	}
	s.log.Info("wishlist identity changed", zap.String("identity", id.Key()))
	return s.Fetch(ctx)
}

// Contains reports whether productID is in the local list. It never fetches.
func (s *Synchronizer) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.items {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the local list.
func (s *Synchronizer) Items() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.Product(nil), s.items...)
}

func (s *Synchronizer) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Identity: s.owner,
		Items:    append([]catalog.Product(nil), s.items...),
		Status:   s.status,
		Err:      s.lastErr,
	}
}

type mutation func(ctx context.Context, id identity.Identity, productID string) ([]catalog.Product, error)

func (s *Synchronizer) mutate(ctx context.Context, op, productID, okMessage string, call mutation) error {
	id := s.identities.CurrentIdentity()
	if id.IsAnonymous() {
		s.reportAuthMissing(op)
		return ErrAuthMissing
	}

	lock := s.lockFor(id)
	if err := lock.Acquire(ctx, 1); err != nil {
		werr := classify(err)
		s.notify(NotifyError, failureMessage(op, werr))
		return werr
	}
	defer lock.Release(1)

	s.begin(id)
	seq := s.stamp()
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	items, err := call(callCtx, id, productID)
	cancel()

	return s.finish(id, op, seq, items, err, okMessage)
}

// stamp numbers a remote call. Callers hold the identity lock, so stamps
// follow the order in which the server sees the calls.
func (s *Synchronizer) stamp() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// begin moves to Loading. A request for an identity other than the current
// owner drops the owner's list first.
func (s *Synchronizer) begin(id identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id.Key() != s.owner.Key() {
		s.adopt(id)
	}
	s.inflight++
	s.status = Loading
}

// finish applies the outcome of a remote call made on behalf of id.
func (s *Synchronizer) finish(id identity.Identity, op string, seq uint64, items []catalog.Product, callErr error, okMessage string) error {
	current := s.identities.CurrentIdentity()

	s.mu.Lock()
	stale := current.Key() != id.Key() || s.owner.Key() != id.Key()
	switch {
	case !stale:
		s.inflight--
	case s.owner.Key() == id.Key():
		s.adopt(current)
	}

	var werr *Error
	superseded := false
	switch {
	case stale:
		werr = ErrIdentityChanged
	case callErr != nil:
		werr = classify(callErr)
		s.lastErr = werr
		if s.inflight == 0 {
			s.status = Failed
		}
	default:
		if seq < s.applied {
			superseded = true
		} else {
			s.items = append([]catalog.Product(nil), items...)
			s.applied = seq
		}
		s.lastErr = nil
		if s.inflight == 0 {
			s.status = Succeeded
		}
	}
	s.mu.Unlock()

	fields := []zap.Field{zap.String("op", op), zap.String("identity", id.Key())}
	switch {
	case stale:
		s.log.Info("wishlist response discarded after identity change", fields...)
		return werr
	case werr != nil:
		s.log.Warn("wishlist call failed", append(fields, zap.String("kind", string(werr.Kind)), zap.Error(werr))...)
		s.notify(NotifyError, failureMessage(op, werr))
		return werr
	}

	if superseded {
		s.log.Debug("wishlist response older than the applied list", fields...)
	} else {
		s.log.Debug("wishlist call succeeded", append(fields, zap.Int("items", len(items)))...)
	}
	if okMessage != "" {
		s.notify(NotifySuccess, okMessage)
	}
	return nil
}

// adopt switches ownership to id. Callers hold s.mu.
func (s *Synchronizer) adopt(id identity.Identity) {
	if prev := s.owner.Key(); prev != id.Key() {
		s.locksMu.Lock()
		delete(s.locks, prev)
		s.locksMu.Unlock()
	}
	s.owner = id
	s.applied = 0
	s.items = nil
	s.status = Idle
	s.lastErr = nil
	s.inflight = 0
}

func (s *Synchronizer) lockFor(id identity.Identity) *semaphore.Weighted {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[id.Key()]
	if !ok {
		lock = semaphore.NewWeighted(1)
		s.locks[id.Key()] = lock
	}
	return lock
}

func (s *Synchronizer) reportAuthMissing(op string) {
	s.mu.Lock()
	s.lastErr = ErrAuthMissing
	s.mu.Unlock()

	s.log.Debug("wishlist call without identity", zap.String("op", op))
	s.notify(NotifyError, "Please sign in to use your wishlist")
}

func (s *Synchronizer) notify(kind, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(kind, message)
}

func failureMessage(op string, err *Error) string {
	if err.Message != "" {
		return err.Message
	}
	if err.Kind == KindTimeout {
		return "The wishlist took too long to respond"
	}
	if op == "fetch" {
		return "Could not load your wishlist"
	}
	return "Could not update your wishlist"
}
