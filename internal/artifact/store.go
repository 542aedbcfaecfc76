// Package artifact holds generated output files for a short, fixed window.
//
// Every artifact is deleted at CreatedAt + TTL whether or not it was ever
// downloaded. Deletion is driven by a timer scheduled at Put time; Retrieve
// also checks the deadline itself, so a download that races a late timer
// never sees stale bytes.
package artifact

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an artifact stays retrievable.
const DefaultTTL = 15 * time.Second

var (
	// ErrNotFound covers both unknown IDs and artifacts that already expired.
	ErrNotFound = errors.New("artifact not found or expired")

	// ErrClosed is returned by Put after Close.
	ErrClosed = errors.New("artifact store closed")
)

// Handle describes a stored artifact without its payload.
type Handle struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Artifact is a handle plus its bytes. Payload is owned by the store and
// must be treated as read-only.
type Artifact struct {
	Handle
	Payload []byte
}

type entry struct {
	handle  Handle
	payload []byte

	mu    sync.Mutex
	timer Timer
}

// Store maps artifact IDs to payloads. Entries are independent: concurrent
// puts and expirations touch only their own entry.
type Store struct {
	clock  Clock
	ttl    time.Duration
	logger *slog.Logger

	entries sync.Map // id -> *entry
	count   atomic.Int64
	closed  atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithTTL sets the artifact lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for expiry events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		clock:  SystemClock{},
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured artifact lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Put stores payload under a fresh ID and schedules its deletion.
// The store takes ownership of payload.
func (s *Store) Put(payload []byte, name, contentType string) (Handle, error) {
	if s.closed.Load() {
		return Handle{}, ErrClosed
	}

	now := s.clock.Now()
	e := &entry{
		handle: Handle{
			ID:          uuid.NewString(),
			Name:        name,
			ContentType: contentType,
			Size:        len(payload),
			CreatedAt:   now,
			ExpiresAt:   now.Add(s.ttl),
		},
		payload: payload,
	}
	id := e.handle.ID

	// Hold the entry lock while publishing so an early-firing timer or a
	// concurrent Close waits until the timer is recorded.
	e.mu.Lock()
	s.entries.Store(id, e)
	s.count.Add(1)
	e.timer = s.clock.AfterFunc(s.ttl, func() { s.expire(id, "deadline") })
	e.mu.Unlock()

	// Close may have swept the map before this entry landed.
	if s.closed.Load() {
		s.Expire(id)
		return Handle{}, ErrClosed
	}

	s.logger.Debug("artifact stored",
		"artifact_id", id,
		"name", name,
		"bytes", len(payload),
		"expires_at", e.handle.ExpiresAt,
	)
	return e.handle, nil
}

// Retrieve returns the artifact while it is live. After the deadline it
// fails with ErrNotFound even if the deletion timer has not run yet.
func (s *Store) Retrieve(id string) (*Artifact, error) {
	v, ok := s.entries.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e := v.(*entry)
	if !s.clock.Now().Before(e.handle.ExpiresAt) {
		s.expire(id, "late retrieve")
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	e.mu.Lock()
	payload := e.payload
	e.mu.Unlock()
	if payload == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &Artifact{Handle: e.handle, Payload: payload}, nil
}

// Expire deletes the artifact now. It is idempotent and reports whether
// this call removed it. The scheduled timer is cancelled.
func (s *Store) Expire(id string) bool {
	return s.expire(id, "manual")
}

func (s *Store) expire(id, cause string) bool {
	v, ok := s.entries.LoadAndDelete(id)
	if !ok {
		return false
	}
	s.count.Add(-1)

	e := v.(*entry)
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.payload = nil
	e.mu.Unlock()

	s.logger.Debug("artifact expired", "artifact_id", id, "cause", cause)
	return true
}

// Len returns the number of live artifacts.
func (s *Store) Len() int {
	return int(s.count.Load())
}

// Close cancels every pending deletion timer and drops all artifacts.
// Later Puts fail with ErrClosed.
func (s *Store) Close() {
	s.closed.Store(true)
	s.entries.Range(func(key, _ any) bool {
		s.expire(key.(string), "close")
		return true
	})
}
