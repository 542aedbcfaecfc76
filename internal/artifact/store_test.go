package artifact_test

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/kontenfilter/internal/artifact"
	"github.com/JonMunkholm/kontenfilter/internal/testsupport"
)

var epoch = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) (*artifact.Store, *testsupport.ManualClock) {
	t.Helper()
	clock := testsupport.NewManualClock(epoch)
	store := artifact.NewStore(artifact.WithClock(clock))
	t.Cleanup(store.Close)
	return store, clock
}

func TestStore_PutRetrieve(t *testing.T) {
	store, _ := newStore(t)

	h, err := store.Put([]byte("payload"), "cleaned_report.xlsx", "application/test")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if h.ID == "" {
		t.Fatal("handle ID is empty")
	}
	if !h.CreatedAt.Equal(epoch) {
		t.Errorf("CreatedAt = %v, want %v", h.CreatedAt, epoch)
	}
	if want := epoch.Add(15 * time.Second); !h.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", h.ExpiresAt, want)
	}
	if h.Size != len("payload") {
		t.Errorf("Size = %d, want %d", h.Size, len("payload"))
	}

	a, err := store.Retrieve(h.ID)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if !bytes.Equal(a.Payload, []byte("payload")) {
		t.Errorf("Payload = %q, want %q", a.Payload, "payload")
	}
	if a.Name != "cleaned_report.xlsx" || a.ContentType != "application/test" {
		t.Errorf("handle = %+v, want name and content type preserved", a.Handle)
	}
}

func TestStore_ExpiryWindow(t *testing.T) {
	store, clock := newStore(t)

	h, err := store.Put([]byte("x"), "a.xlsx", "application/test")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	clock.Advance(10 * time.Second)
	if _, err := store.Retrieve(h.ID); err != nil {
		t.Fatalf("Retrieve at +10s failed: %v", err)
	}

	clock.Advance(6 * time.Second)
	_, err = store.Retrieve(h.ID)
	if !errors.Is(err, artifact.ErrNotFound) {
		t.Fatalf("Retrieve at +16s error = %v, want ErrNotFound", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d after expiry, want 0", store.Len())
	}
}

func TestStore_DeletedWithoutDownload(t *testing.T) {
	store, clock := newStore(t)

	for i := 0; i < 3; i++ {
		if _, err := store.Put([]byte{byte(i)}, "a.xlsx", "application/test"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if store.Len() != 3 {
		t.Fatalf("Len = %d, want 3", store.Len())
	}

	clock.Advance(15 * time.Second)

	if store.Len() != 0 {
		t.Errorf("Len = %d after deadline, want 0", store.Len())
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending timers = %d, want 0", clock.Pending())
	}
}

// stalledClock never runs scheduled functions, standing in for a timer that
// fires late.
type stalledClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stalledClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stalledClock) set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *stalledClock) AfterFunc(time.Duration, func()) artifact.Timer { return stalledTimer{} }

type stalledTimer struct{}

func (stalledTimer) Stop() bool { return true }

func TestStore_LateRetrieveFailsWhenTimerIsLate(t *testing.T) {
	clock := &stalledClock{now: epoch}
	store := artifact.NewStore(artifact.WithClock(clock))
	defer store.Close()

	h, err := store.Put([]byte("stale"), "a.xlsx", "application/test")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	clock.set(h.ExpiresAt)
	if _, err := store.Retrieve(h.ID); !errors.Is(err, artifact.ErrNotFound) {
		t.Fatalf("Retrieve at deadline error = %v, want ErrNotFound", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want late retrieve to drop the entry", store.Len())
	}
}

func TestStore_UnknownID(t *testing.T) {
	store, _ := newStore(t)

	if _, err := store.Retrieve("does-not-exist"); !errors.Is(err, artifact.ErrNotFound) {
		t.Fatalf("Retrieve error = %v, want ErrNotFound", err)
	}
}

func TestStore_ExpireIsIdempotent(t *testing.T) {
	store, clock := newStore(t)

	h, _ := store.Put([]byte("x"), "a.xlsx", "application/test")
	other, _ := store.Put([]byte("y"), "b.xlsx", "application/test")

	if !store.Expire(h.ID) {
		t.Error("first Expire should report removal")
	}
	if store.Expire(h.ID) {
		t.Error("second Expire should be a no-op")
	}
	if _, err := store.Retrieve(h.ID); !errors.Is(err, artifact.ErrNotFound) {
		t.Errorf("Retrieve after Expire error = %v, want ErrNotFound", err)
	}

	// Early deletion must not disturb other schedules.
	if clock.Pending() != 1 {
		t.Errorf("Pending timers = %d, want 1", clock.Pending())
	}
	if _, err := store.Retrieve(other.ID); err != nil {
		t.Errorf("other artifact lost: %v", err)
	}
	clock.Advance(15 * time.Second)
	if _, err := store.Retrieve(other.ID); !errors.Is(err, artifact.ErrNotFound) {
		t.Errorf("other artifact survived deadline: %v", err)
	}
}

func TestStore_CustomTTL(t *testing.T) {
	clock := testsupport.NewManualClock(epoch)
	store := artifact.NewStore(artifact.WithClock(clock), artifact.WithTTL(5*time.Second))
	defer store.Close()

	h, _ := store.Put([]byte("x"), "a.xlsx", "application/test")
	if got := h.ExpiresAt.Sub(h.CreatedAt); got != 5*time.Second {
		t.Errorf("lifetime = %v, want 5s", got)
	}
	clock.Advance(5 * time.Second)
	if _, err := store.Retrieve(h.ID); !errors.Is(err, artifact.ErrNotFound) {
		t.Errorf("Retrieve after TTL error = %v, want ErrNotFound", err)
	}
}

func TestStore_CloseCancelsTimers(t *testing.T) {
	clock := testsupport.NewManualClock(epoch)
	store := artifact.NewStore(artifact.WithClock(clock))

	h, _ := store.Put([]byte("x"), "a.xlsx", "application/test")
	store.Close()

	if clock.Pending() != 0 {
		t.Errorf("Pending timers = %d after Close, want 0", clock.Pending())
	}
	if _, err := store.Retrieve(h.ID); !errors.Is(err, artifact.ErrNotFound) {
		t.Errorf("Retrieve after Close error = %v, want ErrNotFound", err)
	}
	if _, err := store.Put([]byte("y"), "b.xlsx", "application/test"); !errors.Is(err, artifact.ErrClosed) {
		t.Errorf("Put after Close error = %v, want ErrClosed", err)
	}
}

func TestStore_ConcurrentPutAndExpire(t *testing.T) {
	store, clock := newStore(t)

	const workers = 16
	const perWorker = 25

	var wg sync.WaitGroup
	ids := make(chan string, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				h, err := store.Put([]byte(fmt.Sprintf("%d-%d", w, i)), "a.xlsx", "application/test")
				if err != nil {
					t.Errorf("Put failed: %v", err)
					return
				}
				ids <- h.ID
				if i%5 == 0 {
					store.Expire(h.ID)
				}
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate artifact ID %s", id)
		}
		seen[id] = true
	}

	want := workers * (perWorker - perWorker/5)
	if store.Len() != want {
		t.Errorf("Len = %d, want %d", store.Len(), want)
	}

	clock.Advance(16 * time.Second)
	if store.Len() != 0 {
		t.Errorf("Len = %d after deadline, want 0", store.Len())
	}
}
