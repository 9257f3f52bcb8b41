package keypad

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// newTestStore returns a Store with a controllable clock and sequential ids.
func newTestStore(maxSessions int, ttl time.Duration) (*Store, *time.Time) {
	store := NewStore(maxSessions, ttl, zap.NewNop())

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	n := 0
	store.newID = func() string {
		n++
		return fmt.Sprintf("session-%d", n)
	}
	return store, &now
}

func TestStoreCreateGetDelete(t *testing.T) {
	store, _ := newTestStore(0, 0)

	created, err := store.Create()
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	if created.ID != "session-1" || created.Operand != "0" {
		t.Fatalf("unexpected session %+v", created)
	}

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("getting session: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected id %q, got %q", created.ID, got.ID)
	}

	if err := store.Delete(created.ID); err != nil {
		t.Fatalf("deleting session: %v", err)
	}
	if _, err := store.Get(created.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := store.Delete(created.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestStoreDo(t *testing.T) {
	store, _ := newTestStore(0, 0)
	created, _ := store.Create()

	display, err := store.Do(created.ID, func(s *Session) error {
		return s.Press("7")
	})
	if err != nil {
		t.Fatalf("pressing key: %v", err)
	}
	if display.Operand != "7" {
		t.Fatalf("expected operand %q, got %q", "7", display.Operand)
	}

	display, err = store.Do(created.ID, func(s *Session) error {
		return s.Press("?")
	})
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if display.Operand != "7" {
		t.Fatalf("expected display after failed key, got %+v", display)
	}

	if _, err := store.Do("missing", func(*Session) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreMaxSessions(t *testing.T) {
	store, _ := newTestStore(2, 0)

	for i := 0; i < 2; i++ {
		if _, err := store.Create(); err != nil {
			t.Fatalf("creating session %d: %v", i, err)
		}
	}

	if _, err := store.Create(); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
}

func TestStoreCreateDropsIdleSessions(t *testing.T) {
	store, now := newTestStore(1, time.Minute)

	idle, _ := store.Create()

	*now = now.Add(2 * time.Minute)
	fresh, err := store.Create()
	if err != nil {
		t.Fatalf("expected idle session to make room, got %v", err)
	}

	if _, err := store.Get(idle.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session to be dropped, got %v", err)
	}
	if _, err := store.Get(fresh.ID); err != nil {
		t.Fatalf("expected fresh session, got %v", err)
	}
}

func TestStoreDoKeepsSessionAlive(t *testing.T) {
	store, now := newTestStore(0, time.Minute)

	kept, _ := store.Create()

	*now = now.Add(50 * time.Second)
	if _, err := store.Do(kept.ID, func(s *Session) error { return s.Press("1") }); err != nil {
		t.Fatalf("pressing key: %v", err)
	}

	*now = now.Add(50 * time.Second)
	store.Create()

	if _, err := store.Get(kept.ID); err != nil {
		t.Fatalf("expected recently used session to survive, got %v", err)
	}
}

func TestStoreConcurrentKeys(t *testing.T) {
	store := NewStore(0, 0, zap.NewNop())
	created, _ := store.Create()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Do(created.ID, func(s *Session) error {
				return s.Press("1")
			})
		}()
	}
	wg.Wait()

	got, _ := store.Get(created.ID)
	if got.Operand != "1,111,111,111" {
		t.Fatalf("expected operand %q, got %q", "1,111,111,111", got.Operand)
	}
}
