package bot

import (
	"context"
	"testing"
	"time"
)

func TestMemorySessionStorePutGet(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, 10)
	ctx := context.Background()

	if err := store.Put(ctx, 1, &Session{Step: StepOfferOrigin, Origin: "Almaty"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	session, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session == nil {
		t.Fatal("expected a session")
	}
	if session.Step != StepOfferOrigin || session.Origin != "Almaty" {
		t.Errorf("session = %+v", session)
	}

	if session, _ := store.Get(ctx, 2); session != nil {
		t.Error("unknown chat should have no session")
	}
}

func TestMemorySessionStoreDelete(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, 10)
	ctx := context.Background()

	store.Put(ctx, 1, &Session{Step: StepBookRide})
	store.Delete(ctx, 1)

	if session, _ := store.Get(ctx, 1); session != nil {
		t.Error("session should be gone after delete")
	}
}

func TestMemorySessionStoreTTLExpiry(t *testing.T) {
	store := NewMemorySessionStore(10*time.Millisecond, 10)
	ctx := context.Background()

	store.Put(ctx, 1, &Session{Step: StepFindOrigin})
	time.Sleep(20 * time.Millisecond)

	if session, _ := store.Get(ctx, 1); session != nil {
		t.Error("session should have expired")
	}
}

func TestMemorySessionStoreEvictsStalestWhenFull(t *testing.T) {
	store := NewMemorySessionStore(time.Hour, 3)
	ctx := context.Background()

	for chatID := int64(1); chatID <= 3; chatID++ {
		store.Put(ctx, chatID, &Session{Step: StepOfferOrigin})
		// Distinct UpdatedAt so eviction order is deterministic
		time.Sleep(time.Millisecond)
	}

	// A fourth conversation evicts chat 1, the stalest
	store.Put(ctx, 4, &Session{Step: StepOfferOrigin})

	if session, _ := store.Get(ctx, 1); session != nil {
		t.Error("stalest session should have been evicted")
	}
	for chatID := int64(2); chatID <= 4; chatID++ {
		if session, _ := store.Get(ctx, chatID); session == nil {
			t.Errorf("chat %d session missing", chatID)
		}
	}
}

func TestMemorySessionStoreUpdateDoesNotEvict(t *testing.T) {
	store := NewMemorySessionStore(time.Hour, 2)
	ctx := context.Background()

	store.Put(ctx, 1, &Session{Step: StepOfferOrigin})
	store.Put(ctx, 2, &Session{Step: StepOfferOrigin})

	// Updating an existing chat must not push anyone out
	store.Put(ctx, 1, &Session{Step: StepOfferDestination})

	if session, _ := store.Get(ctx, 2); session == nil {
		t.Error("update of chat 1 evicted chat 2")
	}
	session, _ := store.Get(ctx, 1)
	if session == nil || session.Step != StepOfferDestination {
		t.Errorf("chat 1 session = %+v, want updated step", session)
	}
}
