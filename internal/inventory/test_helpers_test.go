package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type backendCase struct {
	name     string
	newStore func(t *testing.T, clock func() time.Time, publish func(Activity)) Store
}

// storeBackends lists both store implementations so behavioral tests run the
// identical suite against each.
func storeBackends() []backendCase {
	return []backendCase{
		{
			name: "memory",
			newStore: func(t *testing.T, clock func() time.Time, publish func(Activity)) Store {
				t.Helper()
				return NewMemoryStore(MemoryStoreConfig{Clock: clock, ActivityPublisher: publish})
			},
		},
		{
			name: "sql",
			newStore: func(t *testing.T, clock func() time.Time, publish func(Activity)) Store {
				t.Helper()
				store, err := NewSQLStore(SQLStoreConfig{
					Database:          newTestDatabase(t),
					Clock:             clock,
					ActivityPublisher: publish,
				})
				if err != nil {
					t.Fatalf("failed to construct sql store: %v", err)
				}
				return store
			},
		},
	}
}

func forEachBackend(t *testing.T, run func(t *testing.T, backend backendCase)) {
	t.Helper()
	for _, backend := range storeBackends() {
		t.Run(backend.name, func(t *testing.T) {
			run(t, backend)
		})
	}
}

func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:inventory_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&BoxRecord{}, &OwnerRecord{}, &ActivityRecord{}, &QRCodeRecord{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

var testEpoch = time.Unix(1723000000, 0).UTC()

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// tickingClock returns a clock advancing by step on every call, so each store
// operation lands on its own timestamp.
func tickingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func mustCreateBox(t *testing.T, store Store, newBox NewBox) Box {
	t.Helper()
	box, err := store.CreateBox(context.Background(), newBox)
	if err != nil {
		t.Fatalf("failed to create box: %v", err)
	}
	return box
}

func mustCreateOwner(t *testing.T, store Store, newOwner NewOwner) Owner {
	t.Helper()
	owner, err := store.CreateOwner(context.Background(), newOwner)
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	return owner
}

func mustPosition(t *testing.T, depth, horizontal, vertical string) Position {
	t.Helper()
	position, err := NewPosition(depth, horizontal, vertical)
	if err != nil {
		t.Fatalf("failed to build position: %v", err)
	}
	return position
}

func countActivities(t *testing.T, store Store) int {
	t.Helper()
	activities, err := store.ListActivities(context.Background(), 0)
	if err != nil {
		t.Fatalf("failed to list activities: %v", err)
	}
	return len(activities)
}

func newestActivity(t *testing.T, store Store) Activity {
	t.Helper()
	activities, err := store.ListActivities(context.Background(), 1)
	if err != nil {
		t.Fatalf("failed to list activities: %v", err)
	}
	if len(activities) == 0 {
		t.Fatalf("expected at least one activity")
	}
	return activities[0]
}

func statusPointer(status Status) *Status {
	return &status
}

func stringPointer(value string) *string {
	return &value
}

func intPointer(value int) *int {
	return &value
}
