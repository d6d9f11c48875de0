package roster

import (
	"context"
	"sort"
	"sync"
	"testing"
)

type fakeStore struct {
	mu      sync.Mutex
	byTeam  map[string][]string // registry: team name -> member uids
	rosters map[string][]string
	valid   map[string]bool
	sets    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byTeam:  make(map[string][]string),
		rosters: make(map[string][]string),
		valid:   make(map[string]bool),
	}
}

func (f *fakeStore) ListMemberUIDsByTeam(_ context.Context, teamName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.byTeam[teamName]...), nil
}

func (f *fakeStore) GetTeamRoster(_ context.Context, teamName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rosters[teamName]...), nil
}

func (f *fakeStore) SetTeamRoster(_ context.Context, teamName string, uids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rosters[teamName] = append([]string(nil), uids...)
	f.sets++
	return nil
}

func (f *fakeStore) ListTeamNames(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.rosters))
	for name := range f.rosters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeStore) ListValidMemberUIDs(_ context.Context) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.valid))
	for uid, ok := range f.valid {
		out[uid] = ok
	}
	return out, nil
}

func TestReconcileIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.byTeam["Design team"] = []string{"u1", "u2"}
	store.rosters["Design team"] = []string{"u1"}

	syncer := NewSyncer(store)
	if err := syncer.Reconcile(ctx, "Design team"); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	got, _ := store.GetTeamRoster(ctx, "Design team")
	if len(got) != 2 {
		t.Fatalf("expected roster of 2, got %v", got)
	}
	writes := store.sets

	if err := syncer.Reconcile(ctx, "Design team"); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if store.sets != writes {
		t.Fatalf("expected second reconcile to write nothing, got %d extra writes", store.sets-writes)
	}
}

func TestReconcileConcurrentSameTeam(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.byTeam["Tech team"] = []string{"u1", "u2", "u3"}
	store.rosters["Tech team"] = nil

	syncer := NewSyncer(store)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := syncer.Reconcile(ctx, "Tech team"); err != nil {
				t.Errorf("reconcile: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := store.GetTeamRoster(ctx, "Tech team")
	sort.Strings(got)
	if len(got) != 3 || got[0] != "u1" || got[2] != "u3" {
		t.Fatalf("unexpected roster after concurrent reconcile: %v", got)
	}
}

func TestCleanOrphans(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.rosters["Design team"] = []string{"u1", "ghost", "u2"}
	store.rosters["Tech team"] = []string{"u2", "ghost"}
	store.valid["u1"] = true
	store.valid["u2"] = true

	syncer := NewSyncer(store)
	removed, err := syncer.CleanOrphans(ctx)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}

	removed, err = syncer.CleanOrphans(ctx)
	if err != nil {
		t.Fatalf("second clean: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected clean rosters on second pass, got %d removals", removed)
	}
}

func TestRemoveEverywhere(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.rosters["Design team"] = []string{"u1", "u2"}
	store.rosters["Tech team"] = []string{"u2"}
	store.rosters["Media team"] = []string{"u3"}

	syncer := NewSyncer(store)
	if err := syncer.RemoveEverywhere(ctx, "u2"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	design, _ := store.GetTeamRoster(ctx, "Design team")
	tech, _ := store.GetTeamRoster(ctx, "Tech team")
	media, _ := store.GetTeamRoster(ctx, "Media team")
	if len(design) != 1 || design[0] != "u1" {
		t.Fatalf("unexpected design roster: %v", design)
	}
	if len(tech) != 0 {
		t.Fatalf("unexpected tech roster: %v", tech)
	}
	if len(media) != 1 || media[0] != "u3" {
		t.Fatalf("media roster should be untouched: %v", media)
	}
}
