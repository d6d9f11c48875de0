// Package roster keeps the membership arrays stored on teams consistent with
// the member registry. Teams carry a denormalized list of member UIDs so the
// dashboard can render rosters without joining; this package owns every write
// to that list.
package roster

import (
	"context"
	"sync"
)

// Store is the subset of the repository the syncer needs.
type Store interface {
	ListMemberUIDsByTeam(ctx context.Context, teamName string) ([]string, error)
	GetTeamRoster(ctx context.Context, teamName string) ([]string, error)
	SetTeamRoster(ctx context.Context, teamName string, uids []string) error
	ListTeamNames(ctx context.Context) ([]string, error)
	ListValidMemberUIDs(ctx context.Context) (map[string]bool, error)
}

// Syncer serializes roster writes per team name. Two concurrent reconciles of
// the same team would otherwise read-modify-write over each other.
type Syncer struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSyncer(store Store) *Syncer {
	return &Syncer{store: store, locks: make(map[string]*sync.Mutex)}
}

func (s *Syncer) teamLock(teamName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[teamName]
	if !ok {
		l = &sync.Mutex{}
		s.locks[teamName] = l
	}
	return l
}

// Reconcile rebuilds a team's roster from the registry rows that currently
// name that team. Running it twice is a no-op the second time.
func (s *Syncer) Reconcile(ctx context.Context, teamName string) error {
	l := s.teamLock(teamName)
	l.Lock()
	defer l.Unlock()

	uids, err := s.store.ListMemberUIDsByTeam(ctx, teamName)
	if err != nil {
		return err
	}
	current, err := s.store.GetTeamRoster(ctx, teamName)
	if err != nil {
		return err
	}
	if equalSets(current, uids) {
		return nil
	}
	return s.store.SetTeamRoster(ctx, teamName, uids)
}

// CleanOrphans drops roster entries that no longer point at a valid member.
// A member is valid when its registry row still exists with a name and an
// email. Returns the number of entries removed across all teams.
func (s *Syncer) CleanOrphans(ctx context.Context) (int, error) {
	valid, err := s.store.ListValidMemberUIDs(ctx)
	if err != nil {
		return 0, err
	}
	teams, err := s.store.ListTeamNames(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, teamName := range teams {
		n, err := s.filterTeam(ctx, teamName, func(uid string) bool { return valid[uid] })
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

// CleanTeam is CleanOrphans scoped to a single roster.
func (s *Syncer) CleanTeam(ctx context.Context, teamName string) (int, error) {
	valid, err := s.store.ListValidMemberUIDs(ctx)
	if err != nil {
		return 0, err
	}
	return s.filterTeam(ctx, teamName, func(uid string) bool { return valid[uid] })
}

// RemoveEverywhere takes one member out of every roster that lists it, used
// when a registry row is deleted.
func (s *Syncer) RemoveEverywhere(ctx context.Context, uid string) error {
	teams, err := s.store.ListTeamNames(ctx)
	if err != nil {
		return err
	}
	for _, teamName := range teams {
		if _, err := s.filterTeam(ctx, teamName, func(member string) bool { return member != uid }); err != nil {
			return err
		}
	}
	return nil
}

// filterTeam rewrites one roster keeping only entries the predicate accepts,
// holding that team's lock for the read-modify-write.
func (s *Syncer) filterTeam(ctx context.Context, teamName string, keep func(string) bool) (int, error) {
	l := s.teamLock(teamName)
	l.Lock()
	defer l.Unlock()

	current, err := s.store.GetTeamRoster(ctx, teamName)
	if err != nil {
		return 0, err
	}
	kept := make([]string, 0, len(current))
	for _, uid := range current {
		if keep(uid) {
			kept = append(kept, uid)
		}
	}
	removed := len(current) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.store.SetTeamRoster(ctx, teamName, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	return true
}
