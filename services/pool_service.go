package services

import (
	"context"
	"log"
	"sync"

	"tindler_server/models"
)

// PoolService is the decision queue in front of the session state: it answers
// which profiles are still swipeable, records permanent like/pass decisions,
// and guards against a second gesture racing an in-flight one.
type PoolService struct {
	Session *SessionService

	mu       sync.Mutex
	inFlight bool
}

func NewPoolService(session *SessionService) *PoolService {
	return &PoolService{Session: session}
}

// PoolFilter narrows the visible pool without touching decision history.
type PoolFilter struct {
	Interests []string
	Roles     []string
}

// AvailableProfiles returns the pool minus every decided profile, preserving
// pool order. Members additionally never re-see applicants who already hold a
// match, even when a pool reload re-includes them.
func (ps *PoolService) AvailableProfiles(filter PoolFilter) []models.Profile {
	state := ps.Session.Snapshot()

	available := make([]models.Profile, 0, len(state.Profiles))
	for _, p := range state.Profiles {
		if state.HasDecided(p.ID) {
			continue
		}
		if state.UserType == models.UserTypeMember && containsStr(state.MatchedIDs, p.ID) {
			continue
		}
		if !filter.allows(p) {
			continue
		}
		available = append(available, p)
	}
	return available
}

func (f PoolFilter) allows(p models.Profile) bool {
	if len(f.Roles) > 0 && !containsStr(f.Roles, p.Role) {
		return false
	}
	if len(f.Interests) == 0 {
		return true
	}
	for _, want := range f.Interests {
		if containsStr(p.Interests, want) || containsStr(p.Expertise, want) {
			return true
		}
	}
	return false
}

// LoadPool replaces the pool wholesale. Decision history is untouched, so
// previously decided ids stay excluded from AvailableProfiles.
func (ps *PoolService) LoadPool(ctx context.Context, profiles []models.Profile) {
	ps.Session.Dispatch(ctx, LoadPoolAction{Profiles: profiles})
}

// RecordDecision is idempotent by id: the first decision wins and a repeat in
// either direction is a no-op inside the reducer.
func (ps *PoolService) RecordDecision(ctx context.Context, profileID, direction string) {
	ps.Session.Dispatch(ctx, RecordDecisionAction{ProfileID: profileID, Direction: direction})
}

// RemoveFromPool deletes the profile from the visible pool only.
func (ps *PoolService) RemoveFromPool(ctx context.Context, profileID string) {
	ps.Session.Dispatch(ctx, RemoveProfileAction{ProfileID: profileID})
}

// BeginDecision claims the single in-flight slot. While a swipe's remote call
// is unresolved no second decision may start; callers that get false should
// drop the gesture.
func (ps *PoolService) BeginDecision() bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.inFlight {
		log.Println("Ignoring swipe: a decision is already in flight")
		return false
	}
	ps.inFlight = true
	return true
}

// FinishDecision releases the in-flight slot regardless of outcome.
func (ps *PoolService) FinishDecision() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.inFlight = false
}
