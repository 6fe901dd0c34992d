package services

import (
	"context"
	"testing"

	"tindler_server/models"
)

func newTestPool(t *testing.T, userType string) (*PoolService, *SessionService) {
	t.Helper()
	session := NewSessionService(NewMemoryStore(), "test-pool")
	session.Dispatch(context.Background(), SetUserTypeAction{UserType: userType})
	return NewPoolService(session), session
}

func testProfiles(ids ...string) []models.Profile {
	profiles := make([]models.Profile, len(ids))
	for i, id := range ids {
		profiles[i] = models.Profile{ID: id, Name: "Profile " + id}
	}
	return profiles
}

func availableIDs(pool *PoolService, filter PoolFilter) []string {
	var ids []string
	for _, p := range pool.AvailableProfiles(filter) {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestRecordDecisionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool, session := newTestPool(t, models.UserTypeApplicant)

	pool.RecordDecision(ctx, "p1", models.DirectionLike)
	pool.RecordDecision(ctx, "p1", models.DirectionLike)
	pool.RecordDecision(ctx, "p1", models.DirectionPass)

	state := session.Snapshot()
	if len(state.LikedIDs) != 1 || state.LikedIDs[0] != "p1" {
		t.Errorf("LikedIDs = %v, want [p1]", state.LikedIDs)
	}
	if len(state.PassedIDs) != 0 {
		t.Errorf("PassedIDs = %v, repeat decision flipped the direction", state.PassedIDs)
	}
	if state.LikesCount != 1 {
		t.Errorf("LikesCount = %d, want 1", state.LikesCount)
	}
}

func TestDecidedProfilesStayExcludedAcrossReload(t *testing.T) {
	ctx := context.Background()
	pool, _ := newTestPool(t, models.UserTypeApplicant)

	pool.LoadPool(ctx, testProfiles("p1", "p2", "p3"))
	pool.RecordDecision(ctx, "p2", models.DirectionPass)
	pool.RemoveFromPool(ctx, "p2")

	if got := availableIDs(pool, PoolFilter{}); len(got) != 2 {
		t.Fatalf("available = %v, want p1 and p3", got)
	}

	// A reload that re-includes p2 must not resurface it
	pool.LoadPool(ctx, testProfiles("p1", "p2", "p3", "p4"))
	got := availableIDs(pool, PoolFilter{})
	for _, id := range got {
		if id == "p2" {
			t.Fatalf("available = %v, decided profile resurfaced after reload", got)
		}
	}
	if len(got) != 3 {
		t.Errorf("available = %v, want 3 profiles", got)
	}
}

func TestAvailableProfilesPreservesPoolOrder(t *testing.T) {
	ctx := context.Background()
	pool, _ := newTestPool(t, models.UserTypeApplicant)

	pool.LoadPool(ctx, testProfiles("a", "b", "c", "d"))
	pool.RecordDecision(ctx, "b", models.DirectionLike)

	got := availableIDs(pool, PoolFilter{})
	want := []string{"a", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("available = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("available = %v, want %v", got, want)
		}
	}
}

func TestMemberPoolExcludesMatchedApplicants(t *testing.T) {
	ctx := context.Background()
	pool, session := newTestPool(t, models.UserTypeMember)

	pool.LoadPool(ctx, testProfiles("a1", "a2"))
	session.Dispatch(ctx, AddMatchAction{Match: models.Match{
		ID:        "m1",
		Applicant: models.Profile{ID: "a1"},
		Member:    models.Profile{ID: "me"},
		Status:    models.MatchStatusConfirmed,
	}})

	got := availableIDs(pool, PoolFilter{})
	if len(got) != 1 || got[0] != "a2" {
		t.Errorf("available = %v, want [a2]", got)
	}
}

func TestPoolFilterByInterestsAndRoles(t *testing.T) {
	ctx := context.Background()
	pool, _ := newTestPool(t, models.UserTypeApplicant)

	pool.LoadPool(ctx, []models.Profile{
		{ID: "p1", Role: "Junior", Interests: []string{"fintech", "hiking"}},
		{ID: "p2", Role: "Senior", Interests: []string{"consulting"}},
		{ID: "p3", Role: "Junior", Expertise: []string{"fintech"}},
	})

	got := availableIDs(pool, PoolFilter{Interests: []string{"fintech"}})
	if len(got) != 2 || got[0] != "p1" || got[1] != "p3" {
		t.Errorf("interest filter = %v, want [p1 p3]", got)
	}

	got = availableIDs(pool, PoolFilter{Roles: []string{"Senior"}})
	if len(got) != 1 || got[0] != "p2" {
		t.Errorf("role filter = %v, want [p2]", got)
	}

	got = availableIDs(pool, PoolFilter{Roles: []string{"Junior"}, Interests: []string{"consulting"}})
	if len(got) != 0 {
		t.Errorf("combined filter = %v, want empty", got)
	}
}

func TestBeginDecisionClaimsSingleSlot(t *testing.T) {
	pool, _ := newTestPool(t, models.UserTypeApplicant)

	if !pool.BeginDecision() {
		t.Fatal("first BeginDecision returned false")
	}
	if pool.BeginDecision() {
		t.Fatal("second BeginDecision succeeded while one was in flight")
	}
	pool.FinishDecision()
	if !pool.BeginDecision() {
		t.Fatal("BeginDecision failed after FinishDecision")
	}
}
