package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"tindler_server/models"
)

// MatchService turns like decisions into matches. It owns the reconciliation
// policy: record the decision first so a user-initiated like is never lost,
// then ask the matchmaker, and only then construct the canonical Match, with
// the single-match guard applied at construction time.
type MatchService struct {
	Session    *SessionService
	Pool       *PoolService
	Matchmaker Matchmaker
	Notifier   Notifier
}

func NewMatchService(session *SessionService, pool *PoolService, matchmaker Matchmaker) *MatchService {
	return &MatchService{Session: session, Pool: pool, Matchmaker: matchmaker}
}

// Like processes a like on a profile. The profile is captured by value before
// anything asynchronous happens, so a rapid second gesture mutating the pool
// cannot change which profile this decision is about. Returns the created
// match, or nil when the like stands without one.
func (ms *MatchService) Like(ctx context.Context, profile models.Profile) *models.Match {
	if !ms.Pool.BeginDecision() {
		return nil
	}
	defer ms.Pool.FinishDecision()

	state := ms.Session.Snapshot()
	if state.HasDecided(profile.ID) {
		log.Printf("Profile %s already decided, ignoring like", profile.ID)
		return nil
	}

	// Commit locally before the remote call: the UI must stay live even if
	// the upstream is down, at the cost of perfect consistency.
	ms.Pool.RecordDecision(ctx, profile.ID, models.DirectionLike)
	ms.Pool.RemoveFromPool(ctx, profile.ID)

	result, err := ms.Matchmaker.Swipe(ctx, profile.ID, models.DirectionLike)
	if err != nil {
		log.Printf("Swipe call failed for profile %s, decision recorded locally: %v", profile.ID, err)
		return nil
	}
	if !result.Matched {
		return nil
	}

	// One match per applicant, enforced here rather than only in the pool
	// filter: the filter lags a batch behind, and the upstream has been seen
	// to double-report.
	if state.UserType == models.UserTypeApplicant && state.ApplicantMatch != nil {
		log.Printf("Applicant already matched (%s), refusing match with %s", state.ApplicantMatch.ID, profile.ID)
		return nil
	}

	match := ms.buildMatch(state, profile, result.Match)
	ms.Session.Dispatch(ctx, AddMatchAction{Match: match})
	ms.Session.Dispatch(ctx, ShowMatchPopupAction{MatchID: match.ID})
	if ms.Notifier != nil {
		ms.Notifier.NotifyNewMatch(match)
	}
	return &match
}

// Pass records a pass. Passes never touch reconciliation; the upstream is
// told fire-and-forget so navigation cannot abort the notification.
func (ms *MatchService) Pass(ctx context.Context, profile models.Profile) {
	if !ms.Pool.BeginDecision() {
		return
	}
	defer ms.Pool.FinishDecision()

	state := ms.Session.Snapshot()
	if state.HasDecided(profile.ID) {
		log.Printf("Profile %s already decided, ignoring pass", profile.ID)
		return
	}

	ms.Pool.RecordDecision(ctx, profile.ID, models.DirectionPass)
	ms.Pool.RemoveFromPool(ctx, profile.ID)

	go func(profileID string) {
		if _, err := ms.Matchmaker.Swipe(context.Background(), profileID, models.DirectionPass); err != nil {
			log.Printf("Pass notification failed for profile %s: %v", profileID, err)
		}
	}(profile.ID)
}

// buildMatch produces the canonical Match: server payload when present,
// otherwise assembled from the two profiles with a deterministic local id.
func (ms *MatchService) buildMatch(state models.SessionState, candidate models.Profile, remote *models.Match) models.Match {
	if remote != nil {
		match := *remote
		if match.Status == "" {
			match.Status = models.MatchStatusConfirmed
		}
		sortMessages(match.Messages)
		return match
	}

	var current models.Profile
	if state.CurrentProfile != nil {
		current = *state.CurrentProfile
	}

	match := models.Match{
		MatchedAt: time.Now(),
		Status:    models.MatchStatusConfirmed,
		Messages:  []models.Message{},
	}
	if state.UserType == models.UserTypeApplicant {
		match.Applicant = current
		match.Member = candidate
	} else {
		match.Applicant = candidate
		match.Member = current
	}
	match.ID = fmt.Sprintf("local-%s-%s", match.Applicant.ID, match.Member.ID)
	return match
}

// LoadCandidates refreshes the pool from the matchmaker.
func (ms *MatchService) LoadCandidates(ctx context.Context) error {
	state := ms.Session.Snapshot()
	profiles, err := ms.Matchmaker.FetchCandidates(ctx, state.UserType)
	if err != nil {
		return fmt.Errorf("failed to fetch candidate pool: %w", err)
	}
	ms.Pool.LoadPool(ctx, profiles)
	return nil
}

// LoadMatches replaces the match collection from an authoritative fetch.
// A fetch error leaves locally held matches untouched.
func (ms *MatchService) LoadMatches(ctx context.Context) error {
	matches, err := ms.Matchmaker.FetchMatches(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch matches: %w", err)
	}
	if matches == nil {
		return nil // demo mode: session state is the only source of truth
	}
	ms.Session.Dispatch(ctx, SetMatchesAction{Matches: matches})
	return nil
}
