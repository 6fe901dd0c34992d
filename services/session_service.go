package services

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"sync"

	"tindler_server/models"
)

// Action is the closed set of session state transitions. Every mutation of
// SessionState flows through Dispatch as one of these; the reducer's type
// switch is the single place transitions are defined.
type Action interface {
	isAction()
}

type SetUserTypeAction struct{ UserType string }
type SetCompletedSetupAction struct{ Completed bool }
type SetCurrentProfileAction struct{ Profile models.Profile }
type SetIdentityAction struct{ Identity models.Identity }
type LoadPoolAction struct{ Profiles []models.Profile }
type RemoveProfileAction struct{ ProfileID string }
type RecordDecisionAction struct{ ProfileID, Direction string }
type SetMatchesAction struct{ Matches []models.Match }
type AddMatchAction struct{ Match models.Match }
type AppendMessageAction struct {
	MatchID string
	Message models.Message
}
type ResolveMessageAction struct {
	MatchID string
	TempID  string
	Message models.Message
}
type MergeMessagesAction struct {
	MatchID  string
	Messages []models.Message
}
type MarkMessagesReadAction struct{ MatchID string }
type ShowMatchPopupAction struct{ MatchID string }
type HideMatchPopupAction struct{}
type ResetAction struct{}

func (SetUserTypeAction) isAction()       {}
func (SetCompletedSetupAction) isAction() {}
func (SetCurrentProfileAction) isAction() {}
func (SetIdentityAction) isAction()       {}
func (LoadPoolAction) isAction()          {}
func (RemoveProfileAction) isAction()     {}
func (RecordDecisionAction) isAction()    {}
func (SetMatchesAction) isAction()        {}
func (AddMatchAction) isAction()          {}
func (AppendMessageAction) isAction()     {}
func (ResolveMessageAction) isAction()    {}
func (MergeMessagesAction) isAction()     {}
func (MarkMessagesReadAction) isAction()  {}
func (ShowMatchPopupAction) isAction()    {}
func (HideMatchPopupAction) isAction()    {}
func (ResetAction) isAction()             {}

// SessionService owns a session's state and its persisted snapshot. Dispatch
// serializes every mutation through one mutex and writes the durable subset
// to the store after each durable transition; this lock is the only
// serialization discipline the engine relies on.
type SessionService struct {
	Store KVStore
	Key   string

	mu    sync.Mutex
	state models.SessionState
}

func NewSessionService(store KVStore, key string) *SessionService {
	if key == "" {
		key = models.StateStorageKey
	}
	return &SessionService{
		Store: store,
		Key:   key,
		state: defaultState(),
	}
}

func defaultState() models.SessionState {
	return models.SessionState{
		LikedIDs:   []string{},
		PassedIDs:  []string{},
		MatchedIDs: []string{},
	}
}

// persistedState is the durable subset of SessionState. The pool and popup
// fields are deliberately absent: profiles are refetched on load and UI
// pointers do not survive it.
type persistedState struct {
	UserType          string          `json:"userType,omitempty"`
	HasCompletedSetup bool            `json:"hasCompletedSetup"`
	CurrentProfile    *models.Profile `json:"currentProfile,omitempty"`
	ApplicantMatch    *models.Match   `json:"applicantMatch,omitempty"`
	MemberMatches     []models.Match  `json:"memberMatches"`
	LikedIDs          []string        `json:"likedIds"`
	PassedIDs         []string        `json:"passedIds"`
	MatchedIDs        []string        `json:"matchedIds"`
	LikesCount        int             `json:"likesCount"`
}

// Dispatch applies an action and persists the durable subset. Persistence
// failures are logged, never surfaced: losing a snapshot write must not break
// a live session.
func (s *SessionService) Dispatch(ctx context.Context, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reduce(&s.state, action)

	switch action.(type) {
	case LoadPoolAction, RemoveProfileAction, ShowMatchPopupAction, HideMatchPopupAction:
		// transient-only transitions, nothing to persist
	case ResetAction:
		if err := s.Store.Remove(ctx, s.Key); err != nil {
			log.Printf("Failed to clear persisted session state: %v", err)
		}
	default:
		s.persistLocked(ctx)
	}
}

// reduce is the pure transition function: given the current state and an
// action it produces the next state, with no I/O. Invariant violations
// (double decisions, unknown matches, second applicant match) degrade to
// logged no-ops.
func reduce(state *models.SessionState, action Action) {
	switch a := action.(type) {
	case SetUserTypeAction:
		state.UserType = a.UserType

	case SetCompletedSetupAction:
		state.HasCompletedSetup = a.Completed

	case SetCurrentProfileAction:
		profile := a.Profile
		state.CurrentProfile = &profile

	case SetIdentityAction:
		// Server identity wins over whatever the snapshot restored.
		if a.Identity.UserType != "" {
			state.UserType = a.Identity.UserType
		}
		state.HasCompletedSetup = a.Identity.HasCompletedSetup
		if a.Identity.Profile != nil {
			profile := *a.Identity.Profile
			state.CurrentProfile = &profile
		}

	case LoadPoolAction:
		state.Profiles = a.Profiles

	case RemoveProfileAction:
		kept := state.Profiles[:0]
		for _, p := range state.Profiles {
			if p.ID != a.ProfileID {
				kept = append(kept, p)
			}
		}
		state.Profiles = kept

	case RecordDecisionAction:
		if state.HasDecided(a.ProfileID) {
			log.Printf("Ignoring repeat decision for profile %s", a.ProfileID)
			return
		}
		switch a.Direction {
		case models.DirectionLike:
			state.LikedIDs = append(state.LikedIDs, a.ProfileID)
			state.LikesCount++
		case models.DirectionPass:
			state.PassedIDs = append(state.PassedIDs, a.ProfileID)
		default:
			log.Printf("Ignoring decision with unknown direction %q", a.Direction)
		}

	case SetMatchesAction:
		applyMatches(state, a.Matches)

	case AddMatchAction:
		addMatch(state, a.Match)

	case AppendMessageAction:
		match := state.FindMatch(a.MatchID)
		if match == nil {
			log.Printf("Dropping message for unknown match %s", a.MatchID)
			return
		}
		match.Messages = insertMessageSorted(match.Messages, a.Message)

	case ResolveMessageAction:
		match := state.FindMatch(a.MatchID)
		if match == nil {
			log.Printf("Cannot resolve message on unknown match %s", a.MatchID)
			return
		}
		// A poll merge may already have delivered the server copy; dropping
		// the temp id and inserting (id-deduped) leaves exactly one copy.
		match.Messages = removeMessageByID(match.Messages, a.TempID)
		match.Messages = insertMessageSorted(match.Messages, a.Message)

	case MergeMessagesAction:
		match := state.FindMatch(a.MatchID)
		if match == nil {
			log.Printf("Cannot load messages for unknown match %s", a.MatchID)
			return
		}
		match.Messages = mergeMessages(match.Messages, a.Messages)

	case MarkMessagesReadAction:
		match := state.FindMatch(a.MatchID)
		if match == nil {
			log.Printf("Cannot mark messages read on unknown match %s", a.MatchID)
			return
		}
		for i := range match.Messages {
			if !match.Messages[i].IsFromCurrentUser {
				match.Messages[i].IsRead = true
			}
		}

	case ShowMatchPopupAction:
		state.ShowMatchPopup = true
		state.LatestMatchID = a.MatchID

	case HideMatchPopupAction:
		state.ShowMatchPopup = false
		state.LatestMatchID = ""

	case ResetAction:
		*state = defaultState()

	default:
		log.Printf("Ignoring unknown action %T", action)
	}
}

// applyMatches replaces the match collection from an authoritative fetch,
// routing each match to the slot its role dictates.
func applyMatches(state *models.SessionState, matches []models.Match) {
	state.ApplicantMatch = nil
	state.MemberMatches = nil
	for _, m := range matches {
		addMatch(state, m)
	}
}

func addMatch(state *models.SessionState, match models.Match) {
	sortMessages(match.Messages)

	if state.UserType == models.UserTypeApplicant {
		// One match per applicant. A second one is refused even if the
		// upstream mistakenly reports it.
		if state.ApplicantMatch != nil && state.ApplicantMatch.ID != match.ID {
			log.Printf("Refusing second applicant match %s (already hold %s)", match.ID, state.ApplicantMatch.ID)
			return
		}
		state.ApplicantMatch = &match
		return
	}

	for _, existing := range state.MemberMatches {
		if existing.ID == match.ID {
			return // duplicate-match suppression
		}
	}
	// Newest first for display.
	state.MemberMatches = append([]models.Match{match}, state.MemberMatches...)
	applicantID := match.Applicant.ID
	if applicantID != "" && !containsStr(state.MatchedIDs, applicantID) {
		state.MatchedIDs = append(state.MatchedIDs, applicantID)
	}
}

// insertMessageSorted keeps the list ascending by CreatedAt; equal timestamps
// keep arrival order. Inserting an id that is already present is a no-op, so
// a repeated socket push cannot duplicate a message.
func insertMessageSorted(messages []models.Message, msg models.Message) []models.Message {
	for i := range messages {
		if messages[i].ID == msg.ID {
			return messages
		}
	}
	i := sort.Search(len(messages), func(i int) bool {
		return messages[i].CreatedAt.After(msg.CreatedAt)
	})
	messages = append(messages, models.Message{})
	copy(messages[i+1:], messages[i:])
	messages[i] = msg
	return messages
}

func removeMessageByID(messages []models.Message, id string) []models.Message {
	kept := messages[:0]
	for _, m := range messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	return kept
}

func sortMessages(messages []models.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
}

// mergeMessages reconciles a server fetch with the local list. The fetch is
// authoritative for everything it contains; local-only messages survive when
// they are optimistic (temp id) or newer than the fetch's latest entry, so a
// send racing the fetch is never dropped.
func mergeMessages(local, fetched []models.Message) []models.Message {
	merged := make([]models.Message, len(fetched))
	copy(merged, fetched)

	fetchedIDs := make(map[string]struct{}, len(fetched))
	var latest int = -1
	for i, m := range fetched {
		fetchedIDs[m.ID] = struct{}{}
		if latest < 0 || m.CreatedAt.After(fetched[latest].CreatedAt) {
			latest = i
		}
	}

	for _, m := range local {
		if _, ok := fetchedIDs[m.ID]; ok {
			continue
		}
		if strings.HasPrefix(m.ID, "temp-") || latest < 0 || m.CreatedAt.After(fetched[latest].CreatedAt) {
			merged = append(merged, m)
		}
	}

	sortMessages(merged)
	return merged
}

func (s *SessionService) persistLocked(ctx context.Context) {
	snapshot := persistedState{
		UserType:          s.state.UserType,
		HasCompletedSetup: s.state.HasCompletedSetup,
		CurrentProfile:    s.state.CurrentProfile,
		ApplicantMatch:    s.state.ApplicantMatch,
		MemberMatches:     s.state.MemberMatches,
		LikedIDs:          s.state.LikedIDs,
		PassedIDs:         s.state.PassedIDs,
		MatchedIDs:        s.state.MatchedIDs,
		LikesCount:        s.state.LikesCount,
	}
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("Failed to encode session state: %v", err)
		return
	}
	if err := s.Store.Set(ctx, s.Key, string(encoded)); err != nil {
		log.Printf("Failed to persist session state: %v", err)
	}
}

// Load rehydrates state from the persisted snapshot. Missing or malformed
// data yields the empty default state; time fields come back as real times
// because the snapshot round-trips through RFC 3339 JSON.
func (s *SessionService) Load(ctx context.Context) {
	raw, ok, err := s.Store.Get(ctx, s.Key)
	if err != nil {
		log.Printf("Failed to read persisted session state: %v", err)
		return
	}
	if !ok {
		return
	}

	var snapshot persistedState
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		log.Printf("Persisted session state is malformed, starting fresh: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UserType = snapshot.UserType
	s.state.HasCompletedSetup = snapshot.HasCompletedSetup
	s.state.CurrentProfile = snapshot.CurrentProfile
	s.state.ApplicantMatch = snapshot.ApplicantMatch
	s.state.MemberMatches = snapshot.MemberMatches
	if snapshot.LikedIDs != nil {
		s.state.LikedIDs = snapshot.LikedIDs
	}
	if snapshot.PassedIDs != nil {
		s.state.PassedIDs = snapshot.PassedIDs
	}
	if snapshot.MatchedIDs != nil {
		s.state.MatchedIDs = snapshot.MatchedIDs
	}
	s.state.LikesCount = snapshot.LikesCount
}

// Reset clears the in-memory state and the persisted copy under one lock, so
// there is no window where one is cleared and the other stale.
func (s *SessionService) Reset(ctx context.Context) {
	s.Dispatch(ctx, ResetAction{})
}

// Snapshot returns a deep copy of the current state for read-only consumers.
func (s *SessionService) Snapshot() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

func cloneState(state models.SessionState) models.SessionState {
	out := state
	out.Profiles = append([]models.Profile(nil), state.Profiles...)
	out.LikedIDs = append([]string(nil), state.LikedIDs...)
	out.PassedIDs = append([]string(nil), state.PassedIDs...)
	out.MatchedIDs = append([]string(nil), state.MatchedIDs...)
	if state.CurrentProfile != nil {
		profile := *state.CurrentProfile
		out.CurrentProfile = &profile
	}
	if state.ApplicantMatch != nil {
		match := cloneMatch(*state.ApplicantMatch)
		out.ApplicantMatch = &match
	}
	out.MemberMatches = make([]models.Match, len(state.MemberMatches))
	for i, m := range state.MemberMatches {
		out.MemberMatches[i] = cloneMatch(m)
	}
	return out
}

func cloneMatch(match models.Match) models.Match {
	out := match
	out.Messages = append([]models.Message(nil), match.Messages...)
	return out
}

func containsStr(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
