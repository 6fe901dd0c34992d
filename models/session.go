package models

// SessionState aggregates everything a client session owns: the current
// identity and profile, the swipe pool, decision history, matches with their
// messages, and transient UI pointers. All mutation goes through the session
// service dispatch; nothing else writes these fields.
type SessionState struct {
	UserType          string   `json:"userType,omitempty"`
	HasCompletedSetup bool     `json:"hasCompletedSetup"`
	CurrentProfile    *Profile `json:"currentProfile,omitempty"`

	// Candidate pool, in display order. Not persisted; refetched on load.
	Profiles []Profile `json:"profiles,omitempty"`

	// Applicants hold at most one match; members hold a set, newest first.
	ApplicantMatch *Match  `json:"applicantMatch,omitempty"`
	MemberMatches  []Match `json:"memberMatches,omitempty"`

	// Decision history. A profile id lives in at most one of liked/passed.
	LikedIDs  []string `json:"likedIds"`
	PassedIDs []string `json:"passedIds"`

	// Applicant ids already matched, excluded from the member's pool.
	MatchedIDs []string `json:"matchedIds"`

	LikesCount int `json:"likesCount"`

	// UI-transient, never persisted.
	ShowMatchPopup bool   `json:"showMatchPopup,omitempty"`
	LatestMatchID  string `json:"latestMatchId,omitempty"`
}

// HasDecided reports whether a profile id already carries a like or pass.
func (s *SessionState) HasDecided(profileID string) bool {
	return containsID(s.LikedIDs, profileID) || containsID(s.PassedIDs, profileID)
}

// FindMatch resolves a match id against the applicant slot and the member set.
func (s *SessionState) FindMatch(matchID string) *Match {
	if s.ApplicantMatch != nil && s.ApplicantMatch.ID == matchID {
		return s.ApplicantMatch
	}
	for i := range s.MemberMatches {
		if s.MemberMatches[i].ID == matchID {
			return &s.MemberMatches[i]
		}
	}
	return nil
}

// Matches returns every match in display order (applicant slot first).
func (s *SessionState) Matches() []Match {
	if s.ApplicantMatch != nil {
		return append([]Match{*s.ApplicantMatch}, s.MemberMatches...)
	}
	return s.MemberMatches
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
