package models

import "time"

// Match pairs an applicant with a member. The applicant slot is always the
// applicant-side profile regardless of who swiped.
type Match struct {
	ID        string    `json:"id"`
	Applicant Profile   `json:"applicant"`
	Member    Profile   `json:"member"`
	MatchedAt time.Time `json:"matchedAt"`
	Status    string    `json:"status"`
	Messages  []Message `json:"messages"`
}

// CanMessage reports whether chat is open for a match status. Pending and
// rejected matches block message submission.
func CanMessage(status string) bool {
	return status == MatchStatusConfirmed || status == MatchStatusCompleted
}

// OtherProfile returns the profile on the opposite side from userType.
func (m *Match) OtherProfile(userType string) Profile {
	if userType == UserTypeApplicant {
		return m.Member
	}
	return m.Applicant
}

// LastMessage returns the newest message, or nil for a fresh match.
func (m *Match) LastMessage() *Message {
	if len(m.Messages) == 0 {
		return nil
	}
	return &m.Messages[len(m.Messages)-1]
}
