package models

// User types (which side of the coffee chat the session user is on)
const (
	UserTypeApplicant = "applicant"
	UserTypeMember    = "bc_member"
)

// Swipe directions
const (
	DirectionLike = "like"
	DirectionPass = "pass"
)

// Match statuses for the moderated coffee-chat flow. An unmoderated match is
// stored as confirmed.
const (
	MatchStatusPending   = "pending"
	MatchStatusConfirmed = "confirmed"
	MatchStatusRejected  = "rejected"
	MatchStatusCompleted = "completed"
)

// StateStorageKey is the fixed namespace key for persisted session state
const StateStorageKey = "tindler_bc_state"

// SessionSnapshotsTable is the DynamoDB table name for session snapshots
const SessionSnapshotsTable = "SessionSnapshots"
