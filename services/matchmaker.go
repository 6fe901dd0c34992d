package services

import (
	"context"
	"errors"

	"tindler_server/models"
)

var (
	// ErrUnauthorized means the upstream rejected or expired our session token.
	ErrUnauthorized = errors.New("session token rejected by upstream")
	// ErrUnknownMatch is returned for operations against a match id the
	// upstream does not know.
	ErrUnknownMatch = errors.New("match not found")
)

// SwipeResult is the upstream's judgment on a like. Match is nil unless
// Matched is true; Status may be empty, in which case the match is treated as
// confirmed.
type SwipeResult struct {
	Matched bool
	Match   *models.Match
}

// Matchmaker is the single service boundary to the match backend. The engine
// selects one implementation at session start (remote when an authenticated
// upstream is reachable, local simulation otherwise) instead of re-checking
// authentication at every call site.
type Matchmaker interface {
	FetchCandidates(ctx context.Context, userType string) ([]models.Profile, error)
	Swipe(ctx context.Context, profileID, direction string) (SwipeResult, error)
	FetchMatches(ctx context.Context) ([]models.Match, error)
	FetchMessages(ctx context.Context, matchID string) ([]models.Message, error)
	SendMessage(ctx context.Context, matchID, content string) (models.Message, error)
	MarkMessagesRead(ctx context.Context, matchID string) error
	FetchIdentity(ctx context.Context) (models.Identity, error)
	ResetProfile(ctx context.Context) error
}

// Notifier pushes engine events to connected clients. Implemented by the
// socket layer; services treat it as optional.
type Notifier interface {
	NotifyNewMatch(match models.Match)
	NotifyNewMessage(matchID string, message models.Message)
}
