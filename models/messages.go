package models

import "time"

// Message is a single chat message inside a match. Messages are append-only;
// the engine never edits or deletes them.
type Message struct {
	ID                string    `json:"id"`
	MatchID           string    `json:"matchId"`
	SenderID          string    `json:"senderId"`
	Content           string    `json:"content"`
	CreatedAt         time.Time `json:"createdAt"`
	IsRead            bool      `json:"isRead"`
	IsFromCurrentUser bool      `json:"isFromCurrentUser"`
}
