package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tindler_server/models"
)

func TestRemoteSwipeDecodesMatchPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/swipe/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprint(w, `{
			"match_created": true,
			"match": {
				"id": 7,
				"applicant": {"id": 3, "user": {"id": 3, "name": "Alex"}, "year": "Junior", "interests": ["fintech"]},
				"bc_member": {"id": 9, "user": {"id": 9, "name": "Sam"}, "role": "Senior Advisor"},
				"matched_at": "2026-03-14T15:09:26Z",
				"status": "",
				"messages": []
			}
		}`)
	}))
	defer server.Close()

	rm := NewRemoteMatchmaker(server.URL, "tok-1")
	result, err := rm.Swipe(context.Background(), "9", models.DirectionLike)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Matched || result.Match == nil {
		t.Fatalf("result = %+v, want a match", result)
	}
	match := result.Match
	if match.ID != "7" {
		t.Errorf("match ID = %s, want 7", match.ID)
	}
	if match.Status != models.MatchStatusConfirmed {
		t.Errorf("empty status mapped to %q, want confirmed", match.Status)
	}
	if match.Applicant.Name != "Alex" || match.Applicant.Role != "Junior" {
		t.Errorf("applicant = %+v", match.Applicant)
	}
	if match.Member.Role != "Senior Advisor" {
		t.Errorf("member = %+v", match.Member)
	}
	want := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	if !match.MatchedAt.Equal(want) {
		t.Errorf("MatchedAt = %v, want %v", match.MatchedAt, want)
	}
}

func TestRemoteFetchMessagesStampsSender(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 1, "sender": 3, "content": "hi", "sent_at": "2026-05-01T12:00:00Z", "is_read": true},
			{"id": 2, "sender": 9, "content": "hello", "sent_at": "2026-05-01T12:01:00Z", "is_read": false}
		]`)
	}))
	defer server.Close()

	rm := NewRemoteMatchmaker(server.URL, "tok-1")
	rm.CurrentUserID = "3"
	messages, err := rm.FetchMessages(context.Background(), "7")
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("messages = %v", messages)
	}
	if !messages[0].IsFromCurrentUser || messages[1].IsFromCurrentUser {
		t.Errorf("sender attribution wrong: %+v", messages)
	}
	if messages[0].MatchID != "7" {
		t.Errorf("MatchID = %s, want 7", messages[0].MatchID)
	}
}

func TestRemoteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"not found", http.StatusNotFound, ErrUnknownMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			rm := NewRemoteMatchmaker(server.URL, "tok-1")
			if _, err := rm.FetchMatches(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTokenUsable(t *testing.T) {
	// HS256 token with exp in the past
	expired := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJleHAiOjE2MDk0NTkyMDB9." +
		"3Vw5U1Zj0pQ2nq0TzK7WlYentN5F3Zg7u9yX4m8bQxo"

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty token", "", false},
		{"expired jwt", expired, false},
		{"opaque token", "9f86d081884c7d659a2feaa0c55ad015", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := NewRemoteMatchmaker("http://localhost", tt.token)
			if got := rm.TokenUsable(); got != tt.want {
				t.Errorf("TokenUsable() = %v, want %v", got, tt.want)
			}
		})
	}
}
