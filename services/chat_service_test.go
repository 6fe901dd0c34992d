package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tindler_server/models"
)

func newTestChat(t *testing.T, fake *fakeMatchmaker) (*ChatService, *SessionService) {
	t.Helper()
	ctx := context.Background()
	session := NewSessionService(NewMemoryStore(), "test-chat")
	session.Dispatch(ctx, SetUserTypeAction{UserType: models.UserTypeApplicant})
	session.Dispatch(ctx, AddMatchAction{Match: models.Match{
		ID:     "m1",
		Member: models.Profile{ID: "p1", Name: "Member One", Interests: []string{"fintech"}},
		Status: models.MatchStatusConfirmed,
	}})
	return NewChatService(session, fake), session
}

func TestSendMessageResolvesOptimisticCopy(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMatchmaker{messages: map[string][]models.Message{}}
	chat, session := newTestChat(t, fake)

	sent, err := chat.SendMessage(ctx, "m1", "  hello there  ")
	if err != nil {
		t.Fatal(err)
	}
	if sent.ID != "server-msg-1" {
		t.Errorf("sent ID = %s, want the server id", sent.ID)
	}
	if sent.Content != "hello there" {
		t.Errorf("content = %q, want it trimmed", sent.Content)
	}
	if !sent.IsFromCurrentUser {
		t.Error("sent message not attributed to current user")
	}

	messages := session.Snapshot().ApplicantMatch.Messages
	if len(messages) != 1 {
		t.Fatalf("messages = %v, want the optimistic copy replaced", messages)
	}
	if strings.HasPrefix(messages[0].ID, "temp-") {
		t.Error("optimistic id survived a successful send")
	}
}

func TestSendMessageKeepsOptimisticCopyOnFailure(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMatchmaker{
		messages: map[string][]models.Message{},
		sendErr:  errors.New("upstream down"),
	}
	chat, session := newTestChat(t, fake)

	sent, err := chat.SendMessage(ctx, "m1", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sent.ID, "temp-") {
		t.Errorf("sent ID = %s, want a temp id on failure", sent.ID)
	}

	messages := session.Snapshot().ApplicantMatch.Messages
	if len(messages) != 1 || messages[0].Content != "hello" {
		t.Fatalf("messages = %v, optimistic copy lost", messages)
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	ctx := context.Background()
	chat, session := newTestChat(t, &fakeMatchmaker{messages: map[string][]models.Message{}})

	if _, err := chat.SendMessage(ctx, "m1", "   "); err == nil {
		t.Fatal("whitespace-only message accepted")
	}
	if messages := session.Snapshot().ApplicantMatch.Messages; len(messages) != 0 {
		t.Errorf("messages = %v, want none", messages)
	}
}

func TestSendMessageUnknownMatch(t *testing.T) {
	ctx := context.Background()
	chat, _ := newTestChat(t, &fakeMatchmaker{messages: map[string][]models.Message{}})

	if _, err := chat.SendMessage(ctx, "ghost", "hello"); !errors.Is(err, ErrUnknownMatch) {
		t.Errorf("err = %v, want ErrUnknownMatch", err)
	}
}

func TestSendMessageBlockedByMatchStatus(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMatchmaker{messages: map[string][]models.Message{}}
	session := NewSessionService(NewMemoryStore(), "test-chat-pending")
	session.Dispatch(ctx, SetUserTypeAction{UserType: models.UserTypeApplicant})
	session.Dispatch(ctx, AddMatchAction{Match: models.Match{ID: "m1", Status: models.MatchStatusPending}})
	chat := NewChatService(session, fake)

	if _, err := chat.SendMessage(ctx, "m1", "hello"); err == nil {
		t.Fatal("message accepted on a pending match")
	}
}

func TestLoadMessagesMergesWithLocalState(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeMatchmaker{messages: map[string][]models.Message{
		"m1": {
			{ID: "s1", MatchID: "m1", CreatedAt: base},
			{ID: "s2", MatchID: "m1", CreatedAt: base.Add(time.Minute)},
		},
	}}
	chat, session := newTestChat(t, fake)

	// An unacknowledged optimistic send is already in local state
	session.Dispatch(ctx, AppendMessageAction{MatchID: "m1", Message: models.Message{
		ID: "temp-x", MatchID: "m1", Content: "pending", CreatedAt: base.Add(30 * time.Second),
	}})

	if err := chat.LoadMessages(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	messages := session.Snapshot().ApplicantMatch.Messages
	if len(messages) != 3 {
		t.Fatalf("messages = %v, want fetched pair plus optimistic", messages)
	}
	ids := []string{messages[0].ID, messages[1].ID, messages[2].ID}
	if ids[0] != "s1" || ids[1] != "temp-x" || ids[2] != "s2" {
		t.Errorf("merged order = %v", ids)
	}
}

func TestAppendMessageUnknownMatchIsSilent(t *testing.T) {
	ctx := context.Background()
	chat, session := newTestChat(t, &fakeMatchmaker{messages: map[string][]models.Message{}})

	chat.AppendMessage(ctx, "ghost", models.Message{ID: "msg1"})
	if state := session.Snapshot(); len(state.ApplicantMatch.Messages) != 0 {
		t.Errorf("push for unknown match mutated state: %+v", state.ApplicantMatch)
	}
}

func TestStartersUseTheOtherProfile(t *testing.T) {
	chat, _ := newTestChat(t, &fakeMatchmaker{messages: map[string][]models.Message{}})

	starters, err := chat.Starters("m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(starters) == 0 {
		t.Fatal("no starters generated")
	}
	for _, s := range starters {
		if s == "" {
			t.Error("empty starter generated")
		}
	}

	if _, err := chat.Starters("ghost"); !errors.Is(err, ErrUnknownMatch) {
		t.Errorf("err = %v, want ErrUnknownMatch", err)
	}
}

func TestStopPollingIsIdempotent(t *testing.T) {
	chat, _ := newTestChat(t, &fakeMatchmaker{messages: map[string][]models.Message{}})

	chat.StartPolling("m1")
	chat.StopPolling("m1")
	chat.StopPolling("m1")
	chat.StartPolling("m1")
	chat.StopAll()
}
