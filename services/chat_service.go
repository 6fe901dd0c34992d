package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tindler_server/models"
	"tindler_server/utils"
)

const messagePollInterval = 5 * time.Second

// ChatService manages per-match conversations: optimistic sends, merges
// against server fetches, read receipts, and background polling while a
// conversation is open.
type ChatService struct {
	Session    *SessionService
	Matchmaker Matchmaker
	Notifier   Notifier

	mu      sync.Mutex
	pollers map[string]context.CancelFunc
	rng     *rand.Rand
}

func NewChatService(session *SessionService, matchmaker Matchmaker) *ChatService {
	return &ChatService{
		Session:    session,
		Matchmaker: matchmaker,
		pollers:    make(map[string]context.CancelFunc),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SendMessage appends the message optimistically and then confirms it with
// the matchmaker. The optimistic copy is replaced in place on success and
// kept on failure, so the conversation never loses what the user typed.
func (cs *ChatService) SendMessage(ctx context.Context, matchID, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, fmt.Errorf("message content is empty")
	}

	state := cs.Session.Snapshot()
	match := state.FindMatch(matchID)
	if match == nil {
		return models.Message{}, ErrUnknownMatch
	}
	if !models.CanMessage(match.Status) {
		return models.Message{}, fmt.Errorf("match %s is %s, messaging not allowed", matchID, match.Status)
	}

	optimistic := models.Message{
		ID:                "temp-" + uuid.NewString(),
		MatchID:           matchID,
		Content:           content,
		CreatedAt:         time.Now(),
		IsRead:            true,
		IsFromCurrentUser: true,
	}
	cs.Session.Dispatch(ctx, AppendMessageAction{MatchID: matchID, Message: optimistic})

	sent, err := cs.Matchmaker.SendMessage(ctx, matchID, content)
	if err != nil {
		log.Printf("Message send failed for match %s, keeping optimistic copy: %v", matchID, err)
		return optimistic, nil
	}
	sent.IsFromCurrentUser = true
	cs.Session.Dispatch(ctx, ResolveMessageAction{MatchID: matchID, TempID: optimistic.ID, Message: sent})
	if cs.Notifier != nil {
		cs.Notifier.NotifyNewMessage(matchID, sent)
	}
	return sent, nil
}

// AppendMessage records an externally delivered message. Unknown match ids
// are dropped silently; a push for a match this session never saw is noise,
// not an error.
func (cs *ChatService) AppendMessage(ctx context.Context, matchID string, message models.Message) {
	cs.Session.Dispatch(ctx, AppendMessageAction{MatchID: matchID, Message: message})
}

// LoadMessages fetches the conversation from the matchmaker and merges it
// with local state, preserving optimistic messages the server has not
// acknowledged yet.
func (cs *ChatService) LoadMessages(ctx context.Context, matchID string) error {
	fetched, err := cs.Matchmaker.FetchMessages(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to fetch messages for match %s: %w", matchID, err)
	}
	cs.Session.Dispatch(ctx, MergeMessagesAction{MatchID: matchID, Messages: fetched})
	return nil
}

// MarkRead flags the other side's messages as read, locally and upstream.
func (cs *ChatService) MarkRead(ctx context.Context, matchID string) error {
	cs.Session.Dispatch(ctx, MarkMessagesReadAction{MatchID: matchID})
	if err := cs.Matchmaker.MarkMessagesRead(ctx, matchID); err != nil {
		return fmt.Errorf("failed to mark messages read for match %s: %w", matchID, err)
	}
	return nil
}

// StartPolling begins refreshing the conversation every few seconds. Calling
// it again for the same match restarts the poller.
func (cs *ChatService) StartPolling(matchID string) {
	cs.mu.Lock()
	if cancel, ok := cs.pollers[matchID]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cs.pollers[matchID] = cancel
	cs.mu.Unlock()

	go func() {
		ticker := time.NewTicker(messagePollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := cs.LoadMessages(ctx, matchID); err != nil {
					log.Printf("Message poll failed for match %s: %v", matchID, err)
				}
			}
		}
	}()
}

// StopPolling cancels the poller for a match, if one is running.
func (cs *ChatService) StopPolling(matchID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cancel, ok := cs.pollers[matchID]; ok {
		cancel()
		delete(cs.pollers, matchID)
	}
}

// Starters suggests icebreakers for the other side of a match.
func (cs *ChatService) Starters(matchID string) ([]string, error) {
	state := cs.Session.Snapshot()
	match := state.FindMatch(matchID)
	if match == nil {
		return nil, ErrUnknownMatch
	}
	other := match.OtherProfile(state.UserType)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	return utils.GenerateConversationStarters(cs.rng, other), nil
}

// StopAll cancels every running poller. Used on shutdown and reset.
func (cs *ChatService) StopAll() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for matchID, cancel := range cs.pollers {
		cancel()
		delete(cs.pollers, matchID)
	}
}
