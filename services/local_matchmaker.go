package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"tindler_server/models"
	"tindler_server/utils"

	"github.com/google/uuid"
)

// DefaultMatchChance mirrors the simulated match rate used in demo builds.
// It is a policy knob, not meaningful production behavior.
const DefaultMatchChance = 0.4

// LocalMatchmaker simulates the upstream for demo/offline sessions: no
// authenticated backend exists, so likes are judged by a coin flip and
// messages are echoed back from an in-memory log. It keeps the engine's
// control flow identical to the remote path.
type LocalMatchmaker struct {
	MatchChance float64

	mu       sync.Mutex
	rng      *rand.Rand
	identity models.Identity
	messages map[string][]models.Message
}

func NewLocalMatchmaker(seed int64) *LocalMatchmaker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LocalMatchmaker{
		MatchChance: DefaultMatchChance,
		rng:         rand.New(rand.NewSource(seed)),
		identity: models.Identity{
			ID:    "demo-user",
			Email: "demo@tindler.app",
			Name:  "Demo User",
		},
		messages: make(map[string][]models.Message),
	}
}

func (lm *LocalMatchmaker) FetchCandidates(_ context.Context, userType string) ([]models.Profile, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if userType == models.UserTypeMember {
		return utils.ShuffleProfiles(lm.rng, demoApplicants()), nil
	}
	return utils.ShuffleProfiles(lm.rng, demoMembers()), nil
}

func (lm *LocalMatchmaker) Swipe(_ context.Context, profileID, direction string) (SwipeResult, error) {
	if direction != models.DirectionLike {
		return SwipeResult{}, nil
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return SwipeResult{Matched: lm.rng.Float64() < lm.MatchChance}, nil
}

func (lm *LocalMatchmaker) FetchMatches(_ context.Context) ([]models.Match, error) {
	// Demo matches live only in session state; there is nothing upstream.
	return nil, nil
}

func (lm *LocalMatchmaker) FetchMessages(_ context.Context, matchID string) ([]models.Message, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	stored := lm.messages[matchID]
	out := make([]models.Message, len(stored))
	copy(out, stored)
	return out, nil
}

func (lm *LocalMatchmaker) SendMessage(_ context.Context, matchID, content string) (models.Message, error) {
	msg := models.Message{
		ID:                uuid.NewString(),
		MatchID:           matchID,
		SenderID:          lm.identity.ID,
		Content:           content,
		CreatedAt:         time.Now(),
		IsFromCurrentUser: true,
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.messages[matchID] = append(lm.messages[matchID], msg)
	return msg, nil
}

func (lm *LocalMatchmaker) MarkMessagesRead(_ context.Context, matchID string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	stored := lm.messages[matchID]
	for i := range stored {
		if !stored[i].IsFromCurrentUser {
			stored[i].IsRead = true
		}
	}
	return nil
}

func (lm *LocalMatchmaker) FetchIdentity(_ context.Context) (models.Identity, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.identity, nil
}

func (lm *LocalMatchmaker) ResetProfile(_ context.Context) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.messages = make(map[string][]models.Message)
	return nil
}

// Minimal canned pools so a demo session has something to swipe on. Real
// candidate data comes from the remote matchmaker.

func demoMembers() []models.Profile {
	return []models.Profile{
		{
			ID: "bcm-1", Name: "Priya Shah", UserType: models.UserTypeMember,
			Role: "Junior", Major: "Business Administration",
			Bio:          "Three semesters in, mostly strategy projects.",
			Availability: "Weekday mornings",
			Expertise:    []string{"Strategy", "Operations"},
		},
		{
			ID: "bcm-2", Name: "Daniel Kim", UserType: models.UserTypeMember,
			Role: "Senior", Major: "EECS",
			Bio:          "Tech consulting projects, happy to talk recruiting.",
			Availability: "Tuesday/Thursday afternoons",
			Expertise:    []string{"Tech", "Product"},
		},
		{
			ID: "bcm-3", Name: "Sofia Martinez", UserType: models.UserTypeMember,
			Role: "Sophomore", Major: "Economics",
			Bio:          "Joined last fall, worked on two nonprofit engagements.",
			Availability: "Weekends",
			Expertise:    []string{"Finance", "Social Impact"},
		},
	}
}

func demoApplicants() []models.Profile {
	return []models.Profile{
		{
			ID: "app-1", Name: "Maya Patel", UserType: models.UserTypeApplicant,
			Role:    "Freshman",
			WhyJoin: "Want to learn structured problem solving early.",
			Experience: "Ran a tutoring program in high school, comfortable " +
				"owning small projects end to end.",
			Interests: []string{"Strategy", "Education"},
		},
		{
			ID: "app-2", Name: "Ethan Zhao", UserType: models.UserTypeApplicant,
			Role:       "Sophomore",
			WhyJoin:    "Looking for client work before recruiting season.",
			Experience: "Product intern, shipped one feature on a small team.",
			Interests:  []string{"Tech", "Product"},
		},
		{
			ID: "app-3", Name: "Grace Obi", UserType: models.UserTypeApplicant,
			Role:       "Junior",
			WhyJoin:    "Transferring in, want a community doing real work.",
			Experience: "Treasurer of two clubs, built their budgeting process.",
			Interests:  []string{"Finance", "Operations"},
		},
	}
}
