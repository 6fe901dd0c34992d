package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tindler_server/models"

	"github.com/golang-jwt/jwt/v5"
)

const defaultRequestTimeout = 5 * time.Second

// RemoteMatchmaker talks to the upstream match API. All judgments (mutual
// likes, match creation, message persistence) live upstream; this client only
// maps wire payloads onto models.
type RemoteMatchmaker struct {
	BaseURL string
	Token   string
	Client  *http.Client

	// CurrentUserID stamps IsFromCurrentUser on fetched messages.
	CurrentUserID string
}

func NewRemoteMatchmaker(baseURL, token string) *RemoteMatchmaker {
	return &RemoteMatchmaker{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

// TokenUsable reports whether the stored token still looks valid. JWT tokens
// are checked for expiry locally (unverified parse, the upstream holds the
// key); opaque tokens are assumed usable until the upstream says otherwise.
func (rm *RemoteMatchmaker) TokenUsable() bool {
	if rm.Token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(rm.Token, claims)
	if err != nil {
		return true // not a JWT, let the upstream judge it
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}

// Wire shapes (upstream uses snake_case).

type wireUser struct {
	ID                json.Number `json:"id"`
	Email             string      `json:"email"`
	Name              string      `json:"name"`
	PhotoURL          string      `json:"photo_url"`
	UserType          string      `json:"user_type"`
	HasCompletedSetup bool        `json:"has_completed_setup"`
}

type wireProfile struct {
	ID                 json.Number `json:"id"`
	User               wireUser    `json:"user"`
	Year               string      `json:"year"`
	Role               string      `json:"role"`
	Major              string      `json:"major"`
	AreasOfExpertise   []string    `json:"areas_of_expertise"`
	Interests          []string    `json:"interests"`
	Availability       string      `json:"availability"`
	Bio                string      `json:"bio"`
	WhyBC              string      `json:"why_bc"`
	RelevantExperience string      `json:"relevant_experience"`
	ProjectExperience  string      `json:"project_experience"`
}

type wireMessage struct {
	ID      json.Number `json:"id"`
	Sender  json.Number `json:"sender"`
	Content string      `json:"content"`
	SentAt  time.Time   `json:"sent_at"`
	IsRead  bool        `json:"is_read"`
}

type wireMatch struct {
	ID        json.Number   `json:"id"`
	Applicant wireProfile   `json:"applicant"`
	BCMember  wireProfile   `json:"bc_member"`
	MatchedAt time.Time     `json:"matched_at"`
	Status    string        `json:"status"`
	Messages  []wireMessage `json:"messages"`
}

func (rm *RemoteMatchmaker) FetchCandidates(ctx context.Context, userType string) ([]models.Profile, error) {
	var payload struct {
		Profiles []wireProfile `json:"profiles"`
	}
	if err := rm.do(ctx, http.MethodGet, "/api/discover/", nil, &payload); err != nil {
		return nil, err
	}
	candidateType := models.UserTypeMember
	if userType == models.UserTypeMember {
		candidateType = models.UserTypeApplicant
	}
	profiles := make([]models.Profile, 0, len(payload.Profiles))
	for _, wp := range payload.Profiles {
		profiles = append(profiles, wp.toProfile(candidateType))
	}
	return profiles, nil
}

func (rm *RemoteMatchmaker) Swipe(ctx context.Context, profileID, direction string) (SwipeResult, error) {
	body := map[string]interface{}{
		"target_id": profileID,
		"direction": direction,
	}
	var payload struct {
		MatchCreated bool       `json:"match_created"`
		Match        *wireMatch `json:"match"`
	}
	if err := rm.do(ctx, http.MethodPost, "/api/swipe/", body, &payload); err != nil {
		return SwipeResult{}, err
	}
	result := SwipeResult{Matched: payload.MatchCreated}
	if payload.MatchCreated && payload.Match != nil {
		m := payload.Match.toMatch(rm.CurrentUserID)
		result.Match = &m
	}
	return result, nil
}

func (rm *RemoteMatchmaker) FetchMatches(ctx context.Context) ([]models.Match, error) {
	var wires []wireMatch
	if err := rm.do(ctx, http.MethodGet, "/api/matches/", nil, &wires); err != nil {
		return nil, err
	}
	matches := make([]models.Match, 0, len(wires))
	for _, wm := range wires {
		matches = append(matches, wm.toMatch(rm.CurrentUserID))
	}
	return matches, nil
}

func (rm *RemoteMatchmaker) FetchMessages(ctx context.Context, matchID string) ([]models.Message, error) {
	var wires []wireMessage
	path := fmt.Sprintf("/api/matches/%s/messages/", matchID)
	if err := rm.do(ctx, http.MethodGet, path, nil, &wires); err != nil {
		return nil, err
	}
	messages := make([]models.Message, 0, len(wires))
	for _, wm := range wires {
		messages = append(messages, wm.toMessage(matchID, rm.CurrentUserID))
	}
	return messages, nil
}

func (rm *RemoteMatchmaker) SendMessage(ctx context.Context, matchID, content string) (models.Message, error) {
	var wm wireMessage
	path := fmt.Sprintf("/api/matches/%s/messages/", matchID)
	if err := rm.do(ctx, http.MethodPost, path, map[string]string{"content": content}, &wm); err != nil {
		return models.Message{}, err
	}
	msg := wm.toMessage(matchID, rm.CurrentUserID)
	msg.IsFromCurrentUser = true
	return msg, nil
}

func (rm *RemoteMatchmaker) MarkMessagesRead(ctx context.Context, matchID string) error {
	path := fmt.Sprintf("/api/matches/%s/messages/mark-read/", matchID)
	return rm.do(ctx, http.MethodPost, path, nil, nil)
}

func (rm *RemoteMatchmaker) FetchIdentity(ctx context.Context) (models.Identity, error) {
	var payload struct {
		wireUser
		Profile *wireProfile `json:"profile"`
	}
	if err := rm.do(ctx, http.MethodGet, "/api/me/", nil, &payload); err != nil {
		return models.Identity{}, err
	}
	identity := models.Identity{
		ID:                payload.ID.String(),
		Email:             payload.Email,
		Name:              payload.Name,
		UserType:          payload.UserType,
		HasCompletedSetup: payload.HasCompletedSetup,
	}
	if payload.Profile != nil {
		p := payload.Profile.toProfile(payload.UserType)
		p.Name = payload.Name
		identity.Profile = &p
	}
	return identity, nil
}

func (rm *RemoteMatchmaker) ResetProfile(ctx context.Context) error {
	return rm.do(ctx, http.MethodPost, "/api/reset-profile/", nil, nil)
}

// do performs one bounded request. Timeouts and 401s are the interesting
// failures: a timeout is treated like any other transport error by callers,
// a 401 becomes ErrUnauthorized so the engine can drop to demo mode.
func (rm *RemoteMatchmaker) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rm.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if rm.Token != "" {
		req.Header.Set("Authorization", "Token "+rm.Token)
	}

	resp, err := rm.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrUnknownMatch
	case resp.StatusCode >= 400:
		return fmt.Errorf("upstream returned %d for %s", resp.StatusCode, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (wp *wireProfile) toProfile(userType string) models.Profile {
	p := models.Profile{
		ID:           wp.User.ID.String(),
		Name:         wp.User.Name,
		PhotoURL:     wp.User.PhotoURL,
		UserType:     userType,
		Major:        wp.Major,
		Bio:          wp.Bio,
		WhyJoin:      wp.WhyBC,
		Availability: wp.Availability,
		Interests:    wp.Interests,
		Expertise:    wp.AreasOfExpertise,
	}
	// Members carry "year", applicants carry "role"; both land in Role.
	if wp.Year != "" {
		p.Role = wp.Year
	} else {
		p.Role = wp.Role
	}
	if wp.ProjectExperience != "" {
		p.Experience = wp.ProjectExperience
	} else {
		p.Experience = wp.RelevantExperience
	}
	return p
}

func (wm *wireMatch) toMatch(currentUserID string) models.Match {
	match := models.Match{
		ID:        wm.ID.String(),
		Applicant: wm.Applicant.toProfile(models.UserTypeApplicant),
		Member:    wm.BCMember.toProfile(models.UserTypeMember),
		MatchedAt: wm.MatchedAt,
		Status:    wm.Status,
		Messages:  make([]models.Message, 0, len(wm.Messages)),
	}
	if match.Status == "" {
		match.Status = models.MatchStatusConfirmed
	}
	for _, msg := range wm.Messages {
		match.Messages = append(match.Messages, msg.toMessage(match.ID, currentUserID))
	}
	return match
}

func (wm *wireMessage) toMessage(matchID, currentUserID string) models.Message {
	senderID := wm.Sender.String()
	return models.Message{
		ID:                wm.ID.String(),
		MatchID:           matchID,
		SenderID:          senderID,
		Content:           wm.Content,
		CreatedAt:         wm.SentAt,
		IsRead:            wm.IsRead,
		IsFromCurrentUser: currentUserID != "" && senderID == currentUserID,
	}
}
