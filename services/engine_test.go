package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tindler_server/models"
)

// stallingMatchmaker blocks FetchIdentity until released, to exercise a slow
// bootstrap.
type stallingMatchmaker struct {
	fakeMatchmaker
	started chan struct{}
	release chan struct{}
}

func (s *stallingMatchmaker) FetchIdentity(ctx context.Context) (models.Identity, error) {
	close(s.started)
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return s.fakeMatchmaker.FetchIdentity(ctx)
}

func TestEngineBootstrapLoadsIdentityAndPool(t *testing.T) {
	fake := &fakeMatchmaker{
		candidates: testProfiles("p1", "p2"),
		identity: models.Identity{
			ID:                "u1",
			Email:             "alex@example.com",
			UserType:          models.UserTypeApplicant,
			HasCompletedSetup: true,
		},
		messages: map[string][]models.Message{},
	}
	engine := NewEngine(NewMemoryStore(), "boot", fake, nil)
	engine.Bootstrap(context.Background())

	state := engine.Session.Snapshot()
	if state.UserType != models.UserTypeApplicant || !state.HasCompletedSetup {
		t.Errorf("identity not applied: %q/%v", state.UserType, state.HasCompletedSetup)
	}
	if len(state.Profiles) != 2 {
		t.Errorf("pool = %v, want 2 profiles", state.Profiles)
	}
}

func TestGestureDrivesTopOfPoolDecision(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMatchmaker{
		swipeResult: SwipeResult{Matched: true},
		messages:    map[string][]models.Message{},
	}
	engine := NewEngine(NewMemoryStore(), "gesture", fake, nil)
	engine.Session.Dispatch(ctx, SetUserTypeAction{UserType: models.UserTypeApplicant})
	engine.Pool.LoadPool(ctx, testProfiles("p1", "p2"))

	// Full drag right past the threshold likes the top card
	engine.Swipe.Start(0, 0, 375)
	engine.Swipe.Move(200, 0)
	engine.Swipe.End()

	state := engine.Session.Snapshot()
	if !containsStr(state.LikedIDs, "p1") {
		t.Fatalf("LikedIDs = %v, want p1 liked", state.LikedIDs)
	}
	if state.ApplicantMatch == nil {
		t.Fatal("gesture like produced no match")
	}

	// Drag left passes the new top card
	engine.Swipe.Start(0, 0, 375)
	engine.Swipe.Move(-200, 0)
	engine.Swipe.End()

	state = engine.Session.Snapshot()
	if !containsStr(state.PassedIDs, "p2") {
		t.Errorf("PassedIDs = %v, want p2 passed", state.PassedIDs)
	}
}

func TestSessionManagerReusesEngines(t *testing.T) {
	ctx := context.Background()
	manager := NewSessionManager(NewMemoryStore(), func() Matchmaker {
		return &fakeMatchmaker{messages: map[string][]models.Message{}}
	}, nil)

	a := manager.Engine(ctx, "alpha")
	b := manager.Engine(ctx, "alpha")
	c := manager.Engine(ctx, "beta")

	if a != b {
		t.Error("same session key produced different engines")
	}
	if a == c {
		t.Error("different session keys shared an engine")
	}
	manager.Shutdown()
}

func TestSlowBootstrapDoesNotBlockOtherSessions(t *testing.T) {
	ctx := context.Background()
	stalling := &stallingMatchmaker{
		fakeMatchmaker: fakeMatchmaker{messages: map[string][]models.Message{}},
		started:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	defer close(stalling.release)

	first := true
	manager := NewSessionManager(NewMemoryStore(), func() Matchmaker {
		if first {
			first = false
			return stalling
		}
		return &fakeMatchmaker{messages: map[string][]models.Message{}}
	}, nil)
	defer manager.Shutdown()

	go manager.Engine(ctx, "slow")
	<-stalling.started

	// While "slow" is still mid-bootstrap, another session must get through
	done := make(chan *Engine, 1)
	go func() { done <- manager.Engine(ctx, "fast") }()
	select {
	case engine := <-done:
		if engine == nil {
			t.Fatal("no engine returned")
		}
	case <-time.After(time.Second):
		t.Fatal("second session blocked behind the first session's bootstrap")
	}
}

func TestEngineResetSurvivesUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMatchmaker{
		messages: map[string][]models.Message{},
		resetErr: errors.New("upstream down"),
	}
	engine := NewEngine(NewMemoryStore(), "reset-outage", fake, nil)
	engine.Session.Dispatch(ctx, SetUserTypeAction{UserType: models.UserTypeApplicant})
	engine.Pool.RecordDecision(ctx, "p1", models.DirectionLike)

	engine.ResetProfile(ctx)
	if state := engine.Session.Snapshot(); state.UserType != "" || len(state.LikedIDs) != 0 {
		t.Errorf("local state survived reset during outage: %+v", state)
	}
}

func TestEngineResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMatchmaker{messages: map[string][]models.Message{}}
	engine := NewEngine(NewMemoryStore(), "reset-engine", fake, nil)
	engine.Session.Dispatch(ctx, SetUserTypeAction{UserType: models.UserTypeApplicant})
	engine.Pool.RecordDecision(ctx, "p1", models.DirectionLike)

	engine.ResetProfile(ctx)
	state := engine.Session.Snapshot()
	if state.UserType != "" || len(state.LikedIDs) != 0 {
		t.Errorf("state after reset: %+v", state)
	}
}
