package services

import "testing"

func TestSwipeTrackerDirectionThreshold(t *testing.T) {
	tests := []struct {
		name      string
		deltaX    float64
		direction string
	}{
		{"right past threshold", 150, SwipeDirectionRight},
		{"left past threshold", -150, SwipeDirectionLeft},
		{"right at threshold", 100, SwipeDirectionNone},
		{"left at threshold", -100, SwipeDirectionNone},
		{"just past right", 100.5, SwipeDirectionRight},
		{"small drag", 40, SwipeDirectionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewSwipeTracker(nil, nil)
			tracker.Start(200, 300, 375)
			state := tracker.Move(200+tt.deltaX, 300)
			if state.Direction != tt.direction {
				t.Errorf("direction = %q, want %q", state.Direction, tt.direction)
			}
		})
	}
}

func TestSwipeTrackerRotation(t *testing.T) {
	tracker := NewSwipeTracker(nil, nil)
	tracker.Start(0, 0, 375)
	state := tracker.Move(187.5, 0)
	if want := 10.0; state.Rotation != want {
		t.Errorf("rotation = %v, want %v", state.Rotation, want)
	}

	// Zero surface width falls back to the default, it must not divide by zero
	tracker = NewSwipeTracker(nil, nil)
	tracker.Start(0, 0, 0)
	state = tracker.Move(DefaultSurfaceWidth, 0)
	if want := DefaultRotationFactor; state.Rotation != want {
		t.Errorf("rotation with default width = %v, want %v", state.Rotation, want)
	}
}

func TestSwipeTrackerEndFiresCallback(t *testing.T) {
	var likes, passes int
	tracker := NewSwipeTracker(func() { passes++ }, func() { likes++ })

	tracker.Start(0, 0, 375)
	tracker.Move(150, 10)
	tracker.End()
	if likes != 1 || passes != 0 {
		t.Fatalf("likes=%d passes=%d after right swipe, want 1/0", likes, passes)
	}

	tracker.Start(0, 0, 375)
	tracker.Move(-150, -5)
	tracker.End()
	if passes != 1 {
		t.Fatalf("passes=%d after left swipe, want 1", passes)
	}

	// Below threshold: no callback, card snaps back
	tracker.Start(0, 0, 375)
	tracker.Move(50, 0)
	tracker.End()
	if likes != 1 || passes != 1 {
		t.Fatalf("likes=%d passes=%d after aborted swipe, want 1/1", likes, passes)
	}
}

func TestSwipeTrackerEndResetsState(t *testing.T) {
	tracker := NewSwipeTracker(nil, func() {})
	tracker.Start(0, 0, 375)
	tracker.Move(150, 20)
	tracker.End()

	state := tracker.State()
	if state.IsDragging || state.X != 0 || state.Y != 0 || state.Rotation != 0 || state.Direction != SwipeDirectionNone {
		t.Errorf("state after End = %+v, want zero state", state)
	}

	// A Move without a Start is inert
	state = tracker.Move(300, 0)
	if state.IsDragging || state.X != 0 {
		t.Errorf("move without start mutated state: %+v", state)
	}
}

func TestSwipeTrackerProgrammaticTriggers(t *testing.T) {
	var likes, passes int
	tracker := NewSwipeTracker(func() { passes++ }, func() { likes++ })

	tracker.SwipeRight()
	tracker.SwipeLeft()
	if likes != 1 || passes != 1 {
		t.Errorf("likes=%d passes=%d, want 1/1", likes, passes)
	}
	if state := tracker.State(); state.IsDragging {
		t.Errorf("programmatic swipe left tracker dragging: %+v", state)
	}
}
