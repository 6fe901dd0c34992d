package services

import "sync"

// Swipe interpreter defaults, matching the client's card stack behavior.
const (
	DefaultSwipeThreshold = 100.0
	DefaultRotationFactor = 20.0
	DefaultSurfaceWidth   = 375.0
	SwipeDirectionLeft    = "left"
	SwipeDirectionRight   = "right"
	SwipeDirectionNone    = ""
)

// SwipeState is the visual state of an in-progress gesture.
type SwipeState struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Rotation   float64 `json:"rotation"`
	IsDragging bool    `json:"isDragging"`
	Direction  string  `json:"direction,omitempty"`
}

// SwipeTracker turns a pointer sample stream into a like/pass decision. It is
// stateless across gestures: End always resets the visual state, and the
// decision queue, not the tracker, enforces idempotency per profile.
type SwipeTracker struct {
	Threshold      float64
	RotationFactor float64

	// OnSwipeRight/OnSwipeLeft fire once on End when the provisional
	// direction crossed the threshold. They also back the programmatic
	// button triggers.
	OnSwipeRight func()
	OnSwipeLeft  func()

	mu           sync.Mutex
	startX       float64
	startY       float64
	surfaceWidth float64
	state        SwipeState
}

func NewSwipeTracker(onSwipeLeft, onSwipeRight func()) *SwipeTracker {
	return &SwipeTracker{
		Threshold:      DefaultSwipeThreshold,
		RotationFactor: DefaultRotationFactor,
		OnSwipeLeft:    onSwipeLeft,
		OnSwipeRight:   onSwipeRight,
	}
}

// Start records the gesture origin and the interactive surface width used for
// the rotation proportion.
func (t *SwipeTracker) Start(x, y, surfaceWidth float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startX = x
	t.startY = y
	if surfaceWidth <= 0 {
		surfaceWidth = DefaultSurfaceWidth
	}
	t.surfaceWidth = surfaceWidth
	t.state = SwipeState{IsDragging: true}
}

// Move folds one position sample into the visual state and returns it.
func (t *SwipeTracker) Move(x, y float64) SwipeState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.state.IsDragging {
		return t.state
	}
	deltaX := x - t.startX
	deltaY := y - t.startY
	t.state = SwipeState{
		X:          deltaX,
		Y:          deltaY,
		Rotation:   deltaX / t.surfaceWidth * t.RotationFactor,
		IsDragging: true,
		Direction:  t.direction(deltaX),
	}
	return t.state
}

// End commits the gesture: right fires the like callback, left the pass
// callback, none fires neither. The visual state resets unconditionally;
// the reset is view-only and independent of whether a decision fired.
func (t *SwipeTracker) End() {
	t.mu.Lock()
	direction := t.state.Direction
	t.state = SwipeState{}
	t.mu.Unlock()

	switch direction {
	case SwipeDirectionRight:
		if t.OnSwipeRight != nil {
			t.OnSwipeRight()
		}
	case SwipeDirectionLeft:
		if t.OnSwipeLeft != nil {
			t.OnSwipeLeft()
		}
	}
}

// SwipeRight triggers the like callback directly (on-screen button path),
// bypassing the position math.
func (t *SwipeTracker) SwipeRight() {
	if t.OnSwipeRight != nil {
		t.OnSwipeRight()
	}
}

// SwipeLeft triggers the pass callback directly.
func (t *SwipeTracker) SwipeLeft() {
	if t.OnSwipeLeft != nil {
		t.OnSwipeLeft()
	}
}

// State returns the current visual state.
func (t *SwipeTracker) State() SwipeState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *SwipeTracker) direction(deltaX float64) string {
	threshold := t.Threshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	switch {
	case deltaX > threshold:
		return SwipeDirectionRight
	case deltaX < -threshold:
		return SwipeDirectionLeft
	default:
		return SwipeDirectionNone
	}
}
