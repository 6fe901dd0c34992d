package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tindler_server/models"
	"tindler_server/services"
)

// DiscoverController handles the candidate pool and swipe decisions
type DiscoverController struct {
	Manager *services.SessionManager
}

// NewDiscoverController creates a new DiscoverController instance
func NewDiscoverController(manager *services.SessionManager) *DiscoverController {
	return &DiscoverController{Manager: manager}
}

func (dc *DiscoverController) engine(r *http.Request) *services.Engine {
	return dc.Manager.Engine(r.Context(), r.Header.Get("X-Session-Key"))
}

func poolFilterFromQuery(r *http.Request) services.PoolFilter {
	var filter services.PoolFilter
	if raw := r.URL.Query().Get("interests"); raw != "" {
		filter.Interests = strings.Split(raw, ",")
	}
	if raw := r.URL.Query().Get("roles"); raw != "" {
		filter.Roles = strings.Split(raw, ",")
	}
	return filter
}

// HandleGetProfiles returns the undecided profiles, filtered and in pool order
func (dc *DiscoverController) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := dc.engine(r).Pool.AvailableProfiles(poolFilterFromQuery(r))
	json.NewEncoder(w).Encode(map[string]interface{}{"profiles": profiles})
}

// HandleRefresh refetches the candidate pool from the matchmaker
func (dc *DiscoverController) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	engine := dc.engine(r)
	if err := engine.Matches.LoadCandidates(r.Context()); err != nil {
		http.Error(w, "Failed to refresh profiles", http.StatusBadGateway)
		return
	}
	profiles := engine.Pool.AvailableProfiles(services.PoolFilter{})
	json.NewEncoder(w).Encode(map[string]interface{}{"profiles": profiles})
}

func (dc *DiscoverController) findProfile(r *http.Request, profileID string) (*services.Engine, *models.Profile) {
	engine := dc.engine(r)
	for _, p := range engine.Pool.AvailableProfiles(services.PoolFilter{}) {
		if p.ID == profileID {
			profile := p
			return engine, &profile
		}
	}
	return engine, nil
}

// HandleLike records a like and reports whether it produced a match
func (dc *DiscoverController) HandleLike(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ProfileID string `json:"profileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ProfileID == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	engine, profile := dc.findProfile(r, request.ProfileID)
	if profile == nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	match := engine.Matches.Like(r.Context(), *profile)
	response := map[string]interface{}{"matchCreated": match != nil}
	if match != nil {
		response["match"] = match
	}
	json.NewEncoder(w).Encode(response)
}

// HandlePass records a pass
func (dc *DiscoverController) HandlePass(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ProfileID string `json:"profileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ProfileID == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	engine, profile := dc.findProfile(r, request.ProfileID)
	if profile == nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	engine.Matches.Pass(r.Context(), *profile)
	json.NewEncoder(w).Encode(map[string]bool{"passed": true})
}

// HandleGestureStart begins a drag gesture
func (dc *DiscoverController) HandleGestureStart(w http.ResponseWriter, r *http.Request) {
	var request struct {
		X            float64 `json:"x"`
		Y            float64 `json:"y"`
		SurfaceWidth float64 `json:"surfaceWidth"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	tracker := dc.engine(r).Swipe
	tracker.Start(request.X, request.Y, request.SurfaceWidth)
	json.NewEncoder(w).Encode(tracker.State())
}

// HandleGestureMove folds a position sample into the gesture
func (dc *DiscoverController) HandleGestureMove(w http.ResponseWriter, r *http.Request) {
	var request struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	state := dc.engine(r).Swipe.Move(request.X, request.Y)
	json.NewEncoder(w).Encode(state)
}

// HandleGestureEnd finishes the gesture, firing a decision if the threshold
// was crossed, and returns the reset view state
func (dc *DiscoverController) HandleGestureEnd(w http.ResponseWriter, r *http.Request) {
	tracker := dc.engine(r).Swipe
	tracker.End()
	json.NewEncoder(w).Encode(tracker.State())
}

// HandleSwipeButton handles the programmatic like/pass buttons
func (dc *DiscoverController) HandleSwipeButton(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	tracker := dc.engine(r).Swipe
	switch request.Direction {
	case services.SwipeDirectionRight:
		tracker.SwipeRight()
	case services.SwipeDirectionLeft:
		tracker.SwipeLeft()
	default:
		http.Error(w, "Unknown swipe direction", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}
