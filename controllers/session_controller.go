package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"tindler_server/models"
	"tindler_server/services"
)

// SessionController handles session lifecycle and state requests
type SessionController struct {
	Manager *services.SessionManager
}

// NewSessionController creates a new SessionController instance
func NewSessionController(manager *services.SessionManager) *SessionController {
	return &SessionController{Manager: manager}
}

func (sc *SessionController) engine(r *http.Request) *services.Engine {
	return sc.Manager.Engine(r.Context(), r.Header.Get("X-Session-Key"))
}

// HandleGetState returns the full session state snapshot
func (sc *SessionController) HandleGetState(w http.ResponseWriter, r *http.Request) {
	state := sc.engine(r).Session.Snapshot()
	json.NewEncoder(w).Encode(state)
}

// HandleSetUserType records the role chosen during onboarding
func (sc *SessionController) HandleSetUserType(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserType string `json:"userType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserType != models.UserTypeApplicant && request.UserType != models.UserTypeMember {
		http.Error(w, "Unknown user type", http.StatusBadRequest)
		return
	}

	engine := sc.engine(r)
	engine.Session.Dispatch(r.Context(), services.SetUserTypeAction{UserType: request.UserType})
	if err := engine.Matches.LoadCandidates(r.Context()); err != nil {
		log.Printf("Candidate reload after role change failed: %v", err)
	}

	json.NewEncoder(w).Encode(map[string]string{"userType": request.UserType})
}

// HandleSetProfile stores the session user's own profile
func (sc *SessionController) HandleSetProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if profile.Name == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	sc.engine(r).Session.Dispatch(r.Context(), services.SetCurrentProfileAction{Profile: profile})
	json.NewEncoder(w).Encode(profile)
}

// HandleCompleteSetup marks onboarding as finished
func (sc *SessionController) HandleCompleteSetup(w http.ResponseWriter, r *http.Request) {
	sc.engine(r).Session.Dispatch(r.Context(), services.SetCompletedSetupAction{Completed: true})
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{"hasCompletedSetup": true})
}

// HandleHideMatchPopup dismisses the match celebration overlay
func (sc *SessionController) HandleHideMatchPopup(w http.ResponseWriter, r *http.Request) {
	sc.engine(r).Session.Dispatch(r.Context(), services.HideMatchPopupAction{})
	w.WriteHeader(http.StatusOK)
}

// HandleReset wipes the session upstream and locally
func (sc *SessionController) HandleReset(w http.ResponseWriter, r *http.Request) {
	sc.engine(r).ResetProfile(r.Context())
	json.NewEncoder(w).Encode(map[string]string{"message": "Profile reset successfully"})
}
