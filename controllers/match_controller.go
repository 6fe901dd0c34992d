package controllers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"tindler_server/models"
	"tindler_server/services"
)

// MatchController handles match listing and lookup
type MatchController struct {
	Manager *services.SessionManager
}

// NewMatchController creates a new MatchController instance
func NewMatchController(manager *services.SessionManager) *MatchController {
	return &MatchController{Manager: manager}
}

func (mc *MatchController) engine(r *http.Request) *services.Engine {
	return mc.Manager.Engine(r.Context(), r.Header.Get("X-Session-Key"))
}

// HandleGetMatches returns the match collection split into fresh matches and
// ongoing conversations, conversations ordered by most recent message
func (mc *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	state := mc.engine(r).Session.Snapshot()
	matches := state.Matches()

	newMatches := []models.Match{}
	conversations := []models.Match{}
	for _, m := range matches {
		if len(m.Messages) == 0 {
			newMatches = append(newMatches, m)
		} else {
			conversations = append(conversations, m)
		}
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage().CreatedAt.After(conversations[j].LastMessage().CreatedAt)
	})

	json.NewEncoder(w).Encode(map[string]interface{}{
		"newMatches":    newMatches,
		"conversations": conversations,
	})
}

// HandleGetMatch returns a single match by id
func (mc *MatchController) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	state := mc.engine(r).Session.Snapshot()
	match := state.FindMatch(matchID)
	if match == nil {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(match)
}

// HandleRefreshMatches refetches the match collection from the matchmaker
func (mc *MatchController) HandleRefreshMatches(w http.ResponseWriter, r *http.Request) {
	engine := mc.engine(r)
	if err := engine.Matches.LoadMatches(r.Context()); err != nil {
		http.Error(w, "Failed to refresh matches", http.StatusBadGateway)
		return
	}
	state := engine.Session.Snapshot()
	json.NewEncoder(w).Encode(map[string]interface{}{"matches": state.Matches()})
}
