package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"tindler_server/services"
)

// ChatController handles conversation requests
type ChatController struct {
	Manager *services.SessionManager
}

// NewChatController creates a new ChatController instance
func NewChatController(manager *services.SessionManager) *ChatController {
	return &ChatController{Manager: manager}
}

func (cc *ChatController) engine(r *http.Request) *services.Engine {
	return cc.Manager.Engine(r.Context(), r.Header.Get("X-Session-Key"))
}

// HandleGetMessages merges the latest server fetch into the conversation and
// returns it
func (cc *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	engine := cc.engine(r)

	if err := engine.Chat.LoadMessages(r.Context(), matchID); err != nil {
		log.Printf("Message fetch failed for match %s, serving local state: %v", matchID, err)
	}

	state := engine.Session.Snapshot()
	match := state.FindMatch(matchID)
	if match == nil {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"messages": match.Messages})
}

// HandleSendMessage sends a message into a conversation
func (cc *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	var request struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	message, err := cc.engine(r).Chat.SendMessage(r.Context(), matchID, request.Content)
	if err != nil {
		if errors.Is(err, services.ErrUnknownMatch) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(message)
}

// HandleMarkRead marks the other side's messages as read
func (cc *ChatController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	if err := cc.engine(r).Chat.MarkRead(r.Context(), matchID); err != nil {
		log.Printf("Mark-read upstream sync failed for match %s: %v", matchID, err)
	}
	w.WriteHeader(http.StatusOK)
}

// HandleGetStarters suggests conversation starters for a match
func (cc *ChatController) HandleGetStarters(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	starters, err := cc.engine(r).Chat.Starters(matchID)
	if err != nil {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"starters": starters})
}

// HandleStartPolling begins background message refresh for an open chat
func (cc *ChatController) HandleStartPolling(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	engine := cc.engine(r)
	snapshot := engine.Session.Snapshot()
	if snapshot.FindMatch(matchID) == nil {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}
	engine.Chat.StartPolling(matchID)
	w.WriteHeader(http.StatusOK)
}

// HandleStopPolling stops background message refresh for a chat
func (cc *ChatController) HandleStopPolling(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	cc.engine(r).Chat.StopPolling(matchID)
	w.WriteHeader(http.StatusOK)
}
