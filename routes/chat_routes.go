package routes

import (
	"tindler_server/controllers"
	"tindler_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for conversation operations under /api/matches/{matchId}
func RegisterChatRoutes(r *mux.Router, manager *services.SessionManager) {
	controller := controllers.NewChatController(manager)

	chatRouter := r.PathPrefix("/api/matches/{matchId}").Subrouter()

	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/messages", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages/mark-as-read", controller.HandleMarkRead).Methods("POST")
	chatRouter.HandleFunc("/starters", controller.HandleGetStarters).Methods("GET")
	chatRouter.HandleFunc("/poll/start", controller.HandleStartPolling).Methods("POST")
	chatRouter.HandleFunc("/poll/stop", controller.HandleStopPolling).Methods("POST")
}
