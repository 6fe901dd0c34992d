package routes

import (
	"tindler_server/controllers"
	"tindler_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match operations under /api/matches
func RegisterMatchRoutes(r *mux.Router, manager *services.SessionManager) {
	controller := controllers.NewMatchController(manager)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()

	matchRouter.HandleFunc("", controller.HandleGetMatches).Methods("GET")
	matchRouter.HandleFunc("/refresh", controller.HandleRefreshMatches).Methods("POST")
	matchRouter.HandleFunc("/{matchId}", controller.HandleGetMatch).Methods("GET")
}
