package routes

import (
	"tindler_server/controllers"
	"tindler_server/services"

	"github.com/gorilla/mux"
)

// RegisterSessionRoutes sets up routes for session state operations under /api/session
func RegisterSessionRoutes(r *mux.Router, manager *services.SessionManager) {
	controller := controllers.NewSessionController(manager)

	sessionRouter := r.PathPrefix("/api/session").Subrouter()

	sessionRouter.HandleFunc("/state", controller.HandleGetState).Methods("GET")
	sessionRouter.HandleFunc("/userType", controller.HandleSetUserType).Methods("POST")
	sessionRouter.HandleFunc("/profile", controller.HandleSetProfile).Methods("POST")
	sessionRouter.HandleFunc("/completeSetup", controller.HandleCompleteSetup).Methods("POST")
	sessionRouter.HandleFunc("/hideMatchPopup", controller.HandleHideMatchPopup).Methods("POST")
	sessionRouter.HandleFunc("/reset", controller.HandleReset).Methods("POST")
}
