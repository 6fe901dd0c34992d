package routes

import (
	"tindler_server/controllers"
	"tindler_server/services"

	"github.com/gorilla/mux"
)

// RegisterDiscoverRoutes sets up routes for pool and swipe operations under /api/discover
func RegisterDiscoverRoutes(r *mux.Router, manager *services.SessionManager) {
	controller := controllers.NewDiscoverController(manager)

	discoverRouter := r.PathPrefix("/api/discover").Subrouter()

	discoverRouter.HandleFunc("/profiles", controller.HandleGetProfiles).Methods("GET")
	discoverRouter.HandleFunc("/refresh", controller.HandleRefresh).Methods("POST")
	discoverRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	discoverRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
	discoverRouter.HandleFunc("/gesture/start", controller.HandleGestureStart).Methods("POST")
	discoverRouter.HandleFunc("/gesture/move", controller.HandleGestureMove).Methods("POST")
	discoverRouter.HandleFunc("/gesture/end", controller.HandleGestureEnd).Methods("POST")
	discoverRouter.HandleFunc("/swipe", controller.HandleSwipeButton).Methods("POST")
}
