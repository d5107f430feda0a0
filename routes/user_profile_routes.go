package routes

import (
	"coopnotes_server/controllers"
	"coopnotes_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up profile routes under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := &controllers.UserProfileController{UserProfileService: userProfileService}

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.HandleFunc("", controller.AddUserProfileHandler).Methods("POST")
	profileRouter.HandleFunc("/by-email", controller.GetUserProfileByEmailHandler).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.GetUserProfileHandler).Methods("GET")
}
