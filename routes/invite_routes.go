package routes

import (
	"coopnotes_server/controllers"
	"coopnotes_server/services"

	"github.com/gorilla/mux"
)

// RegisterInviteRoutes registers all invite-related routes under /api/invites
func RegisterInviteRoutes(router *mux.Router, inviteService *services.InviteService) {
	controller := &controllers.InviteController{InviteService: inviteService}

	inviteRouter := router.PathPrefix("/api/invites").Subrouter()
	inviteRouter.HandleFunc("", controller.CreateInviteHandler).Methods("POST")        // Invite a user by email
	inviteRouter.HandleFunc("/accept", controller.AcceptInviteHandler).Methods("POST") // Accept a pending invite
	inviteRouter.HandleFunc("/{chatId}", controller.GetInviteHandler).Methods("GET")   // Inspect an invite
}
