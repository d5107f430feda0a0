package routes

import (
	"coopnotes_server/controllers"
	"coopnotes_server/services"

	"github.com/gorilla/mux"
)

// RegisterMembershipRoutes sets up leave/rejoin routes under /api/membership
func RegisterMembershipRoutes(r *mux.Router, membershipService *services.MembershipService) {
	controller := &controllers.MembershipController{MembershipService: membershipService}

	membershipRouter := r.PathPrefix("/api/membership").Subrouter()
	membershipRouter.HandleFunc("/leave", controller.LeaveChatHandler).Methods("POST")
	membershipRouter.HandleFunc("/rejoin", controller.RejoinChatHandler).Methods("POST")
	membershipRouter.HandleFunc("/departed/{userId}", controller.GetDepartedChatsHandler).Methods("GET")
}
