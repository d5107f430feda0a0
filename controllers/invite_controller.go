package controllers

import (
	"encoding/json"
	"net/http"

	"coopnotes_server/services"

	"github.com/gorilla/mux"
)

// InviteController handles HTTP requests for invite-related actions
type InviteController struct {
	InviteService *services.InviteService
}

// CreateInviteHandler creates a pending chat by inviting a user by email.
func (c *InviteController) CreateInviteHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"` // inviter
		Email  string `json:"email"`  // invitee contact
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.Email == "" {
		http.Error(w, `{"error": "Missing required fields: userId or email"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	invite, err := c.InviteService.CreateInvite(ctx, request.UserID, request.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invite)
}

// AcceptInviteHandler transitions a pending chat to active.
func (c *InviteController) AcceptInviteHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChatID string `json:"chatId"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.ChatID == "" || request.UserID == "" {
		http.Error(w, `{"error": "Missing required fields: chatId or userId"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := c.InviteService.AcceptInvite(ctx, request.ChatID, request.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Invite accepted successfully"})
}

// GetInviteHandler returns the invite gating a chat.
func (c *InviteController) GetInviteHandler(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	invite, err := c.InviteService.InviteByChatID(ctx, chatID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invite)
}
