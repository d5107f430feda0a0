package controllers

import (
	"encoding/json"
	"net/http"

	"coopnotes_server/services"

	"github.com/gorilla/mux"
)

// MembershipController handles leave, rejoin and the departed-chats list
type MembershipController struct {
	MembershipService *services.MembershipService
}

func (c *MembershipController) decodeMembershipRequest(w http.ResponseWriter, r *http.Request) (chatID, userID string, ok bool) {
	var request struct {
		ChatID string `json:"chatId"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return "", "", false
	}
	if request.ChatID == "" || request.UserID == "" {
		http.Error(w, `{"error": "Missing required fields: chatId or userId"}`, http.StatusBadRequest)
		return "", "", false
	}
	return request.ChatID, request.UserID, true
}

// LeaveChatHandler removes the caller from a chat's members.
func (c *MembershipController) LeaveChatHandler(w http.ResponseWriter, r *http.Request) {
	chatID, userID, ok := c.decodeMembershipRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := c.MembershipService.LeaveChat(ctx, chatID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "You have left the chat"})
}

// RejoinChatHandler restores a previously departed member.
func (c *MembershipController) RejoinChatHandler(w http.ResponseWriter, r *http.Request) {
	chatID, userID, ok := c.decodeMembershipRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := c.MembershipService.RejoinChat(ctx, chatID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "You have rejoined the chat"})
}

// GetDepartedChatsHandler lists the chats the user has left and may rejoin.
func (c *MembershipController) GetDepartedChatsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	ctx, cancel := requestContext(r)
	defer cancel()

	chats, err := c.MembershipService.DepartedChats(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}
