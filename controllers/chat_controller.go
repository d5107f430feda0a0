package controllers

import (
	"encoding/json"
	"net/http"

	"coopnotes_server/services"

	"github.com/gorilla/mux"
)

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// HandleGetMessages - Fetch the full ordered message log for a chat
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chatId")
	if chatID == "" {
		http.Error(w, `{"error": "chatId is required"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	messages, err := c.ChatService.MessagesByChatID(ctx, chatID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// HandleSendMessage - Append a message to an active chat
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChatID   string `json:"chatId"`
		SenderID string `json:"senderId"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.ChatID == "" || request.SenderID == "" {
		http.Error(w, `{"error": "Missing required fields: chatId or senderId"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	message, err := c.ChatService.SendMessage(ctx, request.ChatID, request.SenderID, request.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

// HandleGetChats - Resolve a user's chat list for display
func (c *ChatController) HandleGetChats(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	ctx, cancel := requestContext(r)
	defer cancel()

	summaries, err := c.ChatService.ChatsByUserID(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
