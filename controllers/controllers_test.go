package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coopnotes_server/models"
	"coopnotes_server/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// bootstrapRouter wires all controllers over the in-memory store with
// two seeded users, alice and bob.
func bootstrapRouter(t *testing.T) (*mux.Router, *services.MemoryChatStore) {
	t.Helper()

	store := services.NewMemoryChatStore()
	bus := services.NewChangeBus()

	inviteService := &services.InviteService{Store: store, Bus: bus}
	membershipService := &services.MembershipService{Store: store, Bus: bus}
	chatService := &services.ChatService{Store: store, Bus: bus}
	profileService := &services.UserProfileService{Store: store}

	ctx := context.Background()
	for _, profile := range []models.UserProfile{
		{UserID: "alice", Email: "alice@x.com", Name: "Alice"},
		{UserID: "bob", Email: "bob@x.com", Name: "Bob"},
	} {
		_, err := profileService.AddUserProfile(ctx, profile)
		require.NoError(t, err)
	}

	r := mux.NewRouter()

	inviteController := &InviteController{InviteService: inviteService}
	r.HandleFunc("/api/invites", inviteController.CreateInviteHandler).Methods("POST")
	r.HandleFunc("/api/invites/accept", inviteController.AcceptInviteHandler).Methods("POST")
	r.HandleFunc("/api/invites/{chatId}", inviteController.GetInviteHandler).Methods("GET")

	chatController := NewChatController(chatService)
	r.HandleFunc("/api/chat/message", chatController.HandleSendMessage).Methods("POST")
	r.HandleFunc("/api/chat/messages", chatController.HandleGetMessages).Methods("GET")
	r.HandleFunc("/api/chat/list/{userId}", chatController.HandleGetChats).Methods("GET")

	membershipController := &MembershipController{MembershipService: membershipService}
	r.HandleFunc("/api/membership/leave", membershipController.LeaveChatHandler).Methods("POST")
	r.HandleFunc("/api/membership/rejoin", membershipController.RejoinChatHandler).Methods("POST")
	r.HandleFunc("/api/membership/departed/{userId}", membershipController.GetDepartedChatsHandler).Methods("GET")

	profileController := &UserProfileController{UserProfileService: profileService}
	r.HandleFunc("/api/profiles", profileController.AddUserProfileHandler).Methods("POST")
	r.HandleFunc("/api/profiles/by-email", profileController.GetUserProfileByEmailHandler).Methods("GET")
	r.HandleFunc("/api/profiles/{userId}", profileController.GetUserProfileHandler).Methods("GET")

	return r, store
}

func doJSON(t *testing.T, r *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateInviteEndpoint(t *testing.T) {
	t.Parallel()

	r, _ := bootstrapRouter(t)

	rr := doJSON(t, r, "POST", "/api/invites", map[string]string{
		"userId": "alice",
		"email":  "bob@x.com",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var invite models.Invite
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &invite))
	require.Equal(t, "alice-bob", invite.ChatID)
	require.Equal(t, models.StatusPending, invite.Status)
}

func TestCreateInviteEndpoint_UnknownEmail(t *testing.T) {
	t.Parallel()

	r, _ := bootstrapRouter(t)

	rr := doJSON(t, r, "POST", "/api/invites", map[string]string{
		"userId": "alice",
		"email":  "nobody@x.com",
	})
	require.Equal(t, http.StatusNotFound, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body["code"])
}

func TestAcceptInviteEndpoint_InviterForbidden(t *testing.T) {
	t.Parallel()

	r, _ := bootstrapRouter(t)

	rr := doJSON(t, r, "POST", "/api/invites", map[string]string{"userId": "alice", "email": "bob@x.com"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, r, "POST", "/api/invites/accept", map[string]string{"chatId": "alice-bob", "userId": "alice"})
	require.Equal(t, http.StatusForbidden, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "PERMISSION_DENIED", body["code"])
}

func TestMessageEndpoints(t *testing.T) {
	t.Parallel()

	r, _ := bootstrapRouter(t)

	rr := doJSON(t, r, "POST", "/api/invites", map[string]string{"userId": "alice", "email": "bob@x.com"})
	require.Equal(t, http.StatusCreated, rr.Code)

	// Gated while pending.
	rr = doJSON(t, r, "POST", "/api/chat/message", map[string]string{
		"chatId": "alice-bob", "senderId": "bob", "text": "hi",
	})
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, r, "POST", "/api/invites/accept", map[string]string{"chatId": "alice-bob", "userId": "bob"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, "POST", "/api/chat/message", map[string]string{
		"chatId": "alice-bob", "senderId": "bob", "text": "hi",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	// Empty text is rejected before any write.
	rr = doJSON(t, r, "POST", "/api/chat/message", map[string]string{
		"chatId": "alice-bob", "senderId": "bob", "text": "   ",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, "GET", "/api/chat/messages?chatId=alice-bob", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var messages []models.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	require.Equal(t, "hi", messages[0].Text)
}

func TestMembershipEndpoints(t *testing.T) {
	t.Parallel()

	r, _ := bootstrapRouter(t)

	rr := doJSON(t, r, "POST", "/api/invites", map[string]string{"userId": "alice", "email": "bob@x.com"})
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(t, r, "POST", "/api/invites/accept", map[string]string{"chatId": "alice-bob", "userId": "bob"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, "POST", "/api/membership/leave", map[string]string{"chatId": "alice-bob", "userId": "alice"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, "GET", "/api/membership/departed/alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var chats []models.Chat
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &chats))
	require.Len(t, chats, 1)

	// Rejoining twice: second attempt conflicts.
	rr = doJSON(t, r, "POST", "/api/membership/rejoin", map[string]string{"chatId": "alice-bob", "userId": "alice"})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doJSON(t, r, "POST", "/api/membership/rejoin", map[string]string{"chatId": "alice-bob", "userId": "alice"})
	require.Equal(t, http.StatusConflict, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "ALREADY_MEMBER", body["code"])
}

func TestChatListEndpoint(t *testing.T) {
	t.Parallel()

	r, _ := bootstrapRouter(t)

	rr := doJSON(t, r, "POST", "/api/invites", map[string]string{"userId": "alice", "email": "bob@x.com"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, r, "GET", "/api/chat/list/alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var summaries []services.ChatSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	require.Equal(t, "bob@x.com", summaries[0].OtherUser)
	require.Equal(t, models.StatusPending, summaries[0].Status)
}

func TestProfileEndpoints(t *testing.T) {
	t.Parallel()

	r, _ := bootstrapRouter(t)

	rr := doJSON(t, r, "POST", "/api/profiles", models.UserProfile{UserID: "carol", Email: "carol@x.com"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, r, "GET", "/api/profiles/carol", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, "GET", "/api/profiles/by-email?email=carol@x.com", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	require.Equal(t, "carol", profile.UserID)

	rr = doJSON(t, r, "GET", "/api/profiles/by-email?email=missing@x.com", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
