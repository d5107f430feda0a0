package controllers

import (
	"encoding/json"
	"net/http"

	"coopnotes_server/models"
	"coopnotes_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles profile creation and lookup
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// AddUserProfileHandler stores a new profile (signup path).
func (c *UserProfileController) AddUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	created, err := c.UserProfileService.AddUserProfile(ctx, profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetUserProfileHandler fetches a profile by user id.
func (c *UserProfileController) GetUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	ctx, cancel := requestContext(r)
	defer cancel()

	profile, err := c.UserProfileService.GetUserProfile(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetUserProfileByEmailHandler resolves a contact email to a profile.
func (c *UserProfileController) GetUserProfileByEmailHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, `{"error": "email is required"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	profile, err := c.UserProfileService.GetUserProfileByEmail(ctx, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
