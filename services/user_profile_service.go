package services

import (
	"context"

	"coopnotes_server/apperrors"
	"coopnotes_server/models"
)

type UserProfileService struct {
	Store ChatStore
}

// AddUserProfile adds a new user profile
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.UserID == "" || profile.Email == "" {
		return nil, apperrors.InvalidArg("profile requires userId and email")
	}
	if err := ups.Store.PutProfile(ctx, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return ups.Store.GetProfile(ctx, userID)
}

// GetUserProfileByEmail resolves a contact email to its profile
func (ups *UserProfileService) GetUserProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	if email == "" {
		return nil, apperrors.InvalidArg("email cannot be empty")
	}
	return ups.Store.ProfileByEmail(ctx, email)
}
