package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID string `dynamodbav:"userId" json:"userId"`
	Email  string `dynamodbav:"email" json:"email"`
	Name   string `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Status string `dynamodbav:"status,omitempty" json:"status,omitempty"` // presence, e.g. "online"
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// UserProfilesEmailIndex is the GSI resolving a contact email to a user id
const UserProfilesEmailIndex = "EmailIndex"
