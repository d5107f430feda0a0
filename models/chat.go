package models

import "errors"

// Chat represents a two-party conversation document.
type Chat struct {
	ChatID     string   `dynamodbav:"chatId" json:"chatId"`         // PK - combined user ids
	Users      []string `dynamodbav:"users" json:"users"`           // current members
	LeftUsers  []string `dynamodbav:"leftUsers" json:"leftUsers"`   // departed members, may rejoin
	UserEmails []string `dynamodbav:"userEmails" json:"userEmails"` // display contacts, inviter first
	Status     string   `dynamodbav:"status" json:"status"`         // "pending", "active", "inactive"
	CreatedAt  string   `dynamodbav:"createdAt" json:"createdAt"`
}

// ChatsTable is the DynamoDB table name for chats
const ChatsTable = "Chats"

// Validate rejects documents that lost required fields on the way in or
// out of the store.
func (c Chat) Validate() error {
	if c.ChatID == "" {
		return errors.New("chat document missing chatId")
	}
	switch c.Status {
	case StatusPending, StatusActive, StatusInactive:
	default:
		return errors.New("chat document has invalid status: " + c.Status)
	}
	return nil
}

// HasUser reports whether userID is a current member.
func (c Chat) HasUser(userID string) bool {
	return containsString(c.Users, userID)
}

// HasLeftUser reports whether userID previously departed.
func (c Chat) HasLeftUser(userID string) bool {
	return containsString(c.LeftUsers, userID)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
