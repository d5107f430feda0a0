package models

import "errors"

// UserChat is a per-user pointer to a chat, used to list "my chats".
// Deleted when the user leaves the chat, recreated on rejoin.
type UserChat struct {
	UserID    string `dynamodbav:"userId" json:"userId"`       // PK
	ChatID    string `dynamodbav:"chatId" json:"chatId"`       // SK
	OtherUser string `dynamodbav:"otherUser" json:"otherUser"` // cached contact of the other party
}

// UserChatsTable is the DynamoDB table name for per-user chat pointers
const UserChatsTable = "UserChats"

func (u UserChat) Validate() error {
	if u.UserID == "" || u.ChatID == "" {
		return errors.New("user chat document missing userId or chatId")
	}
	return nil
}
