package models

import "errors"

// Message is one append-only entry in a chat's log. Sender and text are
// immutable once written; ordering is by createdAt ascending.
type Message struct {
	ChatID    string `dynamodbav:"chatId" json:"chatId"`       // PK
	MessageID string `dynamodbav:"messageId" json:"messageId"` // SK
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Text      string `dynamodbav:"text" json:"text"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"` // assigned at write time
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"

func (m Message) Validate() error {
	if m.ChatID == "" || m.MessageID == "" || m.SenderID == "" {
		return errors.New("message document missing chatId, messageId or senderId")
	}
	if m.Text == "" {
		return errors.New("message document has empty text")
	}
	return nil
}
