package models

import "errors"

// Invite represents the pending handshake that gates a chat. It shares
// the chat's id as its own key so both lifecycles track together.
type Invite struct {
	ChatID    string `dynamodbav:"chatId" json:"chatId"` // PK - same key as the chat it gates
	From      string `dynamodbav:"from" json:"from"`     // inviter user id
	To        string `dynamodbav:"to" json:"to"`         // invitee user id
	FromEmail string `dynamodbav:"fromEmail" json:"fromEmail"`
	ToEmail   string `dynamodbav:"toEmail" json:"toEmail"`
	Status    string `dynamodbav:"status" json:"status"` // "pending", "active"
}

// InvitesTable is the DynamoDB table name for invites
const InvitesTable = "Invites"

func (i Invite) Validate() error {
	if i.ChatID == "" || i.From == "" || i.To == "" {
		return errors.New("invite document missing chatId, from or to")
	}
	if i.Status != StatusPending && i.Status != StatusActive {
		return errors.New("invite document has invalid status: " + i.Status)
	}
	return nil
}
