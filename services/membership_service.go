package services

import (
	"context"
	"log"

	"coopnotes_server/apperrors"
	"coopnotes_server/models"
)

// MembershipService manages the current-members / departed-members split
// of a chat. Membership and chat status are orthogonal: rejoining never
// touches status, so a rejoined pending chat stays pending.
type MembershipService struct {
	Store ChatStore
	Bus   *ChangeBus
}

// LeaveChat moves userID from the chat's members to its departed set,
// deletes their chat pointer, and marks the chat inactive once the last
// member is gone. The steps run in that fixed order and each one is
// idempotent; retry the whole operation after a partial failure.
// Leaving a chat already left is a successful no-op.
func (s *MembershipService) LeaveChat(ctx context.Context, chatID, userID string) error {
	chat, err := s.Store.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	if !chat.HasUser(userID) {
		if chat.HasLeftUser(userID) {
			return nil
		}
		return apperrors.Forbidden("you are not part of this chat")
	}

	users := removeString(chat.Users, userID)
	leftUsers := chat.LeftUsers
	if !chat.HasLeftUser(userID) {
		leftUsers = append(leftUsers, userID)
	}

	if err := s.Store.UpdateChatMembers(ctx, chatID, users, leftUsers); err != nil {
		return err
	}
	if err := s.Store.DeleteUserChat(ctx, userID, chatID); err != nil {
		return err
	}
	if len(users) == 0 {
		if err := s.Store.UpdateChatStatus(ctx, chatID, models.StatusInactive); err != nil {
			return err
		}
	}

	log.Printf("User left chat: chatId=%s userId=%s remaining=%d", chatID, userID, len(users))
	affected := append(append([]string{}, chat.Users...), chat.LeftUsers...)
	s.Bus.Publish(Event{Kind: EventMembership, ChatID: chatID, Users: affected})
	s.Bus.Publish(Event{Kind: EventChat, ChatID: chatID, Users: affected})
	return nil
}

// RejoinChat restores a previously departed user as a member and
// recreates their chat pointer with the other party's contact. The chat
// status is left untouched.
func (s *MembershipService) RejoinChat(ctx context.Context, chatID, userID string) error {
	chat, err := s.Store.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	if chat.HasUser(userID) {
		return apperrors.AlreadyMember("you are already part of this chat")
	}
	if !chat.HasLeftUser(userID) {
		return apperrors.Forbidden("you have not left this chat")
	}

	users := append(append([]string{}, chat.Users...), userID)
	leftUsers := removeString(chat.LeftUsers, userID)

	if err := s.Store.UpdateChatMembers(ctx, chatID, users, leftUsers); err != nil {
		return err
	}

	profile, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	otherUser := ""
	for _, email := range chat.UserEmails {
		if email != profile.Email {
			otherUser = email
			break
		}
	}

	record := models.UserChat{UserID: userID, ChatID: chatID, OtherUser: otherUser}
	if err := s.Store.PutUserChats(ctx, []models.UserChat{record}); err != nil {
		return err
	}

	log.Printf("User rejoined chat: chatId=%s userId=%s", chatID, userID)
	affected := append(append([]string{}, users...), leftUsers...)
	s.Bus.Publish(Event{Kind: EventMembership, ChatID: chatID, Users: affected})
	return nil
}

// DepartedChats lists the chats userID has left and may rejoin.
func (s *MembershipService) DepartedChats(ctx context.Context, userID string) ([]models.Chat, error) {
	return s.Store.DepartedChatsByUserID(ctx, userID)
}

func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
