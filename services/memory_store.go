package services

import (
	"context"
	"sort"
	"sync"

	"coopnotes_server/apperrors"
	"coopnotes_server/models"
)

// MemoryChatStore is an in-process ChatStore used by tests and local
// development, mirroring the table layout of the DynamoDB store.
type MemoryChatStore struct {
	mu        sync.RWMutex
	chats     map[string]models.Chat
	invites   map[string]models.Invite
	userChats map[string]map[string]models.UserChat // userID -> chatID -> record
	messages  map[string][]models.Message           // chatID -> append order
	profiles  map[string]models.UserProfile         // userID -> profile
}

func NewMemoryChatStore() *MemoryChatStore {
	return &MemoryChatStore{
		chats:     make(map[string]models.Chat),
		invites:   make(map[string]models.Invite),
		userChats: make(map[string]map[string]models.UserChat),
		messages:  make(map[string][]models.Message),
		profiles:  make(map[string]models.UserProfile),
	}
}

func (s *MemoryChatStore) GetChat(_ context.Context, chatID string) (*models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return nil, apperrors.NotFound("chat does not exist")
	}
	copied := chat
	copied.Users = append([]string(nil), chat.Users...)
	copied.LeftUsers = append([]string(nil), chat.LeftUsers...)
	copied.UserEmails = append([]string(nil), chat.UserEmails...)
	return &copied, nil
}

func (s *MemoryChatStore) PutChat(_ context.Context, chat models.Chat) error {
	if err := chat.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "refusing to store malformed chat", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chat.ChatID] = chat
	return nil
}

func (s *MemoryChatStore) UpdateChatMembers(_ context.Context, chatID string, users, leftUsers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return apperrors.NotFound("chat does not exist")
	}
	chat.Users = append([]string(nil), users...)
	chat.LeftUsers = append([]string(nil), leftUsers...)
	s.chats[chatID] = chat
	return nil
}

func (s *MemoryChatStore) UpdateChatStatus(_ context.Context, chatID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return apperrors.NotFound("chat does not exist")
	}
	chat.Status = status
	s.chats[chatID] = chat
	return nil
}

func (s *MemoryChatStore) DepartedChatsByUserID(_ context.Context, userID string) ([]models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chats []models.Chat
	for _, chat := range s.chats {
		if chat.HasLeftUser(userID) {
			chats = append(chats, chat)
		}
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].ChatID < chats[j].ChatID })
	return chats, nil
}

func (s *MemoryChatStore) GetInvite(_ context.Context, chatID string) (*models.Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invite, ok := s.invites[chatID]
	if !ok {
		return nil, apperrors.NotFound("invite does not exist")
	}
	return &invite, nil
}

func (s *MemoryChatStore) PutInvite(_ context.Context, invite models.Invite) error {
	if err := invite.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "refusing to store malformed invite", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.invites[invite.ChatID] = invite
	return nil
}

func (s *MemoryChatStore) UpdateInviteStatus(_ context.Context, chatID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invite, ok := s.invites[chatID]
	if !ok {
		return apperrors.NotFound("invite does not exist")
	}
	invite.Status = status
	s.invites[chatID] = invite
	return nil
}

func (s *MemoryChatStore) PutUserChats(_ context.Context, records []models.UserChat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		if err := record.Validate(); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidArgument, "refusing to store malformed user chat", err)
		}
		byChat, ok := s.userChats[record.UserID]
		if !ok {
			byChat = make(map[string]models.UserChat)
			s.userChats[record.UserID] = byChat
		}
		byChat[record.ChatID] = record
	}
	return nil
}

func (s *MemoryChatStore) DeleteUserChat(_ context.Context, userID, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byChat, ok := s.userChats[userID]; ok {
		delete(byChat, chatID)
	}
	return nil
}

func (s *MemoryChatStore) UserChatsByUserID(_ context.Context, userID string) ([]models.UserChat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.UserChat
	for _, record := range s.userChats[userID] {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ChatID < records[j].ChatID })
	return records, nil
}

func (s *MemoryChatStore) PutMessage(_ context.Context, message models.Message) error {
	if err := message.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "refusing to store malformed message", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[message.ChatID] = append(s.messages[message.ChatID], message)
	return nil
}

func (s *MemoryChatStore) MessagesByChatID(_ context.Context, chatID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := append([]models.Message(nil), s.messages[chatID]...)
	sortMessages(messages)
	return messages, nil
}

func (s *MemoryChatStore) PutProfile(_ context.Context, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *MemoryChatStore) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, apperrors.NotFound("profile does not exist")
	}
	return &profile, nil
}

func (s *MemoryChatStore) ProfileByEmail(_ context.Context, email string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, profile := range s.profiles {
		if profile.Email == email {
			copied := profile
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("no user with this email")
}
