package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"coopnotes_server/apperrors"
	"coopnotes_server/models"

	"github.com/google/uuid"
)

// ChatService exposes the message channel and the per-user chat list.
// Sending is gated by the invitation state machine: only active chats
// accept messages, and only from current members.
type ChatService struct {
	Store ChatStore
	Bus   *ChangeBus
}

// messageTimeLayout is RFC3339 with a fixed-width fraction. RFC3339Nano
// trims trailing zeros, which makes lexicographic order disagree with
// chronological order (".15Z" sorts before ".1Z").
const messageTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SendMessage appends a message to the chat's log. The message id and
// createdAt are assigned here, at write time, so ordering does not
// depend on client clocks.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.InvalidArg("message cannot be empty")
	}

	chat, err := s.Store.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.Status != models.StatusActive {
		return nil, apperrors.Forbidden("you can only send messages when the chat is active")
	}
	if !chat.HasUser(senderID) || chat.HasLeftUser(senderID) {
		return nil, apperrors.Forbidden("you are not part of this chat")
	}

	message := models.Message{
		ChatID:    chatID,
		MessageID: uuid.New().String(),
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC().Format(messageTimeLayout),
	}
	if err := s.Store.PutMessage(ctx, message); err != nil {
		return nil, err
	}

	s.Bus.Publish(Event{Kind: EventMessage, ChatID: chatID, Users: chat.Users})
	return &message, nil
}

// MessagesByChatID returns the full log ordered by createdAt ascending.
func (s *ChatService) MessagesByChatID(ctx context.Context, chatID string) ([]models.Message, error) {
	return s.Store.MessagesByChatID(ctx, chatID)
}

// ChatSummary is one row of a user's chat list, enriched with the other
// party's profile for display.
type ChatSummary struct {
	ChatID      string `json:"chatId"`
	OtherUser   string `json:"otherUser"` // contact email of the other party
	OtherName   string `json:"otherName,omitempty"`
	OtherStatus string `json:"otherStatus,omitempty"` // presence, e.g. "online"
	Status      string `json:"status"`                // chat status
	CreatedAt   string `json:"createdAt"`
}

// ChatsByUserID resolves the user's chat pointers into display rows. A
// pointer whose chat document is missing is skipped rather than failing
// the whole list.
func (s *ChatService) ChatsByUserID(ctx context.Context, userID string) ([]ChatSummary, error) {
	records, err := s.Store.UserChatsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ChatSummary, 0, len(records))
	for _, record := range records {
		chat, err := s.Store.GetChat(ctx, record.ChatID)
		if err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeNotFound {
				log.Printf("Skipping dangling chat pointer: userId=%s chatId=%s", userID, record.ChatID)
				continue
			}
			return nil, err
		}

		summary := ChatSummary{
			ChatID:    chat.ChatID,
			OtherUser: record.OtherUser,
			Status:    chat.Status,
			CreatedAt: chat.CreatedAt,
		}
		if other, err := s.Store.ProfileByEmail(ctx, record.OtherUser); err == nil {
			summary.OtherName = other.Name
			summary.OtherStatus = other.Status
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// MessageSubscription redelivers the chat's full ordered message log on
// every append. Cancel must be called when the consumer is done; it is
// safe to call more than once.
type MessageSubscription struct {
	C      <-chan []models.Message
	cancel func()
}

func (s *MessageSubscription) Cancel() { s.cancel() }

// SubscribeMessages opens a live view of the chat's message log.
func (s *ChatService) SubscribeMessages(ctx context.Context, chatID string) (*MessageSubscription, error) {
	initial, err := s.Store.MessagesByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	events, unsubscribe := s.Bus.Subscribe()
	out := make(chan []models.Message, 1)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}

	go func() {
		pushMessages(out, done, initial)
		for {
			select {
			case <-done:
				return
			case ev := <-events:
				if ev.Kind != EventMessage || ev.ChatID != chatID {
					continue
				}
				messages, err := s.Store.MessagesByChatID(context.Background(), chatID)
				if err != nil {
					log.Printf("Message subscription reload failed for chatId=%s: %v", chatID, err)
					continue
				}
				pushMessages(out, done, messages)
			}
		}
	}()

	return &MessageSubscription{C: out, cancel: cancel}, nil
}

// ChatListSubscription redelivers the user's full resolved chat list
// whenever their membership set or one of their chats changes.
type ChatListSubscription struct {
	C      <-chan []ChatSummary
	cancel func()
}

func (s *ChatListSubscription) Cancel() { s.cancel() }

// SubscribeChats opens a live view of the user's chat list.
func (s *ChatService) SubscribeChats(ctx context.Context, userID string) (*ChatListSubscription, error) {
	initial, err := s.ChatsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, unsubscribe := s.Bus.Subscribe()
	out := make(chan []ChatSummary, 1)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}

	go func() {
		pushSummaries(out, done, initial)
		for {
			select {
			case <-done:
				return
			case ev := <-events:
				if ev.Kind == EventMessage || !ev.Concerns(userID) {
					continue
				}
				summaries, err := s.ChatsByUserID(context.Background(), userID)
				if err != nil {
					log.Printf("Chat list subscription reload failed for userId=%s: %v", userID, err)
					continue
				}
				pushSummaries(out, done, summaries)
			}
		}
	}()

	return &ChatListSubscription{C: out, cancel: cancel}, nil
}

// pushMessages replaces a stale undelivered snapshot instead of blocking.
func pushMessages(out chan []models.Message, done <-chan struct{}, messages []models.Message) {
	for {
		select {
		case <-done:
			return
		case out <- messages:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}

func pushSummaries(out chan []ChatSummary, done <-chan struct{}, summaries []ChatSummary) {
	for {
		select {
		case <-done:
			return
		case out <- summaries:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
