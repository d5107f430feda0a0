package services

import (
	"context"
	"log"
	"sync"
	"time"

	"coopnotes_server/apperrors"
	"coopnotes_server/models"
)

// InviteService owns the invitation lifecycle. A chat is created pending
// and becomes active only when the invited user accepts; there is no
// decline path, an unaccepted invite stays pending indefinitely.
type InviteService struct {
	Store ChatStore
	Bus   *ChangeBus
}

// CreateInvite resolves the invited email to a user and creates the
// pending chat. Writes happen in a fixed order - chat, user chat
// pointers, invite - and every step is create-or-replace, so the whole
// operation can be retried after a partial failure.
func (s *InviteService) CreateInvite(ctx context.Context, inviterID, inviteeEmail string) (*models.Invite, error) {
	inviter, err := s.Store.GetProfile(ctx, inviterID)
	if err != nil {
		return nil, err
	}

	invitee, err := s.Store.ProfileByEmail(ctx, inviteeEmail)
	if err != nil {
		return nil, err
	}
	if invitee.UserID == inviterID {
		return nil, apperrors.InvalidArg("you cannot invite yourself")
	}

	chatID, err := ComputeChatID(inviterID, invitee.UserID)
	if err != nil {
		return nil, err
	}

	chat := models.Chat{
		ChatID:     chatID,
		Users:      []string{inviterID, invitee.UserID},
		LeftUsers:  []string{},
		UserEmails: []string{inviter.Email, invitee.Email},
		Status:     models.StatusPending,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.PutChat(ctx, chat); err != nil {
		return nil, err
	}

	records := []models.UserChat{
		{UserID: inviterID, ChatID: chatID, OtherUser: invitee.Email},
		{UserID: invitee.UserID, ChatID: chatID, OtherUser: inviter.Email},
	}
	if err := s.Store.PutUserChats(ctx, records); err != nil {
		return nil, err
	}

	invite := models.Invite{
		ChatID:    chatID,
		From:      inviterID,
		To:        invitee.UserID,
		FromEmail: inviter.Email,
		ToEmail:   invitee.Email,
		Status:    models.StatusPending,
	}
	if err := s.Store.PutInvite(ctx, invite); err != nil {
		return nil, err
	}

	log.Printf("Invite created: chatId=%s from=%s to=%s", chatID, inviterID, invitee.UserID)
	s.Bus.Publish(Event{Kind: EventMembership, ChatID: chatID, Users: chat.Users})
	s.Bus.Publish(Event{Kind: EventChat, ChatID: chatID, Users: chat.Users})
	return &invite, nil
}

// AcceptInvite transitions the chat and its invite to active. Only the
// invited user may accept; the inviter can never activate their own
// invitation. The two status writes are independent and idempotent, so
// the caller retries the whole operation after a partial failure.
func (s *InviteService) AcceptInvite(ctx context.Context, chatID, userID string) error {
	invite, err := s.Store.GetInvite(ctx, chatID)
	if err != nil {
		return err
	}

	if userID == invite.From {
		return apperrors.Forbidden("you cannot accept your own invitation")
	}
	if userID != invite.To {
		return apperrors.Forbidden("only the invited user can accept this invitation")
	}
	if invite.Status == models.StatusActive {
		// Retry of an accept that already went through.
		return nil
	}

	if err := s.Store.UpdateChatStatus(ctx, chatID, models.StatusActive); err != nil {
		return err
	}
	if err := s.Store.UpdateInviteStatus(ctx, chatID, models.StatusActive); err != nil {
		return err
	}

	log.Printf("Invite accepted: chatId=%s by=%s", chatID, userID)
	s.Bus.Publish(Event{Kind: EventChat, ChatID: chatID, Users: []string{invite.From, invite.To}})
	return nil
}

// InviteByChatID returns the invite gating chatID. Only the two
// participants may read it.
func (s *InviteService) InviteByChatID(ctx context.Context, chatID, userID string) (*models.Invite, error) {
	invite, err := s.Store.GetInvite(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if userID != invite.From && userID != invite.To {
		return nil, apperrors.Forbidden("you are not part of this chat")
	}
	return invite, nil
}

// InviteSubscription redelivers the invite document whenever its status
// changes. Cancel must be called when the consumer is done; it is safe
// to call more than once.
type InviteSubscription struct {
	C      <-chan models.Invite
	cancel func()
}

func (s *InviteSubscription) Cancel() { s.cancel() }

// SubscribeInvite opens a live view of the invite gating chatID.
func (s *InviteService) SubscribeInvite(ctx context.Context, chatID, userID string) (*InviteSubscription, error) {
	initial, err := s.InviteByChatID(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	events, unsubscribe := s.Bus.Subscribe()
	out := make(chan models.Invite, 1)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}

	go func() {
		pushInvite(out, done, *initial)
		for {
			select {
			case <-done:
				return
			case ev := <-events:
				if ev.Kind != EventChat || ev.ChatID != chatID {
					continue
				}
				invite, err := s.Store.GetInvite(context.Background(), chatID)
				if err != nil {
					log.Printf("Invite subscription reload failed for chatId=%s: %v", chatID, err)
					continue
				}
				pushInvite(out, done, *invite)
			}
		}
	}()

	return &InviteSubscription{C: out, cancel: cancel}, nil
}

// pushInvite replaces a stale undelivered snapshot instead of blocking.
func pushInvite(out chan models.Invite, done <-chan struct{}, invite models.Invite) {
	for {
		select {
		case <-done:
			return
		case out <- invite:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
