package services

import (
	"context"
	"testing"
	"time"

	"coopnotes_server/models"

	"github.com/stretchr/testify/require"
)

// testEnv wires the services over the in-memory store with two seeded
// users, alice and bob.
type testEnv struct {
	store      *MemoryChatStore
	bus        *ChangeBus
	invites    *InviteService
	membership *MembershipService
	chats      *ChatService
	profiles   *UserProfileService
}

func bootstrapEnv(t *testing.T) *testEnv {
	t.Helper()

	store := NewMemoryChatStore()
	bus := NewChangeBus()
	env := &testEnv{
		store:      store,
		bus:        bus,
		invites:    &InviteService{Store: store, Bus: bus},
		membership: &MembershipService{Store: store, Bus: bus},
		chats:      &ChatService{Store: store, Bus: bus},
		profiles:   &UserProfileService{Store: store},
	}

	ctx := context.Background()
	_, err := env.profiles.AddUserProfile(ctx, models.UserProfile{UserID: "alice", Email: "alice@x.com", Name: "Alice"})
	require.NoError(t, err)
	_, err = env.profiles.AddUserProfile(ctx, models.UserProfile{UserID: "bob", Email: "bob@x.com", Name: "Bob"})
	require.NoError(t, err)

	return env
}

// inviteAndAccept drives alice inviting bob and bob accepting, returning
// the chat id.
func (env *testEnv) inviteAndAccept(t *testing.T) string {
	t.Helper()

	ctx := context.Background()
	invite, err := env.invites.CreateInvite(ctx, "alice", "bob@x.com")
	require.NoError(t, err)
	require.NoError(t, env.invites.AcceptInvite(ctx, invite.ChatID, "bob"))
	return invite.ChatID
}

// waitForMessages reads snapshots until one has want messages.
func waitForMessages(t *testing.T, ch <-chan []models.Message, want int) []models.Message {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case messages := <-ch:
			if len(messages) == want {
				return messages
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a snapshot with %d messages", want)
		}
	}
}

// waitForSummaries reads snapshots until one has want rows.
func waitForSummaries(t *testing.T, ch <-chan []ChatSummary, want int) []ChatSummary {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case summaries := <-ch:
			if len(summaries) == want {
				return summaries
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a snapshot with %d chats", want)
		}
	}
}
