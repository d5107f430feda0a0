package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChatValidate(t *testing.T) {
	t.Parallel()

	chat := Chat{ChatID: "a-b", Users: []string{"a", "b"}, Status: StatusPending}
	require.NoError(t, chat.Validate())

	require.Error(t, Chat{Status: StatusPending}.Validate())
	require.Error(t, Chat{ChatID: "a-b", Status: "archived"}.Validate())
}

func TestChatMembership(t *testing.T) {
	t.Parallel()

	chat := Chat{ChatID: "a-b", Users: []string{"a"}, LeftUsers: []string{"b"}, Status: StatusActive}
	require.True(t, chat.HasUser("a"))
	require.False(t, chat.HasUser("b"))
	require.True(t, chat.HasLeftUser("b"))
	require.False(t, chat.HasLeftUser("a"))
}

func TestInviteValidate(t *testing.T) {
	t.Parallel()

	invite := Invite{ChatID: "a-b", From: "a", To: "b", Status: StatusPending}
	require.NoError(t, invite.Validate())

	require.Error(t, Invite{ChatID: "a-b", From: "a", To: "b", Status: StatusInactive}.Validate())
	require.Error(t, Invite{ChatID: "a-b", Status: StatusPending}.Validate())
}

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	message := Message{ChatID: "a-b", MessageID: "m1", SenderID: "a", Text: "hi"}
	require.NoError(t, message.Validate())

	require.Error(t, Message{ChatID: "a-b", MessageID: "m1", SenderID: "a"}.Validate())
	require.Error(t, Message{MessageID: "m1", SenderID: "a", Text: "hi"}.Validate())
}

func TestUserChatValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, UserChat{UserID: "a", ChatID: "a-b"}.Validate())
	require.Error(t, UserChat{UserID: "a"}.Validate())
}
