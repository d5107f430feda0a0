package services

import (
	"testing"

	"coopnotes_server/apperrors"

	"github.com/stretchr/testify/require"
)

func TestComputeChatID_OrderIndependent(t *testing.T) {
	t.Parallel()

	ab, err := ComputeChatID("alice", "bob")
	require.NoError(t, err)
	ba, err := ComputeChatID("bob", "alice")
	require.NoError(t, err)

	require.Equal(t, ab, ba)
	require.Equal(t, "alice-bob", ab)
}

func TestComputeChatID_SmallerIDFirst(t *testing.T) {
	t.Parallel()

	id, err := ComputeChatID("zed", "amy")
	require.NoError(t, err)
	require.Equal(t, "amy-zed", id)
}

func TestComputeChatID_SelfChat(t *testing.T) {
	t.Parallel()

	_, err := ComputeChatID("alice", "alice")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestComputeChatID_EmptyID(t *testing.T) {
	t.Parallel()

	_, err := ComputeChatID("", "bob")
	require.Error(t, err)
	require.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}
