package services

import (
	"context"
	"fmt"
	"testing"

	"coopnotes_server/apperrors"
	"coopnotes_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

// Updates are not upserts: touching a document that does not exist must
// fail with NOT_FOUND instead of creating it.
func TestMemoryChatStore_UpdateAbsentDocument(t *testing.T) {
	t.Parallel()

	store := NewMemoryChatStore()
	ctx := context.Background()

	err := store.UpdateChatMembers(ctx, "alice-bob", []string{"alice"}, nil)
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	err = store.UpdateChatStatus(ctx, "alice-bob", models.StatusActive)
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	err = store.UpdateInviteStatus(ctx, "alice-bob", models.StatusActive)
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = store.GetChat(ctx, "alice-bob")
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	_, err = store.GetInvite(ctx, "alice-bob")
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestConditionalCheckFailedDetection(t *testing.T) {
	t.Parallel()

	// Wrapped the way DynamoService surfaces SDK errors.
	wrapped := fmt.Errorf("failed to update item in table 'Chats': %w",
		&types.ConditionalCheckFailedException{})
	require.True(t, isConditionalCheckFailed(wrapped))
	require.False(t, isConditionalCheckFailed(context.DeadlineExceeded))
	require.False(t, isConditionalCheckFailed(nil))
}
