package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

func TestExtractString(t *testing.T) {
	t.Parallel()

	item := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: "a-b"},
		"count":  &types.AttributeValueMemberN{Value: "3"},
	}

	require.Equal(t, "a-b", ExtractString(item, "chatId"))
	require.Equal(t, "", ExtractString(item, "missing"))
	require.Equal(t, "", ExtractString(item, "count")) // wrong type
}

func TestExtractStringList(t *testing.T) {
	t.Parallel()

	item := map[string]types.AttributeValue{
		"users": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "alice"},
			&types.AttributeValueMemberS{Value: "bob"},
		}},
		"status": &types.AttributeValueMemberS{Value: "active"},
	}

	require.Equal(t, []string{"alice", "bob"}, ExtractStringList(item, "users"))
	require.Nil(t, ExtractStringList(item, "missing"))
	require.Nil(t, ExtractStringList(item, "status")) // not a list
}
