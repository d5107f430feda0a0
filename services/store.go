package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"coopnotes_server/apperrors"
	"coopnotes_server/models"
	"coopnotes_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ChatStore is the document-store capability the chat core consumes.
// DynamoChatStore backs it in production; MemoryChatStore backs tests
// and local development. Every method surfaces failures as typed
// apperrors values and never swallows a store error.
type ChatStore interface {
	GetChat(ctx context.Context, chatID string) (*models.Chat, error)
	PutChat(ctx context.Context, chat models.Chat) error
	UpdateChatMembers(ctx context.Context, chatID string, users, leftUsers []string) error
	UpdateChatStatus(ctx context.Context, chatID, status string) error
	DepartedChatsByUserID(ctx context.Context, userID string) ([]models.Chat, error)

	GetInvite(ctx context.Context, chatID string) (*models.Invite, error)
	PutInvite(ctx context.Context, invite models.Invite) error
	UpdateInviteStatus(ctx context.Context, chatID, status string) error

	PutUserChats(ctx context.Context, records []models.UserChat) error
	DeleteUserChat(ctx context.Context, userID, chatID string) error
	UserChatsByUserID(ctx context.Context, userID string) ([]models.UserChat, error)

	PutMessage(ctx context.Context, message models.Message) error
	MessagesByChatID(ctx context.Context, chatID string) ([]models.Message, error)

	PutProfile(ctx context.Context, profile models.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	ProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error)
}

// DynamoChatStore implements ChatStore over DynamoDB.
type DynamoChatStore struct {
	Dynamo *DynamoService
}

func stringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// isConditionalCheckFailed reports whether err is DynamoDB rejecting a
// write because its ConditionExpression did not hold.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// sortMessages orders a log chronologically. The timestamps are parsed
// rather than compared as strings so entries with variable-width
// fractional seconds still land in createdAt order.
func sortMessages(messages []models.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		ti, errI := time.Parse(time.RFC3339Nano, messages[i].CreatedAt)
		tj, errJ := time.Parse(time.RFC3339Nano, messages[j].CreatedAt)
		if errI != nil || errJ != nil {
			return messages[i].CreatedAt < messages[j].CreatedAt
		}
		return ti.Before(tj)
	})
}

func (s *DynamoChatStore) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ChatsTable, stringKey("chatId", chatID))
	if err != nil {
		return nil, apperrors.StoreFailure("failed to fetch chat", err)
	}
	if item == nil {
		return nil, apperrors.NotFound("chat does not exist")
	}

	var chat models.Chat
	if err := attributevalue.UnmarshalMap(item, &chat); err != nil {
		return nil, apperrors.StoreFailure("failed to parse chat document", err)
	}
	if err := chat.Validate(); err != nil {
		return nil, apperrors.StoreFailure("malformed chat document", err)
	}
	return &chat, nil
}

func (s *DynamoChatStore) PutChat(ctx context.Context, chat models.Chat) error {
	if err := chat.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "refusing to store malformed chat", err)
	}
	if err := s.Dynamo.PutItem(ctx, models.ChatsTable, chat); err != nil {
		return apperrors.StoreFailure("failed to store chat", err)
	}
	return nil
}

func (s *DynamoChatStore) UpdateChatMembers(ctx context.Context, chatID string, users, leftUsers []string) error {
	updateExpression := "SET #u = :users, #l = :leftUsers"
	expressionValues := map[string]types.AttributeValue{
		":users":     stringListAttribute(users),
		":leftUsers": stringListAttribute(leftUsers),
	}
	expressionNames := map[string]string{
		"#u": "users",
		"#l": "leftUsers",
	}

	_, err := s.Dynamo.UpdateItem(ctx, models.ChatsTable, updateExpression, "attribute_exists(chatId)", stringKey("chatId", chatID), expressionValues, expressionNames)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NotFound("chat does not exist")
		}
		return apperrors.StoreFailure("failed to update chat members", err)
	}
	return nil
}

func (s *DynamoChatStore) UpdateChatStatus(ctx context.Context, chatID, status string) error {
	updateExpression := "SET #s = :status"
	expressionValues := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
	}
	expressionNames := map[string]string{
		"#s": "status", // reserved word in DynamoDB expressions
	}

	_, err := s.Dynamo.UpdateItem(ctx, models.ChatsTable, updateExpression, "attribute_exists(chatId)", stringKey("chatId", chatID), expressionValues, expressionNames)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NotFound("chat does not exist")
		}
		return apperrors.StoreFailure("failed to update chat status", err)
	}
	return nil
}

// DepartedChatsByUserID scans for chats whose leftUsers contains userID.
// A scan is acceptable here: the departed set per user is tiny and the
// original product surfaces it on a single low-traffic screen.
func (s *DynamoChatStore) DepartedChatsByUserID(ctx context.Context, userID string) ([]models.Chat, error) {
	items, err := s.Dynamo.ScanItems(ctx, models.ChatsTable,
		"contains(#l, :userId)",
		map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
		map[string]string{"#l": "leftUsers"},
	)
	if err != nil {
		return nil, apperrors.StoreFailure("failed to scan departed chats", err)
	}

	chats := make([]models.Chat, 0, len(items))
	for _, item := range items {
		chat := models.Chat{
			ChatID:     utils.ExtractString(item, "chatId"),
			Users:      utils.ExtractStringList(item, "users"),
			LeftUsers:  utils.ExtractStringList(item, "leftUsers"),
			UserEmails: utils.ExtractStringList(item, "userEmails"),
			Status:     utils.ExtractString(item, "status"),
			CreatedAt:  utils.ExtractString(item, "createdAt"),
		}
		if err := chat.Validate(); err != nil {
			return nil, apperrors.StoreFailure("malformed chat document", err)
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func (s *DynamoChatStore) GetInvite(ctx context.Context, chatID string) (*models.Invite, error) {
	item, err := s.Dynamo.GetItem(ctx, models.InvitesTable, stringKey("chatId", chatID))
	if err != nil {
		return nil, apperrors.StoreFailure("failed to fetch invite", err)
	}
	if item == nil {
		return nil, apperrors.NotFound("invite does not exist")
	}

	var invite models.Invite
	if err := attributevalue.UnmarshalMap(item, &invite); err != nil {
		return nil, apperrors.StoreFailure("failed to parse invite document", err)
	}
	if err := invite.Validate(); err != nil {
		return nil, apperrors.StoreFailure("malformed invite document", err)
	}
	return &invite, nil
}

func (s *DynamoChatStore) PutInvite(ctx context.Context, invite models.Invite) error {
	if err := invite.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "refusing to store malformed invite", err)
	}
	if err := s.Dynamo.PutItem(ctx, models.InvitesTable, invite); err != nil {
		return apperrors.StoreFailure("failed to store invite", err)
	}
	return nil
}

func (s *DynamoChatStore) UpdateInviteStatus(ctx context.Context, chatID, status string) error {
	updateExpression := "SET #s = :status"
	expressionValues := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
	}
	expressionNames := map[string]string{
		"#s": "status",
	}

	_, err := s.Dynamo.UpdateItem(ctx, models.InvitesTable, updateExpression, "attribute_exists(chatId)", stringKey("chatId", chatID), expressionValues, expressionNames)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NotFound("invite does not exist")
		}
		return apperrors.StoreFailure("failed to update invite status", err)
	}
	return nil
}

// PutUserChats writes the per-user chat pointers as one batch.
func (s *DynamoChatStore) PutUserChats(ctx context.Context, records []models.UserChat) error {
	writeRequests := make([]types.WriteRequest, 0, len(records))
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidArgument, "refusing to store malformed user chat", err)
		}
		item, err := attributevalue.MarshalMap(record)
		if err != nil {
			return apperrors.StoreFailure("failed to marshal user chat", err)
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	if err := s.Dynamo.BatchWriteItems(ctx, models.UserChatsTable, writeRequests); err != nil {
		return apperrors.StoreFailure("failed to store user chats", err)
	}
	return nil
}

func (s *DynamoChatStore) DeleteUserChat(ctx context.Context, userID, chatID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	if err := s.Dynamo.DeleteItem(ctx, models.UserChatsTable, key); err != nil {
		return apperrors.StoreFailure("failed to delete user chat", err)
	}
	return nil
}

func (s *DynamoChatStore) UserChatsByUserID(ctx context.Context, userID string) ([]models.UserChat, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.UserChatsTable,
		"userId = :userId",
		map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
		nil, 0)
	if err != nil {
		return nil, apperrors.StoreFailure("failed to query user chats", err)
	}

	var records []models.UserChat
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, apperrors.StoreFailure("failed to parse user chat documents", err)
	}
	return records, nil
}

func (s *DynamoChatStore) PutMessage(ctx context.Context, message models.Message) error {
	if err := message.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "refusing to store malformed message", err)
	}
	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return apperrors.StoreFailure("failed to store message", err)
	}
	return nil
}

// MessagesByChatID returns the full log sorted ascending by createdAt.
func (s *DynamoChatStore) MessagesByChatID(ctx context.Context, chatID string) ([]models.Message, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable,
		"chatId = :chatId",
		map[string]types.AttributeValue{
			":chatId": &types.AttributeValueMemberS{Value: chatID},
		},
		nil, 0)
	if err != nil {
		return nil, apperrors.StoreFailure("failed to query messages", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, apperrors.StoreFailure("failed to parse message documents", err)
	}

	// The table's sort key is messageId, so order on read.
	sortMessages(messages)
	return messages, nil
}

func (s *DynamoChatStore) PutProfile(ctx context.Context, profile models.UserProfile) error {
	if err := s.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return apperrors.StoreFailure("failed to store profile", err)
	}
	return nil
}

func (s *DynamoChatStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, stringKey("userId", userID))
	if err != nil {
		return nil, apperrors.StoreFailure("failed to fetch profile", err)
	}
	if item == nil {
		return nil, apperrors.NotFound("profile does not exist")
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, apperrors.StoreFailure("failed to parse profile document", err)
	}
	return &profile, nil
}

func (s *DynamoChatStore) ProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, models.UserProfilesEmailIndex,
		"email = :email",
		map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		nil, 1)
	if err != nil {
		return nil, apperrors.StoreFailure("failed to query profile by email", err)
	}
	if len(items) == 0 {
		return nil, apperrors.NotFound("no user with this email")
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &profile); err != nil {
		return nil, apperrors.StoreFailure("failed to parse profile document", err)
	}
	return &profile, nil
}

func stringListAttribute(values []string) types.AttributeValue {
	list := make([]types.AttributeValue, 0, len(values))
	for _, v := range values {
		list = append(list, &types.AttributeValueMemberS{Value: v})
	}
	return &types.AttributeValueMemberL{Value: list}
}
