package services

import (
	"coopnotes_server/apperrors"
	"coopnotes_server/models"
)

// ComputeChatID derives the key both participants share for their chat:
// the lexicographically smaller user id first, joined by the separator.
// ComputeChatID(a, b) == ComputeChatID(b, a) for any two distinct ids.
func ComputeChatID(idA, idB string) (string, error) {
	if idA == "" || idB == "" {
		return "", apperrors.InvalidArg("user ids cannot be empty")
	}
	if idA == idB {
		return "", apperrors.InvalidArg("cannot open a chat with yourself")
	}
	if idA < idB {
		return idA + models.ChatIDSeparator + idB, nil
	}
	return idB + models.ChatIDSeparator + idA, nil
}
