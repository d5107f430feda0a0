package models

// ✅ Chat / Invite Statuses
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ChatIDSeparator joins the two participant ids of a private chat,
// smaller id first, so both sides derive the same key.
const ChatIDSeparator = "-"
