package domain

import "time"

// Minimum lengths for user-authored ticket fields.
const (
	SupportTitleMinLen   = 5
	SupportContentMinLen = 20
)

// SupportTicket is mutable by its author only until an admin replies;
// IsReviewed is permanently true afterwards.
type SupportTicket struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content"`
	IsReviewed bool      `db:"is_reviewed" json:"is_reviewed"`
	AdminReply string    `db:"admin_reply" json:"admin_reply,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
