// Package domain defines the persistence models for users, histories, and
// messages. These types are mapped with GORM and form the core data layer
// of the summarizer backend.
package domain

import "time"

// Role values allowed for a message turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User represents a registered account. The password column stores a bcrypt
// hash only; the plaintext never reaches this layer.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: unique handle chosen at registration.
//   - Email: unique, validated address used for login.
//   - Password: bcrypt hash of the user's password.
//   - CreatedAt: timestamp managed by GORM.
type User struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Username  string    `json:"username"   gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	Email     string    `json:"email"      gorm:"type:varchar(320);not null;uniqueIndex:ux_users_email"`
	Password  string    `json:"-"          gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// History represents a conversation thread owned by a user. A history is
// created explicitly via the save endpoint or implicitly the first time a
// message arrives without a history id.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: identifier of the owning user; indexed for recency listings.
//   - CreatedAt: creation timestamp (UTC).
type History struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index:idx_user_histories"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for History.
func (History) TableName() string { return "history" }

// Message represents a single utterance within a history thread. Messages are
// append-only and authored either by the "user" or the "assistant".
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - HistoryID: foreign key to the owning history (indexed with Timestamp).
//   - Role: "user" or "assistant" (enforced by DB constraint).
//   - Content: full text content of the turn.
//   - Timestamp: logical turn time; defaults to write time when absent.
//   - History: FK association; messages are cascade-deleted with their history.
type Message struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	HistoryID string    `json:"history_id" gorm:"type:char(36);not null;index:idx_history_msgs,priority:1"`
	Role      string    `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp"  gorm:"index:idx_history_msgs,priority:2"`

	// History is the parent thread. Deleting a history removes its messages.
	History History `json:"-" gorm:"foreignKey:HistoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// ValidRole reports whether r is an accepted message role.
func ValidRole(r string) bool { return r == RoleUser || r == RoleAssistant }
