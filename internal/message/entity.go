// AngelaMos | 2026
// entity.go

package message

import (
	"time"
)

// Message is a visitor-submitted contact record. The two lifecycle flags are
// orthogonal, with one directed coupling: replying always marks the message
// read. A set deleted_at hides the record from default views without
// destroying it.
type Message struct {
	ID        string     `db:"id"`
	FirstName string     `db:"first_name"`
	LastName  string     `db:"last_name"`
	Phone     string     `db:"phone"`
	Email     string     `db:"email"`
	Message   string     `db:"message"`
	IsRead    bool       `db:"is_read"`
	IsReplied bool       `db:"is_replied"`
	Response  *string    `db:"response"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	RepliedAt *time.Time `db:"replied_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (m *Message) IsDeleted() bool {
	return m.DeletedAt != nil
}

// SenderName joins the optional name fields for notification greetings.
func (m *Message) SenderName() string {
	switch {
	case m.FirstName != "" && m.LastName != "":
		return m.FirstName + " " + m.LastName
	case m.FirstName != "":
		return m.FirstName
	default:
		return m.LastName
	}
}
