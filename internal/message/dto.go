// AngelaMos | 2026
// dto.go

package message

import (
	"strings"
	"time"
)

type CreateMessageRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName"  validate:"omitempty,max=100"`
	Phone     string `json:"phone"     validate:"omitempty,e164"`
	Email     string `json:"email"     validate:"required,email,max=255"`
	Message   string `json:"message"   validate:"required,min=5,max=2000"`
}

// Normalize trims the contact fields and lowercases the email. It runs
// before validation so the length limits apply to the values that would be
// stored, not to surrounding whitespace.
func (r *CreateMessageRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Message = strings.TrimSpace(r.Message)
}

// UpdateMessageRequest mutates a message's lifecycle state. At least one of
// MarkRead and Response must be present; the handler rejects empty updates.
type UpdateMessageRequest struct {
	ID       string  `json:"id"       validate:"required,uuid4"`
	MarkRead *bool   `json:"markRead"`
	Response *string `json:"response" validate:"omitempty,min=1,max=5000"`
}

const (
	FilterAll       = "all"
	FilterUnread    = "unread"
	FilterUnreplied = "unreplied"
)

const (
	SortByCreatedAt = "createdAt"
	SortByEmail     = "email"
	SortByIsRead    = "isRead"
)

// ListMessagesParams is the typed filter set the query engine consumes.
// Malformed input is normalized to defaults, never rejected.
type ListMessagesParams struct {
	Page        int
	Limit       int
	Filter      string
	Search      string
	ShowDeleted bool
	SortBy      string
	SortOrder   string
}

func (p *ListMessagesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}

	switch p.Filter {
	case FilterUnread, FilterUnreplied:
	default:
		p.Filter = FilterAll
	}

	switch p.SortBy {
	case SortByEmail, SortByIsRead:
	default:
		p.SortBy = SortByCreatedAt
	}

	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
}

func (p *ListMessagesParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Stats are always computed against the current filter/search/delete scope,
// not globally: "unread: 3" on a search means 3 unread matches of it.
type Stats struct {
	Total     int `json:"total"`
	Unread    int `json:"unread"`
	Unreplied int `json:"unreplied"`
}

type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type MessageResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"isRead"`
	IsReplied bool       `json:"isReplied"`
	Response  *string    `json:"response,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	RepliedAt *time.Time `json:"repliedAt,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// ListMessagesResponse is the stable contract the admin dashboard renders.
type ListMessagesResponse struct {
	Messages   []MessageResponse `json:"messages"`
	Stats      Stats             `json:"stats"`
	Pagination Pagination        `json:"pagination"`
}

// UpdateMessageResponse carries the three-way outcome: full success,
// persisted-but-unnotified, or failure (the error path). Notified is only
// present when the update involved a reply.
type UpdateMessageResponse struct {
	Message  MessageResponse `json:"message"`
	Notified *bool           `json:"notified,omitempty"`
}

type DeleteMessageResponse struct {
	ID        string `json:"id"`
	Permanent bool   `json:"permanent"`
}

func ToMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Email:     m.Email,
		Message:   m.Message,
		IsRead:    m.IsRead,
		IsReplied: m.IsReplied,
		Response:  m.Response,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		RepliedAt: m.RepliedAt,
		DeletedAt: m.DeletedAt,
	}
}

func ToMessageResponseList(messages []Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, ToMessageResponse(&m))
	}
	return responses
}

func BuildPagination(page, limit, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
}
