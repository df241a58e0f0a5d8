// AngelaMos | 2026
// repository.go

package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/angelamos/inbox-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	SetRead(ctx context.Context, id string, read bool) (*Message, error)
	Reply(ctx context.Context, id, response string) (*Message, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListMessagesParams) ([]Message, Stats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const messageColumns = `
	id, first_name, last_name, phone, email, message,
	is_read, is_replied, response,
	created_at, updated_at, replied_at, deleted_at`

func (r *repository) Create(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (id, first_name, last_name, phone, email, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_read, is_replied, created_at, updated_at`

	err := r.db.GetContext(ctx, msg, query,
		msg.ID,
		msg.FirstName,
		msg.LastName,
		msg.Phone,
		msg.Email,
		msg.Message,
	)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// GetByID only sees active records: a soft-deleted message is indistinguishable
// from a missing one to every caller of this method.
func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Message, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM messages
		WHERE id = $1 AND deleted_at IS NULL`, messageColumns)

	var msg Message
	err := r.db.GetContext(ctx, &msg, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get message: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}

	return &msg, nil
}

func (r *repository) SetRead(
	ctx context.Context,
	id string,
	read bool,
) (*Message, error) {
	query := fmt.Sprintf(`
		UPDATE messages
		SET is_read = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s`, messageColumns)

	var msg Message
	err := r.db.GetContext(ctx, &msg, query, id, read)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set read: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set read: %w", err)
	}

	return &msg, nil
}

// Reply attaches the response and flips both lifecycle flags in one atomic
// UPDATE, so is_replied can never be observed without is_read, response, and
// replied_at.
func (r *repository) Reply(
	ctx context.Context,
	id, response string,
) (*Message, error) {
	query := fmt.Sprintf(`
		UPDATE messages
		SET response = $2,
		    is_replied = true,
		    is_read = true,
		    replied_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s`, messageColumns)

	var msg Message
	err := r.db.GetContext(ctx, &msg, query, id, response)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reply: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reply: %w", err)
	}

	return &msg, nil
}

// SoftDelete is idempotent: deleting an already-deleted message is a no-op
// success. Only a message that never existed is NotFound.
func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE messages
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete message: %w", err)
	}

	if rows == 0 {
		var exists bool
		existsQuery := `SELECT EXISTS(SELECT 1 FROM messages WHERE id = $1)`
		if err := r.db.GetContext(ctx, &exists, existsQuery, id); err != nil {
			return fmt.Errorf("soft delete message: %w", err)
		}
		if !exists {
			return fmt.Errorf("soft delete message: %w", core.ErrNotFound)
		}
	}

	return nil
}

// HardDelete removes the row regardless of soft-delete state. Terminal.
func (r *repository) HardDelete(ctx context.Context, id string) error {
	query := `DELETE FROM messages WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("hard delete message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("hard delete message: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("hard delete message: %w", core.ErrNotFound)
	}

	return nil
}

var sortColumns = map[string]string{
	SortByCreatedAt: "created_at",
	SortByEmail:     "email",
	SortByIsRead:    "is_read",
}

// List runs four queries against one composed predicate set: the page itself,
// the total, and the unread/unreplied counts. Counts are recomputed per
// request rather than cached; admins triage by these numbers and staleness
// under concurrent mutation is worse than three extra reads.
func (r *repository) List(
	ctx context.Context,
	params ListMessagesParams,
) ([]Message, Stats, error) {
	q := buildListSQL(params)

	var stats Stats

	if err := r.db.GetContext(ctx, &stats.Total, q.total, q.countArgs...); err != nil {
		return nil, Stats{}, fmt.Errorf("count messages: %w", err)
	}

	if err := r.db.GetContext(ctx, &stats.Unread, q.unread, q.countArgs...); err != nil {
		return nil, Stats{}, fmt.Errorf("count unread messages: %w", err)
	}

	if err := r.db.GetContext(ctx, &stats.Unreplied, q.unreplied, q.countArgs...); err != nil {
		return nil, Stats{}, fmt.Errorf("count unreplied messages: %w", err)
	}

	var messages []Message
	if err := r.db.SelectContext(ctx, &messages, q.page, q.pageArgs...); err != nil {
		return nil, Stats{}, fmt.Errorf("list messages: %w", err)
	}

	return messages, stats, nil
}

// listSQL holds the four statements List executes. The counts share the
// page's predicate and argument list so they always describe the same view
// the page was cut from.
type listSQL struct {
	page      string
	total     string
	unread    string
	unreplied string
	countArgs []any
	pageArgs  []any
}

func buildListSQL(params ListMessagesParams) listSQL {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	// Active and deleted are mutually exclusive views: there is no
	// "everything including deleted" mode.
	if params.ShowDeleted {
		conditions = append(conditions, "deleted_at IS NOT NULL")
	} else {
		conditions = append(conditions, "deleted_at IS NULL")
	}

	switch params.Filter {
	case FilterUnread:
		conditions = append(conditions, "is_read = false")
	case FilterUnreplied:
		conditions = append(conditions, "is_replied = false")
	}

	if params.Search != "" {
		pattern := fmt.Sprintf(
			"(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d"+
				" OR message ILIKE $%d OR COALESCE(response, '') ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx, argIdx,
		)
		conditions = append(conditions, pattern)
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}

	page := fmt.Sprintf(`
		SELECT %s
		FROM messages
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		messageColumns,
		where,
		sortColumns[params.SortBy],
		direction,
		argIdx, argIdx+1,
	)

	pageArgs := make([]any, 0, len(args)+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, params.Limit, params.Offset())

	return listSQL{
		page: page,
		total: fmt.Sprintf(
			"SELECT COUNT(*) FROM messages WHERE %s",
			where,
		),
		unread: fmt.Sprintf(
			"SELECT COUNT(*) FROM messages WHERE %s AND is_read = false",
			where,
		),
		unreplied: fmt.Sprintf(
			"SELECT COUNT(*) FROM messages WHERE %s AND is_replied = false",
			where,
		),
		countArgs: args,
		pageArgs:  pageArgs,
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
