// AngelaMos | 2026
// repository_test.go

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListSQL_ActiveAndDeletedViewsAreExclusive(t *testing.T) {
	active := buildListSQL(ListMessagesParams{})
	assert.Contains(t, active.total, "deleted_at IS NULL")
	assert.NotContains(t, active.total, "deleted_at IS NOT NULL")
	assert.Contains(t, active.page, "deleted_at IS NULL")
	assert.NotContains(t, active.page, "deleted_at IS NOT NULL")

	deleted := buildListSQL(ListMessagesParams{ShowDeleted: true})
	assert.Contains(t, deleted.total, "deleted_at IS NOT NULL")
	assert.Contains(t, deleted.page, "deleted_at IS NOT NULL")
}

// Filter and search predicates compose with AND: a filtered search never
// widens to either predicate alone.
func TestBuildListSQL_FilterAndSearchCompose(t *testing.T) {
	q := buildListSQL(ListMessagesParams{
		Filter: FilterUnread,
		Search: "alice",
	})

	want := "SELECT COUNT(*) FROM messages WHERE deleted_at IS NULL" +
		" AND is_read = false" +
		" AND (email ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1" +
		" OR message ILIKE $1 OR COALESCE(response, '') ILIKE $1)"
	assert.Equal(t, want, q.total)
	assert.Equal(t, []any{"%alice%"}, q.countArgs)

	unreplied := buildListSQL(ListMessagesParams{Filter: FilterUnreplied})
	assert.Contains(t, unreplied.total, "is_replied = false")
	assert.NotContains(t, unreplied.total, "is_read = false")
}

// The unread/unreplied counts carry the full view predicate, so a search
// for "alice" reports unread matches of that search, not global unread.
func TestBuildListSQL_CountsAreScopedToTheView(t *testing.T) {
	q := buildListSQL(ListMessagesParams{Search: "alice"})

	assert.Equal(t, q.total+" AND is_read = false", q.unread)
	assert.Equal(t, q.total+" AND is_replied = false", q.unreplied)

	assert.Contains(t, q.unread, "ILIKE $1")
	assert.Contains(t, q.unreplied, "ILIKE $1")
}

func TestBuildListSQL_EscapesLikeWildcards(t *testing.T) {
	q := buildListSQL(ListMessagesParams{Search: `50%_off\`})

	require.Len(t, q.countArgs, 1)
	assert.Equal(t, "%50\\%\\_off\\\\%", q.countArgs[0])
}

func TestBuildListSQL_SortWhitelistAndPlaceholders(t *testing.T) {
	q := buildListSQL(ListMessagesParams{
		Page:      3,
		Limit:     10,
		SortBy:    SortByEmail,
		SortOrder: "asc",
	})
	assert.Contains(t, q.page, "ORDER BY email ASC")
	assert.Contains(t, q.page, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{10, 20}, q.pageArgs)

	// Unknown sort input falls back through Normalize to the default column.
	q = buildListSQL(ListMessagesParams{SortBy: "phone; DROP TABLE messages"})
	assert.Contains(t, q.page, "ORDER BY created_at DESC")

	// With a search term the limit/offset placeholders shift past it.
	q = buildListSQL(ListMessagesParams{Search: "alice"})
	assert.Contains(t, q.page, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{"%alice%", 20, 0}, q.pageArgs)
}
