package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/chatthy/chatthy/models"
)

// psql is the shared squirrel builder configured for PostgreSQL ($N)
// placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	sessionsTable = "sessions"
	messagesTable = "messages"
)

var (
	sessionColumns = []string{"id", "title", "backend", "created_at", "last_activity_at"}
	messageColumns = []string{"id", "session_id", "seq", "role", "content", "status", "created_at"}
)

// buildUpsertSessionQuery builds the INSERT .. ON CONFLICT statement that
// persists a session row. Conflicting rows keep their identifier and creation
// time; title, backend, and activity timestamp are refreshed.
func buildUpsertSessionQuery(meta models.SessionMeta) (string, []any, error) {
	query, args, err := psql.
		Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(meta.ID, meta.Title, meta.Backend, meta.CreatedAt, meta.LastActivityAt).
		Suffix(`ON CONFLICT (id) DO UPDATE
			SET title = EXCLUDED.title,
			    backend = EXCLUDED.backend,
			    last_activity_at = EXCLUDED.last_activity_at`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildUpsertMessageQuery builds the INSERT .. ON CONFLICT statement that
// persists one message row. A re-persisted message (e.g. a finalize retried
// after a transient failure) refreshes content and status in place.
func buildUpsertMessageQuery(msg models.Message) (string, []any, error) {
	query, args, err := psql.
		Insert(messagesTable).
		Columns(messageColumns...).
		Values(msg.ID, msg.SessionID, msg.Seq, msg.Role, msg.Content, msg.Status, msg.CreatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE
			SET content = EXCLUDED.content,
			    status = EXCLUDED.status`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildGetSessionQuery builds the SELECT for one session row by id.
func buildGetSessionQuery(sessionID string) (string, []any, error) {
	query, args, err := psql.
		Select(sessionColumns...).
		From(sessionsTable).
		Where(sq.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildGetMessagesQuery builds the SELECT returning a session's full history
// in sequence order.
func buildGetMessagesQuery(sessionID string) (string, []any, error) {
	query, args, err := psql.
		Select(messageColumns...).
		From(messagesTable).
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildListSessionsQuery builds the SELECT returning every session row with
// its message count, most recently active first.
func buildListSessionsQuery() (string, []any, error) {
	query, args, err := psql.
		Select(
			"s.id",
			"s.title",
			"s.backend",
			"s.created_at",
			"s.last_activity_at",
			"COUNT(m.id) AS message_count",
		).
		From(sessionsTable + " s").
		LeftJoin(messagesTable + " m ON m.session_id = s.id").
		GroupBy("s.id").
		OrderBy("s.last_activity_at DESC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildDeleteSessionQuery builds the DELETE for one session row. Message rows
// are removed by the ON DELETE CASCADE constraint.
func buildDeleteSessionQuery(sessionID string) (string, []any, error) {
	query, args, err := psql.
		Delete(sessionsTable).
		Where(sq.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
