package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/models"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository]. It executes all session and message persistence
// operations against the "sessions" and "messages" tables using the embedded
// [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so all database interactions are traced with
// structured fields (session_id, message_id, pg error codes).
type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveSession upserts the session row. Transiently failing statements
// (connection loss, serialization failure) are retried once.
func (r *sessionRepository) SaveSession(ctx context.Context, meta models.SessionMeta) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertSessionQuery(meta)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.SaveSession").
			Str("session_id", meta.ID).
			Msg("failed to create query")
		return err
	}

	if err := r.execRetryable(ctx, query, args); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.SaveSession").
			Str("session_id", meta.ID).
			Str("pg_code", postgresError(err)).
			Msg("failed to execute statement for saving session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// SaveMessage upserts one message row.
func (r *sessionRepository) SaveMessage(ctx context.Context, msg models.Message) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertMessageQuery(msg)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.SaveMessage").
			Str("session_id", msg.SessionID).
			Str("message_id", msg.ID).
			Msg("failed to create query")
		return err
	}

	if err := r.execRetryable(ctx, query, args); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.SaveMessage").
			Str("session_id", msg.SessionID).
			Str("message_id", msg.ID).
			Str("pg_code", postgresError(err)).
			Msg("failed to execute statement for saving message")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// GetSession loads the session row and its full ordered history.
//
// Returns [ErrSessionNotFound] when no row exists for the given id.
func (r *sessionRepository) GetSession(ctx context.Context, id string) (models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetSessionQuery(id)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.GetSession").
			Str("session_id", id).
			Msg("failed to create query")
		return models.Session{}, err
	}

	var session models.Session
	row := r.DB.QueryRowContext(ctx, query, args...)
	scanErr := row.Scan(
		&session.ID,
		&session.Title,
		&session.Backend,
		&session.CreatedAt,
		&session.LastActivityAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}

		log.Err(scanErr).
			Str("func", "sessionRepository.GetSession").
			Str("session_id", id).
			Msg("failed to scan session row")
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	session.Messages, err = r.getMessages(ctx, id)
	if err != nil {
		return models.Session{}, err
	}

	return session, nil
}

// getMessages returns the session's history ordered by sequence number.
func (r *sessionRepository) getMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetMessagesQuery(sessionID)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.getMessages").
			Str("session_id", sessionID).
			Msg("failed to create query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.getMessages").
			Str("session_id", sessionID).
			Msg("failed to execute query for getting session messages")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0, 50)

	for rows.Next() {
		var msg models.Message

		scanErr := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.Seq,
			&msg.Role,
			&msg.Content,
			&msg.Status,
			&msg.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "sessionRepository.getMessages").
				Str("session_id", sessionID).
				Msg("failed to scan message row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		messages = append(messages, msg)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "sessionRepository.getMessages").
			Str("session_id", sessionID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return messages, nil
}

// ListSessions returns metadata of every persisted session, most recently
// active first.
func (r *sessionRepository) ListSessions(ctx context.Context) ([]models.SessionMeta, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListSessionsQuery()
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.ListSessions").
			Msg("failed to create query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.ListSessions").
			Msg("failed to execute query for listing sessions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	metas := make([]models.SessionMeta, 0, 50)

	for rows.Next() {
		var meta models.SessionMeta

		scanErr := rows.Scan(
			&meta.ID,
			&meta.Title,
			&meta.Backend,
			&meta.CreatedAt,
			&meta.LastActivityAt,
			&meta.MessageCount,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "sessionRepository.ListSessions").
				Msg("failed to scan session row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		metas = append(metas, meta)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "sessionRepository.ListSessions").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return metas, nil
}

// DeleteSession removes the session row; message rows cascade.
func (r *sessionRepository) DeleteSession(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteSessionQuery(id)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.DeleteSession").
			Str("session_id", id).
			Msg("failed to create query")
		return err
	}

	if err := r.execRetryable(ctx, query, args); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.DeleteSession").
			Str("session_id", id).
			Str("pg_code", postgresError(err)).
			Msg("failed to execute statement for deleting session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// execRetryable runs a statement and, when the classifier marks the failure
// as retryable (connection loss, deadlock rollback), attempts it one more
// time before giving up.
func (r *sessionRepository) execRetryable(ctx context.Context, query string, args []any) error {
	_, err := r.DB.ExecContext(ctx, query, args...)
	if err == nil {
		return nil
	}

	if r.errorClassificator.Classify(err) != Retryable {
		return err
	}

	_, retryErr := r.DB.ExecContext(ctx, query, args...)
	if retryErr != nil {
		return retryErr
	}

	return nil
}
