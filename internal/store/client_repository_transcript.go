package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/models"
)

// transcriptRepository is the SQLite-backed implementation of
// [TranscriptRepository].
type transcriptRepository struct {
	*DB
	logger *logger.Logger
}

// NewTranscriptRepository constructs a [TranscriptRepository] backed by the
// provided SQLite connection and logger.
func NewTranscriptRepository(db *DB, logger *logger.Logger) TranscriptRepository {
	return &transcriptRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *transcriptRepository) SaveSession(ctx context.Context, meta models.SessionMeta) error {
	_, err := r.DB.ExecContext(ctx, cacheUpsertSession,
		meta.ID, meta.Title, meta.Backend, meta.CreatedAt, meta.LastActivityAt)
	if err != nil {
		r.logger.Err(err).
			Str("func", "transcriptRepository.SaveSession").
			Str("session_id", meta.ID).
			Msg("failed to cache session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// SaveMessages writes the batch in one transaction so a partially cached
// history never becomes visible.
func (r *transcriptRepository) SaveMessages(ctx context.Context, msgs []models.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Err(err).
			Str("func", "transcriptRepository.SaveMessages").
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for _, msg := range msgs {
		_, execErr := tx.ExecContext(ctx, cacheUpsertMessage,
			msg.ID, msg.SessionID, msg.Seq, msg.Role, msg.Content, msg.Status, msg.CreatedAt)
		if execErr != nil {
			_ = tx.Rollback()
			r.logger.Err(execErr).
				Str("func", "transcriptRepository.SaveMessages").
				Str("session_id", msg.SessionID).
				Str("message_id", msg.ID).
				Msg("failed to cache message")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Err(err).
			Str("func", "transcriptRepository.SaveMessages").
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *transcriptRepository) GetSession(ctx context.Context, id string) (models.Session, error) {
	var session models.Session
	row := r.DB.QueryRowContext(ctx, cacheGetSession, id)
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

		r.logger.Err(scanErr).
			Str("func", "transcriptRepository.GetSession").
			Str("session_id", id).
			Msg("failed to scan cached session row")
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	rows, err := r.DB.QueryContext(ctx, cacheGetMessages, id)
	if err != nil {
		r.logger.Err(err).
			Str("func", "transcriptRepository.GetSession").
			Str("session_id", id).
			Msg("failed to query cached messages")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

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
			return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		session.Messages = append(session.Messages, msg)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return session, nil
}

func (r *transcriptRepository) ListSessions(ctx context.Context) ([]models.SessionMeta, error) {
	rows, err := r.DB.QueryContext(ctx, cacheListSessions)
	if err != nil {
		r.logger.Err(err).
			Str("func", "transcriptRepository.ListSessions").
			Msg("failed to query cached sessions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	metas := make([]models.SessionMeta, 0, 20)

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
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		metas = append(metas, meta)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return metas, nil
}

// DeleteSession removes the cached rows explicitly instead of relying on
// the cascade: SQLite only enforces it when foreign keys are enabled on the
// connection.
func (r *transcriptRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, cacheDeleteMessages, id); err != nil {
		r.logger.Err(err).
			Str("func", "transcriptRepository.DeleteSession").
			Str("session_id", id).
			Msg("failed to delete cached messages")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err := r.DB.ExecContext(ctx, cacheDeleteSession, id); err != nil {
		r.logger.Err(err).
			Str("func", "transcriptRepository.DeleteSession").
			Str("session_id", id).
			Msg("failed to delete cached session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
