package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/logger"
)

// PgSessionRepository handles login session database operations
type PgSessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new PgSessionRepository
func NewSessionRepository(db *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new session
func (r *PgSessionRepository) Create(ctx context.Context, session *models.Session) error {
	id, err := uuid.Parse(session.ID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", session.ID, err)
	}
	adminID, err := uuid.Parse(session.AdminID)
	if err != nil {
		return fmt.Errorf("invalid admin id %q: %w", session.AdminID, err)
	}

	sql, args, err := r.sb.Insert("sessions").
		Columns("id", "admin_id", "expires_at", "revoked", "created_at").
		Values(id, adminID, session.ExpiresAt, false, session.CreatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("adminID", session.AdminID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}

	return nil
}

// GetByID retrieves a session together with the owning admin's username
func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrTokenNotFound
	}

	sql, args, err := r.sb.Select("s.id", "s.admin_id", "a.username", "s.expires_at", "s.revoked", "s.created_at").
		From("sessions s").
		Join("admins a ON a.id = s.admin_id").
		Where(squirrel.Eq{"s.id": uid}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get session SQL")
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	var sessionID, adminID uuid.UUID
	session := &models.Session{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&sessionID, &adminID, &session.Username, &session.ExpiresAt, &session.Revoked, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Str("sessionID", id).Msg("Error scanning session row")
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	session.ID = sessionID.String()
	session.AdminID = adminID.String()

	return session, nil
}

// Revoke marks a session as revoked
func (r *PgSessionRepository) Revoke(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperrors.ErrTokenNotFound
	}

	sql, args, err := r.sb.Update("sessions").
		Set("revoked", true).
		Where(squirrel.Eq{"id": uid}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building revoke session SQL")
		return fmt.Errorf("failed to build revoke session query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sessionID", id).Msg("Error executing revoke session query")
		return fmt.Errorf("error revoking session: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}

	return nil
}

// DeleteExpired removes expired sessions and revoked sessions older than a day
func (r *PgSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	now := time.Now()

	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": now},
			squirrel.And{
				squirrel.Eq{"revoked": true},
				squirrel.Lt{"created_at": now.Add(-24 * time.Hour)},
			},
		}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building cleanup sessions SQL")
		return 0, fmt.Errorf("failed to build cleanup sessions query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup sessions query")
		return 0, fmt.Errorf("error cleaning up sessions: %w", err)
	}

	deleted := cmdTag.RowsAffected()
	logger.Info().Int64("deletedCount", deleted).Msg("Cleaned up expired sessions")
	return deleted, nil
}
