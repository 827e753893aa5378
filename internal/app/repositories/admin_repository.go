package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/dberrors"
	"github.com/yigit/empdesk/internal/pkg/logger"
)

// PgAdminRepository handles admin account database operations
type PgAdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new PgAdminRepository
func NewAdminRepository(db *pgxpool.Pool) *PgAdminRepository {
	return &PgAdminRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new admin account
func (r *PgAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	id, err := uuid.Parse(admin.ID)
	if err != nil {
		return fmt.Errorf("invalid admin id %q: %w", admin.ID, err)
	}

	sql, args, err := r.sb.Insert("admins").
		Columns("id", "username", "password_hash", "created_at").
		Values(id, admin.Username, admin.PasswordHash, admin.CreatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create admin SQL")
		return fmt.Errorf("failed to build create admin query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_username_key") {
			return apperrors.ErrAdminAlreadyExists
		}
		logger.Error().Err(err).Str("username", admin.Username).Msg("Error executing create admin query")
		return fmt.Errorf("error creating admin: %w", err)
	}

	return nil
}

// GetByUsername retrieves an admin by username
func (r *PgAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	sql, args, err := r.sb.Select("id", "username", "password_hash", "created_at").
		From("admins").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get admin SQL")
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	var id uuid.UUID
	admin := &models.Admin{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		logger.Error().Err(err).Str("username", username).Msg("Error scanning admin row")
		return nil, fmt.Errorf("error getting admin: %w", err)
	}
	admin.ID = id.String()

	return admin, nil
}

// UpdatePassword replaces the password hash of an admin
func (r *PgAdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperrors.ErrAdminNotFound
	}

	sql, args, err := r.sb.Update("admins").
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"id": uid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update admin password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("adminID", id).Msg("Error executing update admin password query")
		return fmt.Errorf("error updating admin password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// Count returns the number of admin accounts
func (r *PgAdminRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("admins").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count admins query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting admins")
		return 0, fmt.Errorf("error counting admins: %w", err)
	}
	return count, nil
}
