package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
)

const pgUniqueViolation = "23505"

// UserRepository is the user account store, including the single-slot
// OTP state each user carries.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateOTP(ctx context.Context, id string, otp *string, expiresAt *time.Time) error
	ClearExpiredOTPs(ctx context.Context, before time.Time) (int64, error)
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates the PostgreSQL user repository.
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, role, otp, otp_expires_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.OTP,
		&u.OTPExpiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.OTP,
		user.OTPExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.ErrEmailTaken
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, domain.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return user, nil
}

// UpdateOTP writes the user's OTP slot. Both values are set together or
// nulled together; the schema enforces the pairing with a CHECK constraint.
func (r *userRepository) UpdateOTP(ctx context.Context, id string, otp *string, expiresAt *time.Time) error {
	query := `UPDATE users SET otp = $2, otp_expires_at = $3, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, otp, expiresAt)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ClearExpiredOTPs nulls every OTP slot whose expiry precedes the cutoff
// and reports how many rows were swept.
func (r *userRepository) ClearExpiredOTPs(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE users SET otp = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE otp_expires_at IS NOT NULL AND otp_expires_at < $1
	`
	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return tag.RowsAffected(), nil
}
