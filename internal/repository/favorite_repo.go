package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
)

// FavoriteRepository is the per-user favorites ledger. Add and Remove are
// idempotent at the SQL level, so concurrent duplicate requests collapse
// into a single membership change.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, artistID string) error
	Remove(ctx context.Context, userID, artistID string) error
	ListArtists(ctx context.Context, userID string) ([]*domain.Artist, error)
	Exists(ctx context.Context, userID, artistID string) (bool, error)
}

type favoriteRepository struct {
	db *pgxpool.Pool
}

// NewFavoriteRepository creates the PostgreSQL favorites repository.
func NewFavoriteRepository(db *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, artistID string) error {
	query := `
		INSERT INTO favorites (user_id, artist_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, artist_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID, artistID, time.Now().UTC()); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, artistID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND artist_id = $2`

	if _, err := r.db.Exec(ctx, query, userID, artistID); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListArtists returns the user's favorited artists, most recently added
// first. Entries whose artist has since been deleted drop out of the join.
func (r *favoriteRepository) ListArtists(ctx context.Context, userID string) ([]*domain.Artist, error) {
	query := `
		SELECT a.id, a.name, a.genres, a.country, a.popularity_score, a.popularity_level,
			a.debut_year, a.image_url, a.sample_song_title, a.audio_preview_url, a.description,
			a.created_at, a.updated_at
		FROM favorites f
		JOIN artists a ON a.id = f.artist_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, a.id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	defer rows.Close()

	var artists []*domain.Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return artists, nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, artistID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND artist_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, artistID).Scan(&exists); err != nil {
		return false, apperrors.ErrDatabaseError.WithError(err)
	}
	return exists, nil
}
