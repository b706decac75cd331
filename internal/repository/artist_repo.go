// Package repository implements PostgreSQL persistence for artists, users
// and favorites. All operations take a context and surface failures as
// structured application errors; row-level atomicity is the store's guarantee.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
)

// ArtistFilter holds the conjunctive list filters. Zero values mean
// "not filtered".
type ArtistFilter struct {
	Genre         string // exact match, case-insensitive, against any genre
	Country       string // substring, case-insensitive
	MinPopularity *int   // popularity_score >= n
	Query         string // substring on name or description, case-insensitive
}

// ListOptions holds normalized pagination and sorting. Callers are expected
// to pass sanitized values; SortBy is still whitelisted here before it is
// interpolated into SQL.
type ListOptions struct {
	Page   int
	Limit  int
	SortBy string
	Order  string // "asc" or "desc"
}

// sortColumns whitelists sortable fields against SQL injection.
var sortColumns = map[string]string{
	"name":             "name",
	"country":          "country",
	"popularity_score": "popularity_score",
	"debut_year":       "debut_year",
	"created_at":       "created_at",
}

// ArtistRepository is the artist record store.
type ArtistRepository interface {
	Create(ctx context.Context, artist *domain.Artist) error
	GetByID(ctx context.Context, id string) (*domain.Artist, error)
	List(ctx context.Context, filter ArtistFilter, opts ListOptions) ([]*domain.Artist, int64, error)
	Update(ctx context.Context, artist *domain.Artist) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*domain.Artist, error)
}

type artistRepository struct {
	db *pgxpool.Pool
}

// NewArtistRepository creates the PostgreSQL artist repository.
func NewArtistRepository(db *pgxpool.Pool) ArtistRepository {
	return &artistRepository{db: db}
}

const artistColumns = `id, name, genres, country, popularity_score, popularity_level,
	debut_year, image_url, sample_song_title, audio_preview_url, description,
	created_at, updated_at`

func scanArtist(row pgx.Row) (*domain.Artist, error) {
	var a domain.Artist
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Genres,
		&a.Country,
		&a.PopularityScore,
		&a.PopularityLevel,
		&a.DebutYear,
		&a.ImageURL,
		&a.SampleSongTitle,
		&a.AudioPreviewURL,
		&a.Description,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *artistRepository) Create(ctx context.Context, artist *domain.Artist) error {
	query := `
		INSERT INTO artists (` + artistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		artist.ID,
		artist.Name,
		artist.Genres,
		artist.Country,
		artist.PopularityScore,
		artist.PopularityLevel,
		artist.DebutYear,
		artist.ImageURL,
		artist.SampleSongTitle,
		artist.AudioPreviewURL,
		artist.Description,
		artist.CreatedAt,
		artist.UpdatedAt,
	)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

func (r *artistRepository) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = $1`

	artist, err := scanArtist(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrArtistNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return artist, nil
}

// buildFilter translates an ArtistFilter into a WHERE clause and args.
func buildFilter(filter ArtistFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Genre != "" {
		conds = append(conds,
			fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(genres) g WHERE lower(g) = lower(%s))", arg(filter.Genre)))
	}
	if filter.Country != "" {
		conds = append(conds, fmt.Sprintf("country ILIKE %s", arg("%"+filter.Country+"%")))
	}
	if filter.MinPopularity != nil {
		conds = append(conds, fmt.Sprintf("popularity_score >= %s", arg(*filter.MinPopularity)))
	}
	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of matching artists plus the total match count
// before pagination. Ties on the sort key fall back to id order so repeated
// calls on unchanged data return the same pages.
func (r *artistRepository) List(ctx context.Context, filter ArtistFilter, opts ListOptions) ([]*domain.Artist, int64, error) {
	where, args := buildFilter(filter)

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM artists"+where, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}

	sortCol, ok := sortColumns[opts.SortBy]
	if !ok {
		sortCol = "name"
	}
	dir := "ASC"
	if opts.Order == "desc" {
		dir = "DESC"
	}

	offset := (opts.Page - 1) * opts.Limit
	query := fmt.Sprintf(
		"SELECT %s FROM artists%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d",
		artistColumns, where, sortCol, dir, len(args)+1, len(args)+2,
	)
	args = append(args, opts.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	defer rows.Close()

	artists := make([]*domain.Artist, 0, opts.Limit)
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, 0, apperrors.ErrDatabaseError.WithError(err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}

	return artists, total, nil
}

func (r *artistRepository) Update(ctx context.Context, artist *domain.Artist) error {
	query := `
		UPDATE artists SET
			name = $2, genres = $3, country = $4, popularity_score = $5,
			popularity_level = $6, debut_year = $7, image_url = $8,
			sample_song_title = $9, audio_preview_url = $10, description = $11,
			updated_at = $12
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		artist.ID,
		artist.Name,
		artist.Genres,
		artist.Country,
		artist.PopularityScore,
		artist.PopularityLevel,
		artist.DebutYear,
		artist.ImageURL,
		artist.SampleSongTitle,
		artist.AudioPreviewURL,
		artist.Description,
		artist.UpdatedAt,
	)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrArtistNotFound
	}
	return nil
}

func (r *artistRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrArtistNotFound
	}
	return nil
}

// ListAll returns the full catalogue in name order, for exports.
func (r *artistRepository) ListAll(ctx context.Context) ([]*domain.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists ORDER BY name ASC, id ASC`

	rows, err := r.db.Query(ctx, query)
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
