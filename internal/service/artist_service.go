// Package service implements the business logic between the HTTP handlers
// and the repositories.
package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/xiaoxiao0301/artist-atlas/internal/cache"
	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/internal/repository"
	"github.com/xiaoxiao0301/artist-atlas/internal/validation"
	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListQuery carries the raw, untrusted query parameters of a list request.
type ListQuery struct {
	Genre         string
	Country       string
	MinPopularity string
	Search        string
	SortBy        string
	Order         string
	Page          string
	Limit         string
}

// Normalize translates raw query parameters into a filter and options.
// Malformed values never fail the request: they fall back to defaults,
// and unknown sort fields fall back to name order.
func (q ListQuery) Normalize() (repository.ArtistFilter, repository.ListOptions) {
	filter := repository.ArtistFilter{
		Genre:   strings.TrimSpace(q.Genre),
		Country: strings.TrimSpace(q.Country),
		Query:   strings.TrimSpace(q.Search),
	}
	if n, err := strconv.Atoi(q.MinPopularity); err == nil && n >= 0 {
		filter.MinPopularity = &n
	}

	opts := repository.ListOptions{
		Page:   defaultPage,
		Limit:  defaultLimit,
		SortBy: "name",
		Order:  "asc",
	}
	if n, err := strconv.Atoi(q.Page); err == nil && n > 0 {
		opts.Page = n
	}
	if n, err := strconv.Atoi(q.Limit); err == nil && n > 0 {
		if n > maxLimit {
			n = maxLimit
		}
		opts.Limit = n
	}
	if s := strings.TrimSpace(q.SortBy); s != "" {
		opts.SortBy = s
	}
	if strings.EqualFold(strings.TrimSpace(q.Order), "desc") {
		opts.Order = "desc"
	}
	return filter, opts
}

// ArtistService manages the artist catalogue.
type ArtistService interface {
	List(ctx context.Context, query ListQuery) ([]*domain.Artist, int64, int, int, error)
	Get(ctx context.Context, id string) (*domain.Artist, error)
	Create(ctx context.Context, input *validation.ArtistInput) (*domain.Artist, error)
	Update(ctx context.Context, id string, input *validation.ArtistInput) (*domain.Artist, error)
	Delete(ctx context.Context, id string) error
}

type artistService struct {
	artists repository.ArtistRepository
	cache   cache.ArtistCache
	logger  logger.Logger
}

// NewArtistService creates the artist service.
func NewArtistService(artists repository.ArtistRepository, artistCache cache.ArtistCache, log logger.Logger) ArtistService {
	return &artistService{
		artists: artists,
		cache:   artistCache,
		logger:  log,
	}
}

// List returns one page of artists plus the total count and the normalized
// page and limit actually used.
func (s *artistService) List(ctx context.Context, query ListQuery) ([]*domain.Artist, int64, int, int, error) {
	filter, opts := query.Normalize()

	artists, total, err := s.artists.List(ctx, filter, opts)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return artists, total, opts.Page, opts.Limit, nil
}

func (s *artistService) Get(ctx context.Context, id string) (*domain.Artist, error) {
	return s.cache.GetOrLoad(ctx, id, func(ctx context.Context) (*domain.Artist, error) {
		return s.artists.GetByID(ctx, id)
	})
}

func (s *artistService) Create(ctx context.Context, input *validation.ArtistInput) (*domain.Artist, error) {
	if errs := validation.ValidateArtistCreate(input); len(errs) > 0 {
		return nil, apperrors.ErrValidationFailed.WithDetails(errs)
	}

	artist := domain.NewArtist(*input.Name, input.GenreList(), *input.Country)
	if score := input.Score(); score != nil {
		artist.SetScore(*score)
	}
	if input.PopularityLevel != nil {
		// An explicit level wins over the derived one.
		artist.PopularityLevel = domain.Tier(*input.PopularityLevel)
	}
	if input.DebutYear != nil {
		artist.DebutYear = input.Year()
	}
	if input.ImageURL != nil {
		artist.ImageURL = *input.ImageURL
	}
	if input.SampleSongTitle != nil {
		artist.SampleSongTitle = *input.SampleSongTitle
	}
	if input.AudioPreviewURL != nil {
		artist.AudioPreviewURL = *input.AudioPreviewURL
	}
	if input.Description != nil {
		artist.Description = *input.Description
	}

	if err := s.artists.Create(ctx, artist); err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Info("artist created",
		logger.String("artist_id", artist.ID),
		logger.String("name", artist.Name),
	)
	return artist, nil
}

func (s *artistService) Update(ctx context.Context, id string, input *validation.ArtistInput) (*domain.Artist, error) {
	if errs := validation.ValidateArtistUpdate(input); len(errs) > 0 {
		return nil, apperrors.ErrValidationFailed.WithDetails(errs)
	}

	// Read the current row directly so a stale cache entry cannot feed
	// the merge.
	artist, err := s.artists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	artist.Apply(input.Patch())

	if err := s.artists.Update(ctx, artist); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)

	s.logger.WithContext(ctx).Info("artist updated", logger.String("artist_id", id))
	return artist, nil
}

func (s *artistService) Delete(ctx context.Context, id string) error {
	if err := s.artists.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)

	s.logger.WithContext(ctx).Info("artist deleted", logger.String("artist_id", id))
	return nil
}
