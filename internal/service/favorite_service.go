package service

import (
	"context"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/internal/repository"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

// FavoriteService manages each user's favorites ledger. Add and Remove are
// idempotent: repeating either call leaves the ledger unchanged.
type FavoriteService interface {
	Add(ctx context.Context, userID, artistID string) error
	Remove(ctx context.Context, userID, artistID string) error
	List(ctx context.Context, userID string) ([]*domain.Artist, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	artists   repository.ArtistRepository
	logger    logger.Logger
}

// NewFavoriteService creates the favorite service.
func NewFavoriteService(favorites repository.FavoriteRepository, artists repository.ArtistRepository, log logger.Logger) FavoriteService {
	return &favoriteService{
		favorites: favorites,
		artists:   artists,
		logger:    log,
	}
}

func (s *favoriteService) Add(ctx context.Context, userID, artistID string) error {
	// Only existing artists can be favorited. A deleted artist later on is
	// fine, the listing join drops it.
	if _, err := s.artists.GetByID(ctx, artistID); err != nil {
		return err
	}

	if err := s.favorites.Add(ctx, userID, artistID); err != nil {
		return err
	}

	s.logger.WithContext(ctx).Info("favorite added",
		logger.String("user_id", userID),
		logger.String("artist_id", artistID),
	)
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, artistID string) error {
	if err := s.favorites.Remove(ctx, userID, artistID); err != nil {
		return err
	}

	s.logger.WithContext(ctx).Info("favorite removed",
		logger.String("user_id", userID),
		logger.String("artist_id", artistID),
	)
	return nil
}

func (s *favoriteService) List(ctx context.Context, userID string) ([]*domain.Artist, error) {
	artists, err := s.favorites.ListArtists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if artists == nil {
		artists = []*domain.Artist{}
	}
	return artists, nil
}
