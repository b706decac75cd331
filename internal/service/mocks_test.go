package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xiaoxiao0301/artist-atlas/internal/cache"
	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/internal/repository"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

type mockArtistRepo struct {
	mock.Mock
}

func (m *mockArtistRepo) Create(ctx context.Context, artist *domain.Artist) error {
	return m.Called(ctx, artist).Error(0)
}

func (m *mockArtistRepo) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*domain.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArtistRepo) List(ctx context.Context, filter repository.ArtistFilter, opts repository.ListOptions) ([]*domain.Artist, int64, error) {
	args := m.Called(ctx, filter, opts)
	var artists []*domain.Artist
	if a := args.Get(0); a != nil {
		artists = a.([]*domain.Artist)
	}
	return artists, args.Get(1).(int64), args.Error(2)
}

func (m *mockArtistRepo) Update(ctx context.Context, artist *domain.Artist) error {
	return m.Called(ctx, artist).Error(0)
}

func (m *mockArtistRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockArtistRepo) ListAll(ctx context.Context) ([]*domain.Artist, error) {
	args := m.Called(ctx)
	var artists []*domain.Artist
	if a := args.Get(0); a != nil {
		artists = a.([]*domain.Artist)
	}
	return artists, args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateOTP(ctx context.Context, id string, otp *string, expiresAt *time.Time) error {
	return m.Called(ctx, id, otp, expiresAt).Error(0)
}

func (m *mockUserRepo) ClearExpiredOTPs(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type mockFavoriteRepo struct {
	mock.Mock
}

func (m *mockFavoriteRepo) Add(ctx context.Context, userID, artistID string) error {
	return m.Called(ctx, userID, artistID).Error(0)
}

func (m *mockFavoriteRepo) Remove(ctx context.Context, userID, artistID string) error {
	return m.Called(ctx, userID, artistID).Error(0)
}

func (m *mockFavoriteRepo) ListArtists(ctx context.Context, userID string) ([]*domain.Artist, error) {
	args := m.Called(ctx, userID)
	var artists []*domain.Artist
	if a := args.Get(0); a != nil {
		artists = a.([]*domain.Artist)
	}
	return artists, args.Error(1)
}

func (m *mockFavoriteRepo) Exists(ctx context.Context, userID, artistID string) (bool, error) {
	args := m.Called(ctx, userID, artistID)
	return args.Bool(0), args.Error(1)
}

// recordingCache passes every read through to the loader and records
// invalidations.
type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) GetOrLoad(ctx context.Context, _ string, load cache.Loader) (*domain.Artist, error) {
	return load(ctx)
}

func (c *recordingCache) Invalidate(_ context.Context, id string) {
	c.invalidated = append(c.invalidated, id)
}

// fakeMailer records sent messages and can be told to fail.
type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// fakeLimiter answers every Allow call with a fixed verdict.
type fakeLimiter struct {
	allowed bool
	err     error
}

func (l *fakeLimiter) Allow(context.Context, string, int64, time.Duration) (bool, error) {
	return l.allowed, l.err
}
