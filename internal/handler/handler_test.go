package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/internal/service"
	"github.com/xiaoxiao0301/artist-atlas/internal/validation"
	"github.com/xiaoxiao0301/artist-atlas/pkg/jwt"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockArtistService struct {
	mock.Mock
}

func (m *mockArtistService) List(ctx context.Context, query service.ListQuery) ([]*domain.Artist, int64, int, int, error) {
	args := m.Called(ctx, query)
	var artists []*domain.Artist
	if a := args.Get(0); a != nil {
		artists = a.([]*domain.Artist)
	}
	return artists, args.Get(1).(int64), args.Int(2), args.Int(3), args.Error(4)
}

func (m *mockArtistService) Get(ctx context.Context, id string) (*domain.Artist, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*domain.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArtistService) Create(ctx context.Context, input *validation.ArtistInput) (*domain.Artist, error) {
	args := m.Called(ctx, input)
	if a := args.Get(0); a != nil {
		return a.(*domain.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArtistService) Update(ctx context.Context, id string, input *validation.ArtistInput) (*domain.Artist, error) {
	args := m.Called(ctx, id, input)
	if a := args.Get(0); a != nil {
		return a.(*domain.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArtistService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockExportService struct {
	mock.Mock
}

func (m *mockExportService) Export(ctx context.Context, format string) (*service.ExportResult, error) {
	args := m.Called(ctx, format)
	if r := args.Get(0); r != nil {
		return r.(*service.ExportResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, email, password, role string) (*domain.User, error) {
	args := m.Called(ctx, email, password, role)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

func (m *mockAuthService) VerifyLogin(ctx context.Context, email, otp string) (*service.TokenPair, *domain.User, error) {
	args := m.Called(ctx, email, otp)
	var pair *service.TokenPair
	var user *domain.User
	if p := args.Get(0); p != nil {
		pair = p.(*service.TokenPair)
	}
	if u := args.Get(1); u != nil {
		user = u.(*domain.User)
	}
	return pair, user, args.Error(2)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if p := args.Get(0); p != nil {
		return p.(*service.TokenPair), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) SweepExpiredOTPs(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockFavoriteService struct {
	mock.Mock
}

func (m *mockFavoriteService) Add(ctx context.Context, userID, artistID string) error {
	return m.Called(ctx, userID, artistID).Error(0)
}

func (m *mockFavoriteService) Remove(ctx context.Context, userID, artistID string) error {
	return m.Called(ctx, userID, artistID).Error(0)
}

func (m *mockFavoriteService) List(ctx context.Context, userID string) ([]*domain.Artist, error) {
	args := m.Called(ctx, userID)
	var artists []*domain.Artist
	if a := args.Get(0); a != nil {
		artists = a.([]*domain.Artist)
	}
	return artists, args.Error(1)
}

type fixture struct {
	router    *gin.Engine
	artists   *mockArtistService
	exports   *mockExportService
	auth      *mockAuthService
	favorites *mockFavoriteService
	tokens    *jwt.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		artists:   new(mockArtistService),
		exports:   new(mockExportService),
		auth:      new(mockAuthService),
		favorites: new(mockFavoriteService),
		tokens:    jwt.NewManager(&jwt.Config{Secret: "test-secret"}),
	}
	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	f.router = NewRouter(RouterConfig{
		Artists:   NewArtistHandler(f.artists, f.exports),
		Auth:      NewAuthHandler(f.auth),
		Favorites: NewFavoriteHandler(f.favorites),
		Tokens:    f.tokens,
		Logger:    log,
	})
	return f
}

func (f *fixture) bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := f.tokens.GenerateToken("u1", "fan@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *fixture) do(method, path, body, authHeader string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, w)
	errInfo, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "response must carry an error object: %s", w.Body.String())
	return errInfo["code"].(string)
}
