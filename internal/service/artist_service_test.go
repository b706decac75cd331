package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/internal/repository"
	"github.com/xiaoxiao0301/artist-atlas/internal/validation"
	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
)

func artistInput(t *testing.T, raw string) *validation.ArtistInput {
	t.Helper()
	var in validation.ArtistInput
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return &in
}

func newArtistService(t *testing.T) (ArtistService, *mockArtistRepo, *recordingCache) {
	t.Helper()
	repo := new(mockArtistRepo)
	c := &recordingCache{}
	return NewArtistService(repo, c, testLogger()), repo, c
}

func TestListQueryNormalize_Defaults(t *testing.T) {
	filter, opts := ListQuery{}.Normalize()

	assert.Equal(t, repository.ArtistFilter{}, filter)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, "name", opts.SortBy)
	assert.Equal(t, "asc", opts.Order)
}

func TestListQueryNormalize_MalformedValuesFallBack(t *testing.T) {
	_, opts := ListQuery{Page: "zero", Limit: "-3", Order: "sideways"}.Normalize()

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, "asc", opts.Order)
}

func TestListQueryNormalize_LimitCapped(t *testing.T) {
	_, opts := ListQuery{Limit: "5000"}.Normalize()
	assert.Equal(t, maxLimit, opts.Limit)
}

func TestListQueryNormalize_Filters(t *testing.T) {
	filter, opts := ListQuery{
		Genre:         " Jazz ",
		Country:       "Nor",
		MinPopularity: "80",
		Search:        "trio",
		SortBy:        "popularity_score",
		Order:         "DESC",
		Page:          "3",
		Limit:         "25",
	}.Normalize()

	assert.Equal(t, "Jazz", filter.Genre)
	assert.Equal(t, "Nor", filter.Country)
	require.NotNil(t, filter.MinPopularity)
	assert.Equal(t, 80, *filter.MinPopularity)
	assert.Equal(t, "trio", filter.Query)
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 25, opts.Limit)
	assert.Equal(t, "popularity_score", opts.SortBy)
	assert.Equal(t, "desc", opts.Order)
}

func TestListQueryNormalize_NonNumericMinPopularityIgnored(t *testing.T) {
	filter, _ := ListQuery{MinPopularity: "loud"}.Normalize()
	assert.Nil(t, filter.MinPopularity)
}

func TestArtistService_List(t *testing.T) {
	svc, repo, _ := newArtistService(t)
	stored := []*domain.Artist{domain.NewArtist("A", []string{"Pop"}, "USA")}
	repo.On("List", mock.Anything, mock.Anything, mock.Anything).Return(stored, int64(42), nil)

	artists, total, page, limit, err := svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, stored, artists)
	assert.Equal(t, int64(42), total)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}

func TestArtistService_Create_DerivesLevelFromScore(t *testing.T) {
	svc, repo, _ := newArtistService(t)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Artist")).Return(nil)

	artist, err := svc.Create(context.Background(), artistInput(t, `{
		"name": "Nova Tide",
		"genres": ["Pop", "Electronic"],
		"country": "Sweden",
		"popularity_score": 90
	}`))
	require.NoError(t, err)

	assert.Equal(t, domain.TierSuperstar, artist.PopularityLevel)
	require.NotNil(t, artist.PopularityScore)
	assert.Equal(t, 90, *artist.PopularityScore)
	assert.NotEmpty(t, artist.ID)
	repo.AssertExpectations(t)
}

func TestArtistService_Create_ExplicitLevelWins(t *testing.T) {
	svc, repo, _ := newArtistService(t)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	artist, err := svc.Create(context.Background(), artistInput(t, `{
		"name": "Nova Tide",
		"genres": ["Pop"],
		"country": "Sweden",
		"popularity_score": 90,
		"popularity_level": "Legendary"
	}`))
	require.NoError(t, err)
	assert.Equal(t, domain.TierLegendary, artist.PopularityLevel)
}

func TestArtistService_Create_NoScoreDefaultsEmerging(t *testing.T) {
	svc, repo, _ := newArtistService(t)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	artist, err := svc.Create(context.Background(), artistInput(t,
		`{"name": "Nova Tide", "genres": ["Pop"], "country": "Sweden"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.TierEmerging, artist.PopularityLevel)
	assert.Nil(t, artist.PopularityScore)
}

func TestArtistService_Create_ValidationFailure(t *testing.T) {
	svc, repo, _ := newArtistService(t)

	_, err := svc.Create(context.Background(), artistInput(t, `{}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsError(err, apperrors.ErrValidationFailed))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArtistService_Update_MergesAndInvalidates(t *testing.T) {
	svc, repo, c := newArtistService(t)
	existing := domain.NewArtist("Nova Tide", []string{"Pop"}, "Sweden")
	existing.SetScore(50)

	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(a *domain.Artist) bool {
		return a.ID == existing.ID &&
			a.Name == "Nova Tide" &&
			a.PopularityScore != nil && *a.PopularityScore == 96 &&
			a.PopularityLevel == domain.TierLegendary
	})).Return(nil)

	updated, err := svc.Update(context.Background(), existing.ID,
		artistInput(t, `{"popularity_score": 96}`))
	require.NoError(t, err)

	assert.Equal(t, domain.TierLegendary, updated.PopularityLevel)
	assert.Equal(t, []string{existing.ID}, c.invalidated)
	repo.AssertExpectations(t)
}

func TestArtistService_Update_NotFound(t *testing.T) {
	svc, repo, c := newArtistService(t)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.ErrArtistNotFound)

	_, err := svc.Update(context.Background(), "missing", artistInput(t, `{"name": "X"}`))
	assert.True(t, apperrors.IsError(err, apperrors.ErrArtistNotFound))
	assert.Empty(t, c.invalidated)
}

func TestArtistService_Delete_Invalidates(t *testing.T) {
	svc, repo, c := newArtistService(t)
	repo.On("Delete", mock.Anything, "a1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.Equal(t, []string{"a1"}, c.invalidated)
}

func TestArtistService_Delete_NotFound(t *testing.T) {
	svc, repo, c := newArtistService(t)
	repo.On("Delete", mock.Anything, "missing").Return(apperrors.ErrArtistNotFound)

	err := svc.Delete(context.Background(), "missing")
	assert.True(t, apperrors.IsError(err, apperrors.ErrArtistNotFound))
	assert.Empty(t, c.invalidated)
}
