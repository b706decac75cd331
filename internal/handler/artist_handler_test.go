package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/internal/service"
	"github.com/xiaoxiao0301/artist-atlas/internal/validation"
	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
)

func TestArtistList(t *testing.T) {
	f := newFixture(t)
	stored := []*domain.Artist{domain.NewArtist("Nova Tide", []string{"Pop"}, "Sweden")}
	f.artists.On("List", mock.Anything, mock.MatchedBy(func(q service.ListQuery) bool {
		return q.Genre == "Pop" && q.Page == "2"
	})).Return(stored, int64(11), 2, 10, nil)

	w := f.do(http.MethodGet, "/api/v1/artists?genre=Pop&page=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(11), pagination["total"])
	assert.Equal(t, float64(2), pagination["total_pages"])
	assert.NotEmpty(t, body["request_id"])
}

func TestArtistGet_NotFound(t *testing.T) {
	f := newFixture(t)
	f.artists.On("Get", mock.Anything, "missing").Return(nil, apperrors.ErrArtistNotFound)

	w := f.do(http.MethodGet, "/api/v1/artists/missing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ErrCodeArtistNotFound, errorCode(t, w))
}

func TestArtistCreate_AdminOnly(t *testing.T) {
	f := newFixture(t)
	body := `{"name":"Nova Tide","genres":["Pop"],"country":"Sweden"}`

	w := f.do(http.MethodPost, "/api/v1/artists", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/api/v1/artists", body, f.bearer(t, "user"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	f.artists.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArtistCreate(t *testing.T) {
	f := newFixture(t)
	created := domain.NewArtist("Nova Tide", []string{"Pop"}, "Sweden")
	f.artists.On("Create", mock.Anything, mock.AnythingOfType("*validation.ArtistInput")).Return(created, nil)

	w := f.do(http.MethodPost, "/api/v1/artists",
		`{"name":"Nova Tide","genres":["Pop"],"country":"Sweden"}`, f.bearer(t, "admin"))
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Nova Tide", data["name"])
}

func TestArtistCreate_ValidationErrorsInDetails(t *testing.T) {
	f := newFixture(t)
	fieldErrs := []validation.FieldError{{Field: "name", Message: "Name is required"}}
	f.artists.On("Create", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrValidationFailed.WithDetails(fieldErrs))

	w := f.do(http.MethodPost, "/api/v1/artists", `{}`, f.bearer(t, "admin"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, errorCode(t, w))

	body := decodeBody(t, w)
	details := body["error"].(map[string]interface{})["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "name", details[0].(map[string]interface{})["field"])
}

func TestArtistUpdate(t *testing.T) {
	f := newFixture(t)
	updated := domain.NewArtist("Nova Tide", []string{"Pop"}, "Sweden")
	f.artists.On("Update", mock.Anything, updated.ID, mock.Anything).Return(updated, nil)

	w := f.do(http.MethodPut, "/api/v1/artists/"+updated.ID,
		`{"popularity_score": 96}`, f.bearer(t, "admin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestArtistDelete(t *testing.T) {
	f := newFixture(t)
	f.artists.On("Delete", mock.Anything, "a1").Return(nil)

	w := f.do(http.MethodDelete, "/api/v1/artists/a1", "", f.bearer(t, "admin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestArtistExport(t *testing.T) {
	f := newFixture(t)
	f.exports.On("Export", mock.Anything, "csv").Return(&service.ExportResult{
		Filename:    "artists-20260829-000000.csv",
		ContentType: "text/csv",
		Data:        []byte("ID,Name\n"),
	}, nil)

	w := f.do(http.MethodGet, "/api/v1/artists/export?format=csv", "", f.bearer(t, "admin"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Equal(t, "ID,Name\n", w.Body.String())
}

func TestArtistExport_AdminOnly(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/artists/export", "", f.bearer(t, "user"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMalformedJSONRejected(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/v1/artists", `{not json`, f.bearer(t, "admin"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, errorCode(t, w))
}
