package validation

import (
	"strings"
	"time"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
)

const minDebutYear = 1900

// ArtistInput is the wire shape of an artist create/update payload.
// Numeric fields are untyped so type errors surface as field errors
// rather than a whole-request bind failure.
type ArtistInput struct {
	Name            *string     `json:"name"`
	Genres          interface{} `json:"genres"`
	Country         *string     `json:"country"`
	PopularityScore interface{} `json:"popularity_score"`
	PopularityLevel *string     `json:"popularity_level"`
	DebutYear       interface{} `json:"debut_year"`
	ImageURL        *string     `json:"image_url"`
	SampleSongTitle *string     `json:"sample_song_title"`
	AudioPreviewURL *string     `json:"audio_preview_url"`
	Description     *string     `json:"description"`
}

// ValidateArtistCreate checks a create payload: name, genres and country are
// required, all other fields optional but rule-checked when present.
func ValidateArtistCreate(in *ArtistInput) []FieldError {
	var errs []FieldError

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "Name is required"})
	}

	if in.Genres == nil {
		errs = append(errs, FieldError{Field: "genres", Message: "Genres must be a non-empty array"})
	} else {
		errs = checkGenres(errs, in.Genres)
	}

	if in.Country == nil || strings.TrimSpace(*in.Country) == "" {
		errs = append(errs, FieldError{Field: "country", Message: "Country is required"})
	}

	return append(errs, checkOptionalRules(in)...)
}

// ValidateArtistUpdate checks an update payload: every field is optional,
// but any provided field must still satisfy its type/range rule.
func ValidateArtistUpdate(in *ArtistInput) []FieldError {
	var errs []FieldError

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "Name must not be empty"})
	}
	if in.Genres != nil {
		errs = checkGenres(errs, in.Genres)
	}
	if in.Country != nil && strings.TrimSpace(*in.Country) == "" {
		errs = append(errs, FieldError{Field: "country", Message: "Country must not be empty"})
	}

	return append(errs, checkOptionalRules(in)...)
}

// checkOptionalRules validates the fields whose rules are identical on
// create and update.
func checkOptionalRules(in *ArtistInput) []FieldError {
	var errs []FieldError

	errs = checkIntRange(errs, "popularity_score", in.PopularityScore, 0, 100,
		"Popularity score must be an integer between 0 and 100")

	if in.PopularityLevel != nil && !domain.ValidTier(*in.PopularityLevel) {
		errs = append(errs, FieldError{Field: "popularity_level", Message: "Invalid popularity level"})
	}

	errs = checkIntRange(errs, "debut_year", in.DebutYear, minDebutYear, time.Now().Year(),
		"Debut year must be an integer between 1900 and the current year")

	return errs
}

func checkGenres(errs []FieldError, v interface{}) []FieldError {
	genres, ok := stringList(v)
	if !ok || len(genres) == 0 {
		return append(errs, FieldError{Field: "genres", Message: "Genres must be a non-empty array"})
	}
	return errs
}

// GenreList returns the genres of a validated payload.
func (in *ArtistInput) GenreList() []string {
	genres, _ := stringList(in.Genres)
	return genres
}

// Score returns the popularity score of a validated payload,
// or nil when absent.
func (in *ArtistInput) Score() *int {
	if in.PopularityScore == nil {
		return nil
	}
	n, ok := intFromJSON(in.PopularityScore)
	if !ok {
		return nil
	}
	return &n
}

// Year returns the debut year of a validated payload, or nil when absent.
func (in *ArtistInput) Year() *int {
	if in.DebutYear == nil {
		return nil
	}
	n, ok := intFromJSON(in.DebutYear)
	if !ok {
		return nil
	}
	return &n
}

// Patch converts a validated payload into a domain patch.
func (in *ArtistInput) Patch() *domain.ArtistPatch {
	p := &domain.ArtistPatch{
		Name:            in.Name,
		Country:         in.Country,
		PopularityScore: in.Score(),
		DebutYear:       in.Year(),
		ImageURL:        in.ImageURL,
		SampleSongTitle: in.SampleSongTitle,
		AudioPreviewURL: in.AudioPreviewURL,
		Description:     in.Description,
	}
	if in.Genres != nil {
		p.Genres = in.GenreList()
	}
	if in.PopularityLevel != nil {
		tier := domain.Tier(*in.PopularityLevel)
		p.PopularityLevel = &tier
	}
	return p
}
