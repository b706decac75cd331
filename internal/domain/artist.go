package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tier is the discrete popularity level derived from a numeric score.
type Tier string

const (
	TierEmerging   Tier = "Emerging"
	TierMainstream Tier = "Mainstream"
	TierSuperstar  Tier = "Superstar"
	TierLegendary  Tier = "Legendary"
)

// Tier cut points. The four tiers partition [0,100] with no gaps:
// Legendary >= 95, Superstar >= 80, Mainstream >= 60, Emerging < 60.
const (
	legendaryMinScore  = 95
	superstarMinScore  = 80
	mainstreamMinScore = 60
)

// Classify maps a popularity score to its tier. Pure and total: any
// integer input yields a tier, scores are clamped by the cut points.
func Classify(score int) Tier {
	switch {
	case score >= legendaryMinScore:
		return TierLegendary
	case score >= superstarMinScore:
		return TierSuperstar
	case score >= mainstreamMinScore:
		return TierMainstream
	default:
		return TierEmerging
	}
}

// ValidTier reports whether s is a known tier label.
func ValidTier(s string) bool {
	switch Tier(s) {
	case TierEmerging, TierMainstream, TierSuperstar, TierLegendary:
		return true
	}
	return false
}

// Artist is a catalogued music artist.
type Artist struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Genres          []string  `json:"genres"`
	Country         string    `json:"country"`
	PopularityScore *int      `json:"popularity_score,omitempty"`
	PopularityLevel Tier      `json:"popularity_level"`
	DebutYear       *int      `json:"debut_year,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	SampleSongTitle string    `json:"sample_song_title,omitempty"`
	AudioPreviewURL string    `json:"audio_preview_url,omitempty"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewArtist creates an artist, deriving the popularity level from the score
// when no explicit level is given.
func NewArtist(name string, genres []string, country string) *Artist {
	now := time.Now()
	a := &Artist{
		ID:              uuid.New().String(),
		Name:            name,
		Genres:          genres,
		Country:         country,
		PopularityLevel: TierEmerging,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return a
}

// SetScore assigns the popularity score and recomputes the level.
func (a *Artist) SetScore(score int) {
	a.PopularityScore = &score
	a.PopularityLevel = Classify(score)
}

// ArtistPatch carries a partial update: nil fields retain the prior value.
type ArtistPatch struct {
	Name            *string
	Genres          []string
	Country         *string
	PopularityScore *int
	PopularityLevel *Tier
	DebutYear       *int
	ImageURL        *string
	SampleSongTitle *string
	AudioPreviewURL *string
	Description     *string
}

// Apply merges the patch into the artist. If the popularity score changes and
// no explicit level is supplied, the level is recomputed from the new score.
func (a *Artist) Apply(p *ArtistPatch) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Genres != nil {
		a.Genres = p.Genres
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	if p.PopularityScore != nil {
		a.PopularityScore = p.PopularityScore
		if p.PopularityLevel == nil {
			a.PopularityLevel = Classify(*p.PopularityScore)
		}
	}
	if p.PopularityLevel != nil {
		a.PopularityLevel = *p.PopularityLevel
	}
	if p.DebutYear != nil {
		a.DebutYear = p.DebutYear
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
	if p.SampleSongTitle != nil {
		a.SampleSongTitle = *p.SampleSongTitle
	}
	if p.AudioPreviewURL != nil {
		a.AudioPreviewURL = *p.AudioPreviewURL
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	a.UpdatedAt = time.Now()
}
