package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	"github.com/xiaoxiao0301/artist-atlas/internal/repository"
	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExportResult is a rendered catalogue export ready to stream to a client.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the full artist catalogue as a downloadable file.
type ExportService interface {
	Export(ctx context.Context, format string) (*ExportResult, error)
}

type exportService struct {
	artists repository.ArtistRepository
	now     func() time.Time
}

// NewExportService creates the export service.
func NewExportService(artists repository.ArtistRepository) ExportService {
	return &exportService{artists: artists, now: time.Now}
}

var exportHeader = []string{
	"ID", "Name", "Genres", "Country", "Popularity Score",
	"Popularity Level", "Debut Year", "Sample Song", "Created At",
}

func exportRow(a *domain.Artist) []string {
	score := ""
	if a.PopularityScore != nil {
		score = strconv.Itoa(*a.PopularityScore)
	}
	year := ""
	if a.DebutYear != nil {
		year = strconv.Itoa(*a.DebutYear)
	}
	return []string{
		a.ID,
		a.Name,
		strings.Join(a.Genres, "; "),
		a.Country,
		score,
		string(a.PopularityLevel),
		year,
		a.SampleSongTitle,
		a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *exportService) Export(ctx context.Context, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}

	artists, err := s.artists.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stamp := s.now().UTC().Format("20060102-150405")

	switch format {
	case FormatCSV:
		data, err := renderCSV(artists)
		if err != nil {
			return nil, apperrors.ErrInternal.WithError(err)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("artists-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case FormatXLSX:
		data, err := renderXLSX(artists)
		if err != nil {
			return nil, apperrors.ErrInternal.WithError(err)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("artists-%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, apperrors.ErrInvalidInput.WithMessage(
			fmt.Sprintf("Unsupported export format: %s", format))
	}
}

func renderCSV(artists []*domain.Artist) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, a := range artists {
		if err := w.Write(exportRow(a)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(artists []*domain.Artist) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Artists"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, a := range artists {
		row := exportRow(a)
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
