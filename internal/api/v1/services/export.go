package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	apperrors "vidseek/internal/app/errors"
	"vidseek/internal/app/export"
	"vidseek/internal/app/model"
	"vidseek/internal/app/videosearch"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ExportServiceImpl implements the ExportService interface
type ExportServiceImpl struct {
	sessions Sessions
}

// NewExportService creates a new export service
func NewExportService(sessions Sessions) ExportService {
	return &ExportServiceImpl{sessions: sessions}
}

// Export writes the video's transcript, plus its chunk index when one is
// cached, in the requested format. Nothing is embedded on demand.
func (s *ExportServiceImpl) Export(ctx context.Context, videoID string, format string, writer io.Writer) error {
	switch format {
	case FormatCSV, FormatJSON, FormatXLSX:
	default:
		return apperrors.InvalidField("format", format)
	}

	t, err := s.sessions.Transcript(ctx, videosearch.SearchSession{VideoID: videoID})
	if err != nil {
		return err
	}

	var embeddings []model.ChunkEmbedding
	if set, err := s.sessions.Embeddings(ctx, videoID); err != nil {
		return err
	} else if set != nil {
		embeddings = set.Embeddings
	}

	switch format {
	case FormatCSV:
		return s.exportCSV(*t, writer)
	case FormatJSON:
		return s.exportJSON(*t, embeddings, writer)
	default:
		file, err := export.Workbook(*t, embeddings)
		if err != nil {
			return err
		}
		return file.Write(writer)
	}
}

// exportCSV exports the transcript segments as CSV
func (s *ExportServiceImpl) exportCSV(t model.Transcript, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)

	header := []string{"Start", "End", "Timestamp", "Text", "Link"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, seg := range t.Segments {
		row := []string{
			strconv.Itoa(seg.StartTime),
			strconv.Itoa(seg.EndTime),
			export.FormatTimestamp(seg.StartTime),
			seg.Text,
			model.SeekURL(t.VideoID, seg.StartTime),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// exportJSON exports the transcript and chunk boundaries, without vectors
func (s *ExportServiceImpl) exportJSON(t model.Transcript, embeddings []model.ChunkEmbedding, writer io.Writer) error {
	chunks := make([]model.Chunk, 0, len(embeddings))
	for _, ce := range embeddings {
		chunks = append(chunks, ce.Chunk)
	}

	exportData := map[string]interface{}{
		"videoId":  t.VideoID,
		"source":   t.Source,
		"duration": t.Duration(),
		"segments": t.Segments,
		"chunks":   chunks,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData)
}
