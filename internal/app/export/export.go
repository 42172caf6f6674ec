// Package export writes transcripts and chunk indexes to spreadsheets.
package export

import (
	"fmt"

	"github.com/tealeg/xlsx"

	"vidseek/internal/app/model"
)

const (
	TranscriptSheet = "Transcript"
	ChunksSheet     = "Chunks"
)

// Workbook builds a file with a Transcript sheet and, when embeddings are
// given, a Chunks sheet.
func Workbook(t model.Transcript, embeddings []model.ChunkEmbedding) (*xlsx.File, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(TranscriptSheet)
	if err != nil {
		return nil, fmt.Errorf("add %s sheet: %w", TranscriptSheet, err)
	}
	addHeader(sheet, "Start", "End", "Timestamp", "Text", "Link")
	for _, seg := range t.Segments {
		row := sheet.AddRow()
		row.AddCell().SetInt(seg.StartTime)
		row.AddCell().SetInt(seg.EndTime)
		row.AddCell().Value = FormatTimestamp(seg.StartTime)
		row.AddCell().Value = seg.Text
		row.AddCell().Value = model.SeekURL(t.VideoID, seg.StartTime)
	}

	if len(embeddings) == 0 {
		return file, nil
	}

	sheet, err = file.AddSheet(ChunksSheet)
	if err != nil {
		return nil, fmt.Errorf("add %s sheet: %w", ChunksSheet, err)
	}
	addHeader(sheet, "Start", "End", "Dimension", "Text")
	for _, ce := range embeddings {
		row := sheet.AddRow()
		row.AddCell().SetInt(ce.StartTime)
		row.AddCell().SetInt(ce.EndTime)
		row.AddCell().SetInt(len(ce.Embedding))
		row.AddCell().Value = ce.Text
	}
	return file, nil
}

// ToExcel writes Workbook's result to outputFilePath
func ToExcel(t model.Transcript, embeddings []model.ChunkEmbedding, outputFilePath string) error {
	file, err := Workbook(t, embeddings)
	if err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save %s: %w", outputFilePath, err)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, title := range titles {
		row.AddCell().Value = title
	}
}

// FormatTimestamp renders seconds as M:SS, or H:MM:SS from one hour up
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
