package common

import (
	"encoding/json"
	"fmt"
	"io"

	"vidseek/internal/app/export"
	"vidseek/internal/app/model"
)

// PrintJSON writes v as indented JSON
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintResults writes one numbered block per search result
func PrintResults(w io.Writer, results []model.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching passages found")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. [%s - %s] %.3f\n", i+1,
			export.FormatTimestamp(r.StartTime), export.FormatTimestamp(r.EndTime), r.Similarity)
		fmt.Fprintf(w, "   %s\n", r.Text)
		if r.SeekURL != "" {
			fmt.Fprintf(w, "   %s\n", r.SeekURL)
		}
	}
}

// PrintSegments writes one timestamped line per segment
func PrintSegments(w io.Writer, segments []model.TranscriptSegment) {
	for _, s := range segments {
		fmt.Fprintf(w, "[%s] %s\n", export.FormatTimestamp(s.StartTime), s.Text)
	}
}
