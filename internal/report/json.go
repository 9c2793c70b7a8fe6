package report

import (
	"encoding/json"
	"io"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
)

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []playback.Record) error {
	if records == nil {
		records = []playback.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteJSONFile writes records to path, creating parent directories as needed.
func WriteJSONFile(path string, records []playback.Record) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, records)
	})
}

// MarshalJSON returns records as an indented JSON array, or "[]" if encoding fails.
func MarshalJSON(records []playback.Record) string {
	if records == nil {
		return "[]"
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}
