// Package report writes session results as CSV, JSON and human-readable text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
)

// csvHeader is the fixed column order of the records CSV.
var csvHeader = []string{"timestamp", "bitrate_kbps", "buffer_level_secs", "stalled", "switch"}

// WriteCSV writes one row per record after the header.
// Buffer levels are formatted with two decimals.
func WriteCSV(w io.Writer, records []playback.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, len(csvHeader))
	for _, r := range records {
		row[0] = strconv.Itoa(r.Timestamp)
		row[1] = strconv.Itoa(r.BitrateKbps)
		row[2] = strconv.FormatFloat(r.BufferLevelSecs, 'f', 2, 64)
		row[3] = strconv.FormatBool(r.Stalled)
		row[4] = strconv.FormatBool(r.Switch)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes records to path, creating parent directories as needed.
func WriteCSVFile(path string, records []playback.Record) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteCSV(w, records)
	})
}

// writeFile creates path (and its parent directory) and passes it to write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
