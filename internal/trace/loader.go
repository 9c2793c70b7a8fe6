package trace

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// BandwidthColumn is the CSV column read by Parse when a header is present.
const BandwidthColumn = "bandwidth_kbps"

// Load reads a trace from path. See Parse for the accepted formats.
func Load(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	samples, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read trace %s: %w", path, err)
	}
	return samples, nil
}

// Parse reads bandwidth samples (kbps) from r.
//
// Two layouts are accepted:
//   - one number per line
//   - CSV with a header row containing a "bandwidth_kbps" column
//
// Blank lines and lines starting with '#' are skipped. Values are not range
// checked here; the engine rejects non-positive samples.
func Parse(r io.Reader) ([]float64, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	if !strings.Contains(lines[0], ",") {
		if _, err := strconv.ParseFloat(lines[0], 64); err != nil {
			// Single-column file with a header.
			if !strings.EqualFold(lines[0], BandwidthColumn) {
				return nil, fmt.Errorf("line 1: %q is neither a number nor a %s header", lines[0], BandwidthColumn)
			}
			lines = lines[1:]
		}
		return parsePlain(lines)
	}
	return parseCSV(strings.Join(lines, "\n"))
}

func parsePlain(lines []string) ([]float64, error) {
	samples := make([]float64, 0, len(lines))
	for i, line := range lines {
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		samples = append(samples, v)
	}
	return samples, nil
}

func parseCSV(data string) ([]float64, error) {
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		return nil, err
	}

	col := -1
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), BandwidthColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("csv header has no %s column", BandwidthColumn)
	}

	samples := make([]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		samples = append(samples, v)
	}
	return samples, nil
}
