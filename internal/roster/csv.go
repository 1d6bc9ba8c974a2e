package roster

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a roster from a CSV file. The header row must contain Name
// and Score columns (matched case-insensitively, surrounding whitespace
// ignored). Rows with unparseable scores are kept with a score of 0 rather
// than aborting the whole load.
func LoadCSV(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("roster file %s is empty", path)
	}

	nameCol, scoreCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			nameCol = i
		case "score":
			scoreCol = i
		}
	}
	if nameCol < 0 || scoreCol < 0 {
		return nil, fmt.Errorf("roster file %s must have Name and Score columns", path)
	}

	entries := make([]Entry, 0, len(records)-1)
	for _, rec := range records[1:] {
		if nameCol >= len(rec) || scoreCol >= len(rec) {
			continue
		}
		name := strings.TrimSpace(rec[nameCol])
		if name == "" {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[scoreCol]), 64)
		if err != nil {
			log.Printf("Invalid score %q for %s, using 0", rec[scoreCol], name)
			score = 0
		}
		entries = append(entries, Entry{Name: name, Score: score})
	}
	return entries, nil
}
