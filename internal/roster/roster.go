// Package roster loads participant rosters from CSV or JSON-lines files and
// classifies advantaged participants.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/genes3e7/Group-Balancer/pkg/balancer"
)

// DefaultMarker is the suffix that flags an advantaged participant.
const DefaultMarker = "*"

// Entry is one raw roster record before classification.
type Entry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Load reads a roster file, dispatching on the file extension. CSV files need
// a header row with Name and Score columns; .json/.jsonl files hold one
// record per line.
func Load(path string) ([]Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".json", ".jsonl":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open roster file: %w", err)
		}
		defer f.Close()
		return LoadJSONL(f)
	default:
		return nil, fmt.Errorf("unsupported roster format: %s", filepath.Ext(path))
	}
}

// Classify derives the advantaged flag from the marker suffix on each name.
// This happens once, before any worker starts; the engine never re-parses
// names. The marker stays in the name so reports show it.
func Classify(entries []Entry, marker string) []balancer.Participant {
	participants := make([]balancer.Participant, len(entries))
	for i, e := range entries {
		participants[i] = balancer.Participant{
			Name:       e.Name,
			Score:      e.Score,
			Advantaged: marker != "" && strings.HasSuffix(e.Name, marker),
		}
	}
	return participants
}
