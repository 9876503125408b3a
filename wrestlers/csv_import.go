package wrestlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"ringstats-backend/models"
)

// MatchRow is one line of a match history import.
type MatchRow struct {
	WrestlerID string
	models.Match
}

// ParseMatchCSV reads rows with the columns wrestler_id, opponent, result and
// optionally date and event. Results are stored in their canonical spelling,
// so "w" and "L" become "Win" and "Loss".
func ParseMatchCSV(reader io.Reader) ([]MatchRow, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv must include a header row and at least one data row")
	}

	headers := make(map[string]int, len(records[0]))
	for idx, col := range records[0] {
		headers[strings.ToLower(strings.TrimSpace(col))] = idx
	}

	for _, col := range []string{"wrestler_id", "opponent", "result"} {
		if _, ok := headers[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	rows := make([]MatchRow, 0, len(records)-1)
	for i, record := range records[1:] {
		lineNo := i + 2

		wrestlerID := strings.TrimSpace(readValue(record, headers["wrestler_id"]))
		if wrestlerID == "" {
			return nil, fmt.Errorf("line %d wrestler_id: value is required", lineNo)
		}
		opponent := strings.TrimSpace(readValue(record, headers["opponent"]))
		if opponent == "" {
			return nil, fmt.Errorf("line %d opponent: value is required", lineNo)
		}

		raw := strings.TrimSpace(readValue(record, headers["result"]))
		outcome := models.ParseOutcome(raw)
		if outcome == models.OutcomeUnknown {
			return nil, fmt.Errorf("line %d result: unrecognised result %q", lineNo, raw)
		}
		m := models.Match{Opponent: opponent, Result: outcome.String()}
		if idx, ok := headers["date"]; ok {
			m.Date = strings.TrimSpace(readValue(record, idx))
		}
		if idx, ok := headers["event"]; ok {
			m.Event = strings.TrimSpace(readValue(record, idx))
		}

		rows = append(rows, MatchRow{WrestlerID: wrestlerID, Match: m})
	}

	return rows, nil
}

func readValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
