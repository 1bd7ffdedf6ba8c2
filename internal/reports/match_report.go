// Package reports reads and writes the spreadsheets operators exchange
// with the service.
package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	MatchesSheet = "Matches"
	SummarySheet = "Summary"
)

var matchHeader = []interface{}{
	"Match ID", "Created", "Player 1", "Player 2", "Score", "Player 1 status", "Player 2 status", "Explanation",
}

// MatchSummary aggregates a set of matches.
type MatchSummary struct {
	Total        int
	BothAccepted int
	AnyRejected  int
	AverageScore float64
}

func Summarize(matches []models.Match) MatchSummary {
	var s MatchSummary
	var total float64
	for _, m := range matches {
		s.Total++
		total += m.MatchScore
		if m.User1Status == models.MatchStatusAccepted && m.User2Status == models.MatchStatusAccepted {
			s.BothAccepted++
		}
		if m.User1Status == models.MatchStatusRejected || m.User2Status == models.MatchStatusRejected {
			s.AnyRejected++
		}
	}
	if s.Total > 0 {
		s.AverageScore = total / float64(s.Total)
	}
	return s
}

// WriteMatchReport writes one row per match plus a summary sheet. Matches
// should carry both profiles.
func WriteMatchReport(w io.Writer, matches []models.Match) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MatchesSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(MatchesSheet, "A1", &matchHeader); err != nil {
		return err
	}
	for i, m := range matches {
		row := []interface{}{
			m.ID,
			m.CreatedAt.UTC().Format(time.RFC3339),
			m.User1.Nickname,
			m.User2.Nickname,
			m.MatchScore,
			string(m.User1Status),
			string(m.User2Status),
			m.MatchExplanation,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(MatchesSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(MatchesSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(MatchesSheet, "H", "H", 60); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	s := Summarize(matches)
	summary := [][]interface{}{
		{"Total matches", s.Total},
		{"Both accepted", s.BothAccepted},
		{"Any rejected", s.AnyRejected},
		{"Average score", fmt.Sprintf("%.2f", s.AverageScore)},
	}
	for i, row := range summary {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
