package views

import (
	"strconv"
	"strings"

	"credit-console/internal/models"
)

type HistoryRow struct {
	ApplicationID int64   `json:"applicationId,omitempty"`
	Date          string  `json:"date"`
	Score         float64 `json:"score"`
	Decision      string  `json:"decision"`
	LoanAmount    float64 `json:"loanAmount,omitempty"`
}

type HistoryView struct {
	Rows  []HistoryRow   `json:"rows"`
	Trend []models.Point `json:"trend"`
}

func BuildHistory(items []models.HistoryItem) HistoryView {
	view := HistoryView{
		Rows:  make([]HistoryRow, 0, len(items)),
		Trend: make([]models.Point, 0, len(items)),
	}
	for i, it := range items {
		score := models.SafeNumber(it.Score)
		view.Rows = append(view.Rows, HistoryRow{
			ApplicationID: it.ApplicationID,
			Date:          it.Date,
			Score:         score,
			Decision:      strings.ToUpper(string(it.Decision)),
			LoanAmount:    models.SafeNumber(it.LoanAmount),
		})
		view.Trend = append(view.Trend, models.Point{Name: strconv.Itoa(i + 1), Value: score / 10})
	}
	return view
}
