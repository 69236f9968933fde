package report

import (
	"sort"
	"strings"
	"time"

	"ghostnet-reporting-system/services/report-service/models"
)

// Row is one report prepared for on-screen review. The stored report is
// untouched: truncation and contact redaction happen here only.
type Row struct {
	ReportID    string `json:"reportId"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Anonymous   bool   `json:"anonymous"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
	Hidden      bool   `json:"hidden,omitempty"`
}

// Rows sorts all reports most recent first (stable: identical
// timestamps keep their insertion order) and shapes each one for
// display.
func Rows(reports []models.Report) []Row {
	sorted := append([]models.Report(nil), reports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, erri := parseTimestamp(sorted[i].Timestamp)
		tj, errj := parseTimestamp(sorted[j].Timestamp)
		if erri != nil || errj != nil {
			return false
		}
		return ti.After(tj)
	})

	rows := make([]Row, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, Row{
			ReportID:    r.ReportID,
			Date:        displayDate(r.Timestamp),
			Type:        "Red encontrada",
			Anonymous:   r.Anonymous,
			Location:    r.Location,
			Description: truncate(r.Description, 50),
			Contact:     redactContact(r),
		})
	}
	return rows
}

// Filter marks every row whose rendered text does not contain the term
// as hidden. Matching is case-insensitive; rows are flagged, never
// removed.
func Filter(rows []Row, term string) []Row {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	out := append([]Row(nil), rows...)
	for i := range out {
		text := strings.ToLower(strings.Join([]string{
			out[i].Date, out[i].Type, out[i].Location, out[i].Description, out[i].Contact,
		}, " "))
		out[i].Hidden = !strings.Contains(text, term)
	}
	return out
}

// redactContact presents at most the first name's initial and the email
// domain for non-anonymous reports. Raw name, phone and email never
// reach this privacy-limited view.
func redactContact(r models.Report) string {
	if r.Anonymous {
		return "Reporte anónimo"
	}

	initial := ""
	if parts := strings.Fields(r.Name); len(parts) > 0 {
		runes := []rune(parts[0])
		initial = string(runes[0]) + "."
	}

	domain := ""
	if at := strings.LastIndex(r.Email, "@"); at >= 0 && at < len(r.Email)-1 {
		domain = r.Email[at+1:]
	}

	return initial + " - " + domain
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func displayDate(ts string) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Format("02/01/2006")
}

func parseTimestamp(ts string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05.000Z", ts); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, ts)
}
