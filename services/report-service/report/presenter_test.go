package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ghostnet-reporting-system/services/report-service/models"
)

func reportAt(ts string, in models.ReportInput) models.Report {
	t, _ := time.Parse("2006-01-02T15:04:05.000Z", ts)
	b := &Builder{now: func() time.Time { return t }}
	return b.Build(in)
}

func TestRowsSortMostRecentFirst(t *testing.T) {
	reports := []models.Report{
		reportAt("2024-01-05T08:00:00.000Z", validInput()),
		reportAt("2024-03-01T08:00:00.000Z", validInput()),
		reportAt("2024-02-10T08:00:00.000Z", validInput()),
	}

	rows := Rows(reports)
	require.Len(t, rows, 3)
	require.Equal(t, "01/03/2024", rows[0].Date)
	require.Equal(t, "10/02/2024", rows[1].Date)
	require.Equal(t, "05/01/2024", rows[2].Date)
}

func TestRowsSortIsStableOnEqualTimestamps(t *testing.T) {
	first := validInput()
	first.Location = "Tabarca"
	second := validInput()
	second.Location = "Calpe"

	reports := []models.Report{
		reportAt("2024-02-10T08:00:00.000Z", first),
		reportAt("2024-02-10T08:00:00.000Z", second),
	}

	rows := Rows(reports)
	require.Equal(t, "Tabarca", rows[0].Location)
	require.Equal(t, "Calpe", rows[1].Location)
}

func TestRowsTruncateLongDescriptions(t *testing.T) {
	in := validInput()
	in.Description = strings.Repeat("x", 60)

	rows := Rows([]models.Report{reportAt("2024-02-10T08:00:00.000Z", in)})
	require.Equal(t, strings.Repeat("x", 50)+"...", rows[0].Description)

	in.Description = strings.Repeat("x", 50)
	rows = Rows([]models.Report{reportAt("2024-02-10T08:00:00.000Z", in)})
	require.Equal(t, strings.Repeat("x", 50), rows[0].Description, "exactly the limit needs no ellipsis")
}

func TestRowsRedactContact(t *testing.T) {
	rows := Rows([]models.Report{reportAt("2024-02-10T08:00:00.000Z", validInput())})
	require.Equal(t, "A. - example.com", rows[0].Contact)
	require.NotContains(t, rows[0].Contact, "600111222")
	require.NotContains(t, rows[0].Contact, "ana@example.com")
}

func TestRowsAnonymousContact(t *testing.T) {
	in := validInput()
	in.Anonymous = true

	rows := Rows([]models.Report{reportAt("2024-02-10T08:00:00.000Z", in)})
	require.True(t, rows[0].Anonymous)
	require.Equal(t, "Reporte anónimo", rows[0].Contact)
}

func TestFilterFlagsWithoutRemoving(t *testing.T) {
	first := validInput()
	first.Location = "Playa de Tabarca"
	second := validInput()
	second.Location = "Cabo de Palos"

	rows := Rows([]models.Report{
		reportAt("2024-02-10T08:00:00.000Z", first),
		reportAt("2024-02-09T08:00:00.000Z", second),
	})

	filtered := Filter(rows, "TABARCA")
	require.Len(t, filtered, 2, "filtering hides rows, it never drops them")
	require.False(t, filtered[0].Hidden)
	require.True(t, filtered[1].Hidden)

	// The input slice stays untouched.
	require.False(t, rows[1].Hidden)
}

func TestFilterBlankTermShowsEverything(t *testing.T) {
	rows := Rows([]models.Report{reportAt("2024-02-10T08:00:00.000Z", validInput())})
	for _, r := range Filter(rows, "   ") {
		require.False(t, r.Hidden)
	}
}
