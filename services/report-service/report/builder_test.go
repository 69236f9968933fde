package report

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ghostnet-reporting-system/services/report-service/models"
)

var reportIDPattern = regexp.MustCompile(`^REP_\d+_[0-9a-z]{9}$`)

func TestBuildKeepsContactFieldsVerbatim(t *testing.T) {
	b := NewBuilder()
	r := b.Build(validInput())

	require.False(t, r.Anonymous)
	require.Equal(t, "Ana Pérez", r.Name)
	require.Equal(t, "600111222", r.Phone)
	require.Equal(t, "ana@example.com", r.Email)
	require.Equal(t, "Email", r.ContactMethod)
	require.Equal(t, "Red de 20m enganchada en roca", r.Description)
	require.Regexp(t, reportIDPattern, r.ReportID)
}

func TestBuildAnonymousAlwaysYieldsSentinels(t *testing.T) {
	in := validInput()
	in.Anonymous = true
	// Raw contact data must never survive into an anonymous report.
	in.Name = "Ana Pérez"
	in.Phone = "600111222"
	in.Email = "ana@example.com"
	in.ContactMethod = "Email"

	r := NewBuilder().Build(in)

	require.True(t, r.Anonymous)
	require.Equal(t, models.SentinelName, r.Name)
	require.Equal(t, models.SentinelNotProvided, r.Phone)
	require.Equal(t, models.SentinelNotProvided, r.Email)
	require.Equal(t, models.SentinelNotApplicable, r.ContactMethod)
}

func TestBuildGeneratesFreshIDAndTimestamp(t *testing.T) {
	fixed := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	b := &Builder{now: func() time.Time { return fixed }}

	r := b.Build(validInput())

	require.Equal(t, "2024-01-10T09:30:00.000Z", r.Timestamp)
	require.Regexp(t, reportIDPattern, r.ReportID)
}

func TestBuildIDsArePairwiseDistinct(t *testing.T) {
	b := NewBuilder()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := b.Build(validInput()).ReportID
		require.False(t, seen[id], "duplicate report id %s", id)
		seen[id] = true
	}
}

func TestBuildDefaultsMissingMedia(t *testing.T) {
	in := validInput()
	in.Photo = ""
	in.Video = "https://example.com/video.mp4"

	r := NewBuilder().Build(in)

	require.Equal(t, models.MediaNotProvided, r.Photo)
	require.Equal(t, "https://example.com/video.mp4", r.Video)
}

func TestBuildConsentFlags(t *testing.T) {
	in := validInput()
	in.LOPD1 = true
	in.LOPD2 = false
	in.LOPD3 = true

	r := NewBuilder().Build(in)

	require.Equal(t, "Sí", r.LOPD1)
	require.Equal(t, "No", r.LOPD2)
	require.Equal(t, "Sí", r.LOPD3)
}
