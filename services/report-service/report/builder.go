package report

import (
	"crypto/rand"
	"strconv"
	"time"

	"ghostnet-reporting-system/services/report-service/models"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Builder shapes a validated submission into a canonical Report. It
// generates the report id and creation timestamp itself and never
// accepts them from input.
type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// Build applies the anonymity substitution deterministically: the same
// input with Anonymous set always yields the same sentinel values, and
// a non-anonymous input keeps its contact fields verbatim.
func (b *Builder) Build(in models.ReportInput) models.Report {
	now := b.now().UTC()

	r := models.Report{
		ReportID:    newReportID(now),
		Timestamp:   now.Format("2006-01-02T15:04:05.000Z"),
		Anonymous:   in.Anonymous,
		FoundNet:    in.FoundNet,
		Location:    in.Location,
		Date:        in.Date,
		Description: in.Description,
		Photo:       orPlaceholder(in.Photo),
		Video:       orPlaceholder(in.Video),
		LOPD1:       yesNo(in.LOPD1),
		LOPD2:       yesNo(in.LOPD2),
		LOPD3:       yesNo(in.LOPD3),
	}

	if in.Anonymous {
		r.Name = models.SentinelName
		r.Phone = models.SentinelNotProvided
		r.Email = models.SentinelNotProvided
		r.ContactMethod = models.SentinelNotApplicable
	} else {
		r.Name = in.Name
		r.Phone = in.Phone
		r.Email = in.Email
		r.ContactMethod = in.ContactMethod
	}

	return r
}

func newReportID(now time.Time) string {
	return "REP_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + randomSuffix(9)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure is not recoverable here; fall back to the
		// clock so ids stay distinct across calls.
		nano := strconv.FormatInt(time.Now().UnixNano(), 36)
		if len(nano) > n {
			nano = nano[len(nano)-n:]
		}
		return nano
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}

func orPlaceholder(v string) string {
	if v == "" {
		return models.MediaNotProvided
	}
	return v
}

func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}
