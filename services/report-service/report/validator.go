package report

import (
	"regexp"
	"strings"
	"time"

	"ghostnet-reporting-system/services/report-service/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Incident fields are always required. Contact fields are required only
// for non-anonymous submissions.
var (
	incidentFields = []field{
		{"foundNet", func(in models.ReportInput) string { return in.FoundNet }},
		{"location", func(in models.ReportInput) string { return in.Location }},
		{"date", func(in models.ReportInput) string { return in.Date }},
		{"description", func(in models.ReportInput) string { return in.Description }},
	}
	contactFields = []field{
		{"name", func(in models.ReportInput) string { return in.Name }},
		{"phone", func(in models.ReportInput) string { return in.Phone }},
		{"email", func(in models.ReportInput) string { return in.Email }},
		{"contactMethod", func(in models.ReportInput) string { return in.ContactMethod }},
	}
)

type field struct {
	name  string
	value func(models.ReportInput) string
}

// Validate checks a raw submission and returns nil when it is valid, or
// a ValidationError naming every offending field. It has no side
// effects; the caller decides what to do with the result.
func Validate(in models.ReportInput, now time.Time) *ValidationError {
	ve := &ValidationError{}

	for _, f := range incidentFields {
		if strings.TrimSpace(f.value(in)) == "" {
			ve.Missing = append(ve.Missing, f.name)
		}
	}
	if !in.Anonymous {
		for _, f := range contactFields {
			if strings.TrimSpace(f.value(in)) == "" {
				ve.Missing = append(ve.Missing, f.name)
			}
		}
	}

	// Email shape is only enforced for non-anonymous submissions; a blank
	// email is acceptable only when anonymous and is already reported as
	// missing otherwise.
	if !in.Anonymous && strings.TrimSpace(in.Email) != "" && !emailRegex.MatchString(strings.TrimSpace(in.Email)) {
		ve.InvalidEmail = true
	}

	if strings.TrimSpace(in.Date) != "" {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(in.Date))
		if err != nil {
			ve.InvalidDate = true
		} else {
			today, _ := time.Parse("2006-01-02", now.UTC().Format("2006-01-02"))
			if d.After(today) {
				ve.InvalidDate = true
			}
		}
	}

	// Privacy-policy consent is mandatory regardless of anonymity and is
	// reported with a dedicated message.
	if !in.LOPD1 {
		ve.NoConsent = true
	}

	if ve.empty() {
		return nil
	}
	return ve
}
