package report

import (
	"bytes"
	"context"
	"strings"
	"time"

	"ghostnet-reporting-system/services/report-service/models"
)

// Column headers of the admin (LOPD) export.
var exportHeaders = []string{
	"ID Reporte", "Fecha creación", "Anónimo", "¿Encontró red?",
	"Lugar", "Fecha hallazgo", "Descripción", "Foto", "Vídeo",
	"Nombre", "Teléfono", "Email", "Método contacto",
	"Acepta política", "Acepta información", "Acepta uso multimedia",
}

// Export is a finished downloadable artifact.
type Export struct {
	Filename    string
	Data        []byte
	RecordCount int
}

// Exporter serializes the full report set to CSV and records every
// successful export in the audit log.
type Exporter struct {
	repo  *Repository
	audit AuditStore
	now   func() time.Time
}

func NewExporter(repo *Repository, audit AuditStore) *Exporter {
	return &Exporter{repo: repo, audit: audit, now: time.Now}
}

// ExportAdmin produces the full LOPD export, including real contact
// fields for non-anonymous reports and the stored sentinels for
// anonymous ones. It never reverses the anonymization: only what the
// report itself holds is written.
//
// The confirmed flag is the explicit human confirmation required before
// downloading personal data; declining aborts with no side effects.
// An empty report set is refused: no file, no audit entry.
func (e *Exporter) ExportAdmin(ctx context.Context, confirmed bool) (*Export, error) {
	reports, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNoReports
	}
	if !confirmed {
		return nil, ErrExportDeclined
	}

	today := e.now().UTC().Format("2006-01-02")
	filename := "reports_" + today + "_LOPD.csv"

	var buf bytes.Buffer
	buf.WriteString("\ufeff") // UTF-8 BOM so spreadsheet tools detect the encoding
	buf.WriteString(strings.Join(exportHeaders, ","))
	for _, r := range reports {
		buf.WriteByte('\n')
		buf.WriteString(strings.Join(exportRow(r), ","))
	}

	entry := models.AuditLogEntry{
		Timestamp:   e.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Action:      "download_csv",
		File:        filename,
		RecordCount: len(reports),
	}
	if err := e.audit.AppendEntry(ctx, entry); err != nil {
		return nil, &StorageError{Op: "audit", Err: err}
	}

	return &Export{Filename: filename, Data: buf.Bytes(), RecordCount: len(reports)}, nil
}

// exportRow writes one report as CSV fields. Free-text columns are
// always quoted; the rest only when they contain a delimiter, quote or
// newline. Internal quotes are doubled either way.
func exportRow(r models.Report) []string {
	name := quoteAlways(r.Name)
	phone := quoteAlways(r.Phone)
	if r.Anonymous {
		// Sentinels carry no personal data and stay bare.
		name = quoteIfNeeded(r.Name)
		phone = quoteIfNeeded(r.Phone)
	}
	return []string{
		quoteIfNeeded(r.ReportID),
		quoteIfNeeded(displayTimestamp(r.Timestamp)),
		yesNo(r.Anonymous),
		quoteAlways(r.FoundNet),
		quoteAlways(r.Location),
		quoteIfNeeded(r.Date),
		quoteAlways(r.Description),
		quoteIfNeeded(r.Photo),
		quoteIfNeeded(r.Video),
		name,
		phone,
		quoteIfNeeded(r.Email),
		quoteIfNeeded(r.ContactMethod),
		quoteIfNeeded(r.LOPD1),
		quoteIfNeeded(r.LOPD2),
		quoteIfNeeded(r.LOPD3),
	}
}

func quoteAlways(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func quoteIfNeeded(v string) string {
	if strings.ContainsAny(v, ",\"\n\r") {
		return quoteAlways(v)
	}
	return v
}

func displayTimestamp(ts string) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Format("02/01/2006 15:04:05")
}
