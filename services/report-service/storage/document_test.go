package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ghostnet-reporting-system/services/report-service/models"
)

func sampleReport(id string) models.Report {
	return models.Report{
		ReportID:      id,
		Timestamp:     "2024-02-10T08:00:00.000Z",
		Anonymous:     false,
		FoundNet:      "Sí, enganchada en el fondo",
		Location:      "Playa de Tabarca",
		Date:          "2024-02-09",
		Description:   "Red de 20m enganchada en roca",
		Photo:         models.MediaNotProvided,
		Video:         models.MediaNotProvided,
		Name:          "Ana Pérez",
		Phone:         "600111222",
		Email:         "ana@example.com",
		ContactMethod: "email",
		LOPD1:         "Sí",
		LOPD2:         "No",
		LOPD3:         "No",
	}
}

func anonymousReport(id string) models.Report {
	r := sampleReport(id)
	r.Anonymous = true
	r.Name = models.SentinelName
	r.Phone = models.SentinelNotProvided
	r.Email = models.SentinelNotProvided
	r.ContactMethod = models.SentinelNotApplicable
	return r
}

func TestDocumentStoreRoundTrip(t *testing.T) {
	s := NewDocumentStore(filepath.Join(t.TempDir(), "reports_store.json"))
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleReport("REP_1_aaaaaaaaa")))
	require.NoError(t, s.Append(ctx, sampleReport("REP_2_bbbbbbbbb")))

	reports, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, "REP_1_aaaaaaaaa", reports[0].ReportID)
	require.Equal(t, "REP_2_bbbbbbbbb", reports[1].ReportID)
	require.Equal(t, "ana@example.com", reports[0].Email)
}

func TestDocumentStoreEmptyFile(t *testing.T) {
	s := NewDocumentStore(filepath.Join(t.TempDir(), "missing.json"))

	reports, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reports)
	require.Empty(t, reports)
}

func TestDocumentStoreStoresPlainContact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports_store.json")
	s := NewDocumentStore(path)

	require.NoError(t, s.Append(context.Background(), sampleReport("REP_1_aaaaaaaaa")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "ana@example.com", "the document store keeps fields as submitted")
}

func TestDocumentStoreRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports_store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewDocumentStore(path)
	_, err := s.LoadAll(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestDocumentStoreHonorsContextCancellation(t *testing.T) {
	s := NewDocumentStore(filepath.Join(t.TempDir(), "reports_store.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.Append(ctx, sampleReport("REP_1_aaaaaaaaa")))
	_, err := s.LoadAll(ctx)
	require.Error(t, err)
}

func TestDocumentAuditLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_log.json")
	l := NewDocumentAuditLog(path)
	ctx := context.Background()

	entry := models.AuditLogEntry{
		Timestamp:   "2024-06-15T10:00:00.000Z",
		Action:      "download_csv",
		File:        "reports_2024-06-15_LOPD.csv",
		RecordCount: 3,
	}
	require.NoError(t, l.AppendEntry(ctx, entry))
	require.NoError(t, l.AppendEntry(ctx, entry))

	entries, err := readDocument[models.AuditLogEntry](path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "download_csv", entries[0].Action)
	require.Equal(t, 3, entries[0].RecordCount)
}

func TestWriteDocumentCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "reports.json")
	require.NoError(t, writeDocument(path, []models.Report{sampleReport("REP_1_aaaaaaaaa")}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "["))
}
