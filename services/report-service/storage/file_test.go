package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ghostnet-reporting-system/services/report-service/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleReport("REP_1_aaaaaaaaa")))
	require.NoError(t, s.Append(ctx, sampleReport("REP_2_bbbbbbbbb")))

	reports, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, "REP_1_aaaaaaaaa", reports[0].ReportID)
	require.Equal(t, "Ana Pérez", reports[0].Name)
	require.Equal(t, "ana@example.com", reports[0].Email)
}

func TestFileStoreEmptyDirectory(t *testing.T) {
	s := NewFileStore(t.TempDir())

	reports, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reports)
	require.Empty(t, reports)
}

func TestFileStoreWritesLogHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleReport("REP_1_aaaaaaaaa")))
	require.NoError(t, s.Append(ctx, sampleReport("REP_2_bbbbbbbbb")))

	f, err := os.Open(filepath.Join(dir, "reports.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "one header plus one row per save")
	require.Equal(t, logHeaders, rows[0])
	require.Equal(t, "REP_1_aaaaaaaaa", rows[1][0])
	require.Equal(t, "REP_2_bbbbbbbbb", rows[2][0])
}

func TestFileStoreSealsContactOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	require.NoError(t, s.Append(context.Background(), sampleReport("REP_1_aaaaaaaaa")))

	for _, name := range []string{"reports.csv", "reports.json"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NotContains(t, string(raw), "ana@example.com", "%s must not hold plaintext contact data", name)
		require.NotContains(t, string(raw), "600111222", "%s must not hold plaintext contact data", name)
		require.Contains(t, string(raw), sealedPrefix)
	}

	// The location and description are not personal data and stay readable.
	raw, err := os.ReadFile(filepath.Join(dir, "reports.json"))
	require.NoError(t, err)
	require.Contains(t, string(raw), "Playa de Tabarca")
}

func TestFileStoreKeepsAnonymousSentinelsBare(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	require.NoError(t, s.Append(context.Background(), anonymousReport("REP_1_aaaaaaaaa")))

	raw, err := os.ReadFile(filepath.Join(dir, "reports.json"))
	require.NoError(t, err)
	require.Contains(t, string(raw), models.SentinelName)
	require.NotContains(t, string(raw), sealedPrefix)

	reports, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.SentinelName, reports[0].Name)
	require.Equal(t, models.SentinelNotProvided, reports[0].Email)
}

func TestFileStoreReadsPreSealingSnapshots(t *testing.T) {
	dir := t.TempDir()

	// A snapshot written before sealing existed holds plain values.
	plain := `[{"reportId":"REP_1_aaaaaaaaa","name":"Ana Pérez","phone":"600111222","email":"ana@example.com"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reports.json"), []byte(plain), 0o644))

	reports, err := NewFileStore(dir).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, "Ana Pérez", reports[0].Name)
	require.Equal(t, "ana@example.com", reports[0].Email)
}

func TestFileStoreHonorsContextCancellation(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.Append(ctx, sampleReport("REP_1_aaaaaaaaa")))
	_, err := s.LoadAll(ctx)
	require.Error(t, err)
}
