package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ghostnet-reporting-system/services/report-service/models"
)

type memStore struct {
	reports   []models.Report
	appendErr error
	loadErr   error
}

func (s *memStore) Append(_ context.Context, r models.Report) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *memStore) LoadAll(_ context.Context) ([]models.Report, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]models.Report(nil), s.reports...), nil
}

type memAudit struct {
	entries   []models.AuditLogEntry
	appendErr error
}

func (a *memAudit) AppendEntry(_ context.Context, e models.AuditLogEntry) error {
	if a.appendErr != nil {
		return a.appendErr
	}
	a.entries = append(a.entries, e)
	return nil
}

func TestSaveThenLoadAllAppends(t *testing.T) {
	store := &memStore{}
	repo := NewRepository(store)
	ctx := context.Background()

	first := NewBuilder().Build(validInput())
	require.NoError(t, repo.Save(ctx, first))

	before, err := repo.LoadAll(ctx)
	require.NoError(t, err)

	second := NewBuilder().Build(validInput())
	require.NoError(t, repo.Save(ctx, second))

	after, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	require.Equal(t, second, after[len(after)-1])
}

func TestLoadAllEmptyStoreYieldsEmptySlice(t *testing.T) {
	repo := NewRepository(&memStore{})

	reports, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reports)
	require.Empty(t, reports)
}

func TestSavePropagatesStorageError(t *testing.T) {
	cause := errors.New("disk full")
	repo := NewRepository(&memStore{appendErr: cause})

	err := repo.Save(context.Background(), NewBuilder().Build(validInput()))
	require.Error(t, err)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	require.ErrorIs(t, err, cause)
}

func TestStatsCountsAndLastSubmission(t *testing.T) {
	store := &memStore{}
	repo := NewRepository(store)
	ctx := context.Background()

	anon := validInput()
	anon.Anonymous = true

	b := NewBuilder()
	require.NoError(t, repo.Save(ctx, b.Build(anon)))
	require.NoError(t, repo.Save(ctx, b.Build(validInput())))
	require.NoError(t, repo.Save(ctx, b.Build(anon)))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalCount)
	require.Equal(t, 2, stats.AnonymousCount)
	require.Equal(t, store.reports[2].Timestamp, stats.LastSubmissionDate)
}

func TestStatsLastSubmissionFollowsInsertionOrder(t *testing.T) {
	// The last inserted report wins even when an earlier insert carries a
	// later timestamp.
	store := &memStore{reports: []models.Report{
		{ReportID: "REP_2", Timestamp: "2024-05-01T10:00:00.000Z"},
		{ReportID: "REP_1", Timestamp: "2024-01-01T10:00:00.000Z"},
	}}
	repo := NewRepository(store)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2024-01-01T10:00:00.000Z", stats.LastSubmissionDate)
}

func TestStatsEmptyStore(t *testing.T) {
	repo := NewRepository(&memStore{})

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.TotalCount)
	require.Zero(t, stats.AnonymousCount)
	require.Empty(t, stats.LastSubmissionDate)
}
