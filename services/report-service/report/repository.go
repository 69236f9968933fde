package report

import (
	"context"

	"ghostnet-reporting-system/services/report-service/models"
)

// Store is a durable, ordered report list. Append must not overwrite or
// reorder existing reports; LoadAll returns them in insertion order.
type Store interface {
	Append(ctx context.Context, r models.Report) error
	LoadAll(ctx context.Context) ([]models.Report, error)
}

// AuditStore receives export audit entries. It is append-only and the
// application never reads it back.
type AuditStore interface {
	AppendEntry(ctx context.Context, e models.AuditLogEntry) error
}

// Repository is the read/write façade over whichever store is active.
type Repository struct {
	store Store
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// Save appends the report to the backing store. A failure of the medium
// propagates as a StorageError rather than silently dropping data.
func (r *Repository) Save(ctx context.Context, rep models.Report) error {
	if err := r.store.Append(ctx, rep); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// LoadAll returns every stored report in insertion order. An empty
// store yields an empty slice, not an error.
func (r *Repository) LoadAll(ctx context.Context) ([]models.Report, error) {
	reports, err := r.store.LoadAll(ctx)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

// Stats derives the aggregate counters from the full list. The last
// submission date is taken from the most recently inserted report, not
// from timestamp order.
func (r *Repository) Stats(ctx context.Context) (models.ReportStats, error) {
	reports, err := r.LoadAll(ctx)
	if err != nil {
		return models.ReportStats{}, err
	}

	stats := models.ReportStats{TotalCount: len(reports)}
	for _, rep := range reports {
		if rep.Anonymous {
			stats.AnonymousCount++
		}
	}
	if len(reports) > 0 {
		stats.LastSubmissionDate = reports[len(reports)-1].Timestamp
	}
	return stats, nil
}
