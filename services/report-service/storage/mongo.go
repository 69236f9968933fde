package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ghostnet-reporting-system/services/report-service/models"
)

// MongoStore keeps reports in a collection, one document per report,
// returned in natural (insertion) order. Contact fields are sealed like
// in the file backend.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("reports")}
}

func (s *MongoStore) Append(ctx context.Context, r models.Report) error {
	sealed, err := sealContact(r)
	if err != nil {
		return err
	}
	if _, err := s.col.InsertOne(ctx, sealed); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (s *MongoStore) LoadAll(ctx context.Context) ([]models.Report, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}
	defer cursor.Close(ctx)

	var sealed []models.Report
	if err := cursor.All(ctx, &sealed); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}

	reports := make([]models.Report, 0, len(sealed))
	for _, r := range sealed {
		opened, err := openContact(r)
		if err != nil {
			return nil, err
		}
		reports = append(reports, opened)
	}
	return reports, nil
}

// MongoAuditLog appends export audit entries to their own collection.
type MongoAuditLog struct {
	col *mongo.Collection
}

func NewMongoAuditLog(db *mongo.Database) *MongoAuditLog {
	return &MongoAuditLog{col: db.Collection("audit_log")}
}

func (l *MongoAuditLog) AppendEntry(ctx context.Context, e models.AuditLogEntry) error {
	if _, err := l.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
