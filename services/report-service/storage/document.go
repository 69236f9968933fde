// Package storage provides the interchangeable report stores: a single
// JSON document (the browser-storage analog), an append-only CSV log
// with a JSON snapshot (the server file pair), and a MongoDB backend.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ghostnet-reporting-system/services/report-service/models"
)

// DocumentStore keeps the full report list in one opaque JSON document,
// read-modify-written on every save. Personal data is stored as-is,
// like its browser localStorage counterpart.
type DocumentStore struct {
	mu   sync.Mutex
	path string
}

func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

func (s *DocumentStore) Append(ctx context.Context, r models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := readDocument[models.Report](s.path)
	if err != nil {
		return err
	}
	reports = append(reports, r)
	return writeDocument(s.path, reports)
}

func (s *DocumentStore) LoadAll(ctx context.Context) ([]models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return readDocument[models.Report](s.path)
}

// DocumentAuditLog appends export audit entries to their own JSON
// document, separate from the report store.
type DocumentAuditLog struct {
	mu   sync.Mutex
	path string
}

func NewDocumentAuditLog(path string) *DocumentAuditLog {
	return &DocumentAuditLog{path: path}
}

func (l *DocumentAuditLog) AppendEntry(ctx context.Context, e models.AuditLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := readDocument[models.AuditLogEntry](l.path)
	if err != nil {
		return err
	}
	entries = append(entries, e)
	return writeDocument(l.path, entries)
}

func readDocument[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeDocument[T any](path string, items []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
