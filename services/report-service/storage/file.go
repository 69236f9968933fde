package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ghostnet-reporting-system/services/report-service/models"
)

// Column headers of the append-only submission log, written once when
// the file is created.
var logHeaders = []string{
	"ID Reporte", "Fecha creación", "Anónimo", "¿Encontró red?",
	"Lugar", "Fecha hallazgo", "Descripción", "Foto", "Vídeo",
	"Nombre", "Teléfono", "Email", "Método contacto",
	"Acepta política", "Acepta información", "Acepta uso multimedia",
}

// FileStore persists reports under a fixed directory as an append-only
// CSV log plus a JSON array snapshot. Each save appends one row to the
// log without reading the whole file, then rewrites the snapshot so it
// stays queryable as a single document. Concurrent saves from multiple
// processes are not coordinated: last writer wins on the snapshot,
// which is an accepted limitation.
//
// Contact fields of non-anonymous reports are sealed (AES-GCM) in both
// files and opened again on load.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) logPath() string      { return filepath.Join(s.dir, "reports.csv") }
func (s *FileStore) snapshotPath() string { return filepath.Join(s.dir, "reports.json") }

func (s *FileStore) Append(ctx context.Context, r models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	sealed, err := sealContact(r)
	if err != nil {
		return err
	}

	if err := s.appendLogRow(sealed); err != nil {
		return err
	}
	return s.appendSnapshot(sealed)
}

func (s *FileStore) appendLogRow(r models.Report) error {
	_, statErr := os.Stat(s.logPath())
	needHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.logPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open submission log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(logHeaders); err != nil {
			return fmt.Errorf("failed to write log header: %w", err)
		}
	}
	row := []string{
		r.ReportID, r.Timestamp, yesNo(r.Anonymous), r.FoundNet,
		r.Location, r.Date, r.Description, r.Photo, r.Video,
		r.Name, r.Phone, r.Email, r.ContactMethod,
		r.LOPD1, r.LOPD2, r.LOPD3,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to append log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush submission log: %w", err)
	}
	return nil
}

func (s *FileStore) appendSnapshot(r models.Report) error {
	reports, err := s.readSnapshot()
	if err != nil {
		return err
	}
	reports = append(reports, r)

	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) LoadAll(ctx context.Context) ([]models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := s.readSnapshot()
	if err != nil {
		return nil, err
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

func (s *FileStore) readSnapshot() ([]models.Report, error) {
	data, err := os.ReadFile(s.snapshotPath())
	if os.IsNotExist(err) {
		return []models.Report{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var reports []models.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}
