package report

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoReports is returned when an export is requested with nothing
	// to export. No file is produced and no audit entry is written.
	ErrNoReports = errors.New("no hay datos para descargar")

	// ErrExportDeclined is returned when the caller did not confirm the
	// download of personal data. The export aborts with no side effects.
	ErrExportDeclined = errors.New("descarga de datos personales no confirmada")
)

// StorageError wraps a failure of the backing medium. It propagates to
// the caller instead of silently dropping the report.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationError collects every offending field of a submission so the
// caller can mark all of them, plus one aggregate user-facing message.
type ValidationError struct {
	Missing      []string
	InvalidEmail bool
	InvalidDate  bool
	NoConsent    bool
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "Faltan campos requeridos: "+strings.Join(e.Missing, ", "))
	}
	if e.InvalidEmail {
		parts = append(parts, "Email no válido")
	}
	if e.InvalidDate {
		parts = append(parts, "La fecha del hallazgo no puede ser posterior a hoy")
	}
	if e.NoConsent {
		parts = append(parts, "Debe aceptar la Política de Privacidad para continuar")
	}
	if len(parts) == 0 {
		return "Por favor, complete todos los campos obligatorios (*)"
	}
	return strings.Join(parts, ". ")
}

// Fields returns the names of every offending field.
func (e *ValidationError) Fields() []string {
	fields := append([]string(nil), e.Missing...)
	if e.InvalidEmail {
		fields = append(fields, "email")
	}
	if e.InvalidDate {
		fields = append(fields, "date")
	}
	if e.NoConsent {
		fields = append(fields, "lopd1")
	}
	return fields
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && !e.InvalidEmail && !e.InvalidDate && !e.NoConsent
}
