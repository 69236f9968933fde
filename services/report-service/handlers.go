package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"ghostnet-reporting-system/pkg/middleware"
	"ghostnet-reporting-system/pkg/objectstore"
	"ghostnet-reporting-system/pkg/queue"
	"ghostnet-reporting-system/pkg/response"
	"ghostnet-reporting-system/services/report-service/models"
	"ghostnet-reporting-system/services/report-service/report"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	amqp "github.com/rabbitmq/amqp091-go"
)

const maxMediaSize = 10 << 20 // 10 MiB

type server struct {
	repo        *report.Repository
	exporter    *report.Exporter
	builder     *report.Builder
	amqpCh      *amqp.Channel
	media       *minio.Client
	mediaBucket string
}

// reportsHandler is the single submission resource: POST submits, GET
// lists, anything else is rejected. OPTIONS preflight is answered by
// the CORS middleware before reaching here.
func (s *server) reportsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.submitReport(w, r)
	case http.MethodGet:
		s.listReports(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Método no permitido", "")
	}
}

func (s *server) submitReport(w http.ResponseWriter, r *http.Request) {
	input, err := parseSubmission(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if ve := report.Validate(input, time.Now()); ve != nil {
		response.Error(w, http.StatusBadRequest, ve.Error(), strings.Join(ve.Fields(), ", "))
		return
	}

	rep := s.builder.Build(input)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.repo.Save(ctx, rep); err != nil {
		middleware.LogError(middleware.GetTraceID(r), "Failed to save report", err)
		response.Error(w, http.StatusInternalServerError, "Error al guardar el reporte", "")
		return
	}

	middleware.CountReport(rep.Anonymous)
	log.Printf("[OK] Report saved - ID: %s, Anonymous: %v", rep.ReportID, rep.Anonymous)

	s.publishEvents(rep)

	response.Submitted(w, "Reporte guardado correctamente", rep.ReportID)
}

// publishEvents notifies the dispatcher and the staff feed. A publish
// failure never fails the submission: the report is already durable.
func (s *server) publishEvents(rep models.Report) {
	if s.amqpCh == nil {
		return
	}

	event := models.ReportEvent{
		ReportID:    rep.ReportID,
		FoundNet:    rep.FoundNet,
		Location:    rep.Location,
		Date:        rep.Date,
		Description: rep.Description,
		Anonymous:   rep.Anonymous,
		Reporter:    rep.Name,
		CreatedAt:   rep.Timestamp,
	}

	if err := queue.PublishMessage(s.amqpCh, "report_queue", event); err != nil {
		log.Printf("[WARN] Report saved but failed to publish event: %v", err)
	}
	if err := queue.PublishToExchange(s.amqpCh, "reports", "report.created", event); err != nil {
		log.Printf("[WARN] Failed to publish notification event: %v", err)
	}
}

// listReports returns the full JSON array of stored reports, or [] when
// none exist yet.
func (s *server) listReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reports, err := s.repo.LoadAll(ctx)
	if err != nil {
		middleware.LogError(middleware.GetTraceID(r), "Failed to load reports", err)
		response.Error(w, http.StatusInternalServerError, "Error al leer los reportes", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reports); err != nil {
		middleware.LogError(middleware.GetTraceID(r), "Failed to encode reports", err)
	}
}

func (s *server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Método no permitido", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		middleware.LogError(middleware.GetTraceID(r), "Failed to compute stats", err)
		response.Error(w, http.StatusInternalServerError, "Error al calcular estadísticas", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		middleware.LogError(middleware.GetTraceID(r), "Failed to encode stats", err)
	}
}

// viewHandler returns the privacy-limited review rows: sorted most
// recent first, descriptions truncated, contact redacted. ?q= filters
// rows without removing them.
func (s *server) viewHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Método no permitido", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reports, err := s.repo.LoadAll(ctx)
	if err != nil {
		middleware.LogError(middleware.GetTraceID(r), "Failed to load reports", err)
		response.Error(w, http.StatusInternalServerError, "Error al leer los reportes", "")
		return
	}

	rows := report.Rows(reports)
	if q := r.URL.Query().Get("q"); q != "" {
		rows = report.Filter(rows, q)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		middleware.LogError(middleware.GetTraceID(r), "Failed to encode rows", err)
	}
}

// exportHandler serves the admin LOPD CSV. It sits behind JWT auth with
// the admin role; the caller must additionally confirm the download of
// personal data explicitly.
func (s *server) exportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Método no permitido", "")
		return
	}

	confirmed := r.Header.Get("X-Confirm-LOPD") == "yes" || r.URL.Query().Get("confirm") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	export, err := s.exporter.ExportAdmin(ctx, confirmed)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNoReports):
			response.Error(w, http.StatusNotFound, "No hay datos para descargar", "")
		case errors.Is(err, report.ErrExportDeclined):
			response.Error(w, http.StatusForbidden, "Debe confirmar la descarga de datos personales (X-Confirm-LOPD: yes)", "")
		default:
			middleware.LogError(middleware.GetTraceID(r), "Export failed", err)
			response.Error(w, http.StatusInternalServerError, "Error al generar la exportación", "")
		}
		return
	}

	claims, _ := r.Context().Value(middleware.UserContextKey).(*middleware.UserClaims)
	if claims != nil {
		log.Printf("[OK] LOPD export by %s - file: %s, records: %d", claims.Email, export.Filename, export.RecordCount)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	if _, err := w.Write(export.Data); err != nil {
		middleware.LogError(middleware.GetTraceID(r), "Failed to write export", err)
	}
}

// mediaHandler stores one photo or video evidence file and returns its
// URL, to be carried in the report's photo/video field.
func (s *server) mediaHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Método no permitido", "")
		return
	}
	if s.media == nil {
		response.Error(w, http.StatusServiceUnavailable, "Almacenamiento de archivos no disponible", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMediaSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Archivo no válido", err.Error())
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectName := "evidence/" + uuid.New().String() + path.Ext(header.Filename)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	url, err := objectstore.Upload(ctx, s.media, s.mediaBucket, objectName, file, header.Size, contentType)
	if err != nil {
		middleware.LogError(middleware.GetTraceID(r), "Failed to upload evidence", err)
		response.Error(w, http.StatusInternalServerError, "Error al subir el archivo", "")
		return
	}

	response.Success(w, http.StatusCreated, "Archivo subido correctamente", map[string]string{"url": url})
}

func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "UP",
		"service": "report-service",
	})
}

// parseSubmission decodes a submission from a JSON body or, failing the
// content type, from form-encoded fields.
func parseSubmission(r *http.Request) (models.ReportInput, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var in models.ReportInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return models.ReportInput{}, err
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return models.ReportInput{}, err
	}
	return models.ReportInput{
		FoundNet:      r.PostFormValue("foundNet"),
		Location:      r.PostFormValue("location"),
		Date:          r.PostFormValue("date"),
		Description:   r.PostFormValue("description"),
		Photo:         r.PostFormValue("photo"),
		Video:         r.PostFormValue("video"),
		Name:          r.PostFormValue("name"),
		Phone:         r.PostFormValue("phone"),
		Email:         r.PostFormValue("email"),
		ContactMethod: r.PostFormValue("contactMethod"),
		Anonymous:     formBool(r.PostFormValue("anonymous")),
		LOPD1:         formBool(r.PostFormValue("lopd1")),
		LOPD2:         formBool(r.PostFormValue("lopd2")),
		LOPD3:         formBool(r.PostFormValue("lopd3")),
	}, nil
}

func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1", "sí", "si", "yes":
		return true
	}
	return false
}
