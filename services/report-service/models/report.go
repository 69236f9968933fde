package models

// Sentinel values stored in place of personal data when a report is
// submitted anonymously. An anonymous report never holds a real name,
// phone or email.
const (
	SentinelName          = "ANÓNIMO"
	SentinelNotProvided   = "NO PROPORCIONADO"
	SentinelNotApplicable = "NO APLICA"

	// Placeholder for optional evidence fields left blank on submit.
	MediaNotProvided = "No proporcionado"
)

// ReportInput is the raw submission as it arrives from the form or the
// API body, before validation and shaping.
type ReportInput struct {
	FoundNet      string `json:"foundNet"`
	Location      string `json:"location"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	Photo         string `json:"photo,omitempty"`
	Video         string `json:"video,omitempty"`
	Name          string `json:"name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	ContactMethod string `json:"contactMethod,omitempty"`
	Anonymous     bool   `json:"anonymous"`
	LOPD1         bool   `json:"lopd1"`
	LOPD2         bool   `json:"lopd2"`
	LOPD3         bool   `json:"lopd3"`
}

// Report is one stored incident record. Reports are append-only: once
// persisted they are never edited or deleted in place.
type Report struct {
	ReportID      string `bson:"report_id" json:"reportId"`
	Timestamp     string `bson:"timestamp" json:"timestamp"`
	Anonymous     bool   `bson:"anonymous" json:"anonymous"`
	FoundNet      string `bson:"found_net" json:"foundNet"`
	Location      string `bson:"location" json:"location"`
	Date          string `bson:"date" json:"date"`
	Description   string `bson:"description" json:"description"`
	Photo         string `bson:"photo" json:"photo"`
	Video         string `bson:"video" json:"video"`
	Name          string `bson:"name" json:"name"`
	Phone         string `bson:"phone" json:"phone"`
	Email         string `bson:"email" json:"email"`
	ContactMethod string `bson:"contact_method" json:"contactMethod"`
	LOPD1         string `bson:"lopd1" json:"lopd1"`
	LOPD2         string `bson:"lopd2" json:"lopd2"`
	LOPD3         string `bson:"lopd3" json:"lopd3"`
}

// ReportStats is derived from the full report list on each read.
// LastSubmissionDate is the timestamp of the most recently inserted
// report, not the newest by timestamp order.
type ReportStats struct {
	TotalCount         int    `json:"totalCount"`
	AnonymousCount     int    `json:"anonymousCount"`
	LastSubmissionDate string `json:"lastSubmissionDate,omitempty"`
}

// AuditLogEntry records one CSV export of personal data. The audit
// trail is write-only: the application appends entries and never reads
// them back.
type AuditLogEntry struct {
	Timestamp   string `bson:"timestamp" json:"timestamp"`
	Action      string `bson:"action" json:"action"`
	File        string `bson:"file" json:"file"`
	RecordCount int    `bson:"record_count" json:"recordCount"`
}

// ReportEvent is published to the message queue when a report is
// created, for the dispatcher and notification consumers.
type ReportEvent struct {
	ReportID    string `json:"report_id"`
	FoundNet    string `json:"found_net"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Anonymous   bool   `json:"anonymous"`
	Reporter    string `json:"reporter_name"`
	CreatedAt   string `json:"created_at"`
}
