package models

import (
	"encoding/json"
	"time"
)

// IssueType classifies a citizen report.
type IssueType string

const (
	IssueTraffic IssueType = "traffic"
	IssueWaste   IssueType = "waste"
	IssueEnergy  IssueType = "energy"
	IssueOther   IssueType = "other"
)

var issueTypeLabels = map[IssueType]string{
	IssueTraffic: "Traffic Issue",
	IssueWaste:   "Waste Management",
	IssueEnergy:  "Energy/Power Issue",
	IssueOther:   "Other",
}

// Valid reports whether t is a known issue type.
func (t IssueType) Valid() bool {
	_, ok := issueTypeLabels[t]
	return ok
}

// Label returns the display name.
func (t IssueType) Label() string {
	return issueTypeLabels[t]
}

// ReportStatus is the review state of a citizen report. Any status may follow any other.
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportInProgress ReportStatus = "in_progress"
	ReportResolved   ReportStatus = "resolved"
	ReportRejected   ReportStatus = "rejected"
)

var reportStatusLabels = map[ReportStatus]string{
	ReportPending:    "Pending Review",
	ReportInProgress: "In Progress",
	ReportResolved:   "Resolved",
	ReportRejected:   "Rejected",
}

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	_, ok := reportStatusLabels[s]
	return ok
}

// Label returns the display name.
func (s ReportStatus) Label() string {
	return reportStatusLabels[s]
}

// CitizenReport is an issue submitted by a resident.
type CitizenReport struct {
	ID           int64        `db:"id"`
	ReporterName string       `db:"reporter_name"`
	IssueType    IssueType    `db:"issue_type"`
	Description  string       `db:"description"`
	Image        *string      `db:"image"`
	Location     string       `db:"location"`
	Status       ReportStatus `db:"status"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

type reportJSON struct {
	ID               int64        `json:"id"`
	ReporterName     string       `json:"reporter_name"`
	IssueType        IssueType    `json:"issue_type"`
	IssueTypeDisplay string       `json:"issue_type_display"`
	Description      string       `json:"description"`
	Image            *string      `json:"image"`
	Location         string       `json:"location"`
	Status           ReportStatus `json:"status"`
	StatusDisplay    string       `json:"status_display"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// MarshalJSON adds the derived display labels.
func (r CitizenReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		ID:               r.ID,
		ReporterName:     r.ReporterName,
		IssueType:        r.IssueType,
		IssueTypeDisplay: r.IssueType.Label(),
		Description:      r.Description,
		Image:            r.Image,
		Location:         r.Location,
		Status:           r.Status,
		StatusDisplay:    r.Status.Label(),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	})
}

// ReportFilter narrows report listings. Empty fields do not filter.
type ReportFilter struct {
	Status    ReportStatus
	IssueType IssueType
	Ordering  string
}

// ReportPatch carries the mutable fields of an update; nil leaves a field unchanged.
type ReportPatch struct {
	ReporterName *string
	IssueType    *IssueType
	Description  *string
	Location     *string
	Status       *ReportStatus
}

// Empty reports whether the patch changes nothing.
func (p ReportPatch) Empty() bool {
	return p.ReporterName == nil && p.IssueType == nil && p.Description == nil && p.Location == nil && p.Status == nil
}

// ReportStats is the report section of the dashboard.
type ReportStats struct {
	PendingCount int64           `json:"pending_count"`
	Recent       []CitizenReport `json:"recent"`
	TotalCount   int64           `json:"total_count"`
}
