package domain

import (
	"time"
)

// TargetKind identifies what kind of entity a report is raised against.
type TargetKind string

const (
	TargetItem       TargetKind = "item"
	TargetComment    TargetKind = "comment"
	TargetUser       TargetKind = "user"
	TargetInfluencer TargetKind = "influencer"
)

// ReporterKind identifies whether the reporter is a user or an influencer.
type ReporterKind string

const (
	ReporterUser       ReporterKind = "user"
	ReporterInfluencer ReporterKind = "influencer"
)

// Report is a moderation flag raised by a reporter against a target entity.
// At most one active report exists per (reporter, target) pair; retracting
// deletes the row and re-reporting with a new reason updates it in place.
type Report struct {
	ID           string       `json:"id"`
	TargetKind   TargetKind   `json:"target_kind"`
	TargetID     string       `json:"target_id"`
	ReporterKind ReporterKind `json:"reporter_kind"`
	ReporterID   string       `json:"reporter_id"`
	Reason       string       `json:"reason"`
	IsControlled bool         `json:"is_controlled"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// reportReasons holds the closed reason enum per target kind.
var reportReasons = map[TargetKind][]string{
	TargetItem: {
		"counterfeit",
		"misleading_description",
		"prohibited_item",
		"inappropriate_content",
	},
	TargetComment: {
		"harassment",
		"hate_speech",
		"spam",
		"inappropriate_content",
	},
	TargetUser: {
		"impersonation",
		"harassment",
		"spam",
		"fraudulent_activity",
	},
	TargetInfluencer: {
		"impersonation",
		"counterfeit_sales",
		"misleading_promotion",
		"inappropriate_content",
	},
}

// ValidTargetKind reports whether the given kind is one of the four
// reportable target kinds.
func ValidTargetKind(kind TargetKind) bool {
	_, ok := reportReasons[kind]
	return ok
}

// ValidReportReason reports whether the reason belongs to the closed enum for
// the given target kind.
func ValidReportReason(kind TargetKind, reason string) bool {
	for _, r := range reportReasons[kind] {
		if r == reason {
			return true
		}
	}
	return false
}

// ReportReasons returns the allowed reasons for the given target kind.
func ReportReasons(kind TargetKind) []string {
	return reportReasons[kind]
}
