// internal/models/application.go
package models

import "fmt"

// ApplicationStatus is the tracker column an application sits in.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "Applied"
	StatusInterview ApplicationStatus = "Interview"
	StatusOffer     ApplicationStatus = "Offer"
	StatusRejected  ApplicationStatus = "Rejected"
	StatusWithdrawn ApplicationStatus = "Withdrawn"
)

// ApplicationStatuses lists every status in board order.
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusWithdrawn,
}

// ParseApplicationStatus converts a raw string to a status, returning an error for
// unknown values.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	for _, known := range ApplicationStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

type Application struct {
	ID           ID                `json:"id"`
	InternshipID ID                `json:"internship_id"`
	Status       ApplicationStatus `json:"status"`
	Notes        string            `json:"notes"`
	AppliedAt    string            `json:"applied_at"`
	UpdatedAt    string            `json:"updated_at"`
	Internship   *Internship       `json:"internships"`
}

type ApplicationCreate struct {
	InternshipID ID                `json:"internship_id"`
	Status       ApplicationStatus `json:"status"`
	Notes        string            `json:"notes,omitempty"`
}

// ApplicationUpdate carries a status change, a notes change, or both. Nil fields are omitted.
type ApplicationUpdate struct {
	Status *ApplicationStatus `json:"status,omitempty"`
	Notes  *string            `json:"notes,omitempty"`
}

type ApplicationResponse struct {
	Message string            `json:"message"`
	ID      ID                `json:"id"`
	Status  ApplicationStatus `json:"status"`
}

// ApplicationStats holds counts per status plus the total.
type ApplicationStats struct {
	Counts map[ApplicationStatus]int `json:"counts"`
	Total  int                       `json:"total"`
}

// StatsFromCounts builds ApplicationStats from a {"Applied": n, ..., "total": n} object.
// Unknown keys are ignored and missing statuses count as zero.
func StatsFromCounts(raw map[string]int) ApplicationStats {
	stats := ApplicationStats{Counts: make(map[ApplicationStatus]int, len(ApplicationStatuses)), Total: raw["total"]}
	for _, s := range ApplicationStatuses {
		stats.Counts[s] = raw[string(s)]
	}
	return stats
}
