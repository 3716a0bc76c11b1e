// AngelaMos | 2026
// entity.go

package notification

import (
	"time"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ReportID  string    `json:"reportId"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	TypeReportReviewed = "report_reviewed"
	TypeReportResolved = "report_resolved"
)
