// AngelaMos | 2026
// dto.go

package report

import (
	"strings"
)

type LocationPayload struct {
	Lat     *float64 `json:"lat"     validate:"required,gte=-90,lte=90"`
	Lng     *float64 `json:"lng"     validate:"required,gte=-180,lte=180"`
	Address string   `json:"address" validate:"omitempty,max=500"`
}

type SubmitReportRequest struct {
	Type        string          `json:"type"        validate:"required,max=50"`
	Description string          `json:"description" validate:"required,min=10,max=2000"`
	Location    LocationPayload `json:"location"    validate:"required"`
	// Photo is a data URL produced by the client; it can run to megabytes,
	// so no length cap beyond the server's request body limit.
	Photo string `json:"photo" validate:"omitempty"`
}

func (r *SubmitReportRequest) Normalize() {
	r.Type = strings.TrimSpace(r.Type)
	r.Description = strings.TrimSpace(r.Description)
	r.Location.Address = strings.TrimSpace(r.Location.Address)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed resolved"`
}

type ListResponse struct {
	Reports []*Report `json:"reports"`
	Total   int       `json:"total"`
}
