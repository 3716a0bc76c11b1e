// AngelaMos | 2026
// entity.go

package report

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Report is a community rubbish sighting. UserName is denormalized at
// submission time so admin listings do not fan out into profile lookups.
type Report struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    Location  `json:"location"`
	Photo       string    `json:"photo,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusResolved = "resolved"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusResolved:
		return true
	}
	return false
}

const idSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewReportID produces ids like "report_1756710000123_k3x9q0wbe". The
// millisecond prefix keeps lexicographic and chronological order roughly
// aligned; the random suffix disambiguates same-millisecond submissions.
func NewReportID() string {
	suffix := make([]byte, 9)
	max := big.NewInt(int64(len(idSuffixAlphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to a fixed character rather than panic mid-request.
			suffix[i] = idSuffixAlphabet[0]
			continue
		}
		suffix[i] = idSuffixAlphabet[n.Int64()]
	}

	return fmt.Sprintf("report_%d_%s", time.Now().UnixMilli(), suffix)
}
