// AngelaMos | 2026
// entity_test.go

package report

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReportID(t *testing.T) {
	pattern := regexp.MustCompile(`^report_\d+_[a-z0-9]{9}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewReportID()
		assert.Regexp(t, pattern, id)
		seen[id] = struct{}{}
	}

	assert.Len(t, seen, 100, "ids must not collide in practice")
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusReviewed))
	assert.True(t, ValidStatus(StatusResolved))

	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("closed"))
	assert.False(t, ValidStatus("Pending"))
}
