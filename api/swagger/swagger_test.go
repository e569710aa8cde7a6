package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocumentListsAllocationRoutes(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths       map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	for _, path := range []string{
		"/student/courses/enroll",
		"/student/courses/{courseId}/drop",
		"/lecturer/enrollment-requests/{id}/decision",
		"/lecturer/courses/{courseId}/capacity",
		"/allocations/{id}",
	} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.Contains(t, doc.Definitions, "AllocationDetail")
}
