package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"project-mcp-backend/pkg/database"
	"project-mcp-backend/pkg/scope"
	"project-mcp-backend/pkg/view"
)

func TestWriteViewErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{scope.Violationf("project p1 is outside the current scope"), http.StatusForbidden},
		{view.ErrNotFound, http.StatusNotFound},
		{database.ErrDuplicateDisplayID, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeViewError(rec, tc.err)
		assert.Equal(t, tc.want, rec.Code, "error %v", tc.err)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	}
}
