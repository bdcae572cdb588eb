package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateSessionHandler_Validation(t *testing.T) {
	// Only parameter validation is covered here (returns before touching
	// the service). Happy paths run against a real database in the
	// integration tests.
	s := &Server{}

	tests := []struct {
		name     string
		body     string
		wantCode int
		errMsg   string
	}{
		{
			name:     "invalid json",
			body:     "{not json",
			wantCode: http.StatusBadRequest,
			errMsg:   "invalid character",
		},
		{
			name:     "missing task",
			body:     `{"mode":"agent"}`,
			wantCode: http.StatusBadRequest,
			errMsg:   "task is required",
		},
		{
			name:     "oversized task",
			body:     `{"task":"` + strings.Repeat("x", maxTaskBytes+1) + `"}`,
			wantCode: http.StatusRequestEntityTooLarge,
			errMsg:   "maximum size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t, http.MethodPost, "/api/v1/sessions", tt.body)

			s.createSessionHandler(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.errMsg)
		})
	}
}

func TestListSessionsHandler_Validation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name   string
		query  string
		errMsg string
	}{
		{
			name:   "invalid status",
			query:  "status=bogus",
			errMsg: "invalid status",
		},
		{
			name:   "invalid mode",
			query:  "mode=turbo",
			errMsg: "invalid mode",
		},
		{
			name:   "limit not a number",
			query:  "limit=abc",
			errMsg: "invalid limit",
		},
		{
			name:   "limit of zero",
			query:  "limit=0",
			errMsg: "invalid limit",
		},
		{
			name:   "limit too large",
			query:  "limit=201",
			errMsg: "invalid limit",
		},
		{
			name:   "negative offset",
			query:  "offset=-1",
			errMsg: "invalid offset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t, http.MethodGet, "/api/v1/sessions?"+tt.query, "")

			s.listSessionsHandler(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.errMsg)
		})
	}
}

func TestGetSessionHandler_MissingID(t *testing.T) {
	s := &Server{}
	c, w := testContext(t, http.MethodGet, "/api/v1/sessions/", "")

	s.getSessionHandler(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "session id is required")
}

func TestUpdateApprovalPolicyHandler_Validation(t *testing.T) {
	s := &Server{}

	t.Run("missing session id", func(t *testing.T) {
		c, w := testContext(t, http.MethodPatch, "/api/v1/sessions//approval-policy", `{"auto_approve_commands":true}`)

		s.updateApprovalPolicyHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "session id is required")
	})

	t.Run("no policy fields", func(t *testing.T) {
		c, w := testContext(t, http.MethodPatch, "/api/v1/sessions/abc/approval-policy", `{}`)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		s.updateApprovalPolicyHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "at least one policy field")
	})
}

func TestSessionMessagesHandler_Validation(t *testing.T) {
	s := &Server{}

	t.Run("missing session id", func(t *testing.T) {
		c, w := testContext(t, http.MethodGet, "/api/v1/sessions//messages", "")

		s.sessionMessagesHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "session id is required")
	})

	t.Run("invalid limit", func(t *testing.T) {
		c, w := testContext(t, http.MethodGet, "/api/v1/sessions/abc/messages?limit=0", "")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		s.sessionMessagesHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid limit")
	})

	t.Run("invalid offset", func(t *testing.T) {
		c, w := testContext(t, http.MethodGet, "/api/v1/sessions/abc/messages?offset=-5", "")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		s.sessionMessagesHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid offset")
	})
}
