package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/services"
)

func TestHealthHandlerDegradedByWarnings(t *testing.T) {
	warnings := services.NewSystemWarningsService()
	warnings.AddWarning(services.WarningCategoryModelSync, "sync failed", "", "model-syncer")

	s := &Server{}
	s.SetWarningsService(warnings)

	c, w := testContext(t, http.MethodGet, "/health", "")
	s.healthHandler(c)

	// Warnings degrade the report but keep the daemon serving.
	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusDegraded, resp.Status)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, services.WarningCategoryModelSync, resp.Warnings[0].Category)
	assert.NotEmpty(t, resp.Version)
}

func TestHealthHandlerHealthyWhenNothingWired(t *testing.T) {
	s := &Server{}

	c, w := testContext(t, http.MethodGet, "/health", "")
	s.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusHealthy, resp.Status)
	assert.Nil(t, resp.WorkerPool)
}
