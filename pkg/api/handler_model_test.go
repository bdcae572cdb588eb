package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelHandlersUnavailable(t *testing.T) {
	s := &Server{}

	t.Run("list without model service", func(t *testing.T) {
		c, w := testContext(t, http.MethodGet, "/api/v1/models", "")

		s.listModelsHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("refresh without syncer", func(t *testing.T) {
		c, w := testContext(t, http.MethodPost, "/api/v1/models/refresh", "")

		s.refreshModelsHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
