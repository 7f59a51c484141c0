package controllers

import (
	"net/http"
	"time"

	"github.com/catalogworks/catalog-backend/api/responses"
)

// HealthCheck reports service liveness with a server timestamp.
func HealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
