package controllers

import (
	"net/http"
	"time"

	"github.com/viamunicipal/cms-backend/api/responses"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health reports process liveness.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, healthResponse{
			Status:    "OK",
			Timestamp: time.Now().UTC(),
		})
	}
}
