package app

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"system_info"`
}

func (app *Application) healthRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", app.getHealth)

	return r
}

func (app *Application) getHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthcheckResponse{
		Status: "UP",
		SystemInfo: SystemInfo{
			Version:     version,
			Environment: app.config.Env,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
