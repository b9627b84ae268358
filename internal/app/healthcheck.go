package app

import (
	"net/http"

	"github.com/barisyildiz/cinema-booking-system/api"
	"github.com/barisyildiz/cinema-booking-system/internal/vcs"
)

func (app *Application) HealthcheckHandler(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	systemInfo := api.SystemInfo{
		Version:     vcs.Version(),
		Environment: app.config.Env,
	}

	resp := api.HealthcheckResponse{
		Status:     status,
		SystemInfo: systemInfo,
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}
