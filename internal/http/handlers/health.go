package handlers

import (
	"net/http"
)

// Health is the liveness probe behind /healthz. It deliberately touches no
// dependencies; database reachability is the worker's concern.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
