package handlers

import "net/http"

type healthHandlers struct {
	deps *Deps
}

func NewHealthHandlers(deps *Deps) *healthHandlers {
	return &healthHandlers{deps: deps}
}

func (h *healthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	h.deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
