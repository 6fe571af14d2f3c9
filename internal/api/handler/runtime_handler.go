package handler

import (
	"net/http"

	"eventsphere/internal/app/service"
	"eventsphere/internal/common"

	"github.com/go-chi/chi/v5"
)

type RuntimeHandler struct {
	runtimeService *service.RuntimeService
}

func NewRuntimeHandler(rs *service.RuntimeService) *RuntimeHandler {
	return &RuntimeHandler{runtimeService: rs}
}

func (h *RuntimeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listRuntimes)
}

func (h *RuntimeHandler) listRuntimes(w http.ResponseWriter, r *http.Request) {
	runtimes, err := h.runtimeService.ListRuntimes(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, runtimes)
}
