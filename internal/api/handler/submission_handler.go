package handler

import (
	"net"
	"net/http"

	"eventsphere/internal/api/middleware"
	"eventsphere/internal/app/service"
	"eventsphere/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	practiceService   *service.PracticeService
}

func NewSubmissionHandler(ss *service.SubmissionService, ps *service.PracticeService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss, practiceService: ps}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.createSubmission)
	r.Post("/run", h.runPractice)
	r.Post("/run-samples", h.runSamples)
	r.Get("/me", h.listMine)
	r.Get("/{submissionID}", h.getSubmission)
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateSubmissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sc := service.SubmissionContext{UserID: userID, ClientIP: clientIP(r), UserAgent: r.UserAgent()}
	resp, err := h.submissionService.CreateSubmission(r.Context(), sc, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *SubmissionHandler) runPractice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.PracticeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.practiceService.RunPractice(r.Context(), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, res)
}

func (h *SubmissionHandler) runSamples(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SampleRunRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	results, err := h.practiceService.RunSamples(r.Context(), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	sub, err := h.submissionService.GetSubmission(r.Context(), chi.URLParam(r, "submissionID"), userID, role)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) listMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	subs, err := h.submissionService.ListMySubmissions(r.Context(), userID,
		r.URL.Query().Get("contestId"), queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}

// clientIP returns the caller address without a port. RealIP has already
// replaced RemoteAddr when a proxy header was present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
