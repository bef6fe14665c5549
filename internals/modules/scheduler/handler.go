package scheduler

import (
	"context"
	"net/http"
	"pulsewatch/pkg/apperror"
	"pulsewatch/pkg/utils"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Jobs interface {
	Jobs() []JobInfo
	Next(name string) (time.Time, bool)
	RunNow(name string) error
}

type Handler struct {
	jobs    Jobs
	logger  *zerolog.Logger
	// base for runs started from a request
	baseCtx context.Context
}

func NewHandler(baseCtx context.Context, jobs Jobs, logger *zerolog.Logger) *Handler {
	return &Handler{
		jobs:    jobs,
		logger:  logger,
		baseCtx: baseCtx,
	}
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	utils.WriteJSON(w, http.StatusOK, reqID, "registered jobs", h.jobs.Jobs())
}

// RunJob triggers one run of a registered job in the background.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	name := chi.URLParam(r, "name")

	next, ok := h.jobs.Next(name)
	if !ok {
		utils.WriteError(w, http.StatusNotFound, reqID, apperror.NotFound, "unknown job")
		return
	}

	go func() {
		if err := h.jobs.RunNow(name); err != nil {
			h.logger.Error().Err(err).Str("job", name).Str("request_id", reqID).Msg("manual job run failed")
		}
	}()

	utils.WriteJSON(w, http.StatusAccepted, reqID, "job run started", RunJobResponse{Job: name, NextRun: next})
}

type RunJobResponse struct {
	Job     string    `json:"job"`
	NextRun time.Time `json:"next_run"`
}
