package check

import (
	"context"
	"net/http"
	middle "pulsewatch/internals/middleware"
	"pulsewatch/internals/modules/result"
	"pulsewatch/pkg/apperror"
	"pulsewatch/pkg/utils"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultStatsWindow = 24 * time.Hour

type Runner interface {
	RunCheck(ctx context.Context, endpointID uuid.UUID) (result.CheckResult, error)
	RunCheckForOrg(ctx context.Context, orgID, endpointID uuid.UUID) (result.CheckResult, error)
	RunActiveChecks(ctx context.Context) (RunSummary, error)
	LatestStatus(ctx context.Context, orgID, endpointID uuid.UUID) (result.Status, error)
	Uptime(ctx context.Context, orgID, endpointID uuid.UUID, from, to time.Time) (result.UptimeStats, error)
	OverallStats(ctx context.Context, scope result.Scope, from, to time.Time) (result.OverallStats, error)
}

type RateLimiter interface {
	AllowRequest(ctx context.Context, orgID uuid.UUID) (bool, error)
}

type Handler struct {
	runner  Runner
	limiter RateLimiter
	logger  *zerolog.Logger
	// base for background runs started from a request
	baseCtx context.Context
}

func NewHandler(baseCtx context.Context, runner Runner, limiter RateLimiter, logger *zerolog.Logger) *Handler {
	return &Handler{
		runner:  runner,
		limiter: limiter,
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// RunCheck probes one endpoint of the caller's organization right away.
func (h *Handler) RunCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	user, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	endpointID, ok := endpointParam(w, r, reqID)
	if !ok {
		return
	}

	allowed, err := h.limiter.AllowRequest(ctx, user.OrgID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}
	if !allowed {
		utils.WriteError(w, http.StatusTooManyRequests, reqID, apperror.RateLimited, "plan request rate exceeded")
		return
	}

	cr, err := h.runner.RunCheckForOrg(ctx, user.OrgID, endpointID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "check completed", cr)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	user, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	endpointID, ok := endpointParam(w, r, reqID)
	if !ok {
		return
	}

	st, err := h.runner.LatestStatus(ctx, user.OrgID, endpointID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "latest status", st)
}

// /endpoints/{endpointID}/uptime?from=2026-01-01T00:00:00Z&to=...
func (h *Handler) GetUptime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	user, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	endpointID, ok := endpointParam(w, r, reqID)
	if !ok {
		return
	}

	from, to, err := parseWindow(r, time.Now().UTC())
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	stats, err := h.runner.Uptime(ctx, user.OrgID, endpointID, from, to)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "uptime stats", UptimeResponse{
		EndpointID:  endpointID.String(),
		From:        from,
		To:          to,
		UptimeStats: stats,
	})
}

// /stats?scope=user|organization&from=...&to=...
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	user, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	var scope result.Scope
	switch q := r.URL.Query().Get("scope"); q {
	case "", string(result.ScopeUser):
		scope = result.Scope{Kind: result.ScopeUser, ID: user.UserID}
	case string(result.ScopeOrganization):
		scope = result.Scope{Kind: result.ScopeOrganization, ID: user.OrgID}
	default:
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "scope must be user or organization")
		return
	}

	from, to, err := parseWindow(r, time.Now().UTC())
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	stats, err := h.runner.OverallStats(ctx, scope, from, to)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "overall stats", StatsResponse{
		Scope:        string(scope.Kind),
		From:         from,
		To:           to,
		OverallStats: stats,
	})
}

// InternalRunCheck is the unscoped variant for trusted callers.
func (h *Handler) InternalRunCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	endpointID, ok := endpointParam(w, r, reqID)
	if !ok {
		return
	}

	cr, err := h.runner.RunCheck(ctx, endpointID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "check completed", cr)
}

// InternalRunActive starts a full pass in the background and returns at once.
func (h *Handler) InternalRunActive(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	go func() {
		if _, err := h.runner.RunActiveChecks(h.baseCtx); err != nil {
			h.logger.Error().Err(err).Str("request_id", reqID).Msg("manual active check run failed")
		}
	}()

	utils.WriteJSON(w, http.StatusAccepted, reqID, "active check run started", RunActiveResponse{Accepted: true})
}

func endpointParam(w http.ResponseWriter, r *http.Request, reqID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "endpointID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid endpoint id")
		return uuid.Nil, false
	}
	return id, true
}

// parseWindow reads RFC3339 from/to query params. Missing bounds default to
// the trailing 24 hours ending at now.
func parseWindow(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	const op string = "handler.check.parse_window"

	to := now
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Newf(apperror.InvalidInput, op, "to must be RFC3339")
		}
		to = t
	}

	from := to.Add(-defaultStatsWindow)
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.Newf(apperror.InvalidInput, op, "from must be RFC3339")
		}
		from = t
	}

	return from, to, nil
}
