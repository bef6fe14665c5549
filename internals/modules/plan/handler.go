package plan

import (
	"encoding/json"
	"net/http"
	middle "pulsewatch/internals/middleware"
	"pulsewatch/pkg/apperror"
	"pulsewatch/pkg/utils"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service, validator *validator.Validate) *Handler {
	return &Handler{
		service:   service,
		validator: validator,
	}
}

// GetPlan returns the caller's tier and its limits.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	user, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	tier, err := h.service.TierOf(ctx, user.OrgID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}
	limits, err := GetLimits(tier)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "plan retrieved", PlanResponse{Tier: tier, Limits: limits})
}

func (h *Handler) ValidateEndpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	user, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	var req ValidateEndpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, err.Error())
		return
	}

	interval := time.Duration(req.IntervalMs) * time.Millisecond
	if err := h.service.ValidateEndpoint(ctx, user.OrgID, interval, req.Active, req.WasActive); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "endpoint configuration is within plan limits", ValidationResponse{Valid: true})
}

func (h *Handler) ValidateAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	user, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	var req ValidateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "")
		return
	}

	if err := h.service.ValidateAlert(ctx, user.OrgID, req.Active, req.WasActive); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "alert configuration is within plan limits", ValidationResponse{Valid: true})
}
