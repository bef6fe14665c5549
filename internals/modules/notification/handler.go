package notification

import (
	"encoding/json"
	"net/http"
	"pulsewatch/pkg/apperror"
	"pulsewatch/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type ValidateChannelRequest struct {
	Type   ChannelType     `json:"type" validate:"required,oneof=EMAIL WEBHOOK SLACK DISCORD"`
	Config json.RawMessage `json:"config" validate:"required"`
}

type Handler struct {
	validator *validator.Validate
}

func NewHandler(validator *validator.Validate) *Handler {
	return &Handler{
		validator: validator,
	}
}

// ValidateChannel checks a channel configuration before it is saved.
func (h *Handler) ValidateChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	var req ValidateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, err.Error())
		return
	}

	if err := ValidateConfig(req.Type, req.Config); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "channel configuration is valid", map[string]bool{"valid": true})
}
