package plan

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetPlan)

	return r
}

/*
- GET: /api/v1/plan -> caller's tier and limits
	req auth : true

- POST: /api/v1/validate/endpoint -> check an endpoint change against plan limits
	req auth : true
	body : ValidateEndpointRequest

- POST: /api/v1/validate/alert -> check an alert change against plan limits
	req auth : true
	body : ValidateAlertRequest
*/
