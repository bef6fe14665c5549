package check

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/{endpointID}/checks", h.RunCheck)
	r.Get("/{endpointID}/status", h.GetStatus)
	r.Get("/{endpointID}/uptime", h.GetUptime)

	return r
}

func InternalRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/checks/run-active", h.InternalRunActive)
	r.Post("/endpoints/{endpointID}/checks", h.InternalRunCheck)

	return r
}

/*
- POST: /api/v1/endpoints/{endpointID}/checks -> run a check now
	req auth : true (bearer), plan rate limited
	resp : CheckResult

- GET: /api/v1/endpoints/{endpointID}/status -> latest cached result
	req auth : true

- GET: /api/v1/endpoints/{endpointID}/uptime?from={}&to={} -> uptime stats
	req auth : true
	resp : UptimeResponse

- GET: /api/v1/stats?scope=user|organization&from={}&to={} -> overall stats
	req auth : true
	resp : StatsResponse

- POST: /internal/v1/checks/run-active -> start a full pass (202)
	req auth : X-API-Key

- POST: /internal/v1/endpoints/{endpointID}/checks -> run a check now, unscoped
	req auth : X-API-Key
*/
