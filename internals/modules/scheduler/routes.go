package scheduler

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListJobs)
	r.Post("/{name}/run", h.RunJob)

	return r
}

/*
- GET: /internal/v1/jobs -> registered jobs with their next run
	req auth : X-API-Key
	resp : []JobInfo

- POST: /internal/v1/jobs/{name}/run -> run a job once now (202)
	req auth : X-API-Key
	resp : RunJobResponse
*/
