package app

import (
	"context"
	"net/http"
	middle "pulsewatch/internals/middleware"
	"pulsewatch/internals/modules/check"
	"pulsewatch/internals/modules/plan"
	"pulsewatch/internals/modules/scheduler"
	"pulsewatch/pkg/utils"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// manual checks wait on the probe timeout, keep this above it
const requestTimeout = 60 * time.Second

func RegisterRoutes(c *Container) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middle.Logger(c.Logger))
	r.Use(middle.Metrics(c.Metrics))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", c.health)
	r.Handle("/metrics", c.Metrics.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(c.authMW.Handle)

		v1.Mount("/endpoints", check.Routes(c.checkHandler))
		v1.Get("/stats", c.checkHandler.GetStats)
		v1.Mount("/plan", plan.Routes(c.planHandler))

		v1.Route("/validate", func(vr chi.Router) {
			vr.Post("/endpoint", c.planHandler.ValidateEndpoint)
			vr.Post("/alert", c.planHandler.ValidateAlert)
			vr.Post("/channel", c.notificationHandler.ValidateChannel)
		})
	})

	r.Route("/internal/v1", func(in chi.Router) {
		in.Use(middle.RequireAPIKey(c.apiKeyHash, c.Logger))

		in.Mount("/jobs", scheduler.Routes(c.jobHandler))
		in.Mount("/", check.InternalRoutes(c.checkHandler))
	})

	return r
}

type healthResponse struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func (c *Container) health(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Database: "ok", Redis: "ok"}
	status := http.StatusOK

	if err := c.DB.Ping(ctx); err != nil {
		res.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := c.RedisClient.Ping(ctx); err != nil {
		res.Redis = "unavailable"
		status = http.StatusServiceUnavailable
	}

	utils.WriteJSON(w, status, reqID, "health", res)
}
