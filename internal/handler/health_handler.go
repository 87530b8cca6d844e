package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/siakad-go-api/internal/config"
	"github.com/noah-isme/siakad-go-api/internal/utils"
)

const probeTimeout = 2 * time.Second

// HealthProbe checks one backing dependency. Probes that fail mark the service degraded.
type HealthProbe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Environment  string            `json:"environment"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthCheck reports liveness plus the state of each probe. A failing probe answers 503.
func HealthCheck(cfg config.Config, probes ...HealthProbe) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if len(probes) > 0 {
			resp.Dependencies = make(map[string]string, len(probes))
		}
		for _, probe := range probes {
			ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
			err := probe.Check(ctx)
			cancel()
			if err != nil {
				resp.Status = "degraded"
				resp.Dependencies[probe.Name] = err.Error()
				continue
			}
			resp.Dependencies[probe.Name] = "ok"
		}

		if resp.Status != "ok" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
				Success: false,
				Data:    resp,
				Message: "service degraded",
			})
		}
		return utils.SendSuccess(c, "service healthy", resp)
	}
}
