package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/finmsg/finmsg/config"
	"github.com/finmsg/finmsg/pkg/utils"
)

type Health struct {
	startedAt time.Time
}

func InitRestHealth(app fiber.Router) Health {
	rest := Health{startedAt: time.Now()}
	app.Get("/health/status", rest.GetStatus)

	return rest
}

type healthStatus struct {
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (handler *Health) GetStatus(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Health status retrieved",
		Results: healthStatus{
			Version: config.AppVersion,
			Uptime:  time.Since(handler.startedAt).Round(time.Second).String(),
		},
	})
}
