package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-globe/internal/dashboard"
	"github.com/i474232898/weather-globe/internal/events"
	"github.com/i474232898/weather-globe/internal/geo"
	"github.com/i474232898/weather-globe/internal/scheduler"
)

var validate = validator.New()

// Dashboard is the part of dashboard.App the routes drive.
type Dashboard interface {
	View(ctx context.Context) (dashboard.View, error)
	SelectCity(ctx context.Context, id string) (dashboard.Slide, error)
	Next(ctx context.Context) (dashboard.Slide, error)
	Prev(ctx context.Context) (dashboard.Slide, error)
	Resize(ctx context.Context, width, height int) error
	LookAt(ctx context.Context, target geo.Vec3) error
}

// Refresher starts a weather pass in the background.
type Refresher interface {
	Trigger() error
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, dash Dashboard, refresher Refresher) {
	v1 := app.Group("/api/v1")

	v1.Get("/slides", func(c *fiber.Ctx) error {
		view, err := dash.View(c.UserContext())
		if err != nil {
			return unavailable(err)
		}
		return c.JSON(fiber.Map{
			"slides": view.Slides,
			"active": view.Active,
		})
	})

	v1.Get("/globe", func(c *fiber.Ctx) error {
		view, err := dash.View(c.UserContext())
		if err != nil {
			return unavailable(err)
		}
		return c.JSON(view.Globe)
	})

	v1.Post("/carousel/slide", func(c *fiber.Ctx) error {
		var req slideRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		slide, err := dash.SelectCity(c.UserContext(), req.City)
		if err != nil {
			if errors.Is(err, dashboard.ErrNoSlide) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return unavailable(err)
		}
		return c.JSON(slide)
	})

	v1.Post("/carousel/next", func(c *fiber.Ctx) error {
		return slideResponse(c, dash.Next)
	})

	v1.Post("/carousel/prev", func(c *fiber.Ctx) error {
		return slideResponse(c, dash.Prev)
	})

	v1.Post("/viewport", func(c *fiber.Ctx) error {
		var req events.Viewport
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if err := dash.Resize(c.UserContext(), req.Width, req.Height); err != nil {
			return unavailable(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/camera/target", func(c *fiber.Ctx) error {
		var req targetRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if err := dash.LookAt(c.UserContext(), geo.Vec3{X: *req.X, Y: *req.Y, Z: *req.Z}); err != nil {
			return unavailable(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// The pass outlives the request; progress shows up in /slides and /globe.
	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		if err := refresher.Trigger(); err != nil {
			if errors.Is(err, scheduler.ErrPassRunning) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started"})
	})
}

// slideRequest names the city whose slide should become active.
type slideRequest struct {
	City string `json:"city" validate:"required"`
}

// targetRequest is the point the camera should ease toward. Pointers let
// validation tell an explicit 0 from a missing field.
type targetRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
	Z *float64 `json:"z" validate:"required"`
}

func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func slideResponse(c *fiber.Ctx, move func(context.Context) (dashboard.Slide, error)) error {
	slide, err := move(c.UserContext())
	if err != nil {
		return unavailable(err)
	}
	return c.JSON(slide)
}

func unavailable(err error) error {
	if errors.Is(err, dashboard.ErrStopped) {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
}
