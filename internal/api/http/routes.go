package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/activity-finder/internal/activity"
	"github.com/i474232898/activity-finder/internal/mapview"
	"github.com/i474232898/activity-finder/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *activity.Service, maps *store.MemoryStore) {
	v1 := app.Group("/api/v1")

	v1.Post("/maps", func(c *fiber.Ctx) error {
		view := maps.Create()
		return c.Status(fiber.StatusCreated).JSON(view.Snapshot())
	})

	v1.Get("/maps/:id", func(c *fiber.Ctx) error {
		view, err := lookupMap(maps, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(view.Snapshot())
	})

	v1.Delete("/maps/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := maps.Delete(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "map not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete map")
		}
		service.Cancel(id)
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/maps/:id/search", func(c *fiber.Ctx) error {
		view, err := lookupMap(maps, c.Params("id"))
		if err != nil {
			return err
		}

		var req searchQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result := service.FindActivities(c.UserContext(), view, req.toRequest())
		return c.Status(statusFor(result)).JSON(searchResponse{
			SearchResult: result,
			Map:          view.Snapshot(),
		})
	})
}

type searchResponse struct {
	activity.SearchResult
	Map mapview.Snapshot `json:"map"`
}

// searchQuery holds query parameters for a search.
type searchQuery struct {
	Place    string  `validate:"max=256"`
	RadiusKm float64 `validate:"gt=0,lte=100"`
}

func (q *searchQuery) bind(c *fiber.Ctx) error {
	q.Place = strings.TrimSpace(c.Query("place"))

	radius := c.Query("radius")
	if radius == "" {
		return errors.New("radius query parameter is required")
	}
	r, err := strconv.ParseFloat(radius, 64)
	if err != nil {
		return errors.New("radius must be a number of kilometers")
	}
	q.RadiusKm = r
	return nil
}

func (q searchQuery) toRequest() activity.SearchRequest {
	return activity.SearchRequest{
		Place:    q.Place,
		RadiusKm: q.RadiusKm,
	}
}

func lookupMap(maps *store.MemoryStore, id string) (*mapview.View, error) {
	view, err := maps.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "map not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load map")
	}
	return view, nil
}

func statusFor(result activity.SearchResult) int {
	if result.State != activity.StateAborted {
		return fiber.StatusOK
	}
	switch {
	case errors.Is(result.Err, activity.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(result.Err, activity.ErrInvalidRadius):
		return fiber.StatusBadRequest
	case errors.Is(result.Err, activity.ErrSuperseded):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadGateway
	}
}
