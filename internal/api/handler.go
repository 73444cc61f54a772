package api

import (
	"errors"
	"time"

	"resort-picker/internal/catalog"
	"resort-picker/internal/models"
	"resort-picker/internal/progress"
	"resort-picker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

type Handler struct {
	recommender *services.Recommender
	catalog     *catalog.Service
	weather     services.WeatherProvider
	transport   services.TransportProvider
	logger      *zap.Logger
}

func NewHandler(
	recommender *services.Recommender,
	cat *catalog.Service,
	weather services.WeatherProvider,
	transport services.TransportProvider,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		recommender: recommender,
		catalog:     cat,
		weather:     weather,
		transport:   transport,
		logger:      logger,
	}
}

type recommendationRequest struct {
	TargetDate string `json:"target_date" validate:"omitempty,datetime=2006-01-02"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=20"`
}

func (r recommendationRequest) toServiceRequest() (services.Request, error) {
	req := services.Request{Limit: r.Limit}
	if r.TargetDate != "" {
		date, err := time.Parse("2006-01-02", r.TargetDate)
		if err != nil {
			return req, err
		}
		req.TargetDate = date
	}
	return req, nil
}

func (h *Handler) parseRecommendationRequest(c *fiber.Ctx) (services.Request, error) {
	var body recommendationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return services.Request{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	if err := validate.Struct(body); err != nil {
		return services.Request{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	req, err := body.toServiceRequest()
	if err != nil {
		return services.Request{}, fiber.NewError(fiber.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
	}
	return req, nil
}

// GetHealth handles GET /health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	status := "ok"
	resortCount := 0

	resorts, err := h.catalog.All()
	if err != nil {
		status = "degraded"
	} else {
		resortCount = len(resorts)
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"resorts": resortCount,
		"uptime":  time.Since(startTime).String(),
	})
}

// GetResorts handles GET /api/v1/resorts
func (h *Handler) GetResorts(c *fiber.Ctx) error {
	var (
		resorts []models.Resort
		err     error
	)

	if region := c.Query("region"); region != "" {
		resorts, err = h.catalog.ByRegion(region)
	} else {
		resorts, err = h.catalog.All()
	}

	if err != nil {
		return catalogError(err)
	}

	return c.JSON(fiber.Map{"resorts": resorts})
}

// GetResort handles GET /api/v1/resorts/:id
func (h *Handler) GetResort(c *fiber.Ctx) error {
	resort, err := h.catalog.ByID(c.Params("id"))
	if err != nil {
		return catalogError(err)
	}
	if resort == nil {
		return fiber.NewError(fiber.StatusNotFound, "resort not found")
	}
	return c.JSON(resort)
}

// GetRecommendations handles POST /api/v1/recommendations
func (h *Handler) GetRecommendations(c *fiber.Ctx) error {
	req, err := h.parseRecommendationRequest(c)
	if err != nil {
		return err
	}

	h.logger.Info("Generating recommendations",
		zap.Time("target_date", req.TargetDate),
		zap.Int("limit", req.Limit))

	response, err := h.recommender.Recommend(c.Context(), req, progress.NopSink{})
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			return catalogError(err)
		}
		h.logger.Error("Recommendation run failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate recommendations")
	}

	return c.JSON(response)
}

// GetResortRecommendation handles GET /api/v1/resorts/:id/recommendation
func (h *Handler) GetResortRecommendation(c *fiber.Ctx) error {
	targetDate, err := parseDateQuery(c)
	if err != nil {
		return err
	}

	rec, err := h.recommender.ResortDetails(c.Context(), c.Params("id"), targetDate)
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			return catalogError(err)
		}
		h.logger.Error("Resort recommendation failed",
			zap.String("resort", c.Params("id")),
			zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate recommendation")
	}
	if rec == nil {
		return fiber.NewError(fiber.StatusNotFound, "resort not found")
	}

	return c.JSON(rec)
}

// GetResortWeather handles GET /api/v1/resorts/:id/weather
func (h *Handler) GetResortWeather(c *fiber.Ctx) error {
	resort, err := h.catalog.ByID(c.Params("id"))
	if err != nil {
		return catalogError(err)
	}
	if resort == nil {
		return fiber.NewError(fiber.StatusNotFound, "resort not found")
	}

	targetDate, err := parseDateQuery(c)
	if err != nil {
		return err
	}
	if targetDate.IsZero() {
		targetDate = services.NextSaturday(time.Now())
	}

	forecast, err := h.weather.FetchOne(c.Context(), *resort, targetDate)
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather data temporarily unavailable")
	}

	return c.JSON(forecast)
}

// GetResortTransport handles GET /api/v1/resorts/:id/transport
func (h *Handler) GetResortTransport(c *fiber.Ctx) error {
	resort, err := h.catalog.ByID(c.Params("id"))
	if err != nil {
		return catalogError(err)
	}
	if resort == nil {
		return fiber.NewError(fiber.StatusNotFound, "resort not found")
	}

	travelDate, err := parseDateQuery(c)
	if err != nil {
		return err
	}
	if travelDate.IsZero() {
		travelDate = services.NextSaturday(time.Now())
	}

	journey, err := h.transport.FetchOne(c.Context(), *resort, travelDate)
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "transport data temporarily unavailable")
	}

	return c.JSON(journey)
}

func parseDateQuery(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("target_date")
	if raw == "" {
		return time.Time{}, nil
	}

	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
	}
	return date, nil
}

func catalogError(err error) error {
	return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
}

var startTime = time.Now()
