package http

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartdiet/backend/internal/domain"
	"github.com/smartdiet/backend/internal/usecase"
)

const (
	defaultName = "John"
	defaultAge  = 30
)

// DietPlanner is the slice of the diet service the handlers depend on
type DietPlanner interface {
	Recommend(ctx context.Context, attrs *domain.UserAttributes, opts usecase.RecommendOptions) (*domain.DietPlan, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	dietService DietPlanner
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil service makes the suggest
// endpoint answer 503.
func NewHandler(dietService DietPlanner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dietService: dietService,
		logger:      logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "smartdiet-backend",
		"version": "1.0.0",
	})
}

// Options lists the categorical values accepted by the suggest endpoint
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"weight_status":    domain.WeightStatusOptions,
		"health_condition": domain.HealthConditionOptions,
		"diet_preference":  domain.DietPreferenceOptions,
	})
}

// SuggestDiet handles diet suggestion requests
func (h *Handler) SuggestDiet(c *gin.Context) {
	if h.dietService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "diet service not configured",
		})
		return
	}

	var req domain.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
		})
		return
	}

	attrs, err := toAttributes(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	plan, err := h.dietService.Recommend(c.Request.Context(), attrs, usecase.RecommendOptions{
		Limit:    req.Limit,
		MaxFoods: req.MaxFoods,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		h.logger.Error("diet suggestion failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// toAttributes validates a suggest request and converts it into the engine's
// user record
func toAttributes(req *domain.SuggestRequest) (*domain.UserAttributes, error) {
	attrs := &domain.UserAttributes{
		Name:            strings.TrimSpace(req.Name),
		Age:             defaultAge,
		HealthCondition: strings.TrimSpace(req.HealthCondition),
		WeightStatus:    strings.TrimSpace(req.WeightStatus),
		DietPreference:  strings.TrimSpace(req.DietPreference),
	}
	if attrs.Name == "" {
		attrs.Name = defaultName
	}
	if req.Age != nil {
		if *req.Age < 0 {
			return nil, fmt.Errorf("%w: age must not be negative", domain.ErrInvalidRequest)
		}
		attrs.Age = *req.Age
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidRequest)
	}
	if req.MaxFoods < 0 {
		return nil, fmt.Errorf("%w: max_foods must not be negative", domain.ErrInvalidRequest)
	}

	if err := checkChoice("health_condition", attrs.HealthCondition, domain.HealthConditionOptions); err != nil {
		return nil, err
	}
	if err := checkChoice("weight_status", attrs.WeightStatus, domain.WeightStatusOptions); err != nil {
		return nil, err
	}
	if err := checkChoice("diet_preference", attrs.DietPreference, domain.DietPreferenceOptions); err != nil {
		return nil, err
	}

	var err error
	if attrs.WeightKg, err = parseMeasurement("weight_kg", string(req.WeightKg)); err != nil {
		return nil, err
	}
	if attrs.HeightCm, err = parseMeasurement("height_cm", string(req.HeightCm)); err != nil {
		return nil, err
	}
	return attrs, nil
}

// checkChoice accepts an empty value or one of options
func checkChoice(field, value string, options []string) error {
	if value == "" || slices.Contains(options, value) {
		return nil
	}
	return fmt.Errorf("%w: %s must be one of %s", domain.ErrInvalidRequest, field, strings.Join(options, ", "))
}

// parseMeasurement reads an optional positive number; a decimal comma is
// accepted ("72,5")
func parseMeasurement(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return nil, fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidRequest, field)
	}
	return &value, nil
}
