package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/services"
)

type AnalyticsHandler struct {
	svc         *services.AnalyticsService
	defaultDays int
}

func NewAnalyticsHandler(svc *services.AnalyticsService, defaultDays int) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:         svc,
		defaultDays: defaultDays,
	}
}

type bodyMetricsRequest struct {
	HeightCm      *float64 `json:"heightCm"`
	WeightKg      *float64 `json:"weightKg"`
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activityLevel"`
	FitnessGoal   *string  `json:"fitnessGoal"`
}

type recommendationsResponse struct {
	Recommendations []string `json:"recommendations"`
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("/daily", h.Daily)
		analytics.GET("/trends", h.Trends)
		analytics.GET("/recommendations", h.Recommendations)
		analytics.POST("/body-metrics", h.BodyMetrics)
	}
}

// Daily godoc
// @Summary  Totals, goal progress and overall status for one day
// @Tags     analytics
// @Produce  json
// @Security BearerAuth
// @Param    date query string false "YYYY-MM-DD, defaults to today"
// @Success  200 {object} domain.DailyAnalysis
// @Router   /analytics/daily [get]
func (h *AnalyticsHandler) Daily(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	date, ok := queryDate(c, "date")
	if !ok {
		return
	}

	analysis, err := h.svc.ComputeDailyAnalysis(c.Request.Context(), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// Trends godoc
// @Summary  Trend analysis over the last days
// @Tags     analytics
// @Produce  json
// @Security BearerAuth
// @Param    days query int false "window length"
// @Param    end_date query string false "YYYY-MM-DD, defaults to today"
// @Success  200 {object} domain.TrendAnalysis
// @Router   /analytics/trends [get]
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	input, ok := h.trendInput(c)
	if !ok {
		return
	}

	trend, err := h.svc.ComputeTrends(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, trend)
}

// Recommendations godoc
// @Summary  Ordered recommendations for the current day and window
// @Tags     analytics
// @Produce  json
// @Security BearerAuth
// @Param    days query int false "window length"
// @Param    end_date query string false "YYYY-MM-DD, defaults to today"
// @Success  200 {object} recommendationsResponse
// @Failure  400 {object} map[string]string
// @Router   /analytics/recommendations [get]
func (h *AnalyticsHandler) Recommendations(c *gin.Context) {
	input, ok := h.trendInput(c)
	if !ok {
		return
	}

	recs, err := h.svc.ComputeRecommendations(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, recommendationsResponse{Recommendations: recs})
}

// BodyMetrics computes metrics for ad-hoc values without touching the profile.
//
// @Summary  Body metrics for ad-hoc values
// @Tags     analytics
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    request body bodyMetricsRequest true "Body values, every field optional"
// @Success  200 {object} domain.BodyMetrics
// @Failure  400 {object} map[string]string
// @Router   /analytics/body-metrics [post]
func (h *AnalyticsHandler) BodyMetrics(c *gin.Context) {
	var req bodyMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	input := services.BodyMetricsInput{
		HeightCm: req.HeightCm,
		WeightKg: req.WeightKg,
		Age:      req.Age,
	}
	if req.Gender != nil {
		g, err := domain.ParseGender(*req.Gender)
		if err != nil {
			handleError(c, err)
			return
		}
		input.Gender = &g
	}
	if req.ActivityLevel != nil {
		a, err := domain.ParseActivityLevel(*req.ActivityLevel)
		if err != nil {
			handleError(c, err)
			return
		}
		input.ActivityLevel = &a
	}
	if req.FitnessGoal != nil {
		f, err := domain.ParseFitnessGoal(*req.FitnessGoal)
		if err != nil {
			handleError(c, err)
			return
		}
		input.FitnessGoal = &f
	}

	c.JSON(http.StatusOK, h.svc.ComputeBodyMetrics(input))
}

func (h *AnalyticsHandler) trendInput(c *gin.Context) (domain.TrendInput, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return domain.TrendInput{}, false
	}

	days := h.defaultDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return domain.TrendInput{}, false
		}
		days = parsed
	}

	end, ok := queryDate(c, "end_date")
	if !ok {
		return domain.TrendInput{}, false
	}

	return domain.TrendInput{UserID: userID, Days: days, EndDate: end}, true
}
