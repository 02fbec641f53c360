package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/services"
)

type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// updateProfileRequest replaces the whole profile; omitted fields are cleared.
type updateProfileRequest struct {
	HeightCm      *float64 `json:"heightCm"`
	WeightKg      *float64 `json:"weightKg"`
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activityLevel"`
	FitnessGoal   *string  `json:"fitnessGoal"`

	Goals domain.GoalSet `json:"goals"`

	RemindersEnabled bool     `json:"remindersEnabled"`
	ReminderTimes    []string `json:"reminderTimes"`
	Timezone         string   `json:"timezone"`
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.Get)
		profile.PUT("", h.Update)
		profile.GET("/metrics", h.Metrics)
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.svc.Update(c.Request.Context(), services.UpdateProfileInput{
		UserID:           userID,
		HeightCm:         req.HeightCm,
		WeightKg:         req.WeightKg,
		Age:              req.Age,
		Gender:           req.Gender,
		ActivityLevel:    req.ActivityLevel,
		FitnessGoal:      req.FitnessGoal,
		Goals:            req.Goals,
		RemindersEnabled: req.RemindersEnabled,
		ReminderTimes:    req.ReminderTimes,
		Timezone:         req.Timezone,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Metrics godoc
// @Summary  BMI, BMR, TDEE and recommended calories of the stored profile
// @Tags     profile
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} domain.BodyMetrics
// @Router   /profile/metrics [get]
func (h *ProfileHandler) Metrics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	metrics, err := h.svc.BodyMetrics(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}
