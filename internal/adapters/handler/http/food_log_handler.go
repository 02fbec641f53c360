package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/services"
)

type FoodLogHandler struct {
	svc *services.FoodLogService
}

func NewFoodLogHandler(svc *services.FoodLogService) *FoodLogHandler {
	return &FoodLogHandler{svc: svc}
}

type createFoodLogRequest struct {
	ProductID       *string                 `json:"productId"`
	RecipeID        *string                 `json:"recipeId"`
	CustomNutrients *domain.NutrientProfile `json:"customNutrients"`
	WeightGrams     float64                 `json:"weightGrams"`
	MealType        *domain.MealType        `json:"mealType" binding:"required"`
	// ConsumedAt defaults to the time of the request.
	ConsumedAt *time.Time `json:"consumedAt"`
}

type updateFoodLogRequest struct {
	WeightGrams float64          `json:"weightGrams"`
	MealType    *domain.MealType `json:"mealType" binding:"required"`
	ConsumedAt  *time.Time       `json:"consumedAt"`
	Version     int              `json:"version" binding:"required"`
}

func (h *FoodLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/food-logs")
	{
		logs.POST("", h.Create)
		logs.GET("", h.ListByDate)
		logs.GET("/:id", h.Get)
		logs.PUT("/:id", h.Update)
		logs.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary  Log a food entry
// @Tags     food-logs
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body createFoodLogRequest true "entry"
// @Success  201 {object} domain.FoodLogEntry
// @Router   /food-logs [post]
func (h *FoodLogHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	consumedAt := time.Now().UTC()
	if req.ConsumedAt != nil {
		consumedAt = *req.ConsumedAt
	}

	entry, err := h.svc.Create(c.Request.Context(), services.CreateFoodLogInput{
		UserID:          userID,
		ProductID:       req.ProductID,
		RecipeID:        req.RecipeID,
		CustomNutrients: req.CustomNutrients,
		WeightGrams:     req.WeightGrams,
		MealType:        *req.MealType,
		ConsumedAt:      consumedAt,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *FoodLogHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ListByDate godoc
// @Summary  Entries of one calendar day
// @Tags     food-logs
// @Produce  json
// @Security BearerAuth
// @Param    date query string false "YYYY-MM-DD, defaults to today"
// @Success  200 {array} domain.FoodLogEntry
// @Router   /food-logs [get]
func (h *FoodLogHandler) ListByDate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	date, ok := queryDate(c, "date")
	if !ok {
		return
	}

	list, err := h.svc.ListByDate(c.Request.Context(), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *FoodLogHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	input := services.UpdateFoodLogInput{
		ID:          c.Param("id"),
		UserID:      userID,
		WeightGrams: req.WeightGrams,
		MealType:    *req.MealType,
		Version:     req.Version,
	}
	if req.ConsumedAt != nil {
		input.ConsumedAt = *req.ConsumedAt
	}

	entry, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *FoodLogHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
