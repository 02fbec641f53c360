package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/services"
)

type CatalogHandler struct {
	svc *services.CatalogService
}

func NewCatalogHandler(svc *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type createProductRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Brand     string                 `json:"brand"`
	Nutrients domain.NutrientProfile `json:"nutrients"`
}

type createRecipeRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Ingredients []domain.RecipeIngredient `json:"ingredients" binding:"required,min=1"`
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/products", h.CreateProduct)
	router.GET("/products/:id", h.GetProduct)
	router.POST("/recipes", h.CreateRecipe)
	router.GET("/recipes/:id", h.GetRecipe)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), services.CreateProductInput{
		Name:      req.Name,
		Brand:     req.Brand,
		Nutrients: req.Nutrients,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateRecipe godoc
// @Summary  Create a recipe from catalog products
// @Tags     catalog
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body createRecipeRequest true "recipe"
// @Success  201 {object} services.RecipeDetails
// @Router   /recipes [post]
func (h *CatalogHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	recipe, err := h.svc.CreateRecipe(c.Request.Context(), services.CreateRecipeInput{
		UserID:      userID,
		Name:        req.Name,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *CatalogHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	recipe, err := h.svc.GetRecipe(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}
