package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-nutrition/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

// validationErrors carry messages safe to show to the client.
var validationErrors = []error{
	domain.ErrInvalidFoodLog,
	domain.ErrInvalidMealType,
	domain.ErrInvalidWeight,
	domain.ErrMissingSource,
	domain.ErrAmbiguousSource,
	domain.ErrConsumedAtNeeded,
	domain.ErrInvalidNutrients,
	domain.ErrProductNameEmpty,
	domain.ErrRecipeNameEmpty,
	domain.ErrRecipeEmpty,
	domain.ErrInvalidAmount,
	domain.ErrInvalidProfile,
	domain.ErrInvalidGender,
	domain.ErrInvalidActivityLevel,
	domain.ErrInvalidFitnessGoal,
	domain.ErrInvalidReminderTime,
	domain.ErrInvalidTimezone,
	domain.ErrInvalidWindow,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
}

func handleError(c *gin.Context, err error) {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrFoodLogNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrFoodLogConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "the entry has been modified elsewhere, reload it",
		})

	case errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
}

// currentUser aborts with 401 when the auth middleware did not run.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return userID, ok
}

// queryDate parses a YYYY-MM-DD query parameter. Missing means today (UTC).
func queryDate(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return domain.DateOf(time.Now()), true
	}
	d, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key + " format, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}
